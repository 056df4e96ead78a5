// Package session implements the line-by-line typing state machine and
// its speed/accuracy statistics.
package session

import (
	"math"
	"sync"
	"time"
)

type State int

const (
	NotStarted State = iota
	InProgress
	Completed
)

// Stats is a snapshot of the session's metrics. It is recomputed from the
// raw accumulators on every call, never cached.
type Stats struct {
	ElapsedTime  int     `json:"elapsedTime"`
	Accuracy     float64 `json:"accuracy"`
	CPM          int     `json:"cpm"`
	TotalChars   int     `json:"totalChars"`
	CorrectChars int     `json:"correctChars"`
}

// Session drives one typing practice run over a fixed set of lyric lines.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	title  string
	artist string
	lines  []string

	state        State
	currentLine  int
	input        string
	totalChars   int
	correctChars int
	startTime    time.Time

	now func() time.Time
}

func New(title, artist string, lines []string) *Session {
	return &Session{
		title:  title,
		artist: artist,
		lines:  append([]string(nil), lines...),
		now:    time.Now,
	}
}

func (s *Session) Title() string  { return s.title }
func (s *Session) Artist() string { return s.artist }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins the run, zeroing the accumulators and the clock.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = InProgress
	s.currentLine = 0
	s.input = ""
	s.totalChars = 0
	s.correctChars = 0
	s.startTime = s.now()
}

// SetInput replaces the working buffer for the current line. Accumulators
// are only touched at submission.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != InProgress {
		return
	}
	s.input = text
}

func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// CurrentLine returns the target text of the line being typed, and false
// once the session has run past the last line.
func (s *Session) CurrentLine() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentLine >= len(s.lines) {
		return "", false
	}
	return s.lines[s.currentLine], true
}

func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLine
}

func (s *Session) LineCount() int { return len(s.lines) }

// SubmitLine scores the working buffer against the current target line.
// Correctness is counted position-by-position over the shorter of the
// two; the denominator is always the full target length, so a short
// input leaves the missing tail uncounted and an overlong input earns
// nothing for the excess.
func (s *Session) SubmitLine() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != InProgress || s.currentLine >= len(s.lines) {
		return
	}

	target := []rune(s.lines[s.currentLine])
	typed := []rune(s.input)

	correct := 0
	for i := 0; i < len(typed) && i < len(target); i++ {
		if typed[i] == target[i] {
			correct++
		}
	}
	s.totalChars += len(target)
	s.correctChars += correct
}

// Advance moves to the next line, or completes the session after the
// last one. The working buffer is cleared either way.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != InProgress {
		return
	}
	s.input = ""
	if s.currentLine >= len(s.lines)-1 {
		s.currentLine = len(s.lines)
		s.state = Completed
		return
	}
	s.currentLine++
}

// Reset abandons the run from any state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = NotStarted
	s.currentLine = 0
	s.input = ""
	s.totalChars = 0
	s.correctChars = 0
	s.startTime = time.Time{}
}

// Stats computes the current metrics from the raw accumulators.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		TotalChars:   s.totalChars,
		CorrectChars: s.correctChars,
	}
	if s.state == NotStarted || s.startTime.IsZero() {
		return st
	}

	elapsed := s.now().Sub(s.startTime).Seconds()
	st.ElapsedTime = int(math.Round(elapsed))
	if s.totalChars > 0 {
		st.Accuracy = math.Round(float64(s.correctChars)/float64(s.totalChars)*100*10) / 10
	}
	// CPM uses the unrounded duration; only the reported elapsed time is
	// rounded to whole seconds.
	if elapsed > 0 {
		st.CPM = int(math.Round(float64(s.correctChars) / elapsed * 60))
	}
	return st
}
