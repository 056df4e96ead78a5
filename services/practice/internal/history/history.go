// Package history persists completed practice sessions to a bounded,
// most-recent-first log on disk.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"

	"github.com/example/mytype/services/practice/internal/session"
)

// MaxRecords caps the history; saves beyond it evict the oldest entry.
const MaxRecords = 50

type Record struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Artist      string        `json:"artist"`
	CompletedAt time.Time     `json:"completedAt"`
	Stats       session.Stats `json:"stats"`
}

// Lyrics is the last resolved song, kept so a restart can offer an
// immediate retry. In-progress session state is never persisted.
type Lyrics struct {
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	Language string   `json:"language"`
	Lines    []string `json:"lines"`
}

type fileState struct {
	History []Record `json:"history"`
	Lyrics  *Lyrics  `json:"lyrics"`
}

// Store is a file-backed history log. The zero value is not usable;
// construct with New or NewAt.
type Store struct {
	mu   sync.Mutex
	path string
}

// New stores history under the XDG state directory.
func New() *Store {
	return NewAt(filepath.Join(xdg.StateHome, "mytype", "history.json"))
}

// NewAt stores history at an explicit path. Used by tests and the
// --history-file flag.
func NewAt(path string) *Store {
	return &Store{path: path}
}

// Save appends a completed session to the front of the history and
// truncates to MaxRecords.
func (s *Store) Save(title, artist string, stats session.Stats) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	rec := Record{
		ID:          uuid.NewString(),
		Title:       title,
		Artist:      artist,
		CompletedAt: time.Now().UTC(),
		Stats:       stats,
	}
	st.History = append([]Record{rec}, st.History...)
	if len(st.History) > MaxRecords {
		st.History = st.History[:MaxRecords]
	}
	if err := s.write(st); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns the history, most recent first. A missing or corrupt
// file yields an empty history, never an error.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().History
}

// Clear empties the history. The last resolved lyrics survive.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	st.History = nil
	return s.write(st)
}

// SetLyrics records the last resolved song.
func (s *Store) SetLyrics(l Lyrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	st.Lyrics = &l
	return s.write(st)
}

// Lyrics returns the last resolved song, or false when none is stored.
func (s *Store) Lyrics() (Lyrics, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	if st.Lyrics == nil {
		return Lyrics{}, false
	}
	return *st.Lyrics, true
}

func (s *Store) load() fileState {
	var st fileState
	b, err := os.ReadFile(s.path)
	if err != nil {
		return st
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return fileState{}
	}
	return st
}

func (s *Store) write(st fileState) error {
	if st.History == nil {
		st.History = []Record{}
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
