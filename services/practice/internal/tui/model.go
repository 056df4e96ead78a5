// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/example/mytype/services/practice/internal/apiclient"
	"github.com/example/mytype/services/practice/internal/history"
	"github.com/example/mytype/services/practice/internal/session"
)

type screen int

const (
	screenSearch screen = iota
	screenLoading
	screenTyping
	screenCompleted
	screenHistory
)

type songsMsg struct {
	songs []apiclient.SongRef
	total int
	err   error
}

type lyricsMsg struct {
	lyrics *apiclient.Lyrics
	err    error
}

type tickMsg time.Time

// Model implements the Bubble Tea practice UI.
type Model struct {
	client  *apiclient.Client
	history *history.Store

	screen screen
	width  int
	height int

	artistInput textinput.Model
	titleInput  textinput.Model
	focusTitle  bool
	spin        spinner.Model

	recommended []apiclient.SongRef
	totalSongs  int

	lyrics *apiclient.Lyrics
	sess   *session.Session
	input  string

	finalStats   session.Stats
	saved        bool
	confirmClear bool
	errMsg       string
}

// NewModel constructs the practice TUI.
func NewModel(client *apiclient.Client, hist *history.Store) *Model {
	artist := textinput.New()
	artist.Placeholder = "artist"
	artist.Focus()
	artist.CharLimit = 120

	title := textinput.New()
	title.Placeholder = "song title"
	title.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = titleStyle

	return &Model{
		client:      client,
		history:     hist,
		artistInput: artist,
		titleInput:  title,
		spin:        sp,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchRecommended())
}

func (m *Model) fetchRecommended() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		songs, total, err := m.client.RandomSongs(ctx)
		return songsMsg{songs: songs, total: total, err: err}
	}
}

func (m *Model) fetchLyrics(artist, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		lyr, err := m.client.ResolveLyrics(ctx, artist, title)
		return lyricsMsg{lyrics: lyr, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case songsMsg:
		if msg.err == nil {
			m.recommended = msg.songs
			m.totalSongs = msg.total
		}
		return m, nil

	case lyricsMsg:
		if m.screen != screenLoading {
			return m, nil
		}
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.screen = screenSearch
			return m, nil
		}
		if len(msg.lyrics.Lines) == 0 {
			m.errMsg = "no lyrics found for that song"
			m.screen = screenSearch
			return m, nil
		}
		m.startSession(msg.lyrics)
		return m, tick()

	case spinner.TickMsg:
		if m.screen != screenLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tickMsg:
		if m.screen != screenTyping {
			return m, nil
		}
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.screen {
	case screenSearch:
		return m.handleSearchKey(msg)
	case screenLoading:
		if msg.Type == tea.KeyEsc {
			m.screen = screenSearch
		}
		return m, nil
	case screenTyping:
		return m.handleTypingKey(msg)
	case screenCompleted:
		return m.handleCompletedKey(msg)
	case screenHistory:
		return m.handleHistoryKey(msg)
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlH:
		m.screen = screenHistory
		m.confirmClear = false
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		m.focusTitle = !m.focusTitle
		if m.focusTitle {
			m.artistInput.Blur()
			return m, m.titleInput.Focus()
		}
		m.titleInput.Blur()
		return m, m.artistInput.Focus()
	case tea.KeyEnter:
		artist := strings.TrimSpace(m.artistInput.Value())
		title := strings.TrimSpace(m.titleInput.Value())
		if artist == "" || title == "" {
			m.errMsg = "enter both artist and title"
			return m, nil
		}
		m.errMsg = ""
		m.screen = screenLoading
		return m, tea.Batch(m.spin.Tick, m.fetchLyrics(artist, title))
	}

	// Digit shortcuts pick a recommended song.
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && !m.focusTitle && m.artistInput.Value() == "" {
		if n := int(msg.Runes[0] - '1'); n >= 0 && n < len(m.recommended) {
			song := m.recommended[n]
			m.errMsg = ""
			m.screen = screenLoading
			return m, tea.Batch(m.spin.Tick, m.fetchLyrics(song.Artist, song.Title))
		}
	}

	var cmd tea.Cmd
	if m.focusTitle {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.artistInput, cmd = m.artistInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleTypingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.sess.Reset()
		m.screen = screenSearch
		return m, nil
	case tea.KeyEnter:
		m.sess.SubmitLine()
		m.sess.Advance()
		m.input = ""
		if m.sess.State() == session.Completed {
			m.finalStats = m.sess.Stats()
			m.saved = false
			m.screen = screenCompleted
		}
		return m, nil
	case tea.KeyBackspace, tea.KeyDelete:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
		m.sess.SetInput(m.input)
		return m, nil
	case tea.KeySpace:
		m.input += " "
		m.sess.SetInput(m.input)
		return m, nil
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		m.sess.SetInput(m.input)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleCompletedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.screen = screenSearch
		return m, m.fetchRecommended()
	}
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return m, nil
	}
	switch msg.Runes[0] {
	case 's':
		if !m.saved {
			if _, err := m.history.Save(m.lyrics.Title, m.lyrics.Artist, m.finalStats); err != nil {
				m.errMsg = err.Error()
			} else {
				m.saved = true
			}
		}
		return m, nil
	case 'r':
		m.startSession(m.lyrics)
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.screen = screenSearch
		m.confirmClear = false
		return m, nil
	}
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return m, nil
	}
	switch msg.Runes[0] {
	case 'c':
		m.confirmClear = true
	case 'y':
		if m.confirmClear {
			if err := m.history.Clear(); err != nil {
				m.errMsg = err.Error()
			}
			m.confirmClear = false
		}
	case 'n':
		m.confirmClear = false
	}
	return m, nil
}

func (m *Model) startSession(lyr *apiclient.Lyrics) {
	lines := make([]string, len(lyr.Lines))
	for i, l := range lyr.Lines {
		lines[i] = l.Text
	}
	m.lyrics = lyr
	m.sess = session.New(lyr.Title, lyr.Artist, lines)
	m.sess.Start()
	m.input = ""
	m.errMsg = ""
	m.screen = screenTyping

	_ = m.history.SetLyrics(history.Lyrics{
		Title: lyr.Title, Artist: lyr.Artist, Language: lyr.Language, Lines: lines,
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenSearch:
		body = m.viewSearch()
	case screenLoading:
		body = m.viewLoading()
	case screenTyping:
		body = m.viewTyping()
	case screenCompleted:
		body = m.viewCompleted()
	case screenHistory:
		body = m.viewHistory()
	}
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) viewSearch() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("mytype") + "\n\n")
	sb.WriteString(m.artistInput.View() + "\n")
	sb.WriteString(m.titleInput.View() + "\n\n")

	if len(m.recommended) > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("try one of these (%d cached):", m.totalSongs)) + "\n")
		for i, s := range m.recommended {
			sb.WriteString(fmt.Sprintf("  %d. %s - %s\n", i+1, s.Artist, s.Title))
		}
		sb.WriteString("\n")
	}
	if m.errMsg != "" {
		sb.WriteString(errorStyle.Render(m.errMsg) + "\n\n")
	}
	sb.WriteString(dimStyle.Render("tab to switch · enter to search · ctrl+h history · ctrl+c quit"))
	return sb.String()
}

func (m *Model) viewLoading() string {
	return m.spin.View() + " resolving lyrics...\n\n" + dimStyle.Render("esc to cancel")
}

func (m *Model) viewTyping() string {
	idx := m.sess.CurrentIndex()
	total := m.sess.LineCount()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s - %s", m.lyrics.Artist, m.lyrics.Title)))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  line %d/%d", idx+1, total)) + "\n\n")

	if idx > 0 {
		sb.WriteString(dimStyle.Render(m.lineText(idx-1)) + "\n")
	}
	if target, ok := m.sess.CurrentLine(); ok {
		sb.WriteString(renderLineDiff(target, m.input) + "\n")
	}
	if idx+1 < total {
		sb.WriteString(pendingStyle.Render(m.lineText(idx+1)) + "\n")
	}
	sb.WriteString("\n" + renderStats(m.sess.Stats()) + "\n\n")
	sb.WriteString(dimStyle.Render("enter to submit line · esc to abandon"))
	return sb.String()
}

func (m *Model) lineText(i int) string {
	return m.lyrics.Lines[i].Text
}

func (m *Model) viewCompleted() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("completed!") + "\n\n")
	sb.WriteString(fmt.Sprintf("%s - %s\n\n", m.lyrics.Artist, m.lyrics.Title))
	sb.WriteString(renderStats(m.finalStats) + "\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%d/%d characters correct", m.finalStats.CorrectChars, m.finalStats.TotalChars)) + "\n\n")
	if m.saved {
		sb.WriteString(okStyle.Render("saved to history") + "\n\n")
	}
	if m.errMsg != "" {
		sb.WriteString(errorStyle.Render(m.errMsg) + "\n\n")
	}
	sb.WriteString(dimStyle.Render("s save · r retry · esc new search"))
	return sb.String()
}

func (m *Model) viewHistory() string {
	records := m.history.List()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("practice history") + "\n\n")
	if len(records) == 0 {
		sb.WriteString(dimStyle.Render("nothing here yet") + "\n\n")
	}
	for i, r := range records {
		if i >= 15 {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("... and %d more", len(records)-i)) + "\n")
			break
		}
		sb.WriteString(fmt.Sprintf("%s  %s - %s  %.1f%%  %d CPM\n",
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			r.Artist, r.Title, r.Stats.Accuracy, r.Stats.CPM))
	}
	sb.WriteString("\n")
	if m.confirmClear {
		sb.WriteString(errorStyle.Render("clear all history? y/n") + "\n")
	} else {
		sb.WriteString(dimStyle.Render("c clear · esc back"))
	}
	return sb.String()
}
