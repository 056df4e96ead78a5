package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/mytype/services/practice/internal/session"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewAt(filepath.Join(t.TempDir(), "history.json"))
}

func TestStore_SaveAndList(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Save("Hello", "Adele", session.Stats{
		ElapsedTime: 30, Accuracy: 95.5, CPM: 120, TotalChars: 60, CorrectChars: 57,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.ID == "" || rec.CompletedAt.IsZero() {
		t.Fatalf("expected generated id and timestamp, got %+v", rec)
	}

	got := s.List()
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Title != "Hello" || got[0].Stats.CPM != 120 {
		t.Fatalf("unexpected record: %+v", got[0])
	}
}

func TestStore_MostRecentFirstAndCap(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < MaxRecords+1; i++ {
		if _, err := s.Save(fmt.Sprintf("Song %d", i), "Artist", session.Stats{}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	got := s.List()
	if len(got) != MaxRecords {
		t.Fatalf("expected history capped at %d, got %d", MaxRecords, len(got))
	}
	if got[0].Title != fmt.Sprintf("Song %d", MaxRecords) {
		t.Fatalf("expected newest first, got %q", got[0].Title)
	}
	// Song 0 was the oldest and must be gone.
	for _, r := range got {
		if r.Title == "Song 0" {
			t.Fatal("oldest record should have been evicted")
		}
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Save("Hello", "Adele", session.Stats{})
	if err := s.SetLyrics(Lyrics{Title: "Hello", Artist: "Adele", Language: "en", Lines: []string{"x"}}); err != nil {
		t.Fatalf("set lyrics: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := s.List(); len(got) != 0 {
		t.Fatalf("expected empty history, got %d", len(got))
	}
	// The last resolved song is not part of the history.
	if _, ok := s.Lyrics(); !ok {
		t.Fatal("clear must not drop the stored lyrics")
	}
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := NewAt(filepath.Join(t.TempDir(), "nope", "history.json"))
	if got := s.List(); len(got) != 0 {
		t.Fatalf("expected empty history, got %d", len(got))
	}
	if _, ok := s.Lyrics(); ok {
		t.Fatal("expected no lyrics")
	}
}

func TestStore_CorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewAt(path)
	if got := s.List(); len(got) != 0 {
		t.Fatalf("expected empty history for corrupt file, got %d", len(got))
	}

	// A save repairs the file.
	if _, err := s.Save("Hello", "Adele", session.Stats{}); err != nil {
		t.Fatalf("save over corrupt file: %v", err)
	}
	if got := s.List(); len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
}

func TestStore_LyricsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	in := Lyrics{Title: "Blueming", Artist: "IU", Language: "ko", Lines: []string{"처음", "만난"}}
	if err := s.SetLyrics(in); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := s.Lyrics()
	if !ok || got.Title != "Blueming" || len(got.Lines) != 2 {
		t.Fatalf("unexpected lyrics: %+v ok=%v", got, ok)
	}
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s1 := NewAt(path)
	if _, err := s1.Save("Hello", "Adele", session.Stats{CPM: 88}); err != nil {
		t.Fatal(err)
	}

	s2 := NewAt(path)
	got := s2.List()
	if len(got) != 1 || got[0].Stats.CPM != 88 {
		t.Fatalf("expected persisted record, got %+v", got)
	}
}
