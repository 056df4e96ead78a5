package store

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// InMemoryLyricsStore is a development and test implementation.
type InMemoryLyricsStore struct {
	mu     sync.RWMutex
	nextID int64
	byKey  map[songKey]*Lyrics

	now func() time.Time
}

type songKey struct {
	artist string
	title  string
}

func NewInMemoryLyricsStore() *InMemoryLyricsStore {
	return &InMemoryLyricsStore{
		nextID: 1,
		byKey:  make(map[songKey]*Lyrics),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func keyOf(artist, title string) songKey {
	return songKey{artist: NormalizeKey(artist), title: NormalizeKey(title)}
}

func (s *InMemoryLyricsStore) FindByArtistTitle(_ context.Context, artist, title string) (*Lyrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.byKey[keyOf(artist, title)]
	if !ok {
		return nil, nil
	}
	cp := *l
	cp.Lines = append([]Line(nil), l.Lines...)
	return &cp, nil
}

func (s *InMemoryLyricsStore) Upsert(_ context.Context, l Lyrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(l.Artist, l.Title)
	now := s.now()

	// The payload keeps the original casing, like the lyrics_json column;
	// only the map key is normalized.
	stored := Lyrics{
		Title:     l.Title,
		Artist:    l.Artist,
		Language:  l.Language,
		Lines:     append([]Line(nil), l.Lines...),
		UpdatedAt: now,
	}

	if prev, ok := s.byKey[key]; ok {
		stored.ID = prev.ID
		stored.CreatedAt = prev.CreatedAt
		if !now.After(prev.UpdatedAt) {
			stored.UpdatedAt = prev.UpdatedAt.Add(time.Millisecond)
		}
	} else {
		stored.ID = s.nextID
		s.nextID++
		stored.CreatedAt = now
	}
	s.byKey[key] = &stored
	return nil
}

func (s *InMemoryLyricsStore) ListAll(_ context.Context) ([]SongSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SongSummary, 0, len(s.byKey))
	for key, l := range s.byKey {
		out = append(out, SongSummary{
			ID:        l.ID,
			Artist:    key.artist,
			Title:     key.title,
			Language:  l.Language,
			LineCount: len(l.Lines),
			UpdatedAt: l.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *InMemoryLyricsStore) SampleRandom(_ context.Context, n int) ([]SongRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || len(s.byKey) == 0 {
		return nil, nil
	}
	refs := make([]SongRef, 0, len(s.byKey))
	for key := range s.byKey {
		refs = append(refs, SongRef{Artist: key.artist, Title: key.title})
	}
	rand.Shuffle(len(refs), func(i, j int) { refs[i], refs[j] = refs[j], refs[i] })
	if n < len(refs) {
		refs = refs[:n]
	}
	return refs, nil
}

func (s *InMemoryLyricsStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey), nil
}

func (s *InMemoryLyricsStore) GetByID(_ context.Context, id int64) (*Lyrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.byKey {
		if l.ID == id {
			cp := *l
			cp.Lines = append([]Line(nil), l.Lines...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *InMemoryLyricsStore) DeleteByID(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, l := range s.byKey {
		if l.ID == id {
			delete(s.byKey, key)
			return true, nil
		}
	}
	return false, nil
}
