package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/mytype/internal/platform/analytics"
	"github.com/example/mytype/services/lyrics/internal/gemini"
	"github.com/example/mytype/services/lyrics/internal/store"
)

// ErrMissingFields is returned when artist or title is blank.
var ErrMissingFields = errors.New("artist and title are required")

// Generator produces lyrics text. Satisfied by *gemini.Client.
type Generator interface {
	SearchRawLyrics(ctx context.Context, artist, title string) (string, error)
	StructureLyrics(ctx context.Context, artist, title, rawLyrics string) (*gemini.Structured, error)
}

const (
	SourceCache = "cache"
	SourceLLM   = "llm"
)

type Resolver struct {
	Store     store.LyricsStore
	Generator Generator
	Logger    *zap.Logger
	Analytics *analytics.Publisher

	// Invalidate, when non-nil, is called after a successful cache
	// write so listing responses pick up the new song.
	Invalidate func()
}

func New(s store.LyricsStore, g Generator, logger *zap.Logger, pub *analytics.Publisher) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{Store: s, Generator: g, Logger: logger, Analytics: pub}
}

// Resolve returns the lyrics for a song, from the cache when possible and
// from the generation pipeline otherwise. Generated lyrics with at least
// one line are written back to the cache; a failed write does not fail
// the request.
func (r *Resolver) Resolve(ctx context.Context, artist, title string) (*store.Lyrics, string, error) {
	if strings.TrimSpace(artist) == "" || strings.TrimSpace(title) == "" {
		return nil, "", ErrMissingFields
	}

	start := time.Now()
	log := r.Logger.With(zap.String("artist", artist), zap.String("title", title))

	if store.Connected(r.Store) {
		cached, err := r.Store.FindByArtistTitle(ctx, artist, title)
		switch {
		case err != nil:
			// A broken cache read is treated as a miss; the pipeline
			// can still serve the request.
			log.Warn("cache lookup failed, falling back to generation", zap.Error(err))
		case cached != nil:
			log.Info("cache hit",
				zap.Int("lines", len(cached.Lines)),
				zap.Duration("took", time.Since(start)))
			return cached, SourceCache, nil
		default:
			log.Info("cache miss")
		}
	} else {
		log.Info("store not connected, skipping cache")
	}

	raw, err := r.Generator.SearchRawLyrics(ctx, artist, title)
	if err != nil {
		r.Analytics.Publish(analytics.SubjectLyricsFailed, "lyrics_search_failed", map[string]any{
			"artist": artist, "title": title,
		})
		return nil, "", fmt.Errorf("search lyrics: %w", err)
	}
	log.Info("search completed", zap.Int("rawLength", len(raw)))

	structured, err := r.Generator.StructureLyrics(ctx, artist, title, raw)
	if err != nil {
		r.Analytics.Publish(analytics.SubjectLyricsFailed, "lyrics_structure_failed", map[string]any{
			"artist": artist, "title": title,
		})
		return nil, "", fmt.Errorf("structure lyrics: %w", err)
	}

	lines := make([]store.Line, len(structured.Lines))
	for i, l := range structured.Lines {
		lines[i] = store.Line{Index: l.Index, Text: l.Text}
	}
	lyr := &store.Lyrics{
		Title:    structured.Title,
		Artist:   structured.Artist,
		Language: structured.Language,
		Lines:    lines,
	}

	if store.Connected(r.Store) && len(lyr.Lines) > 0 {
		if err := r.Store.Upsert(ctx, *lyr); err != nil {
			log.Warn("cache write failed", zap.Error(err))
		} else if r.Invalidate != nil {
			r.Invalidate()
		}
	}

	log.Info("lyrics resolved",
		zap.String("language", lyr.Language),
		zap.Int("lines", len(lyr.Lines)),
		zap.Duration("took", time.Since(start)))
	r.Analytics.Publish(analytics.SubjectLyricsResolved, "lyrics_resolved", map[string]any{
		"artist": artist, "title": title, "language": lyr.Language, "lines": len(lyr.Lines),
	})
	return lyr, SourceLLM, nil
}
