// Package store handles persistence of resolved lyrics.
package store

import (
	"context"
	"strings"
	"time"
)

// Recognized lyrics languages.
const (
	LanguageKorean  = "ko"
	LanguageEnglish = "en"
	LanguageMixed   = "mixed"
)

// Line is a single lyric line. Index mirrors the position in the song and is
// preserved from the structuring pipeline.
type Line struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Lyrics is one cached song.
type Lyrics struct {
	ID        int64     `json:"id,omitempty"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Language  string    `json:"language"`
	Lines     []Line    `json:"lines"`
	// Timestamps are store bookkeeping and never leave the API.
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// SongSummary is the admin listing row.
type SongSummary struct {
	ID        int64     `json:"id"`
	Artist    string    `json:"artist"`
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	LineCount int       `json:"linesCount"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SongRef identifies a song by its natural key.
type SongRef struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// LyricsStore defines the contract for the lyrics cache.
//
// Reads report absence as (nil, nil); "not found" is an expected result, not
// an error. Implementations must make Upsert atomic with respect to the
// (artist, title) uniqueness constraint: concurrent writers for the same key
// must end up with a single row reflecting the last write.
type LyricsStore interface {
	FindByArtistTitle(ctx context.Context, artist, title string) (*Lyrics, error)
	Upsert(ctx context.Context, l Lyrics) error
	ListAll(ctx context.Context) ([]SongSummary, error)
	SampleRandom(ctx context.Context, n int) ([]SongRef, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (*Lyrics, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

// NormalizeKey lowercases and trims an artist or title for cache storage and
// lookup, so "BTS" and " bts " address the same row.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Connected reports whether s is usable. A nil store means the database was
// unavailable at startup; callers degrade to empty results and no-op writes.
func Connected(s LyricsStore) bool {
	return s != nil
}
