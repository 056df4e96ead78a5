package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLyricsStore is the production Postgres-backed implementation.
type PostgresLyricsStore struct {
	db *pgxpool.Pool
}

func NewPostgresLyricsStore(db *pgxpool.Pool) *PostgresLyricsStore {
	return &PostgresLyricsStore{db: db}
}

// lyricsPayload is the shape stored in the lyrics_json column. It matches the
// wire shape of Lyrics minus row bookkeeping.
type lyricsPayload struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Language string `json:"language"`
	Lines    []Line `json:"lines"`
}

func (s *PostgresLyricsStore) FindByArtistTitle(ctx context.Context, artist, title string) (*Lyrics, error) {
	var (
		id          int64
		payloadJSON []byte
		createdAt   time.Time
		updatedAt   time.Time
	)
	err := s.db.QueryRow(ctx, `
SELECT id, lyrics_json, created_at, updated_at
FROM lyrics_cache WHERE artist=$1 AND title=$2 LIMIT 1`,
		NormalizeKey(artist), NormalizeKey(title),
	).Scan(&id, &payloadJSON, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find lyrics: %w", err)
	}
	return rowToLyrics(id, payloadJSON, createdAt, updatedAt)
}

func (s *PostgresLyricsStore) Upsert(ctx context.Context, l Lyrics) error {
	payload, err := json.Marshal(lyricsPayload{
		Title:    l.Title,
		Artist:   l.Artist,
		Language: l.Language,
		Lines:    l.Lines,
	})
	if err != nil {
		return fmt.Errorf("marshal lyrics: %w", err)
	}
	_, err = s.db.Exec(ctx, `
INSERT INTO lyrics_cache (artist, title, language, lyrics_json)
VALUES ($1,$2,$3,$4)
ON CONFLICT (artist, title) DO UPDATE
SET language = EXCLUDED.language,
    lyrics_json = EXCLUDED.lyrics_json,
    updated_at = now()`,
		NormalizeKey(l.Artist), NormalizeKey(l.Title), l.Language, payload)
	if err != nil {
		return fmt.Errorf("upsert lyrics: %w", err)
	}
	return nil
}

func (s *PostgresLyricsStore) ListAll(ctx context.Context) ([]SongSummary, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, artist, title, language, jsonb_array_length(lyrics_json->'lines'), updated_at
FROM lyrics_cache ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var out []SongSummary
	for rows.Next() {
		var s SongSummary
		if err := rows.Scan(&s.ID, &s.Artist, &s.Title, &s.Language, &s.LineCount, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (s *PostgresLyricsStore) SampleRandom(ctx context.Context, n int) ([]SongRef, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT artist, title FROM lyrics_cache ORDER BY random() LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("sample songs: %w", err)
	}
	defer rows.Close()

	var out []SongRef
	for rows.Next() {
		var ref SongRef
		if err := rows.Scan(&ref.Artist, &ref.Title); err != nil {
			return nil, fmt.Errorf("scan song ref: %w", err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (s *PostgresLyricsStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM lyrics_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return n, nil
}

func (s *PostgresLyricsStore) GetByID(ctx context.Context, id int64) (*Lyrics, error) {
	var (
		payloadJSON []byte
		createdAt   time.Time
		updatedAt   time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT lyrics_json, created_at, updated_at FROM lyrics_cache WHERE id=$1`, id,
	).Scan(&payloadJSON, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lyrics: %w", err)
	}
	return rowToLyrics(id, payloadJSON, createdAt, updatedAt)
}

func (s *PostgresLyricsStore) DeleteByID(ctx context.Context, id int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM lyrics_cache WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete lyrics: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func rowToLyrics(id int64, payloadJSON []byte, createdAt, updatedAt time.Time) (*Lyrics, error) {
	var p lyricsPayload
	if err := json.Unmarshal(payloadJSON, &p); err != nil {
		return nil, fmt.Errorf("decode lyrics row %d: %w", id, err)
	}
	if p.Lines == nil {
		p.Lines = []Line{}
	}
	return &Lyrics{
		ID:        id,
		Title:     p.Title,
		Artist:    p.Artist,
		Language:  p.Language,
		Lines:     p.Lines,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
