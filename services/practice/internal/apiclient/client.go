// Package apiclient talks to the lyrics service.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: &http.Client{Timeout: 90 * time.Second}}
}

type Line struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type Lyrics struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Language string `json:"language"`
	Lines    []Line `json:"lines"`
}

type SongRef struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

type randomSongsData struct {
	Songs      []SongRef `json:"songs"`
	TotalCount int       `json:"totalCount"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// ResolveLyrics fetches lyrics for a song. The call can take a while on a
// cache miss; pass a context with the deadline you are willing to wait.
func (c *Client) ResolveLyrics(ctx context.Context, artist, title string) (*Lyrics, error) {
	body, _ := json.Marshal(map[string]string{"artist": artist, "title": title})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/lyrics", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out Lyrics
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RandomSongs fetches the recommendation sample and the cache's total size.
func (c *Client) RandomSongs(ctx context.Context) ([]SongRef, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/songs/random", nil)
	if err != nil {
		return nil, 0, err
	}

	var out randomSongsData
	if err := c.do(req, &out); err != nil {
		return nil, 0, err
	}
	return out.Songs, out.TotalCount, nil
}

func (c *Client) do(req *http.Request, data any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("lyrics api: status %d body=%q", resp.StatusCode, string(b[:min(len(b), 200)]))
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("lyrics api: %s", msg)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			return fmt.Errorf("lyrics api: decode error: %w", err)
		}
	}
	return nil
}
