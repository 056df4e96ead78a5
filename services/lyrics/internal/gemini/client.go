package gemini

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

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
)

type Client struct {
	BaseURL    string
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

func New(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Model:      model,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Structured is the schema-constrained output of the structuring call.
type Structured struct {
	Title    string           `json:"title"`
	Artist   string           `json:"artist"`
	Language string           `json:"language"`
	Lines    []StructuredLine `json:"lines"`
}

type StructuredLine struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type tool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	Tools            []tool            `json:"tools,omitempty"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// lyricsSchema constrains the structuring call so the model returns a
// parseable document instead of prose.
var lyricsSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "title": {"type": "STRING", "description": "The title of the song"},
    "artist": {"type": "STRING", "description": "The artist/singer name"},
    "language": {"type": "STRING", "enum": ["ko", "en", "mixed"], "description": "Primary language of the lyrics"},
    "lines": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {
          "index": {"type": "NUMBER", "description": "Line number starting from 0"},
          "text": {"type": "STRING", "description": "The lyric text for this line"}
        },
        "required": ["index", "text"]
      },
      "description": "Array of lyric lines"
    }
  },
  "required": ["title", "artist", "language", "lines"]
}`)

// SearchRawLyrics asks the model, with search grounding enabled, for the
// song's lyrics as free text. An empty result is not an error.
func (c *Client) SearchRawLyrics(ctx context.Context, artist, title string) (string, error) {
	prompt := fmt.Sprintf(`Search for the complete lyrics of the song %q by %q.
Return ONLY the original lyrics text, line by line, without any explanation, commentary, or romanization.`, title, artist)

	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		Tools:    []tool{{}},
	}
	resp, err := c.generate(ctx, req)
	if err != nil {
		return "", err
	}
	return firstText(resp), nil
}

// StructureLyrics converts free lyrics text into the structured document.
// The raw text may be empty; the model is instructed to return empty lines
// in that case.
func (c *Client) StructureLyrics(ctx context.Context, artist, title, rawLyrics string) (*Structured, error) {
	prompt := fmt.Sprintf(`Convert the following lyrics into a structured JSON format.

Lyrics:
%s

Song Info:
- Title: %s
- Artist: %s

Instructions:
- Return ONLY the original lyrics text line by line
- Each line should be a meaningful segment (not word by word)
- Do NOT include romanization or any translation
- Detect the language: 'ko' for Korean, 'en' for English, 'mixed' for mixed languages
- Do not include section markers like [Verse], [Chorus] etc in the text
- If lyrics are empty, return empty lines array`, rawLyrics, title, artist)

	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   lyricsSchema,
		},
	}
	resp, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	text := firstText(resp)
	var out Structured
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("gemini: structured decode error: %w body=%q", err, text[:min(len(text), 200)])
	}
	switch out.Language {
	case "ko", "en", "mixed":
	default:
		return nil, fmt.Errorf("gemini: unexpected language %q", out.Language)
	}
	if out.Lines == nil {
		out.Lines = []StructuredLine{}
	}
	return &out, nil
}

func (c *Client) generate(ctx context.Context, body generateRequest) (*generateResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key required")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/models/%s:generateContent", c.BaseURL, c.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini: status %d body=%q", resp.StatusCode, string(b[:min(len(b), 200)]))
	}
	var out generateResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("gemini: decode error: %w body=%q", err, string(b[:min(len(b), 200)]))
	}
	return &out, nil
}

func firstText(resp *generateResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
