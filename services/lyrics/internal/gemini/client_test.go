package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func candidateResponse(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"role": "model", "parts": []map[string]string{{"text": text}}}},
		},
	})
	return string(b)
}

func TestSearchRawLyrics_SendsSearchTool(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.5-flash:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(candidateResponse("hello from the other side\nat least I can say")))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "", time.Second)
	raw, err := c.SearchRawLyrics(context.Background(), "Adele", "Hello")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if raw != "hello from the other side\nat least I can say" {
		t.Fatalf("unexpected raw lyrics: %q", raw)
	}
	if len(got.Tools) != 1 {
		t.Fatalf("expected google_search tool in request, got %d tools", len(got.Tools))
	}
	if got.GenerationConfig != nil {
		t.Fatal("search call must not constrain output with a schema")
	}
}

func TestSearchRawLyrics_EmptyCandidatesIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "", time.Second)
	raw, err := c.SearchRawLyrics(context.Background(), "Adele", "Hello")
	if err != nil {
		t.Fatalf("expected no error for empty result, got %v", err)
	}
	if raw != "" {
		t.Fatalf("expected empty lyrics, got %q", raw)
	}
}

func TestStructureLyrics_OK(t *testing.T) {
	var got generateRequest
	structured := `{"title":"Hello","artist":"Adele","language":"en","lines":[{"index":0,"text":"hello"},{"index":1,"text":"it's me"}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(candidateResponse(structured)))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "", time.Second)
	out, err := c.StructureLyrics(context.Background(), "Adele", "Hello", "hello\nit's me")
	if err != nil {
		t.Fatalf("structure: %v", err)
	}
	if out.Language != "en" || len(out.Lines) != 2 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.Lines[1].Text != "it's me" {
		t.Fatalf("unexpected line: %+v", out.Lines[1])
	}
	if got.GenerationConfig == nil || got.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Fatal("structure call must request schema-constrained JSON")
	}
	if len(got.Tools) != 0 {
		t.Fatal("structure call must not enable search")
	}
}

func TestStructureLyrics_EmptyLinesDecodesToEmptySlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(candidateResponse(`{"title":"Hello","artist":"Adele","language":"en","lines":[]}`)))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "", time.Second)
	out, err := c.StructureLyrics(context.Background(), "Adele", "Hello", "")
	if err != nil {
		t.Fatalf("structure: %v", err)
	}
	if out.Lines == nil || len(out.Lines) != 0 {
		t.Fatalf("expected empty non-nil lines, got %+v", out.Lines)
	}
}

func TestStructureLyrics_BadLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(candidateResponse(`{"title":"t","artist":"a","language":"fr","lines":[]}`)))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "", time.Second)
	if _, err := c.StructureLyrics(context.Background(), "a", "t", ""); err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestStructureLyrics_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(candidateResponse("sorry, I cannot help with that")))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "", time.Second)
	if _, err := c.StructureLyrics(context.Background(), "a", "t", "x"); err == nil {
		t.Fatal("expected decode error for non-JSON output")
	}
}

func TestGenerate_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "", time.Second)
	if _, err := c.SearchRawLyrics(context.Background(), "a", "t"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	c := New("", "http://127.0.0.1:0", "", time.Second)
	if _, err := c.SearchRawLyrics(context.Background(), "a", "t"); err == nil {
		t.Fatal("expected error when api key is unset")
	}
}
