package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOK_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()
	OK(rr, map[string]any{"value": 42})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success=true")
	}
	if resp.Error != "" {
		t.Fatalf("expected empty error, got %q", resp.Error)
	}
}

func TestFail_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()
	Fail(rr, http.StatusBadRequest, "artist and title are required")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var resp Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Fatal("expected success=false")
	}
	if resp.Error != "artist and title are required" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
	if resp.Data != nil {
		t.Fatalf("expected no data, got %v", resp.Data)
	}
}

func TestNotFound_Status(t *testing.T) {
	rr := httptest.NewRecorder()
	NotFound(rr, "song not found")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestServiceUnavailable_Status(t *testing.T) {
	rr := httptest.NewRecorder()
	ServiceUnavailable(rr, "database not connected")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
