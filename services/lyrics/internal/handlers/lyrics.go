package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/mytype/internal/platform/api"
	"github.com/example/mytype/services/lyrics/internal/resolver"
)

type lyricsRequest struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// ResolveLyrics handles POST /v1/lyrics
func ResolveLyrics(res *resolver.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req lyricsRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "invalid JSON")
			return
		}

		lyr, _, err := res.Resolve(r.Context(), req.Artist, req.Title)
		if err != nil {
			if errors.Is(err, resolver.ErrMissingFields) {
				api.BadRequest(w, "Artist and title are required")
				return
			}
			api.Fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.OK(w, lyr)
	}
}
