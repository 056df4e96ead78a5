package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/mytype/internal/platform/analytics"
	"github.com/example/mytype/internal/platform/api"
	"github.com/example/mytype/services/lyrics/internal/store"
)

const (
	cacheKeySongsList   = "songs:list"
	cacheKeySongsRandom = "songs:random"

	randomSampleSize = 6
)

type songListData struct {
	Songs       []store.SongSummary `json:"songs"`
	IsConnected bool                `json:"isConnected"`
}

type randomSongsData struct {
	Songs      []store.SongRef `json:"songs"`
	TotalCount int             `json:"totalCount"`
}

// ListSongs handles GET /v1/songs
func ListSongs(s store.LyricsStore, cache Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.Connected(s) {
			api.OK(w, songListData{Songs: []store.SongSummary{}, IsConnected: false})
			return
		}

		if cache != nil {
			if v, ok := cache.Get(cacheKeySongsList); ok {
				if data, ok := v.(songListData); ok {
					api.OK(w, data)
					return
				}
			}
		}

		songs, err := s.ListAll(r.Context())
		if err != nil {
			// An unreachable store degrades to the same shape as no
			// store at all. The degraded payload is never cached.
			api.OK(w, songListData{Songs: []store.SongSummary{}, IsConnected: false})
			return
		}
		if songs == nil {
			songs = []store.SongSummary{}
		}
		data := songListData{Songs: songs, IsConnected: true}
		if cache != nil {
			cache.Set(cacheKeySongsList, data)
		}
		api.OK(w, data)
	}
}

// RandomSongs handles GET /v1/songs/random
func RandomSongs(s store.LyricsStore, cache Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.Connected(s) {
			api.OK(w, randomSongsData{Songs: []store.SongRef{}, TotalCount: 0})
			return
		}

		if cache != nil {
			if v, ok := cache.Get(cacheKeySongsRandom); ok {
				if data, ok := v.(randomSongsData); ok {
					api.OK(w, data)
					return
				}
			}
		}

		refs, err := s.SampleRandom(r.Context(), randomSampleSize)
		if err != nil {
			api.OK(w, randomSongsData{Songs: []store.SongRef{}, TotalCount: 0})
			return
		}
		total, err := s.Count(r.Context())
		if err != nil {
			api.OK(w, randomSongsData{Songs: []store.SongRef{}, TotalCount: 0})
			return
		}
		if refs == nil {
			refs = []store.SongRef{}
		}
		data := randomSongsData{Songs: refs, TotalCount: total}
		if cache != nil {
			cache.Set(cacheKeySongsRandom, data)
		}
		api.OK(w, data)
	}
}

// GetSong handles GET /v1/songs/{song_id}
func GetSong(s store.LyricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.Connected(s) {
			api.ServiceUnavailable(w, "Database not connected")
			return
		}

		id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "song_id")), 10, 64)
		if err != nil {
			api.BadRequest(w, "Invalid song ID")
			return
		}

		lyr, err := s.GetByID(r.Context(), id)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		if lyr == nil {
			api.NotFound(w, "Song not found")
			return
		}
		api.OK(w, lyr)
	}
}

// DeleteSong handles DELETE /v1/songs/{song_id}. The route is admin-gated
// by middleware; invalidate, when non-nil, clears the listing caches.
func DeleteSong(s store.LyricsStore, pub *analytics.Publisher, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.Connected(s) {
			api.ServiceUnavailable(w, "Database not connected")
			return
		}

		id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "song_id")), 10, 64)
		if err != nil {
			api.BadRequest(w, "Invalid song ID")
			return
		}

		deleted, err := s.DeleteByID(r.Context(), id)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !deleted {
			api.NotFound(w, "Song not found or could not be deleted")
			return
		}
		if invalidate != nil {
			invalidate()
		}
		pub.Publish(analytics.SubjectSongDeleted, "song_deleted", map[string]any{"song_id": id})
		api.WriteJSON(w, http.StatusOK, api.Response{Success: true})
	}
}
