package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodtunes/internal/shared"
	tu "github.com/desertthunder/moodtunes/internal/testing"
)

// spotifyFixture serves both the token and the search endpoint.
type spotifyFixture struct {
	t            *testing.T
	mux          *http.ServeMux
	server       *httptest.Server
	tokenHits    atomic.Int32
	searchHits   atomic.Int32
	tokenStatus  int
	searchStatus int
	searchBody   any
	lastQuery    atomic.Value
	lastAuth     atomic.Value
}

func newSpotifyFixture(t *testing.T) *spotifyFixture {
	t.Helper()
	f := &spotifyFixture{tokenStatus: http.StatusOK, searchStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenHits.Add(1)
		if f.tokenStatus != http.StatusOK {
			tu.WriteJSON(t, w, f.tokenStatus, map[string]string{"error": "invalid_client"})
			return
		}
		tu.WriteJSON(t, w, http.StatusOK, map[string]any{
			"access_token": "spotify-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("GET /v1/search", func(w http.ResponseWriter, r *http.Request) {
		f.searchHits.Add(1)
		f.lastQuery.Store(r.URL.Query())
		f.lastAuth.Store(r.Header.Get("Authorization"))
		tu.WriteJSON(t, w, f.searchStatus, f.searchBody)
	})

	f.t = t
	f.mux = mux
	return f
}

// service starts the fixture server on first use, after the test has configured responses.
func (f *spotifyFixture) service() *SpotifyService {
	if f.server == nil {
		f.server = httptest.NewServer(f.mux)
		f.t.Cleanup(f.server.Close)
	}

	logger := log.New(io.Discard)
	tokens := NewTokenRefresher(TokenRefresherOpts{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		TokenURL:     f.server.URL + "/api/token",
		Clock:        tu.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)).Now,
		Logger:       logger,
	})
	return NewSpotifyService(f.server.URL+"/v1", tokens, nil, logger)
}

func playlistItem(name, link string, images ...string) map[string]any {
	imgs := make([]map[string]any, 0, len(images))
	for _, u := range images {
		imgs = append(imgs, map[string]any{"url": u, "height": 300, "width": 300})
	}
	return map[string]any{
		"id":            name,
		"name":          name,
		"external_urls": map[string]string{"spotify": link},
		"images":        imgs,
	}
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			srv := NewSpotifyService("", NewTokenRefresher(TokenRefresherOpts{}), nil, nil)

			if srv.baseURL != spotifyBaseURL {
				t.Errorf("expected baseURL %s, got %s", spotifyBaseURL, srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
		})
	})

	t.Run("SearchPlaylists", func(t *testing.T) {
		t.Run("Sends Search Parameters With Bearer Token", func(t *testing.T) {
			f := newSpotifyFixture(t)
			f.searchBody = map[string]any{"playlists": map[string]any{"items": []any{}}}

			_, err := f.service().SearchPlaylists(context.Background(), "calm")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			q := f.lastQuery.Load().(url.Values)
			if got := q["q"]; len(got) != 1 || got[0] != "calm" {
				t.Errorf("expected q 'calm', got %v", got)
			}
			if got := q["type"]; len(got) != 1 || got[0] != "playlist" {
				t.Errorf("expected type 'playlist', got %v", got)
			}
			if got := q["limit"]; len(got) != 1 || got[0] != "5" {
				t.Errorf("expected limit '5', got %v", got)
			}
			if auth := f.lastAuth.Load().(string); auth != "Bearer spotify-token" {
				t.Errorf("expected 'Bearer spotify-token', got %q", auth)
			}
		})

		t.Run("Empty Mood Defaults To Happy", func(t *testing.T) {
			f := newSpotifyFixture(t)
			f.searchBody = map[string]any{"playlists": map[string]any{"items": []any{}}}

			if _, err := f.service().SearchPlaylists(context.Background(), ""); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			q := f.lastQuery.Load().(url.Values)
			if got := q["q"]; len(got) != 1 || got[0] != "happy" {
				t.Errorf("expected q 'happy', got %v", got)
			}
		})

		t.Run("Filters Incomplete Items And Applies Placeholder", func(t *testing.T) {
			f := newSpotifyFixture(t)
			f.searchBody = map[string]any{
				"playlists": map[string]any{
					"items": []any{
						playlistItem("Happy Hits", "https://open.spotify.com/playlist/1", "https://img/1.jpg"),
						nil,
						playlistItem("", "https://open.spotify.com/playlist/2"),
						playlistItem("No Link", ""),
						playlistItem("Bare", "https://open.spotify.com/playlist/3"),
					},
				},
			}

			results, err := f.service().SearchPlaylists(context.Background(), "happy")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := []PlaylistResult{
				{Name: "Happy Hits", URL: "https://open.spotify.com/playlist/1", Image: "https://img/1.jpg"},
				{Name: "Bare", URL: "https://open.spotify.com/playlist/3", Image: PlaceholderImage},
			}
			if len(results) != len(expected) {
				t.Fatalf("expected %d results, got %d: %+v", len(expected), len(results), results)
			}
			for i := range expected {
				if results[i] != expected[i] {
					t.Errorf("result %d: expected %+v, got %+v", i, expected[i], results[i])
				}
			}
		})

		t.Run("Empty Items", func(t *testing.T) {
			f := newSpotifyFixture(t)
			f.searchBody = map[string]any{"playlists": map[string]any{"items": []any{nil, nil}}}

			results, err := f.service().SearchPlaylists(context.Background(), "sad")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if results == nil || len(results) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", results)
			}
		})

		t.Run("Caps Results", func(t *testing.T) {
			f := newSpotifyFixture(t)
			items := make([]any, 0, 8)
			for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
				items = append(items, playlistItem(n, "https://open.spotify.com/playlist/"+n))
			}
			f.searchBody = map[string]any{"playlists": map[string]any{"items": items}}

			results, err := f.service().SearchPlaylists(context.Background(), "happy")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(results) != SearchLimit {
				t.Errorf("expected %d results, got %d", SearchLimit, len(results))
			}
		})

		t.Run("Reuses Token Across Searches", func(t *testing.T) {
			f := newSpotifyFixture(t)
			f.searchBody = map[string]any{"playlists": map[string]any{"items": []any{}}}
			srv := f.service()

			for range 3 {
				if _, err := srv.SearchPlaylists(context.Background(), "happy"); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
			}

			if f.tokenHits.Load() != 1 {
				t.Errorf("expected 1 token request, got %d", f.tokenHits.Load())
			}
			if f.searchHits.Load() != 3 {
				t.Errorf("expected 3 search requests, got %d", f.searchHits.Load())
			}
		})

		t.Run("Upstream Status Error", func(t *testing.T) {
			f := newSpotifyFixture(t)
			f.searchStatus = http.StatusServiceUnavailable
			f.searchBody = map[string]any{"error": map[string]any{"status": 503, "message": "down"}}

			_, err := f.service().SearchPlaylists(context.Background(), "happy")
			if err == nil {
				t.Fatal("expected error for upstream failure")
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}

			ue, ok := AsUpstream(err)
			if !ok {
				t.Fatalf("expected UpstreamError, got %T", err)
			}
			if ue.Status != http.StatusServiceUnavailable {
				t.Errorf("expected status 503, got %d", ue.Status)
			}
			if ue.Body == "" {
				t.Error("expected upstream body to be captured")
			}
		})

		t.Run("Token Failure Still Calls Upstream", func(t *testing.T) {
			f := newSpotifyFixture(t)
			f.tokenStatus = http.StatusUnauthorized
			f.searchStatus = http.StatusUnauthorized
			f.searchBody = map[string]any{"error": map[string]any{"status": 401, "message": "No token provided"}}

			_, err := f.service().SearchPlaylists(context.Background(), "happy")
			if err == nil {
				t.Fatal("expected error without a token")
			}
			if f.searchHits.Load() != 1 {
				t.Errorf("expected search to be attempted once, got %d", f.searchHits.Load())
			}

			ue, ok := AsUpstream(err)
			if !ok || ue.Status != http.StatusUnauthorized {
				t.Errorf("expected 401 UpstreamError, got %v", err)
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte("{not json"))
			}))
			defer server.Close()

			tokens := NewTokenRefresher(TokenRefresherOpts{Logger: log.New(io.Discard)})
			tokens.Cache().Set(Credential{Token: "t", ExpiresAt: time.Now().Add(time.Hour)})

			srv := NewSpotifyService(server.URL, tokens, nil, log.New(io.Discard))
			_, err := srv.SearchPlaylists(context.Background(), "happy")
			if !errors.Is(err, shared.ErrMalformedPayload) {
				t.Errorf("expected ErrMalformedPayload, got %v", err)
			}
		})
	})
}
