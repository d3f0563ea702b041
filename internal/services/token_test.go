package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodtunes/internal/shared"
	tu "github.com/desertthunder/moodtunes/internal/testing"
	"golang.org/x/oauth2"
)

func newTokenServer(t *testing.T, hits *atomic.Int32, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		if r.Method != http.MethodPost {
			t.Errorf("expected POST method, got %s", r.Method)
		}

		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
		if got := r.Header.Get("Authorization"); got != expected {
			t.Errorf("expected Authorization %q, got %q", expected, got)
		}

		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
			return
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("expected grant_type 'client_credentials', got %q", got)
		}

		if status != http.StatusOK {
			tu.WriteJSON(t, w, status, map[string]string{"error": "invalid_client"})
			return
		}

		tu.WriteJSON(t, w, http.StatusOK, map[string]any{
			"access_token": fmt.Sprintf("tok-%d", hits.Load()),
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
}

func newTestRefresher(url string, clock *tu.FakeClock) *TokenRefresher {
	return NewTokenRefresher(TokenRefresherOpts{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		TokenURL:     url,
		Clock:        clock.Now,
		Logger:       log.New(io.Discard),
	})
}

func TestTokenRefresher(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Refresh", func(t *testing.T) {
		t.Run("Stores Token With Expiry From expires_in", func(t *testing.T) {
			var hits atomic.Int32
			server := newTokenServer(t, &hits, http.StatusOK)
			defer server.Close()

			clock := tu.NewFakeClock(start)
			r := newTestRefresher(server.URL, clock)

			cred, err := r.Refresh(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if cred.Token != "tok-1" {
				t.Errorf("expected token 'tok-1', got %s", cred.Token)
			}

			expected := start.Add(time.Hour)
			if !cred.ExpiresAt.Equal(expected) {
				t.Errorf("expected expiry %v, got %v", expected, cred.ExpiresAt)
			}

			cached, ok := r.Cache().Get()
			if !ok || cached != cred {
				t.Errorf("expected cache to hold %+v, got %+v (ok=%v)", cred, cached, ok)
			}
		})

		t.Run("Failure Leaves Cache Unchanged", func(t *testing.T) {
			var hits atomic.Int32
			server := newTokenServer(t, &hits, http.StatusUnauthorized)
			defer server.Close()

			clock := tu.NewFakeClock(start)
			r := newTestRefresher(server.URL, clock)
			previous := Credential{Token: "old", ExpiresAt: start.Add(-time.Minute)}
			r.Cache().Set(previous)

			_, err := r.Refresh(context.Background())
			if err == nil {
				t.Fatal("expected error for rejected credentials")
			}
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}

			ue, ok := AsUpstream(err)
			if !ok {
				t.Fatalf("expected UpstreamError, got %T", err)
			}
			if ue.Status != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", ue.Status)
			}

			cached, _ := r.Cache().Get()
			if cached != previous {
				t.Errorf("expected cache to keep %+v, got %+v", previous, cached)
			}
		})
	})

	t.Run("Ensure", func(t *testing.T) {
		t.Run("Reuses Token Until Expiry", func(t *testing.T) {
			var hits atomic.Int32
			server := newTokenServer(t, &hits, http.StatusOK)
			defer server.Close()

			clock := tu.NewFakeClock(start)
			r := newTestRefresher(server.URL, clock)
			ctx := context.Background()

			first, ok := r.Ensure(ctx)
			if !ok {
				t.Fatal("expected a credential")
			}

			clock.Advance(59 * time.Minute)
			second, _ := r.Ensure(ctx)

			if hits.Load() != 1 {
				t.Errorf("expected exactly 1 token request, got %d", hits.Load())
			}
			if first.Token != second.Token {
				t.Errorf("expected same token, got %s and %s", first.Token, second.Token)
			}
		})

		t.Run("Refreshes Once At Expiry", func(t *testing.T) {
			var hits atomic.Int32
			server := newTokenServer(t, &hits, http.StatusOK)
			defer server.Close()

			clock := tu.NewFakeClock(start)
			r := newTestRefresher(server.URL, clock)
			ctx := context.Background()

			r.Ensure(ctx)
			clock.Advance(time.Hour)

			cred, ok := r.Ensure(ctx)
			if !ok {
				t.Fatal("expected a credential")
			}
			r.Ensure(ctx)

			if hits.Load() != 2 {
				t.Errorf("expected exactly 2 token requests, got %d", hits.Load())
			}
			if cred.Token != "tok-2" {
				t.Errorf("expected token 'tok-2', got %s", cred.Token)
			}
		})

		t.Run("Swallows Failure With Empty Cache", func(t *testing.T) {
			var hits atomic.Int32
			server := newTokenServer(t, &hits, http.StatusBadRequest)
			defer server.Close()

			r := newTestRefresher(server.URL, tu.NewFakeClock(start))

			cred, ok := r.Ensure(context.Background())
			if ok {
				t.Error("expected no credential")
			}
			if cred.Token != "" {
				t.Errorf("expected empty token, got %s", cred.Token)
			}
		})

		t.Run("Returns Stale Credential When Refresh Fails", func(t *testing.T) {
			var hits atomic.Int32
			server := newTokenServer(t, &hits, http.StatusBadRequest)
			defer server.Close()

			r := newTestRefresher(server.URL, tu.NewFakeClock(start))
			stale := Credential{Token: "stale", ExpiresAt: start}
			r.Cache().Set(stale)

			cred, ok := r.Ensure(context.Background())
			if !ok || cred != stale {
				t.Errorf("expected stale credential, got %+v (ok=%v)", cred, ok)
			}
			if hits.Load() != 1 {
				t.Errorf("expected 1 refresh attempt, got %d", hits.Load())
			}
		})
	})
}

func TestCredential(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		expected  bool
	}{
		{"Before Expiry", now.Add(time.Second), false},
		{"At Expiry", now, true},
		{"After Expiry", now.Add(-time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Credential{Token: "t", ExpiresAt: tt.expiresAt}
			if got := c.Expired(now); got != tt.expected {
				t.Errorf("expected Expired=%v, got %v", tt.expected, got)
			}
		})
	}
}

func TestExpiresIn(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("String Value", func(t *testing.T) {
		tok := (&oauth2.Token{}).WithExtra(map[string]any{"expires_in": "120"})
		if got := expiresIn(tok, now); got != 2*time.Minute {
			t.Errorf("expected 2m, got %v", got)
		}
	})

	t.Run("Falls Back To Expiry", func(t *testing.T) {
		tok := &oauth2.Token{Expiry: now.Add(30 * time.Second)}
		if got := expiresIn(tok, now); got != 30*time.Second {
			t.Errorf("expected 30s, got %v", got)
		}
	})

	t.Run("Missing Lifetime", func(t *testing.T) {
		if got := expiresIn(&oauth2.Token{}, now); got != 0 {
			t.Errorf("expected 0, got %v", got)
		}
	})
}
