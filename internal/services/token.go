package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodtunes/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const spotifyTokenURL = "https://accounts.spotify.com/api/token"

// TokenRefresher exchanges the service's client id and secret for a Spotify bearer token
// (client-credentials grant) and keeps the result in a [CredentialCache].
type TokenRefresher struct {
	config     *clientcredentials.Config
	cache      CredentialCache
	httpClient *http.Client
	now        func() time.Time
	logger     *log.Logger
}

// TokenRefresherOpts contains configuration options for creating a [TokenRefresher].
type TokenRefresherOpts struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Cache        CredentialCache
	HTTPClient   *http.Client
	Clock        func() time.Time
	Logger       *log.Logger
}

// NewTokenRefresher creates a refresher. Empty credentials are accepted; the exchange itself will fail
// and playlist searches will report upstream errors.
func NewTokenRefresher(opts TokenRefresherOpts) *TokenRefresher {
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.Cache == nil {
		opts.Cache = NewMemoryCredentialCache()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &TokenRefresher{
		config: &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		cache:      opts.Cache,
		httpClient: opts.HTTPClient,
		now:        opts.Clock,
		logger:     opts.Logger,
	}
}

// Cache returns the [CredentialCache] the refresher writes to.
func (r *TokenRefresher) Cache() CredentialCache {
	return r.cache
}

// Refresh performs the client-credentials exchange and replaces the cached credential on success.
//
// On failure the cache is left untouched and an [*UpstreamError] wrapping [shared.ErrAuthFailed] is returned.
func (r *TokenRefresher) Refresh(ctx context.Context) (Credential, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)

	tok, err := r.config.Token(ctx)
	if err != nil {
		return Credential{}, tokenError(err)
	}

	now := r.now()
	cred := Credential{
		Token:     tok.AccessToken,
		ExpiresAt: now.Add(expiresIn(tok, now)),
	}
	r.cache.Set(cred)

	r.logger.Info("spotify token refreshed", "expires_at", cred.ExpiresAt.Format(time.RFC3339))
	return cred, nil
}

// Ensure returns a usable credential, refreshing synchronously when the cache is empty or expired.
//
// A failed refresh is logged and swallowed: the result may still be absent (false) or stale, and the
// caller proceeds with it anyway.
func (r *TokenRefresher) Ensure(ctx context.Context) (Credential, bool) {
	if cred, ok := r.cache.Get(); ok && !cred.Expired(r.now()) {
		return cred, true
	}

	r.logger.Info("refreshing spotify token")
	if _, err := r.Refresh(ctx); err != nil {
		if ue, ok := AsUpstream(err); ok {
			r.logger.Error("error getting spotify token", ue.KeyVals()...)
		} else {
			r.logger.Error("error getting spotify token", "error", err)
		}
	}

	return r.cache.Get()
}

func tokenError(err error) error {
	ue := &UpstreamError{Service: "spotify", Op: "token", Err: errors.Join(shared.ErrAuthFailed, err)}

	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		ue.Body = string(re.Body)
		if re.Response != nil {
			ue.Status = re.Response.StatusCode
			ue.Header = re.Response.Header.Clone()
		}
	}

	return ue
}

// expiresIn reads the token lifetime from the raw "expires_in" field, falling back to the parsed expiry.
func expiresIn(tok *oauth2.Token, now time.Time) time.Duration {
	var secs float64
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		secs = v
	case json.Number:
		secs, _ = v.Float64()
	case string:
		secs, _ = strconv.ParseFloat(v, 64)
	}

	if secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	if !tok.Expiry.IsZero() {
		return tok.Expiry.Sub(now)
	}
	return 0
}
