package services

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitedTransport is an [http.RoundTripper] that waits on a shared [rate.Limiter] before each request.
//
// Waiting honours the request context, so a cancelled caller never reaches the upstream.
type RateLimitedTransport struct {
	limiter *rate.Limiter
	next    http.RoundTripper
}

// NewRateLimitedTransport wraps next (default [http.DefaultTransport]) with a limiter of rps requests per second.
//
// A non-positive rps disables limiting.
func NewRateLimitedTransport(rps float64, burst int, next http.RoundTripper) *RateLimitedTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if burst <= 0 {
		burst = 1
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &RateLimitedTransport{
		limiter: rate.NewLimiter(limit, burst),
		next:    next,
	}
}

// RoundTrip implements [http.RoundTripper].
func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return t.next.RoundTrip(req)
}
