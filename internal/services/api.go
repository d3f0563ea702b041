// Gateway client used by the watch UI to reach the moodtunes HTTP server
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/moodtunes/internal/shared"
)

const defaultGatewayURL = "http://localhost:5000"

// APIService calls the recommendation endpoints of a running moodtunes server.
//
// It satisfies both [PlaylistSearcher] and [VideoSearcher], so the UI can be pointed at either a
// remote server or the in-process services.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a gateway client. An empty baseURL selects http://localhost:5000.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultGatewayURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// errorBody is the JSON shape of a failed gateway response.
type errorBody struct {
	Error string `json:"error"`
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{StatusCode: resp.StatusCode, Headers: resp.Header, Body: body}, nil
}

// SearchPlaylists calls GET /api/playlist?mood=<mood>.
func (a *APIService) SearchPlaylists(ctx context.Context, mood string) ([]PlaylistResult, error) {
	var playlists []PlaylistResult
	if err := a.getJSON(ctx, "playlist", "/api/playlist", mood, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// SearchVideos calls GET /api/youtube?mood=<mood>.
func (a *APIService) SearchVideos(ctx context.Context, mood string) ([]VideoResult, error) {
	var videos []VideoResult
	if err := a.getJSON(ctx, "youtube", "/api/youtube", mood, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (a *APIService) getJSON(ctx context.Context, op, path, mood string, result any) error {
	if mood != "" {
		path += "?" + url.Values{"mood": {mood}}.Encode()
	}

	resp, err := a.Get(ctx, path)
	if err != nil {
		return &UpstreamError{Service: "gateway", Op: op, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		ue := &UpstreamError{
			Service: "gateway",
			Op:      op,
			Status:  resp.StatusCode,
			Header:  resp.Headers,
			Body:    string(resp.Body),
		}

		var eb errorBody
		if json.Unmarshal(resp.Body, &eb) == nil && eb.Error != "" {
			ue.Err = errors.New(eb.Error)
		}
		return ue
	}

	if err := json.Unmarshal(resp.Body, result); err != nil {
		return &UpstreamError{
			Service: "gateway",
			Op:      op,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("%w: %v", shared.ErrMalformedPayload, err),
		}
	}

	return nil
}
