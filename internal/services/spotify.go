// Spotify Web API implementation of [PlaylistSearcher]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/search
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodtunes/internal/shared"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyExternalURLs holds the canonical web links of a Spotify object.
type SpotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Owner is the user who owns a playlist.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in search results).
type SpotifySimplePlaylist struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Owner        Owner               `json:"owner"`
	Public       bool                `json:"public"`
	ExternalURLs SpotifyExternalURLs `json:"external_urls"`
	Images       []SpotifyImage      `json:"images"`
	URI          string              `json:"uri"`
}

// SpotifyPlaylistPage is the "playlists" section of a search response.
//
// Spotify may return null entries in Items, hence the pointers.
type SpotifyPlaylistPage struct {
	Items  []*SpotifySimplePlaylist `json:"items"`
	Total  int                      `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
	Next   *string                  `json:"next"`
}

// SpotifySearchResponse represents the response of GET /search with type=playlist.
type SpotifySearchResponse struct {
	Playlists SpotifyPlaylistPage `json:"playlists"`
}

// TokenProvider supplies the bearer credential attached to Spotify requests.
type TokenProvider interface {
	Ensure(ctx context.Context) (Credential, bool)
}

// SpotifyService implements [PlaylistSearcher] against the Spotify Web API.
type SpotifyService struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
	logger     *log.Logger
}

// NewSpotifyService creates a new Spotify service. An empty baseURL selects the public API.
func NewSpotifyService(baseURL string, tokens TokenProvider, client *http.Client, logger *log.Logger) *SpotifyService {
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &SpotifyService{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: client,
		logger:     logger,
	}
}

// Name returns the service name.
func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated GET against the Spotify API and decodes the JSON response into result.
//
// The credential is ensured first; when no token could be obtained the request still goes out and fails upstream.
func (s *SpotifyService) doRequest(ctx context.Context, op, endpoint string, result any) error {
	cred, ok := s.tokens.Ensure(ctx)
	if !ok {
		s.logger.Warn("no spotify token available, calling upstream anyway", "op", op)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return &UpstreamError{Service: "spotify", Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Authorization", "Bearer "+cred.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Service: "spotify", Op: op, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError("spotify", op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &UpstreamError{
			Service: "spotify",
			Op:      op,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("%w: %v", shared.ErrMalformedPayload, err),
		}
	}

	return nil
}

// SearchPlaylists searches Spotify for up to [SearchLimit] playlists matching mood as free text.
//
// Items without a name or an external Spotify URL are dropped; missing artwork becomes [PlaceholderImage].
func (s *SpotifyService) SearchPlaylists(ctx context.Context, mood string) ([]PlaylistResult, error) {
	params := url.Values{}
	params.Set("q", shared.MoodOrDefault(mood))
	params.Set("type", "playlist")
	params.Set("limit", strconv.Itoa(SearchLimit))

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, "search", "/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	return toPlaylistResults(response.Playlists.Items), nil
}

func toPlaylistResults(items []*SpotifySimplePlaylist) []PlaylistResult {
	results := make([]PlaylistResult, 0, len(items))
	for _, item := range items {
		if item == nil || item.Name == "" || item.ExternalURLs.Spotify == "" {
			continue
		}

		image := PlaceholderImage
		if len(item.Images) > 0 && item.Images[0].URL != "" {
			image = item.Images[0].URL
		}

		results = append(results, PlaylistResult{
			Name:  item.Name,
			URL:   item.ExternalURLs.Spotify,
			Image: image,
		})

		// limit is a request parameter, not a guarantee.
		if len(results) == SearchLimit {
			break
		}
	}
	return results
}
