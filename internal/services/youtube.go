// YouTube Data API v3 implementation of [VideoSearcher]
//
// Uses the generated google.golang.org/api client with API key authentication.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodtunes/internal/shared"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const youtubeWatchURL = "https://www.youtube.com/watch?v="

// YouTubeOpts contains configuration options for creating a [YouTubeService].
type YouTubeOpts struct {
	APIKey    string
	Endpoint  string            // Base URL of the API; empty selects the library default
	Transport http.RoundTripper // Base transport; the API key is added on top of it
	Logger    *log.Logger
}

// YouTubeService implements [VideoSearcher] with the YouTube Data API.
type YouTubeService struct {
	client *youtube.Service
	logger *log.Logger
}

// NewYouTubeService creates a YouTube search client. Requests carry the API key as the "key" query parameter.
func NewYouTubeService(ctx context.Context, opts YouTubeOpts) (*YouTubeService, error) {
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	httpClient := &http.Client{
		Transport: &transport.APIKey{Key: opts.APIKey, Transport: opts.Transport},
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	client, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}

	return &YouTubeService{client: client, logger: opts.Logger}, nil
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// SearchVideos searches for up to [SearchLimit] videos matching "<mood> music".
//
// Every returned item is mapped. An item without an id, snippet or medium thumbnail makes the whole
// search fail with [shared.ErrMalformedPayload].
func (y *YouTubeService) SearchVideos(ctx context.Context, mood string) ([]VideoResult, error) {
	call := y.client.Search.List([]string{"snippet"}).
		Q(shared.MoodOrDefault(mood) + " music").
		MaxResults(SearchLimit).
		Type("video").
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, youtubeError(err)
	}

	videos := make([]VideoResult, 0, len(resp.Items))
	for i, item := range resp.Items {
		if i == SearchLimit {
			break
		}

		if item == nil || item.Id == nil || item.Snippet == nil ||
			item.Snippet.Thumbnails == nil || item.Snippet.Thumbnails.Medium == nil {
			return nil, &UpstreamError{
				Service: "youtube",
				Op:      "search",
				Status:  resp.HTTPStatusCode,
				Header:  resp.Header,
				Err:     fmt.Errorf("%w: item %d lacks id, snippet or medium thumbnail", shared.ErrMalformedPayload, i),
			}
		}

		videos = append(videos, VideoResult{
			Title:     item.Snippet.Title,
			VideoURL:  youtubeWatchURL + item.Id.VideoId,
			Thumbnail: item.Snippet.Thumbnails.Medium.Url,
		})
	}

	return videos, nil
}

func youtubeError(err error) error {
	ue := &UpstreamError{Service: "youtube", Op: "search", Err: err}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		ue.Status = gerr.Code
		ue.Header = gerr.Header
		ue.Body = gerr.Body
	}

	return ue
}
