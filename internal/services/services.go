// package services defines the search interfaces used by the proxy gateway and implements them for HTTP APIs
//
// Spotify (client credentials), YouTube Data API v3, and the gateway itself (client side)
package services

import (
	"context"
)

const (
	// SearchLimit is the number of items requested from each upstream search.
	SearchLimit = 5

	// PlaceholderImage is used for playlists that come back without artwork.
	PlaceholderImage = "https://via.placeholder.com/150"
)

// PlaylistSearcher finds playlists matching a free-text mood.
type PlaylistSearcher interface {
	// SearchPlaylists returns at most [SearchLimit] playlists that have both a name and a URL.
	SearchPlaylists(ctx context.Context, mood string) ([]PlaylistResult, error)
}

// VideoSearcher finds music videos matching a free-text mood.
type VideoSearcher interface {
	// SearchVideos returns at most [SearchLimit] videos in upstream order.
	SearchVideos(ctx context.Context, mood string) ([]VideoResult, error)
}

// PlaylistResult is the normalized playlist shape served by /api/playlist.
type PlaylistResult struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Image string `json:"image"`
}

// VideoResult is the normalized video shape served by /api/youtube.
type VideoResult struct {
	Title     string `json:"title"`
	VideoURL  string `json:"videoUrl"`
	Thumbnail string `json:"thumbnail"`
}
