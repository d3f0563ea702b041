// Package services defines the search interfaces behind the recommendation gateway and implements them for
// Spotify, YouTube and the gateway itself.
//
// # Search Interfaces
//
// [PlaylistSearcher] and [VideoSearcher] take a free-text mood and return normalized results. Each search
// asks its upstream for at most [SearchLimit] items.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the client-credentials grant. The [TokenRefresher] performs the
// exchange through [clientcredentials.Config] and stores the bearer token plus its expiry in a
// [CredentialCache]. A search reuses the cached token until its expiry and refreshes it synchronously
// afterwards. A failed refresh is logged and the search proceeds without a usable token, so the upstream
// call fails on its own terms.
//
// Playlists without a name or an external URL are dropped. Missing artwork becomes [PlaceholderImage].
//
// # YouTube Implementation
//
// [YouTubeService] wraps the generated youtube/v3 client. The API key travels as the "key" query
// parameter through [transport.APIKey]. Results keep upstream order and link to the public watch page.
//
// # Gateway Client
//
// [APIService] calls /api/playlist and /api/youtube on a running server. The watch UI uses it when a
// gateway URL is configured.
//
// # Error Handling
//
// Every upstream failure is an [*UpstreamError] carrying status, headers and body for server-side
// logging. It unwraps to [shared.ErrAPIRequest] and, where relevant, to:
//   - [shared.ErrAuthFailed] : token exchange rejected or unreachable
//   - [shared.ErrMalformedPayload] : upstream body could not be decoded or mapped
//
// # Rate Limiting
//
// [RateLimitedTransport] throttles outgoing requests with a shared token bucket ([rate.Limiter]).
package services
