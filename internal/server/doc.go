// Package server provides HTTP routing, middleware, and the recommendation gateway handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering. The method check runs
// inside the middleware stack so that CORS preflight requests are answered before a 405 is considered.
//
// # Gateway
//
// [Gateway] exposes three routes:
//   - GET / : liveness text
//   - GET /api/playlist?mood= : playlists from a [services.PlaylistSearcher]
//   - GET /api/youtube?mood= : videos from a [services.VideoSearcher]
//
// A missing or empty mood means "happy". Any upstream failure becomes a 500 with a fixed JSON error body; the
// upstream status, headers and body are logged with the request ID.
//
// # Middleware
//
// [DefaultMiddleware] stacks chi's RealIP, [RequestID], [AccessLog], chi's Recoverer and [CORS].
//
// # Lifecycle
//
// [Server] applies read, write and idle timeouts and shuts down gracefully when its context is cancelled.
package server
