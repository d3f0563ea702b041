package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodtunes/internal/services"
	"github.com/desertthunder/moodtunes/internal/shared"
)

const (
	livenessMessage   = "Backend server is running!"
	playlistFailedMsg = "Failed to fetch playlist."
	videosFailedMsg   = "Failed to fetch YouTube videos."
)

// ErrorResponse is the JSON body of every failed gateway route.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Gateway serves mood-based recommendations by proxying the playlist and video searchers.
//
// Upstream diagnostics are logged and never returned to the caller.
type Gateway struct {
	playlists services.PlaylistSearcher
	videos    services.VideoSearcher
	logger    *log.Logger
}

// NewGateway creates a [Gateway] over the given searchers.
func NewGateway(playlists services.PlaylistSearcher, videos services.VideoSearcher, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Gateway{playlists: playlists, videos: videos, logger: logger}
}

// Register mounts the gateway routes on r.
func (g *Gateway) Register(r Router) {
	r.Handle(http.MethodGet, "/{$}", http.HandlerFunc(g.Liveness))
	r.Handle(http.MethodGet, "/api/playlist", http.HandlerFunc(g.Playlists))
	r.Handle(http.MethodGet, "/api/youtube", http.HandlerFunc(g.Videos))
}

// Liveness handles GET /.
func (g *Gateway) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(livenessMessage))
}

// Playlists handles GET /api/playlist?mood=.
func (g *Gateway) Playlists(w http.ResponseWriter, r *http.Request) {
	mood := shared.MoodOrDefault(r.URL.Query().Get("mood"))

	results, err := g.playlists.SearchPlaylists(r.Context(), mood)
	if err != nil {
		g.logUpstream(r, "error fetching playlist", mood, err)
		g.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: playlistFailedMsg})
		return
	}

	if results == nil {
		results = []services.PlaylistResult{}
	}
	g.writeJSON(w, http.StatusOK, results)
}

// Videos handles GET /api/youtube?mood=.
func (g *Gateway) Videos(w http.ResponseWriter, r *http.Request) {
	mood := shared.MoodOrDefault(r.URL.Query().Get("mood"))

	results, err := g.videos.SearchVideos(r.Context(), mood)
	if err != nil {
		g.logUpstream(r, "error fetching youtube videos", mood, err)
		g.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: videosFailedMsg})
		return
	}

	if results == nil {
		results = []services.VideoResult{}
	}
	g.writeJSON(w, http.StatusOK, results)
}

func (g *Gateway) logUpstream(r *http.Request, msg, mood string, err error) {
	logger := g.logger.With("request_id", RequestIDFrom(r.Context()), "mood", mood)

	if ue, ok := services.AsUpstream(err); ok {
		logger.Error(msg, ue.KeyVals()...)
		return
	}
	logger.Error(msg, "error", err)
}

func (g *Gateway) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		g.logger.Warn("failed to write response", "error", err)
	}
}

// NewGatewayRouter builds the gateway's root handler with the default middleware stack.
func NewGatewayRouter(g *Gateway, logger *log.Logger, origins []string) *BasicRouter {
	r := NewBasicRouter()
	r.Use(DefaultMiddleware(logger, origins)...)
	g.Register(r)
	return r
}
