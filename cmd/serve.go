package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/moodtunes/internal/server"
	"github.com/desertthunder/moodtunes/internal/services"
	"github.com/desertthunder/moodtunes/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the recommendation gateway until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if port := cmd.Int("port"); port > 0 {
		config.Server.Port = port
	}

	logger := shared.WithLogger(r.logger, "component", "server")

	// The gateway never queries the database. It is only checked at boot.
	if db, err := shared.OpenDatabase(config.Database); err != nil {
		logger.Warn("database unavailable", "path", config.Database.Path, "error", err)
	} else {
		logger.Info("database connected", "path", config.Database.Path)
		db.Close()
	}

	handler, err := r.buildGateway(ctx, config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(config.Server.Addr(), handler, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// buildGateway wires the upstream clients behind one rate-limited transport and returns the routed handler.
func (r *Runner) buildGateway(ctx context.Context, config *shared.Config) (http.Handler, error) {
	creds := config.Credentials
	for _, err := range creds.Missing() {
		r.logger.Warn("searches will fail upstream", "error", err)
	}

	transport := services.NewRateLimitedTransport(config.Upstream.RateLimit, config.Upstream.Burst, http.DefaultTransport)
	client := &http.Client{Transport: transport}

	tokens := services.NewTokenRefresher(services.TokenRefresherOpts{
		ClientID:     creds.Spotify.ClientID,
		ClientSecret: creds.Spotify.ClientSecret,
		TokenURL:     creds.Spotify.TokenURL,
		HTTPClient:   client,
		Logger:       shared.WithLogger(r.logger, "component", "token"),
	})
	spotify := services.NewSpotifyService(creds.Spotify.APIURL, tokens, client, shared.WithLogger(r.logger, "component", "spotify"))

	youtube, err := services.NewYouTubeService(ctx, services.YouTubeOpts{
		APIKey:    creds.YouTube.APIKey,
		Endpoint:  creds.YouTube.Endpoint,
		Transport: transport,
		Logger:    shared.WithLogger(r.logger, "component", "youtube"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}

	r.logger.Info("upstreams configured", "playlists", spotify.Name(), "videos", youtube.Name())

	gateway := server.NewGateway(spotify, youtube, shared.WithLogger(r.logger, "component", "gateway"))
	return server.NewGatewayRouter(gateway, shared.WithLogger(r.logger, "component", "http"), config.Server.AllowedOrigins), nil
}
