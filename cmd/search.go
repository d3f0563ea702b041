package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moodtunes/internal/formatter"
	"github.com/desertthunder/moodtunes/internal/services"
	"github.com/desertthunder/moodtunes/internal/shared"
	"github.com/urfave/cli/v3"
)

// SearchPlaylists asks the gateway for playlists matching --mood.
func (r *Runner) SearchPlaylists(ctx context.Context, cmd *cli.Command) error {
	return r.search(cmd, func(api *services.APIService, rec *formatter.Recommendations) error {
		playlists, err := api.SearchPlaylists(ctx, cmd.String("mood"))
		rec.Playlists = playlists
		return err
	})
}

// SearchVideos asks the gateway for music videos matching --mood.
func (r *Runner) SearchVideos(ctx context.Context, cmd *cli.Command) error {
	return r.search(cmd, func(api *services.APIService, rec *formatter.Recommendations) error {
		videos, err := api.SearchVideos(ctx, cmd.String("mood"))
		rec.Videos = videos
		return err
	})
}

func (r *Runner) search(cmd *cli.Command, fetch func(*services.APIService, *formatter.Recommendations) error) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	mood := cmd.String("mood")
	rec := formatter.Recommendations{Mood: shared.MoodOrDefault(mood)}

	r.logger.Debug("searching gateway", "mood", rec.Mood, "gateway", config.Client.GatewayURL)
	if err := fetch(r.gatewayClient(config), &rec); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	data, err := formatter.Render(rec, cmd.String("format"))
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(data, path); err != nil {
			return err
		}
		r.logger.Info("results written", "path", path)
		return nil
	}
	return r.write(data)
}
