package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodtunes/internal/mood"
	"github.com/desertthunder/moodtunes/internal/shared"
	"github.com/desertthunder/moodtunes/internal/ui"
	"github.com/urfave/cli/v3"
)

// Watch launches the interactive terminal UI backed by a mood detection session.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	replay := cmd.String("replay")
	if replay == "" {
		replay = config.Client.ReplayPath
	}
	if replay == "" {
		return fmt.Errorf("%w: no camera source, pass --replay or set client.replay_path", shared.ErrMissingArgument)
	}

	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = config.Client.Interval()
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, config.Log.Level)
	r.SetLogger(fileLogger)

	var recorder mood.Recorder
	repo, closeDB, err := r.moodRepository(config)
	if err != nil {
		r.logger.Warn("mood history disabled", "error", err)
	} else {
		defer closeDB()
		recorder = repo
	}

	sink := ui.NewSink()
	session := mood.NewSession(mood.SessionOpts{
		Camera:   mood.NewReplayCamera(replay),
		Detector: mood.ReplayDetector{},
		Fetcher:  r.gatewayClient(config),
		Recorder: recorder,
		Observer: sink.Observe,
		Interval: interval,
		Logger:   shared.WithLogger(r.logger, "component", "session"),
	})
	defer session.Stop()
	defer sink.Close()

	r.logger.Info("starting tui", "replay", replay, "interval", interval, "gateway", config.Client.GatewayURL)

	p := tea.NewProgram(ui.NewModel(ctx, session, sink), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
