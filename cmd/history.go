package main

import (
	"context"

	"github.com/desertthunder/moodtunes/internal/formatter"
	"github.com/urfave/cli/v3"
)

// History prints recorded mood changes, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	repo, closeDB, err := r.moodRepository(config)
	if err != nil {
		return err
	}
	defer closeDB()

	entries, err := repo.List(map[string]any{
		"mood":  cmd.String("mood"),
		"limit": cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	data, err := formatter.RenderHistory(entries, cmd.String("format"))
	if err != nil {
		return err
	}
	return r.write(data)
}
