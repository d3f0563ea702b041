// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/moodtunes/internal/formatter"
	"github.com/urfave/cli/v3"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (" + strings.Join(formatter.Formats, ", ") + ")",
		Value:   formatter.FormatText,
	}
}

// serveCommand runs the proxy gateway
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the recommendation gateway (GET /api/playlist, GET /api/youtube)",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config and PORT)",
			},
		},
		Action: r.Serve,
	}
}

// watchCommand runs the terminal client with the mood detector
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Detect your mood and browse recommendations in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "replay",
				Usage: "JSON-lines file of recorded expression frames to use as the camera",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Sampling interval (defaults to client.sample_interval)",
			},
		},
		Action: r.Watch,
	}
}

// searchCommand calls the gateway once and prints what it returns
func searchCommand(r *Runner) *cli.Command {
	flags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:    "mood",
				Aliases: []string{"m"},
				Usage:   "Mood to search for (the gateway defaults to happy)",
			},
			formatFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
		}
	}

	return &cli.Command{
		Name:  "search",
		Usage: "Query the gateway for recommendations",
		Commands: []*cli.Command{
			{
				Name:   "playlists",
				Usage:  "Search playlists for a mood",
				Flags:  flags(),
				Action: r.SearchPlaylists,
			},
			{
				Name:   "videos",
				Usage:  "Search music videos for a mood",
				Flags:  flags(),
				Action: r.SearchVideos,
			},
		},
	}
}

// historyCommand lists recorded mood changes
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded mood changes, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of entries",
				Value:   20,
			},
			&cli.StringFlag{
				Name:    "mood",
				Aliases: []string{"m"},
				Usage:   "Only show this mood",
			},
			formatFlag(),
		},
		Action: r.History,
	}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
		},
	}
}
