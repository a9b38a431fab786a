// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand writes the config file and prepares the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml when missing, initialize the database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// submitCommand starts onboarding for a new profile.
func submitCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "Submit a Letterboxd profile and wait until its recommendations are ready",
		ArgsUsage: "<profile-url-or-username>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "profile"},
		},
		Action: r.Submit,
	}
}

// resumeCommand continues onboarding for the saved profile.
func resumeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "resume",
		Usage:  "Resume the saved profile, polling until it is ready",
		Action: r.Resume,
	}
}

// statusCommand performs a single status check.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check the onboarding status of the saved profile once",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Status,
	}
}

// recommendationsCommand handles the recommendation set of the saved profile.
func recommendationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommendations",
		Aliases: []string{"recs"},
		Usage:   "Recommendations for the saved profile",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recommendations grouped into sections",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort order: default, rating, year or title",
						Value: r.config.UI.DefaultSort,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, markdown, csv or json",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.RecommendationsList,
			},
			{
				Name:      "show",
				Usage:     "Show every attribute of one recommendation",
				ArgsUsage: "<imdb_id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "poster",
						Usage: "Download the poster image to this path",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the IMDb page in the browser",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RecommendationsShow,
			},
			{
				Name:   "regenerate",
				Usage:  "Ask the service for a fresh set of recommendations",
				Action: r.RecommendationsRegenerate,
			},
		},
	}
}

// identityCommand manages the saved profile.
func identityCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "identity",
		Usage: "Manage the saved Letterboxd profile",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the saved profile",
				Action: r.IdentityShow,
			},
			{
				Name:   "clear",
				Usage:  "Forget the saved profile",
				Action: r.IdentityClear,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive TUI",
		Action:  r.TUI,
	}
}

// stubCommand serves a local stand-in of the recommendation API.
func stubCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stub",
		Usage: "Serve a local stand-in of the recommendation API for offline development",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to stub.host:stub.port)",
			},
			&cli.IntFlag{
				Name:  "steps",
				Usage: "Status checks spent in each processing stage",
				Value: r.config.Stub.Steps,
			},
			&cli.StringSliceFlag{
				Name:  "not-found",
				Usage: "Identifier reported as missing (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "status",
				Usage: "Fixed status for an identifier as id=status (repeatable)",
			},
		},
		Action: r.Stub,
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the recommendation service",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with an optional JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON body to send",
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
