// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

func prettyFlag() cli.Flag {
	return &cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output", Value: true}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create config.toml if missing, then initialize the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "List applied schema migrations",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent schema migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// transposeCommand handles key transposition
func transposeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "transpose",
		Aliases:   []string{"tr"},
		Usage:     "Calculate the transposition between two keys",
		ArgsUsage: "<from> <to>",
		Flags:     []cli.Flag{jsonFlag()},
		Action:    r.Transpose,
		Commands: []*cli.Command{
			{
				Name:      "capo",
				Usage:     "Show the key that sounds with a capo",
				ArgsUsage: "<key> <fret>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
					&cli.StringArg{Name: "fret"},
				},
				Action: r.TransposeCapo,
			},
			{
				Name:  "chart",
				Usage: "Build a transposition chart from the team's preferred keys for a song",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "song", Usage: "Song ID or title", Required: true},
					jsonFlag(),
					prettyFlag(),
				},
				Action: r.TransposeChart,
			},
		},
	}
}

// songsCommand manages the song catalog
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Song catalog operations",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import songs from a JSON or YAML file",
				ArgsUsage: "<file>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "dry-run", Usage: "Validate without saving"},
				},
				Action: r.SongsImport,
			},
			{
				Name:  "list",
				Usage: "List songs in the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tag", Usage: "Only songs with this tag"},
					&cli.StringFlag{Name: "artist", Usage: "Only songs by this artist"},
					jsonFlag(),
					prettyFlag(),
				},
				Action: r.SongsList,
			},
			{
				Name:      "suggest-tags",
				Usage:     "Suggest tags from words in a song title",
				ArgsUsage: "<title>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Action:    r.SongsSuggestTags,
			},
			{
				Name:   "template",
				Usage:  "Print an example import file",
				Action: r.SongsTemplate,
			},
		},
	}
}

// teamCommand manages worship team members
func teamCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "team",
		Usage: "Worship team operations",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import team members from a JSON or YAML file",
				ArgsUsage: "<file>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
				Action:    r.TeamImport,
			},
			{
				Name:  "list",
				Usage: "List team members",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "role", Usage: "Only members with this role"},
					jsonFlag(),
					prettyFlag(),
				},
				Action: r.TeamList,
			},
			{
				Name:  "unavailable",
				Usage: "Mark a team member unavailable for a date range",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "User ID", Required: true},
					&cli.StringFlag{Name: "from", Usage: "First unavailable date (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "to", Usage: "Last unavailable date (default: --from)"},
					&cli.StringFlag{Name: "reason", Usage: "Optional reason"},
				},
				Action: r.TeamUnavailable,
			},
		},
	}
}

// servicesCommand manages recurring services
func servicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "services",
		Usage: "Recurring service operations",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import recurring services from a JSON or YAML file",
				ArgsUsage: "<file>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
				Action:    r.ServicesImport,
			},
			{
				Name:  "list",
				Usage: "List recurring services",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "Include inactive services"},
					jsonFlag(),
					prettyFlag(),
				},
				Action: r.ServicesList,
			},
		},
	}
}

// templatesCommand manages setlist templates
func templatesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "Setlist template operations",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import setlist templates from a YAML or JSON file",
				ArgsUsage: "<file>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
				Action:    r.TemplatesImport,
			},
			{
				Name:  "list",
				Usage: "List setlist templates",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "service-type", Usage: "Only templates for this service type"},
					jsonFlag(),
					prettyFlag(),
				},
				Action: r.TemplatesList,
			},
		},
	}
}

// setlistCommand generates and shows setlists
func setlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setlist",
		Usage: "Setlist generation and export",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate a setlist for a service occurrence from a template",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "service", Usage: "Recurring service ID", Required: true},
					&cli.StringFlag{Name: "template", Usage: "Template ID or name (default: latest for the service type)"},
					&cli.StringFlag{Name: "date", Usage: "Service date YYYY-MM-DD (default: next occurrence)"},
					&cli.Uint64Flag{Name: "seed", Usage: "Random seed (default: [composer] seed, 0 for entropy)"},
					&cli.BoolFlag{Name: "adjust", Usage: "Use the musical director's preferred keys"},
					&cli.BoolFlag{Name: "optimize", Usage: "Order songs within sections for smooth key changes"},
					&cli.BoolFlag{Name: "unique", Usage: "Never repeat a song across sections"},
					&cli.BoolFlag{Name: "dry-run", Usage: "Print without saving"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format: markdown, text, csv, json", Value: "text"},
				},
				Action: r.SetlistGenerate,
			},
			{
				Name:      "show",
				Usage:     "Show or export a saved setlist",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format: markdown, text, csv, json", Value: "markdown"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to a file instead of stdout"},
					&cli.BoolFlag{Name: "save", Usage: "Write to setlist_{date}.{ext}"},
				},
				Action: r.SetlistShow,
			},
		},
	}
}

// scheduleCommand answers scheduling questions
func scheduleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "Recurring service scheduling and reminders",
		Commands: []*cli.Command{
			{
				Name:      "next",
				Usage:     "Show a service's next occurrence and reminder dates",
				ArgsUsage: "<serviceID>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "service"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ScheduleNext,
			},
			{
				Name:  "notify",
				Usage: "Plan and save upcoming reminders",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "weeks", Usage: "Weekly checkpoints to scan (default: [scheduler] weeks_ahead)"},
					&cli.BoolFlag{Name: "dry-run", Usage: "Print without saving"},
				},
				Action: r.ScheduleNotify,
			},
			{
				Name:   "active",
				Usage:  "List pending reminders due within a week",
				Flags:  []cli.Flag{jsonFlag(), prettyFlag()},
				Action: r.ScheduleActive,
			},
			{
				Name:   "overdue",
				Usage:  "List services whose next setlist is overdue",
				Action: r.ScheduleOverdue,
			},
		},
	}
}

// daemonCommand runs the reminder sweeper
func daemonCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "daemon",
		Usage: "Sweep and dispatch reminders on a schedule until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "spec", Usage: "Cron spec (default: [scheduler] sweep_spec)"},
			&cli.BoolFlag{Name: "once", Usage: "Run a single sweep and exit"},
		},
		Action: r.Daemon,
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the read-only scheduling API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default: [server] host:port)"},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the dashboard
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive dashboard of upcoming services",
		Action: r.TUI,
	}
}
