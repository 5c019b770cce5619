// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"
)

// dbCommand handles schema migrations
func dbCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Database migrations",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Run pending migrations",
				Action: r.DBMigrate,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.DBRollback,
			},
			{
				Name:   "status",
				Usage:  "List applied migrations",
				Action: r.DBStatus,
			},
		},
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the app in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// usersCommand manages accounts
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage accounts",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
				},
				Action: r.UsersAdd,
			},
			{
				Name:  "list",
				Usage: "List accounts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.UsersList,
			},
		},
	}
}

// sessionCommand is a development helper for calling the API without signing in
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Session token helpers",
		Commands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Print a signed session token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "email",
						Usage: "Email claim; also used to look up the user id",
					},
					&cli.StringFlag{
						Name:  "user-id",
						Usage: "User id claim",
					},
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "Token lifetime (defaults to session.ttl_hours)",
					},
				},
				Action: r.SessionIssue,
			},
		},
	}
}

// moviesCommand reads and edits a user's list
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "movies",
		Usage: "Read and edit a movie list",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print the watching, will watch, and already watched buckets",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
					},
				},
				Action: r.MoviesList,
			},
			{
				Name:  "add",
				Usage: "Add a movie or move it to another bucket",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "movie-id", Usage: "Catalog id of the movie", Required: true},
					&cli.StringFlag{Name: "title", Usage: "Movie title", Required: true},
					&cli.StringFlag{Name: "category", Usage: "Watching, Will Watch, or Already Watched", Required: true},
					&cli.StringFlag{Name: "poster", Usage: "Poster path"},
					&cli.StringFlag{Name: "overview", Usage: "Plot overview"},
					&cli.StringFlag{Name: "release-date", Usage: "Release date"},
					&cli.StringFlag{Name: "rating", Usage: "Average rating"},
					&cli.StringFlag{Name: "votes", Usage: "Vote count"},
					&cli.StringFlag{Name: "genre-ids", Usage: "Genre ids as a JSON array string"},
					&cli.StringFlag{Name: "description", Usage: "Free-form note"},
					&cli.StringFlag{Name: "source", Usage: "Catalog the movie came from"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.MoviesAdd,
			},
		},
	}
}

// tuiCommand launches the terminal browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse and reorganize a movie list in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Usage:    "Account email",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI runs",
				Value: "./tmp/reelist-tui.log",
			},
		},
		Action: r.TUI,
	}
}
