package main

import (
	"context"
	"os"

	"github.com/desertthunder/reelist/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})
	defer runner.Close()

	app := &cli.Command{
		Name:     "reelist",
		Usage:    "Keep track of what you're watching, what's next, and what you've seen",
		Version:  "0.1.0",
		Flags:    runner.flags(),
		Before:   runner.Before,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml if missing, initialize the database, and run migrations",
		Action: r.SetupDatabase,
	}
}
