package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelist/internal/movies"
	"github.com/desertthunder/reelist/internal/repositories"
	"github.com/desertthunder/reelist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	fixedConfig bool
	logger      *log.Logger
	output      io.Writer
	db          *sql.DB
	ownsDB      bool
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as-is and the --config flag is ignored. A non-nil DB is used instead
// of opening the configured database.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	fixed := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		fixedConfig: fixed,
		logger:      opts.Logger,
		output:      opts.Output,
		db:          opts.DB,
	}
}

func (r *Runner) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
		},
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, dbCommand, serveCommand, usersCommand, sessionCommand, moviesCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config, applies .env and environment overrides,
// and sets the log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if !r.fixedConfig {
		if _, err := os.Stat(r.configPath); err == nil {
			config, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return ctx, err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}

		if err := r.config.ApplyEnv(".env"); err != nil {
			return ctx, err
		}
	}

	shared.SetLogLevel(r.logger, r.config.Log.Level)
	if level := cmd.String("log-level"); level != "" {
		shared.SetLogLevel(r.logger, level)
	}
	return ctx, nil
}

// SetLogger swaps the logger, e.g. to keep log output off the terminal while the TUI runs.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// database opens, configures, and migrates the configured database on first use.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.Connect(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", r.config.Database.Path, err)
	}
	r.db, r.ownsDB = db, true
	return db, nil
}

// Close releases the database when the runner opened it.
func (r *Runner) Close() error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db, r.ownsDB = nil, false
	return err
}

// listServices wires the list reader and writer over the configured database.
type listServices struct {
	users  *repositories.UserRepository
	reader *movies.Reader
	writer *movies.Writer
}

func (r *Runner) services() (*listServices, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}

	users := repositories.NewUserRepository(db)
	entries := repositories.NewListEntryRepository(db)
	return &listServices{
		users:  users,
		reader: movies.NewReader(entries, shared.WithLogger(r.logger, "component", "reader")),
		writer: movies.NewWriter(users, entries, shared.WithLogger(r.logger, "component", "writer"), movies.WriterConfig{
			StrictCategories: r.config.Catalog.StrictCategories,
			DefaultSource:    r.config.Catalog.DefaultSource,
		}),
	}, nil
}

// userByEmail looks up the account for a --email flag.
func (s *listServices) userByEmail(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("%w: --email is required", shared.ErrMissingArgument)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return "", fmt.Errorf("%w: no account for %s (add one with 'reelist users add')", shared.ErrUserNotFound, email)
		}
		return "", err
	}
	return user.ID, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
