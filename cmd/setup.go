package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/desertthunder/reelist/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the config file when missing, then initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if !r.fixedConfig {
		if _, err := os.Stat(r.configPath); err != nil {
			r.logger.Info("config file not found, creating from template", "path", r.configPath)
			if err := shared.CreateConfigFile(r.configPath); err != nil {
				r.logger.Warn("failed to create config file, using defaults", "error", err)
			} else if config, err := shared.LoadConfig(r.configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
			} else {
				r.config = config
				if err := r.config.ApplyEnv(".env"); err != nil {
					return err
				}
				r.logger.Info("config file created", "path", r.configPath)
			}
		}
	}

	r.logger.Info("initializing database", "driver", r.config.Database.Driver, "path", r.config.Database.Path)

	db, err := r.database()
	if err != nil {
		return err
	}

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.printMigrations(db)
}

// rawDatabase opens the configured database without running migrations.
func (r *Runner) rawDatabase() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database.Driver, r.config.Database.Path)
	if err != nil {
		return nil, err
	}
	if r.config.Database.MaxOpenConns > 0 {
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	}
	r.db, r.ownsDB = db, true
	return db, nil
}

// DBMigrate runs pending migrations.
func (r *Runner) DBMigrate(ctx context.Context, cmd *cli.Command) error {
	db, err := r.rawDatabase()
	if err != nil {
		return err
	}

	r.logger.Info("running database migrations", "path", r.config.Database.Path)
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return r.printMigrations(db)
}

// DBRollback rolls back the most recent migration.
func (r *Runner) DBRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.rawDatabase()
	if err != nil {
		return err
	}

	version, err := shared.RollbackMigration(db)
	if err != nil {
		return err
	}

	r.logger.Info("rolled back migration", "version", version)
	return r.writePlain("✓ Rolled back migration %04d\n", version)
}

// DBStatus lists applied migrations.
func (r *Runner) DBStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.rawDatabase()
	if err != nil {
		return err
	}
	return r.printMigrations(db)
}

func (r *Runner) printMigrations(db *sql.DB) error {
	applied, err := shared.AppliedMigrations(db)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		return r.writePlain("No migrations applied\n")
	}

	r.writePlainHeader(fmt.Sprintf("Applied migrations (%d)", len(applied)))
	for _, m := range applied {
		r.writePlain("  %04d  applied %s\n", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
