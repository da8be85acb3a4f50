package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/chosen/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	applied, err := shared.AppliedMigrations(db)
	if err != nil {
		return err
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Database ready at %s (schema version %d)\n", config.Database.Path, schemaVersion(applied))
	r.writePlainln("Next steps:")
	r.writePlain("1. Import your catalog with 'chosen songs import songs.json' (see 'chosen songs template')\n")
	r.writePlain("2. Import services and templates with 'chosen services import' and 'chosen templates import'\n")
	return nil
}

// SetupStatus lists the migrations recorded in the configured database.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	db, done, err := r.rawDatabase()
	if err != nil {
		return err
	}
	defer done()

	applied, err := shared.AppliedMigrations(db)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		r.writePlain("No migrations applied\n")
		return nil
	}
	for _, m := range applied {
		r.writePlain("%04d  %-24s  %s\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04"))
	}
	r.writePlain("Schema version %d\n", schemaVersion(applied))
	return nil
}

// SetupRollback reverts the newest migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, done, err := r.rawDatabase()
	if err != nil {
		return err
	}
	defer done()

	version, err := shared.RollbackMigration(db)
	if errors.Is(err, shared.ErrNoMigrations) {
		r.writePlain("Nothing to roll back\n")
		return nil
	}
	if err != nil {
		return err
	}
	r.logger.Warn("schema migration reverted", "version", version)
	r.writePlain("✓ Rolled back migration %04d\n", version)
	return nil
}

// rawDatabase returns the runner's database without running migrations.
func (r *Runner) rawDatabase() (*sql.DB, func(), error) {
	if r.db != nil {
		return r.db, func() {}, nil
	}
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, func() { db.Close() }, nil
}

func schemaVersion(applied []shared.AppliedMigration) int {
	if len(applied) == 0 {
		return -1
	}
	return applied[len(applied)-1].Version
}
