package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/taskmanager/internal/config"
	"github.com/phrazzld/taskmanager/internal/platform/migrations"
)

// runMigrations executes a migrate subcommand against the configured
// database and prints its result to out.
func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger, action string, out io.Writer) error {
	dialect, err := migrationDialect(cfg.Database.Driver)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}()

	return executeMigration(ctx, db, dialect, logger, action, out)
}

func executeMigration(
	ctx context.Context,
	db *sql.DB,
	dialect string,
	logger *slog.Logger,
	action string,
	out io.Writer,
) error {
	m, err := migrations.NewMigrator(db, dialect, logger)
	if err != nil {
		return err
	}

	switch action {
	case migrateUp:
		n, err := m.Up(ctx)
		if err != nil {
			return err
		}
		writeLine(out, "applied %d migration(s)", n)
	case migrateDown:
		if err := m.Down(ctx); err != nil {
			return err
		}
		writeLine(out, "rolled back one migration")
	case migrateStatus:
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied " + s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
			}
			writeLine(out, "%05d  %-30s  %s", s.Version, s.Source, state)
		}
	case migrateVersion:
		v, err := m.Version(ctx)
		if err != nil {
			return err
		}
		writeLine(out, "%d", v)
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}
	return nil
}

// autoMigrate applies pending migrations at startup when enabled.
func autoMigrate(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) error {
	dialect, err := migrationDialect(driver)
	if err != nil {
		return err
	}

	m, err := migrations.NewMigrator(db, dialect, logger)
	if err != nil {
		return err
	}

	pending, err := m.HasPending(ctx)
	if err != nil {
		return err
	}
	if !pending {
		logger.Debug("database schema is up to date")
		return nil
	}

	_, err = m.Up(ctx)
	return err
}
