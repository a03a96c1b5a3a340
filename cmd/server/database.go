package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/taskmanager/internal/config"
	"github.com/phrazzld/taskmanager/internal/platform/migrations"
	"github.com/phrazzld/taskmanager/internal/platform/postgres"
	"github.com/phrazzld/taskmanager/internal/platform/sqlite"
	"github.com/phrazzld/taskmanager/internal/store"
	"github.com/phrazzld/taskmanager/internal/store/memory"
)

// pingTimeout bounds the connectivity check performed at startup.
const pingTimeout = 5 * time.Second

// openDatabase opens and pings the configured SQL database. It returns a nil
// *sql.DB for the memory driver.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case config.DriverMemory:
		return nil, nil
	case config.DriverPostgres:
		db, err = sql.Open("pgx", cfg.URL)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	case config.DriverSQLite:
		db, err = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", slog.String("driver", cfg.Driver))
	return db, nil
}

// newTaskStore builds the task store for the configured driver.
func newTaskStore(driver string, db *sql.DB, logger *slog.Logger) (store.TaskStore, error) {
	switch driver {
	case config.DriverMemory:
		return memory.NewTaskStore(logger), nil
	case config.DriverPostgres:
		return postgres.NewPostgresTaskStore(db, logger), nil
	case config.DriverSQLite:
		return sqlite.NewTaskStore(db, logger), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// migrationDialect maps a database driver to its migration dialect.
func migrationDialect(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres:
		return migrations.DialectPostgres, nil
	case config.DriverSQLite:
		return migrations.DialectSQLite, nil
	default:
		return "", fmt.Errorf("database driver %q does not use migrations", driver)
	}
}
