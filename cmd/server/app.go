package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskmanager/internal/config"
	"github.com/phrazzld/taskmanager/internal/generator"
	"github.com/phrazzld/taskmanager/internal/service"
	"github.com/phrazzld/taskmanager/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory driver.
	db *sql.DB

	taskStore   store.TaskStore
	taskService service.TaskService

	// generator is nil when disabled in config.
	generator *generator.Generator
}

// newApplication creates a new application instance with all dependencies
// initialized: database connection, schema, store, service and generator.
// On error everything opened so far is released.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	app := &application{
		config: cfg,
		logger: logger,
	}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	app.db, err = openDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if app.db != nil && cfg.Database.AutoMigrate {
		if err := autoMigrate(ctx, app.db, cfg.Database.Driver, logger); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	app.taskStore, err = newTaskStore(cfg.Database.Driver, app.db, logger)
	if err != nil {
		return nil, err
	}

	app.taskService, err = service.NewTaskService(app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	if cfg.Generator.Enabled {
		genCfg := generator.DefaultConfig()
		if cfg.Generator.Interval > 0 {
			genCfg.Interval = cfg.Generator.Interval
		}
		app.generator, err = generator.New(app.taskService, genCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create task generator: %w", err)
		}
	}

	return app, nil
}

// cleanup releases resources held by the application. It is safe to call
// more than once.
func (app *application) cleanup() {
	if app.generator != nil {
		app.generator.Stop()
	}
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
	} else {
		app.logger.Info("database connection closed")
	}
	app.db = nil
}
