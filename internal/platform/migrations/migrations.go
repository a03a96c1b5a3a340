// Package migrations embeds the SQL schema for every supported database and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// TableName is the table goose uses to track applied migrations.
const TableName = "schema_migrations"

// Supported dialect names. They match the database driver names in config.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedded embed.FS

// Status describes one migration source and whether it has been applied.
type Status struct {
	Version   int64
	Source    string
	Applied   bool
	AppliedAt time.Time
}

// Migrator applies the embedded migrations for one dialect.
type Migrator struct {
	provider *goose.Provider
	logger   *slog.Logger
}

// NewMigrator creates a Migrator for db. The caller keeps ownership of db.
func NewMigrator(db *sql.DB, dialect string, logger *slog.Logger) (*Migrator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var gooseDialect database.Dialect
	switch dialect {
	case DialectPostgres:
		gooseDialect = database.DialectPostgres
	case DialectSQLite:
		gooseDialect = database.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
	}

	fsys, err := fs.Sub(embedded, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s migrations: %w", dialect, err)
	}

	versionStore, err := database.NewStore(gooseDialect, TableName)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration version store: %w", err)
	}

	logger = logger.With(slog.String("component", "migrator"), slog.String("dialect", dialect))
	provider, err := goose.NewProvider("", db, fsys,
		goose.WithStore(versionStore),
		goose.WithLogger(&gooseLogger{logger: logger}),
		goose.WithVerbose(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Migrator{
		provider: provider,
		logger:   logger,
	}, nil
}

// Up applies every pending migration and returns how many were applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	results, err := m.provider.Up(ctx)
	for _, r := range results {
		m.logResult(r)
	}
	if err != nil {
		return len(results), fmt.Errorf("failed to apply migrations: %w", err)
	}

	m.logger.Info("migrations applied", slog.Int("count", len(results)))
	return len(results), nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if result != nil {
		m.logResult(result)
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Status reports every known migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Status{
			Version:   s.Source.Version,
			Source:    s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

// Version returns the highest applied migration version, or 0 when none.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}
	return v, nil
}

// HasPending reports whether any migration is yet to be applied.
func (m *Migrator) HasPending(ctx context.Context) (bool, error) {
	pending, err := m.provider.HasPending(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check pending migrations: %w", err)
	}
	return pending, nil
}

func (m *Migrator) logResult(r *goose.MigrationResult) {
	attrs := []any{
		slog.Int64("version", r.Source.Version),
		slog.String("direction", r.Direction),
		slog.Duration("duration", r.Duration),
	}
	if r.Error != nil {
		m.logger.Error("migration failed", append(attrs, slog.String("error", r.Error.Error()))...)
		return
	}
	m.logger.Debug("migration applied", attrs...)
}

// gooseLogger forwards goose output to slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level instead of exiting.
func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
