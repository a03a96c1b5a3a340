package migrations_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/phrazzld/taskmanager/internal/platform/migrations"
	"github.com/phrazzld/taskmanager/internal/platform/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.Open("file:" + filepath.Join(t.TempDir(), "migrations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

func TestMigratorLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	m, err := migrations.NewMigrator(db, migrations.DialectSQLite, nil)
	require.NoError(t, err)

	pending, err := m.HasPending(ctx)
	require.NoError(t, err)
	assert.True(t, pending)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.True(t, tableExists(t, db, "tasks"))
	assert.True(t, tableExists(t, db, migrations.TableName))

	version, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Applied)
	assert.Equal(t, int64(1), statuses[0].Version)

	applied, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Zero(t, applied, "second Up should be a no-op")

	require.NoError(t, m.Down(ctx))
	assert.False(t, tableExists(t, db, "tasks"))

	version, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)
}

func TestNewMigratorUnknownDialect(t *testing.T) {
	_, err := migrations.NewMigrator(openSQLite(t), "oracle", nil)
	assert.Error(t, err)
}
