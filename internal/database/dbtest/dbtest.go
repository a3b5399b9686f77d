// Package dbtest opens migrated throwaway databases for package tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"pms/m/internal/database"
	"pms/m/internal/migrations"
)

// Open returns a migrated sqlite database living in the test's temp dir.
// The connection is closed when the test finishes.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "pms.db") + "?_time_format=sqlite"
	db, err := database.Connect(database.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Run(context.Background(), db))
	return db
}

// Idle fails the test when a connection is still checked out of the pool.
func Idle(t testing.TB, db *sqlx.DB) {
	t.Helper()
	require.Zero(t, db.Stats().InUse, "connection leaked")
}
