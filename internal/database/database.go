package database

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Supported driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// Connect opens a database for the given driver and DSN and verifies it with a ping.
func Connect(driver, dsn string) (*sqlx.DB, error) {
	driver = NormalizeDriver(driver)
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// A single connection serialises writers; sqlite would otherwise return SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
	}
	return db, nil
}

// NormalizeDriver maps user-facing aliases onto registered driver names.
func NormalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite
	case "pgx", "postgres", "postgresql":
		return DriverPostgres
	case "mysql":
		return DriverMySQL
	default:
		return driver
	}
}

// InsertID runs an INSERT written with ? placeholders and returns the generated key.
// Postgres has no LastInsertId support, so the key is read back with RETURNING there.
func InsertID(ctx context.Context, q sqlx.ExtContext, query, idColumn string, args ...any) (int64, error) {
	if q.DriverName() == DriverPostgres {
		var id int64
		err := sqlx.GetContext(ctx, q, &id, q.Rebind(query+" RETURNING "+idColumn), args...)
		return id, err
	}
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Exec rebinds a ? placeholder statement for the driver and reports the affected row count.
func Exec(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
