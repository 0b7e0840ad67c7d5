// Package dbtest opens throwaway sqlite databases carrying the tables the
// service reads, for use in tests.
package dbtest

import (
	"database/sql"
	"testing"

	"baakh/internal/database"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Schema mirrors the managed Postgres tables closely enough for the queries
// in the repositories package.
const Schema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    full_name TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT 'editor',
    is_active BOOLEAN NOT NULL DEFAULT 1,
    last_login TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE romanizer (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    word TEXT NOT NULL,
    correction TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP
);
CREATE TABLE audit_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    action TEXT NOT NULL,
    user_id TEXT,
    resource TEXT,
    details TEXT,
    ip_address TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// Open returns an in-memory database with Schema applied. It is closed when
// the test ends.
func Open(t testing.TB) *database.DB {
	t.Helper()
	raw, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { raw.Close() })

	_, err = raw.Exec(Schema)
	require.NoError(t, err)
	return database.Wrap(raw, database.DialectSQLite)
}
