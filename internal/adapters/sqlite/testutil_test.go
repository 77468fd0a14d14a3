// Package sqlite_test contains integration tests for SQLite repositories.
//
// Tests run against a file database in t.TempDir() opened through db.Open,
// with the authoritative schema from db.GetSchemaSQL().
package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/db"
)

// setupTestDB creates an empty database with the production schema and no seed data.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(filepath.Join(t.TempDir(), "visitas.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})
	return testDB
}

// seedClient inserts a client with its users.
func seedClient(t *testing.T, database *sql.DB, name, email string, users ...string) {
	t.Helper()
	if _, err := database.Exec("INSERT INTO clients (name, email) VALUES (?, ?)", name, email); err != nil {
		t.Fatalf("failed to seed client: %v", err)
	}
	for _, u := range users {
		if _, err := database.Exec("INSERT INTO users (name, client_name) VALUES (?, ?)", u, name); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}
}

func countRows(t *testing.T, database *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := database.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
