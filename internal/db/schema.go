package db

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
// Databases created by older releases are brought up to date by RunMigrations,
// which only ever adds columns to reports.
//
// Tests load this via GetSchemaSQL() instead of declaring their own tables.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS clients (
	name TEXT PRIMARY KEY,
	email TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS technicians (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	client_name TEXT NOT NULL,
	FOREIGN KEY (client_name) REFERENCES clients(name) ON DELETE CASCADE,
	UNIQUE(name, client_name)
);

CREATE INDEX IF NOT EXISTS idx_users_client ON users(client_name);

CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	client TEXT NOT NULL,
	technician TEXT NOT NULL,
	notes TEXT,
	photo_paths_json TEXT,
	pdf_path TEXT,
	user_entries_json TEXT,
	delivery_state INTEGER DEFAULT 0,
	latitude TEXT,
	longitude TEXT
);
`

const reportIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_reports_delivery_state ON reports(delivery_state);
CREATE INDEX IF NOT EXISTS idx_reports_client ON reports(client);
`

// Initialize creates missing tables, adds missing report columns and seeds the
// default directory. It is safe to call on every start.
func Initialize(ctx context.Context, database *sql.DB) error {
	if _, err := database.ExecContext(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := RunMigrations(ctx, database); err != nil {
		return err
	}

	// Indexes reference migrated columns, so they come after RunMigrations.
	if _, err := database.ExecContext(ctx, reportIndexesSQL); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return SeedDefaults(ctx, database)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
