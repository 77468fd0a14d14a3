package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ColumnMigration adds one column to an existing table.
type ColumnMigration struct {
	Table      string
	Column     string
	Definition string
}

// reportColumns lists every column added to reports after its first release,
// in the order they were introduced. Migrations are additive only.
var reportColumns = []ColumnMigration{
	{Table: "reports", Column: "notes", Definition: "TEXT"},
	{Table: "reports", Column: "photo_paths_json", Definition: "TEXT"},
	{Table: "reports", Column: "pdf_path", Definition: "TEXT"},
	{Table: "reports", Column: "user_entries_json", Definition: "TEXT"},
	{Table: "reports", Column: "delivery_state", Definition: "INTEGER DEFAULT 0"},
	{Table: "reports", Column: "latitude", Definition: "TEXT"},
	{Table: "reports", Column: "longitude", Definition: "TEXT"},
}

// RunMigrations adds any missing report columns and returns how many were added.
// A column that already exists is skipped.
func RunMigrations(ctx context.Context, database *sql.DB) (int, error) {
	applied := 0
	for _, m := range reportColumns {
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Definition)
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			if isDuplicateColumn(err) {
				continue
			}
			return applied, fmt.Errorf("failed to add column %s.%s: %w", m.Table, m.Column, err)
		}
		applied++
	}
	return applied, nil
}

func isDuplicateColumn(err error) bool {
	return strings.Contains(err.Error(), "duplicate column name")
}
