package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/example/fieldreport/internal/ports/secondary"
)

// Snapshotter implements secondary.DatabaseSnapshotter with VACUUM INTO.
type Snapshotter struct {
	db *sql.DB
}

// NewSnapshotter creates a snapshotter for db.
func NewSnapshotter(db *sql.DB) *Snapshotter {
	return &Snapshotter{db: db}
}

// Snapshot writes a compacted, consistent copy of the database to dest.
// dest must not exist.
func (s *Snapshotter) Snapshot(ctx context.Context, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("snapshot target %s already exists", dest)
	}
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return fmt.Errorf("failed to snapshot database: %w", err)
	}
	return nil
}

var _ secondary.DatabaseSnapshotter = (*Snapshotter)(nil)
