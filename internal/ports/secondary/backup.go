package secondary

import "context"

// DatabaseSnapshotter defines the secondary port for consistent database copies.
type DatabaseSnapshotter interface {
	// Snapshot writes a self-contained copy of the live database to dest.
	Snapshot(ctx context.Context, dest string) error
}
