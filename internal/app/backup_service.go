package app

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/clock"
	"github.com/example/fieldreport/internal/ctxutil"
	"github.com/example/fieldreport/internal/ports/primary"
	"github.com/example/fieldreport/internal/ports/secondary"
)

// BackupFolder is the archive folder database copies are uploaded to.
const BackupFolder = "Backups"

// BackupServiceImpl implements the BackupService interface.
type BackupServiceImpl struct {
	snapshotter secondary.DatabaseSnapshotter
	archive     secondary.ArchiveStore
	clock       clock.Clock
	logger      *zap.Logger
}

// NewBackupService creates a new BackupService with injected dependencies.
func NewBackupService(snapshotter secondary.DatabaseSnapshotter, archive secondary.ArchiveStore, clk clock.Clock, logger *zap.Logger) *BackupServiceImpl {
	return &BackupServiceImpl{snapshotter: snapshotter, archive: archive, clock: clk, logger: logger}
}

// BackupDatabase snapshots the database to a temp file and uploads it as
// Backups/visitas_<YYYYMMDD_HHMMSS>.db.
func (s *BackupServiceImpl) BackupDatabase(ctx context.Context) primary.DeliveryResult {
	if s.archive == nil {
		return primary.DeliveryResult{Message: "archive upload is not configured"}
	}

	tmpDir, err := os.MkdirTemp("", "fieldreport-backup-")
	if err != nil {
		return primary.DeliveryResult{Message: fmt.Sprintf("backup error: %v", err)}
	}
	defer os.RemoveAll(tmpDir)

	name := fmt.Sprintf("visitas_%s.db", s.clock.Now().Format("20060102_150405"))
	local := filepath.Join(tmpDir, name)
	if err := s.snapshotter.Snapshot(ctx, local); err != nil {
		return primary.DeliveryResult{Message: fmt.Sprintf("backup error: %v", err)}
	}

	remote := path.Join(BackupFolder, name)
	if err := s.archive.Upload(ctx, local, remote); err != nil {
		s.logger.Warn("backup upload failed", append(ctxutil.Fields(ctx), zap.Error(err))...)
		return primary.DeliveryResult{Message: fmt.Sprintf("backup upload error: %v", err)}
	}

	s.logger.Info("database backed up", append(ctxutil.Fields(ctx), zap.String("remote_path", remote))...)
	return primary.DeliveryResult{OK: true, Message: fmt.Sprintf("backup uploaded: %s", remote)}
}

// Ensure BackupServiceImpl implements the interface
var _ primary.BackupService = (*BackupServiceImpl)(nil)
