// Package archive mirrors generated files into a local directory tree.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/fieldreport/internal/ports/secondary"
)

// LocalStore implements secondary.ArchiveStore on the filesystem, e.g. a
// synced OneDrive or network share folder.
type LocalStore struct {
	root string
}

// NewLocalStore archives under root.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Name identifies the store.
func (s *LocalStore) Name() string { return "local" }

// Upload copies localPath to root/remotePath, creating folders as needed.
func (s *LocalStore) Upload(ctx context.Context, localPath, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(remotePath, "/")))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid archive path %q", remotePath)
	}
	dest := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create archive folder: %w", err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer src.Close()

	tmp := dest + ".part"
	dst, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to copy to archive: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write archive file: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("failed to finalize archive file: %w", err)
	}
	return nil
}

var _ secondary.ArchiveStore = (*LocalStore)(nil)
