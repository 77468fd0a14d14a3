package graph

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/ports/secondary"
)

// DriveStore implements secondary.ArchiveStore on a Graph drive (SharePoint library).
type DriveStore struct {
	client  *Client
	driveID string
}

// NewDriveStore uploads into the given drive.
func NewDriveStore(client *Client, driveID string) *DriveStore {
	return &DriveStore{client: client, driveID: driveID}
}

// Name identifies the store.
func (s *DriveStore) Name() string { return "graph-drive" }

// Upload PUTs the file at remotePath under the drive root. Missing folders are
// created by Graph.
func (s *DriveStore) Upload(ctx context.Context, localPath, remotePath string) error {
	raw, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", localPath, err)
	}

	req, err := s.client.idempotentRequest(ctx)
	if err != nil {
		return err
	}
	var apiErr apiError
	resp, err := req.
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(raw).
		SetError(&apiErr).
		Put(fmt.Sprintf("/drives/%s/root:/%s:/content", url.PathEscape(s.driveID), escapePath(remotePath)))
	if err != nil {
		return fmt.Errorf("failed to upload to graph drive: %w", err)
	}
	if err := checkResponse(resp, "graph upload", &apiErr); err != nil {
		return err
	}

	s.client.logger.Info("file archived",
		zap.String("store", s.Name()),
		zap.String("remote_path", remotePath),
		zap.Int("bytes", len(raw)),
	)
	return nil
}

// escapePath escapes each segment of a slash-separated path.
func escapePath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

var _ secondary.ArchiveStore = (*DriveStore)(nil)
