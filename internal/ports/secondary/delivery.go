package secondary

import "context"

// EmailTransport defines the secondary port for sending a report by email.
type EmailTransport interface {
	// Send delivers msg. Any failure is returned as an error.
	Send(ctx context.Context, msg *EmailMessage) error

	// Name identifies the transport in logs and messages.
	Name() string
}

// EmailMessage is a single report email with one PDF attachment.
type EmailMessage struct {
	To             string
	Subject        string
	HTMLBody       string
	AttachmentPath string
}

// ArchiveStore defines the secondary port for archiving files in remote storage.
type ArchiveStore interface {
	// Upload copies the local file to remotePath ("folder/sub/file.pdf").
	Upload(ctx context.Context, localPath, remotePath string) error

	// Name identifies the store in logs and messages.
	Name() string
}
