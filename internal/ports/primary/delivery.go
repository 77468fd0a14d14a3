package primary

import (
	"context"

	"github.com/example/fieldreport/internal/core/visit"
)

// DeliveryService defines the primary port for report delivery.
// Channel methods never fail: every outcome is a DeliveryResult.
type DeliveryService interface {
	// SendEmail emails the PDF to recipient.
	SendEmail(ctx context.Context, pdfPath, clientName, recipient, technicianName string) DeliveryResult

	// UploadArchive copies the PDF to remote storage under the client's folder.
	UploadArchive(ctx context.Context, pdfPath, clientName string) DeliveryResult

	// DeliverVisit emails and archives a stored visit, marking it sent on email success.
	DeliverVisit(ctx context.Context, visitID int64) (*DeliveryOutcome, error)
}

// DeliveryResult is the outcome of one delivery channel.
type DeliveryResult struct {
	OK      bool
	Message string
}

// DeliveryOutcome is the outcome of delivering one visit over every channel.
type DeliveryOutcome struct {
	VisitID int64
	Email   DeliveryResult
	Archive DeliveryResult
	State   visit.DeliveryState
}

// SyncService defines the primary port for retrying pending deliveries.
type SyncService interface {
	// SyncPending retries every pending visit once.
	SyncPending(ctx context.Context) (*SyncReport, error)
}

// SyncReport summarises one reconciliation pass.
type SyncReport struct {
	Sent     int
	Total    int
	Failures []SyncFailure
}

// SyncFailure records why one pending visit was not sent.
type SyncFailure struct {
	VisitID int64
	Reason  string
}

// BackupService defines the primary port for archiving the database file.
type BackupService interface {
	// BackupDatabase uploads a copy of the database to the archive store.
	BackupDatabase(ctx context.Context) DeliveryResult
}

// ExportService defines the primary port for spreadsheet exports.
type ExportService interface {
	// ExportHistory writes every visit and the aggregate counts to path.
	ExportHistory(ctx context.Context, path string) error
}
