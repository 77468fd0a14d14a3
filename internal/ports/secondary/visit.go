package secondary

import (
	"context"
	"errors"

	"github.com/example/fieldreport/internal/core/visit"
)

// ErrNotFound is wrapped by repositories when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// VisitRepository defines the secondary port for visit report persistence.
// Every call is atomic on its own; no transaction spans two calls.
type VisitRepository interface {
	// Create inserts a visit and returns its assigned ID.
	Create(ctx context.Context, record *VisitRecord) (int64, error)

	// Update overwrites every mutable field of an existing visit.
	Update(ctx context.Context, record *VisitRecord) error

	// GetByID retrieves a visit by its ID.
	GetByID(ctx context.Context, id int64) (*VisitRecord, error)

	// SetDeliveryState updates only the delivery state of a visit.
	SetDeliveryState(ctx context.Context, id int64, state visit.DeliveryState) error

	// List retrieves all visits, most recent ID first.
	List(ctx context.Context) ([]*VisitRecord, error)

	// ListPending retrieves the visits still waiting for email delivery.
	ListPending(ctx context.Context) ([]*PendingVisit, error)

	// Count returns the number of stored visits.
	Count(ctx context.Context) (int, error)

	// CountByClient returns visit counts grouped by client, largest first.
	CountByClient(ctx context.Context) ([]*GroupCount, error)

	// CountByTechnician returns visit counts grouped by technician, largest first.
	CountByTechnician(ctx context.Context) ([]*GroupCount, error)
}

// VisitRecord represents a visit as stored in persistence.
type VisitRecord struct {
	ID             int64
	Timestamp      string
	ClientName     string
	TechnicianName string
	Notes          string
	PhotoPaths     []string
	PDFPath        string
	UserEntries    []visit.UserEntry
	DeliveryState  visit.DeliveryState
	Latitude       string
	Longitude      string
}

// PendingVisit is the projection used by the sync reconciler.
type PendingVisit struct {
	ID             int64
	PDFPath        string
	ClientName     string
	TechnicianName string
}

// GroupCount is one row of an aggregate query.
type GroupCount struct {
	Name  string
	Count int
}
