package primary

import (
	"context"

	"github.com/example/fieldreport/internal/core/checklist"
	"github.com/example/fieldreport/internal/core/visit"
	"github.com/example/fieldreport/internal/ports/secondary"
)

// VisitService defines the primary port for the visit report pipeline.
type VisitService interface {
	// SaveVisit renders, persists and (optionally) delivers a visit.
	// A request with VisitID set overwrites that visit and resets it to pending.
	SaveVisit(ctx context.Context, req SaveVisitRequest) (*SaveVisitResponse, error)

	// GetVisit retrieves a visit with checklist state decoded for editing.
	GetVisit(ctx context.Context, visitID int64) (*Visit, error)

	// ListVisits retrieves all visits, most recent first.
	ListVisits(ctx context.Context) ([]*Visit, error)

	// GetStats returns aggregate counts for reporting.
	GetStats(ctx context.Context) (*VisitStats, error)
}

// SaveVisitRequest contains everything the driver collected for one visit.
type SaveVisitRequest struct {
	VisitID        int64 // 0 creates a new visit
	ClientName     string
	TechnicianName string
	Notes          string
	Entries        []EntryInput

	// Global signature: an existing image, or strokes to rasterize.
	SignaturePath    string
	SignatureStrokes []secondary.Stroke

	Latitude  string
	Longitude string

	// Deliver attempts email + archive right after persisting.
	Deliver bool
}

// EntryInput is one user's attendance as captured by the driver.
type EntryInput struct {
	Name     string
	Attended bool
	// Detail is the work description (attended) or non-attendance reason.
	// Replaced by the encoded checklist when Checklist is set on an attended entry.
	Detail    string
	Checklist checklist.State
	Photos    []string

	SignaturePath    string
	SignatureStrokes []secondary.Stroke
}

// SaveVisitResponse contains the result of a save.
type SaveVisitResponse struct {
	VisitID  int64
	PDFPath  string
	Pages    int
	State    visit.DeliveryState
	Created  bool
	Delivery *DeliveryOutcome // nil when delivery was not requested
	Message  string
}

// Visit represents a visit at the port boundary.
type Visit struct {
	ID             int64
	Timestamp      string
	ClientName     string
	TechnicianName string
	Notes          string
	PhotoPaths     []string
	PDFPath        string
	PDFExists      bool
	Entries        []VisitEntry
	DeliveryState  visit.DeliveryState
	Latitude       string
	Longitude      string
}

// VisitEntry is a stored user entry plus its decoded checklist.
type VisitEntry struct {
	visit.UserEntry
	Checklist checklist.State
}

// VisitStats contains aggregate counts over all visits.
type VisitStats struct {
	Total        int
	ByClient     []*secondary.GroupCount
	ByTechnician []*secondary.GroupCount
}
