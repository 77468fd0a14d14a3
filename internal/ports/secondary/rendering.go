package secondary

import (
	"context"
	"time"

	"github.com/example/fieldreport/internal/core/visit"
)

// ReportRenderer defines the secondary port that turns a visit into a PDF file.
type ReportRenderer interface {
	// Render writes a new PDF and returns its location.
	// Missing photo, signature and logo files are skipped, not reported.
	Render(ctx context.Context, req RenderRequest) (*RenderedReport, error)
}

// RenderRequest contains everything printed on a report.
type RenderRequest struct {
	ClientName     string
	TechnicianName string
	Notes          string
	SignaturePath  string
	Entries        []visit.UserEntry
	GeneratedAt    time.Time
}

// RenderedReport describes a generated PDF.
type RenderedReport struct {
	Path  string
	Pages int
}

// SignatureRasterizer defines the secondary port that turns pen strokes into an image file.
type SignatureRasterizer interface {
	// Rasterize writes strokes to an image named name (or the default name when empty).
	// Returns "" and no error when strokes is empty.
	Rasterize(strokes []Stroke, name string) (string, error)
}

// Point is a pen position in capture-surface coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is the ordered points of one pointer-drag gesture.
type Stroke []Point

// HistoryExporter defines the secondary port for writing visit history to a spreadsheet.
type HistoryExporter interface {
	Export(path string, visits []*VisitRecord, byClient, byTechnician []*GroupCount) error
}
