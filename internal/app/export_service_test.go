package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/fieldreport/internal/ports/secondary"
)

func TestExportHistory(t *testing.T) {
	repo := newMockVisitRepository()
	repo.add(&secondary.VisitRecord{ClientName: "Intermar", TechnicianName: "Ana"})
	repo.add(&secondary.VisitRecord{ClientName: "Las200", TechnicianName: "Ana"})
	exporter := &mockExporter{}

	svc := NewExportService(repo, exporter)
	if err := svc.ExportHistory(context.Background(), "/tmp/historial.xlsx"); err != nil {
		t.Fatalf("ExportHistory failed: %v", err)
	}
	if exporter.path != "/tmp/historial.xlsx" || exporter.visits != 2 || len(exporter.byClient) != 2 {
		t.Errorf("unexpected export %+v", exporter)
	}

	exporter.err = errors.New("permission denied")
	if err := svc.ExportHistory(context.Background(), "/tmp/x.xlsx"); err == nil {
		t.Error("expected export error")
	}
}
