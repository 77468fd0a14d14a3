package app

import (
	"context"
	"fmt"

	"github.com/example/fieldreport/internal/ports/primary"
	"github.com/example/fieldreport/internal/ports/secondary"
)

// ExportServiceImpl implements the ExportService interface.
type ExportServiceImpl struct {
	visitRepo secondary.VisitRepository
	exporter  secondary.HistoryExporter
}

// NewExportService creates a new ExportService with injected dependencies.
func NewExportService(visitRepo secondary.VisitRepository, exporter secondary.HistoryExporter) *ExportServiceImpl {
	return &ExportServiceImpl{visitRepo: visitRepo, exporter: exporter}
}

// ExportHistory writes every visit and the aggregate counts to path.
func (s *ExportServiceImpl) ExportHistory(ctx context.Context, path string) error {
	visits, err := s.visitRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list visits: %w", err)
	}
	byClient, err := s.visitRepo.CountByClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to count visits by client: %w", err)
	}
	byTechnician, err := s.visitRepo.CountByTechnician(ctx)
	if err != nil {
		return fmt.Errorf("failed to count visits by technician: %w", err)
	}
	if err := s.exporter.Export(path, visits, byClient, byTechnician); err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}
	return nil
}

// Ensure ExportServiceImpl implements the interface
var _ primary.ExportService = (*ExportServiceImpl)(nil)
