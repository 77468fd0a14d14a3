package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/clock"
	"github.com/example/fieldreport/internal/core/checklist"
	"github.com/example/fieldreport/internal/core/visit"
	"github.com/example/fieldreport/internal/ctxutil"
	"github.com/example/fieldreport/internal/ports/primary"
	"github.com/example/fieldreport/internal/ports/secondary"
)

// VisitServiceImpl implements the VisitService interface.
type VisitServiceImpl struct {
	visitRepo  secondary.VisitRepository
	renderer   secondary.ReportRenderer
	signatures secondary.SignatureRasterizer
	delivery   primary.DeliveryService
	clock      clock.Clock
	tasks      []string
	logger     *zap.Logger
}

// NewVisitService creates a new VisitService with injected dependencies.
// tasks is the configured checklist, in display order.
func NewVisitService(
	visitRepo secondary.VisitRepository,
	renderer secondary.ReportRenderer,
	signatures secondary.SignatureRasterizer,
	delivery primary.DeliveryService,
	clk clock.Clock,
	tasks []string,
	logger *zap.Logger,
) *VisitServiceImpl {
	return &VisitServiceImpl{
		visitRepo:  visitRepo,
		renderer:   renderer,
		signatures: signatures,
		delivery:   delivery,
		clock:      clk,
		tasks:      tasks,
		logger:     logger,
	}
}

// SaveVisit runs the pipeline: validate, rasterize signatures, render, persist,
// then optionally deliver. Delivery failures leave the visit pending and are
// reported in the response, never as an error.
func (s *VisitServiceImpl) SaveVisit(ctx context.Context, req primary.SaveVisitRequest) (*primary.SaveVisitResponse, error) {
	now := s.clock.Now()
	log := s.logger.With(ctxutil.Fields(ctx)...)

	entries := s.buildEntries(req.Entries)
	guard := visit.CanSaveVisit(visit.SaveVisitContext{
		ClientName:     req.ClientName,
		TechnicianName: req.TechnicianName,
		Entries:        entries,
	})
	if !guard.Allowed {
		return nil, guard.Error()
	}

	var existing *secondary.VisitRecord
	if req.VisitID != 0 {
		record, err := s.visitRepo.GetByID(ctx, req.VisitID)
		if err != nil && !errors.Is(err, secondary.ErrNotFound) {
			return nil, fmt.Errorf("failed to load visit: %w", err)
		}
		guard := visit.CanEditVisit(visit.EditVisitContext{VisitID: req.VisitID, Exists: record != nil})
		if !guard.Allowed {
			return nil, fmt.Errorf("%w: %s", ErrVisitNotFound, guard.Reason)
		}
		existing = record
	}

	for i, in := range req.Entries {
		if len(in.SignatureStrokes) == 0 {
			continue
		}
		path, err := s.signatures.Rasterize(in.SignatureStrokes, visit.UserSignatureName(in.Name, now))
		if err != nil {
			return nil, fmt.Errorf("%w: signature for %s: %w", ErrRender, in.Name, err)
		}
		if path != "" {
			entries[i].SignaturePath = path
		}
	}

	signaturePath := req.SignaturePath
	if len(req.SignatureStrokes) > 0 {
		path, err := s.signatures.Rasterize(req.SignatureStrokes, "")
		if err != nil {
			return nil, fmt.Errorf("%w: signature: %w", ErrRender, err)
		}
		signaturePath = path
	}

	report, err := s.renderer.Render(ctx, secondary.RenderRequest{
		ClientName:     req.ClientName,
		TechnicianName: req.TechnicianName,
		Notes:          req.Notes,
		SignaturePath:  signaturePath,
		Entries:        entries,
		GeneratedAt:    now,
	})
	if err != nil {
		log.Error("render failed", zap.String("client", req.ClientName), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	record := &secondary.VisitRecord{
		Timestamp:      now.Format(visit.TimestampLayout),
		ClientName:     req.ClientName,
		TechnicianName: req.TechnicianName,
		Notes:          req.Notes,
		PhotoPaths:     visit.FlattenPhotos(entries),
		PDFPath:        report.Path,
		UserEntries:    entries,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
	}

	resp := &primary.SaveVisitResponse{PDFPath: report.Path, Pages: report.Pages}
	if existing == nil {
		record.DeliveryState = visit.InitialState()
		id, err := s.visitRepo.Create(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("failed to save visit: %w", err)
		}
		resp.VisitID, resp.Created = id, true
		resp.Message = "saved locally, pending delivery"
	} else {
		record.ID = existing.ID
		record.DeliveryState = visit.EditedState()
		if err := s.visitRepo.Update(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to update visit: %w", err)
		}
		resp.VisitID = existing.ID
		resp.Message = "updated, pending delivery"
	}
	resp.State = record.DeliveryState

	log.Info("visit saved",
		zap.Int64("visit_id", resp.VisitID),
		zap.Bool("created", resp.Created),
		zap.String("pdf", report.Path),
		zap.Int("pages", report.Pages),
	)

	if req.Deliver {
		outcome, err := s.delivery.DeliverVisit(ctx, resp.VisitID)
		if err != nil {
			log.Warn("delivery failed", zap.Int64("visit_id", resp.VisitID), zap.Error(err))
			resp.Message = fmt.Sprintf("%s; delivery failed: %v", resp.Message, err)
			return resp, nil
		}
		resp.Delivery = outcome
		resp.State = outcome.State
		if outcome.State == visit.StateSent {
			resp.Message = "saved and sent"
		} else {
			resp.Message = fmt.Sprintf("%s; %s", resp.Message, outcome.Email.Message)
		}
	}

	return resp, nil
}

// buildEntries converts driver input to stored entries. An attended entry
// with checklist marks gets the encoded checklist as its detail.
func (s *VisitServiceImpl) buildEntries(inputs []primary.EntryInput) []visit.UserEntry {
	entries := make([]visit.UserEntry, len(inputs))
	for i, in := range inputs {
		detail := in.Detail
		if in.Attended && in.Checklist != nil {
			if encoded := checklist.Encode(s.tasks, in.Checklist); encoded != "" {
				detail = encoded
			}
		}
		photos := make([]string, len(in.Photos))
		copy(photos, in.Photos)
		entries[i] = visit.UserEntry{
			Name:          in.Name,
			Attended:      in.Attended,
			Detail:        detail,
			Photos:        photos,
			SignaturePath: in.SignaturePath,
		}
	}
	return entries
}

// GetVisit retrieves a visit with each entry's checklist decoded.
func (s *VisitServiceImpl) GetVisit(ctx context.Context, visitID int64) (*primary.Visit, error) {
	record, err := s.visitRepo.GetByID(ctx, visitID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrVisitNotFound, visitID)
	}
	if err != nil {
		return nil, err
	}
	return s.recordToVisit(record), nil
}

// ListVisits retrieves all visits, most recent first.
func (s *VisitServiceImpl) ListVisits(ctx context.Context) ([]*primary.Visit, error) {
	records, err := s.visitRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	visits := make([]*primary.Visit, len(records))
	for i, r := range records {
		visits[i] = s.recordToVisit(r)
	}
	return visits, nil
}

// GetStats returns the total and the per-client and per-technician counts.
func (s *VisitServiceImpl) GetStats(ctx context.Context) (*primary.VisitStats, error) {
	total, err := s.visitRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}
	byClient, err := s.visitRepo.CountByClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count visits by client: %w", err)
	}
	byTechnician, err := s.visitRepo.CountByTechnician(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count visits by technician: %w", err)
	}
	return &primary.VisitStats{Total: total, ByClient: byClient, ByTechnician: byTechnician}, nil
}

func (s *VisitServiceImpl) recordToVisit(r *secondary.VisitRecord) *primary.Visit {
	entries := make([]primary.VisitEntry, len(r.UserEntries))
	for i, e := range r.UserEntries {
		entries[i] = primary.VisitEntry{UserEntry: e}
		if checklist.IsEncoded(e.Detail) {
			entries[i].Checklist = checklist.Decode(s.tasks, e.Detail)
		}
	}

	pdfExists := false
	if r.PDFPath != "" {
		_, err := os.Stat(r.PDFPath)
		pdfExists = err == nil
	}

	return &primary.Visit{
		ID:             r.ID,
		Timestamp:      r.Timestamp,
		ClientName:     r.ClientName,
		TechnicianName: r.TechnicianName,
		Notes:          r.Notes,
		PhotoPaths:     r.PhotoPaths,
		PDFPath:        r.PDFPath,
		PDFExists:      pdfExists,
		Entries:        entries,
		DeliveryState:  r.DeliveryState,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
	}
}

// Ensure VisitServiceImpl implements the interface
var _ primary.VisitService = (*VisitServiceImpl)(nil)
