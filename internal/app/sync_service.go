package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/core/visit"
	"github.com/example/fieldreport/internal/ctxutil"
	"github.com/example/fieldreport/internal/ports/primary"
	"github.com/example/fieldreport/internal/ports/secondary"
)

// SyncServiceImpl implements the SyncService interface.
type SyncServiceImpl struct {
	visitRepo secondary.VisitRepository
	delivery  primary.DeliveryService
	logger    *zap.Logger
}

// NewSyncService creates a new SyncService with injected dependencies.
func NewSyncService(visitRepo secondary.VisitRepository, delivery primary.DeliveryService, logger *zap.Logger) *SyncServiceImpl {
	return &SyncServiceImpl{visitRepo: visitRepo, delivery: delivery, logger: logger}
}

// SyncPending retries every pending visit once, oldest first. A failing or
// panicking item is recorded and the pass moves on to the next one.
func (s *SyncServiceImpl) SyncPending(ctx context.Context) (*primary.SyncReport, error) {
	pending, err := s.visitRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending visits: %w", err)
	}

	report := &primary.SyncReport{Total: len(pending)}
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if reason := s.syncOne(ctx, p); reason != "" {
			report.Failures = append(report.Failures, primary.SyncFailure{VisitID: p.ID, Reason: reason})
			continue
		}
		report.Sent++
	}

	s.logger.Info("sync finished",
		append(ctxutil.Fields(ctx), zap.Int("sent", report.Sent), zap.Int("total", report.Total))...)
	return report, nil
}

// syncOne delivers one visit and returns a failure reason, or "" when sent.
func (s *SyncServiceImpl) syncOne(ctx context.Context, p *secondary.PendingVisit) (reason string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("sync item panicked", zap.Int64("visit_id", p.ID), zap.Any("panic", r))
			reason = fmt.Sprintf("panic: %v", r)
		}
	}()

	outcome, err := s.delivery.DeliverVisit(ctx, p.ID)
	if err != nil {
		return err.Error()
	}
	if outcome.State != visit.StateSent {
		return outcome.Email.Message
	}
	return ""
}

// Ensure SyncServiceImpl implements the interface
var _ primary.SyncService = (*SyncServiceImpl)(nil)
