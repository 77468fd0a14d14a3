package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/core/visit"
	"github.com/example/fieldreport/internal/ports/primary"
	"github.com/example/fieldreport/internal/ports/secondary"
)

func TestSyncPending(t *testing.T) {
	repo := newMockVisitRepository()
	first := repo.add(&secondary.VisitRecord{ClientName: "Intermar"})
	repo.add(&secondary.VisitRecord{ClientName: "Las200", DeliveryState: visit.StateSent})
	second := repo.add(&secondary.VisitRecord{ClientName: "Las200"})
	third := repo.add(&secondary.VisitRecord{ClientName: "Intermar"})

	delivery := newMockDeliveryService()
	delivery.panics[second] = "transport exploded"
	delivery.outcomes[third] = &primary.DeliveryOutcome{
		VisitID: third,
		Email:   primary.DeliveryResult{Message: "no email address for client Intermar"},
		State:   visit.StatePending,
	}

	svc := NewSyncService(repo, delivery, zap.NewNop())
	report, err := svc.SyncPending(context.Background())
	if err != nil {
		t.Fatalf("SyncPending failed: %v", err)
	}

	if report.Sent != 1 || report.Total != 3 {
		t.Errorf("expected 1/3 sent, got %d/%d", report.Sent, report.Total)
	}
	if len(delivery.calls) != 3 || delivery.calls[0] != first || delivery.calls[2] != third {
		t.Errorf("expected every pending visit attempted oldest first, got %v", delivery.calls)
	}
	if len(report.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %+v", report.Failures)
	}
	if report.Failures[0].VisitID != second || !strings.Contains(report.Failures[0].Reason, "transport exploded") {
		t.Errorf("unexpected failure %+v", report.Failures[0])
	}
	if report.Failures[1].Reason != "no email address for client Intermar" {
		t.Errorf("unexpected failure %+v", report.Failures[1])
	}
}

func TestSyncPending_Empty(t *testing.T) {
	svc := NewSyncService(newMockVisitRepository(), newMockDeliveryService(), zap.NewNop())

	report, err := svc.SyncPending(context.Background())
	if err != nil {
		t.Fatalf("SyncPending failed: %v", err)
	}
	if report.Sent != 0 || report.Total != 0 || len(report.Failures) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestSyncPending_Errors(t *testing.T) {
	repo := newMockVisitRepository()
	repo.listErr = errors.New("no such table: reports")
	svc := NewSyncService(repo, newMockDeliveryService(), zap.NewNop())
	if _, err := svc.SyncPending(context.Background()); err == nil {
		t.Error("expected list error")
	}

	repo = newMockVisitRepository()
	repo.add(&secondary.VisitRecord{ClientName: "Intermar"})
	delivery := newMockDeliveryService()
	svc = NewSyncService(repo, delivery, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := svc.SyncPending(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if report == nil || report.Total != 1 || len(delivery.calls) != 0 {
		t.Errorf("cancelled pass must not deliver, got %+v calls=%v", report, delivery.calls)
	}
}
