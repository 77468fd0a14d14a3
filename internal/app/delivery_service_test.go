package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/core/visit"
	"github.com/example/fieldreport/internal/ports/secondary"
)

type deliveryFixture struct {
	svc     *DeliveryServiceImpl
	visits  *mockVisitRepository
	clients *mockClientRepository
	email   *mockEmailTransport
	archive *mockArchiveStore
	pdf     string
}

func newDeliveryFixture(t *testing.T) *deliveryFixture {
	t.Helper()
	pdf := filepath.Join(t.TempDir(), "Reporte_Intermar_20240305_101500.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.3"), 0644); err != nil {
		t.Fatalf("failed to write pdf: %v", err)
	}
	f := &deliveryFixture{
		visits:  newMockVisitRepository(),
		clients: newMockClientRepository(),
		email:   &mockEmailTransport{},
		archive: &mockArchiveStore{},
		pdf:     pdf,
	}
	f.clients.clients["Intermar"] = "soporte@intermar.cl"
	f.svc = NewDeliveryService(f.visits, f.clients, f.email, f.archive, "Informes", testClock(), zap.NewNop())
	return f
}

func TestSendEmail_Success(t *testing.T) {
	f := newDeliveryFixture(t)

	result := f.svc.SendEmail(context.Background(), f.pdf, "Intermar", "soporte@intermar.cl", "David <Quezada>")
	if !result.OK {
		t.Fatalf("expected success, got %q", result.Message)
	}
	if result.Message != "sent to soporte@intermar.cl" {
		t.Errorf("unexpected message %q", result.Message)
	}

	if len(f.email.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(f.email.sent))
	}
	msg := f.email.sent[0]
	if msg.Subject != "Reporte - Intermar - 05/03" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if msg.AttachmentPath != f.pdf {
		t.Errorf("unexpected attachment %q", msg.AttachmentPath)
	}
	if !strings.Contains(msg.HTMLBody, "David &lt;Quezada&gt;") {
		t.Errorf("technician name not escaped in body: %s", msg.HTMLBody)
	}
}

func TestSendEmail_Failures(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(f *deliveryFixture)
		pdf       func(f *deliveryFixture) string
		recipient string
		want      string
	}{
		{
			name:      "missing pdf",
			pdf:       func(f *deliveryFixture) string { return filepath.Join(filepath.Dir(f.pdf), "gone.pdf") },
			recipient: "soporte@intermar.cl",
			want:      "PDF not found",
		},
		{
			name: "no recipient",
			want: "no email address for client Intermar",
		},
		{
			name:      "transport error",
			setup:     func(f *deliveryFixture) { f.email.err = errors.New("535 authentication failed") },
			recipient: "soporte@intermar.cl",
			want:      "email send error: 535 authentication failed",
		},
		{
			name:      "transport panic",
			setup:     func(f *deliveryFixture) { f.email.panicWith = "nil pointer" },
			recipient: "soporte@intermar.cl",
			want:      "email send error: nil pointer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDeliveryFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			pdf := f.pdf
			if tt.pdf != nil {
				pdf = tt.pdf(f)
			}

			result := f.svc.SendEmail(context.Background(), pdf, "Intermar", tt.recipient, "David Quezada")
			if result.OK {
				t.Fatal("expected failure")
			}
			if !strings.Contains(result.Message, tt.want) {
				t.Errorf("message %q does not contain %q", result.Message, tt.want)
			}
		})
	}
}

func TestSendEmail_NotConfigured(t *testing.T) {
	svc := NewDeliveryService(newMockVisitRepository(), newMockClientRepository(), nil, nil, "Informes", testClock(), zap.NewNop())

	if r := svc.SendEmail(context.Background(), "/x.pdf", "Intermar", "a@b.cl", "Ana"); r.OK || !strings.Contains(r.Message, "not configured") {
		t.Errorf("unexpected email result %+v", r)
	}
	if r := svc.UploadArchive(context.Background(), "/x.pdf", "Intermar"); r.OK || !strings.Contains(r.Message, "not configured") {
		t.Errorf("unexpected archive result %+v", r)
	}
}

func TestUploadArchive(t *testing.T) {
	f := newDeliveryFixture(t)

	result := f.svc.UploadArchive(context.Background(), f.pdf, "Intermar")
	if !result.OK {
		t.Fatalf("expected success, got %q", result.Message)
	}
	want := "Informes/Intermar/2024/03/Reporte_Intermar_20240305_101500.pdf"
	if len(f.archive.uploads) != 1 || f.archive.uploads[0] != want {
		t.Errorf("uploads = %v, want [%s]", f.archive.uploads, want)
	}

	f.archive.err = errors.New("403 forbidden")
	if r := f.svc.UploadArchive(context.Background(), f.pdf, "Intermar"); r.OK || !strings.Contains(r.Message, "403 forbidden") {
		t.Errorf("unexpected result %+v", r)
	}
}

func TestDeliverVisit(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(f *deliveryFixture)
		wantState   visit.DeliveryState
		wantSets    int
		wantArchive bool
	}{
		{
			name:        "email and archive succeed",
			wantState:   visit.StateSent,
			wantSets:    1,
			wantArchive: true,
		},
		{
			name:        "archive failure still sends",
			setup:       func(f *deliveryFixture) { f.archive.err = errors.New("timeout") },
			wantState:   visit.StateSent,
			wantSets:    1,
			wantArchive: false,
		},
		{
			name:        "email failure stays pending",
			setup:       func(f *deliveryFixture) { f.email.err = errors.New("connection refused") },
			wantState:   visit.StatePending,
			wantSets:    0,
			wantArchive: true,
		},
		{
			name:        "client without email stays pending",
			setup:       func(f *deliveryFixture) { f.clients.clients["Intermar"] = "" },
			wantState:   visit.StatePending,
			wantSets:    0,
			wantArchive: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDeliveryFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			id := f.visits.add(&secondary.VisitRecord{
				ClientName:     "Intermar",
				TechnicianName: "David Quezada",
				PDFPath:        f.pdf,
			})

			outcome, err := f.svc.DeliverVisit(context.Background(), id)
			if err != nil {
				t.Fatalf("DeliverVisit failed: %v", err)
			}
			if outcome.State != tt.wantState {
				t.Errorf("state = %s, want %s", outcome.State, tt.wantState)
			}
			if f.visits.visits[id].DeliveryState != tt.wantState {
				t.Errorf("stored state = %s, want %s", f.visits.visits[id].DeliveryState, tt.wantState)
			}
			if f.visits.stateSets != tt.wantSets {
				t.Errorf("state writes = %d, want %d", f.visits.stateSets, tt.wantSets)
			}
			if outcome.Archive.OK != tt.wantArchive {
				t.Errorf("archive ok = %v, want %v (%s)", outcome.Archive.OK, tt.wantArchive, outcome.Archive.Message)
			}
		})
	}
}

func TestDeliverVisit_Errors(t *testing.T) {
	f := newDeliveryFixture(t)
	if _, err := f.svc.DeliverVisit(context.Background(), 7); !errors.Is(err, ErrVisitNotFound) {
		t.Errorf("expected ErrVisitNotFound, got %v", err)
	}

	id := f.visits.add(&secondary.VisitRecord{ClientName: "Intermar", PDFPath: f.pdf})
	f.clients.emailErr = errors.New("database is locked")
	if _, err := f.svc.DeliverVisit(context.Background(), id); err == nil {
		t.Error("expected recipient lookup error")
	}
	if len(f.email.sent) != 0 {
		t.Error("nothing should be sent without a recipient lookup")
	}
}

func TestArchivePath(t *testing.T) {
	got := ArchivePath("Informes", "Las200", "2024", "12", "Reporte_Las200_20241201_090000.pdf")
	if got != "Informes/Las200/2024/12/Reporte_Las200_20241201_090000.pdf" {
		t.Errorf("unexpected path %q", got)
	}
}
