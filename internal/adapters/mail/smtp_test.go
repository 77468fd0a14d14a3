package mail

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/config"
	"github.com/example/fieldreport/internal/ports/secondary"
)

func testConfig() config.MailConfig {
	return config.MailConfig{
		Provider: config.ProviderSMTP,
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
		Username: "informes@example.com",
		Password: "secret",
	}
}

func TestSMTPTransport_Send(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "Reporte_Intermar_20240305_101500.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.3"), 0644); err != nil {
		t.Fatal(err)
	}

	tr := NewSMTPTransport(testConfig(), zap.NewNop())
	var rendered bytes.Buffer
	tr.send = func(_ context.Context, m *gomail.Msg) error {
		_, err := m.WriteTo(&rendered)
		return err
	}

	err := tr.Send(context.Background(), &secondary.EmailMessage{
		To:             "contacto@intermar.cl",
		Subject:        "Reporte - Intermar - 05/03",
		HTMLBody:       "<h2>Reporte de Visita</h2>",
		AttachmentPath: pdf,
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	out := rendered.String()
	for _, want := range []string{
		"From: <informes@example.com>",
		"To: <contacto@intermar.cl>",
		"Subject: Reporte - Intermar - 05/03",
		"Reporte_Intermar_20240305_101500.pdf",
		"text/html",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in message", want)
		}
	}
}

func TestSMTPTransport_SendError(t *testing.T) {
	tr := NewSMTPTransport(testConfig(), zap.NewNop())
	tr.send = func(context.Context, *gomail.Msg) error { return errors.New("535 auth failed") }

	err := tr.Send(context.Background(), &secondary.EmailMessage{To: "a@b.cl", Subject: "x"})
	if err == nil || !strings.Contains(err.Error(), "535 auth failed") {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestSMTPTransport_InvalidRecipient(t *testing.T) {
	tr := NewSMTPTransport(testConfig(), zap.NewNop())
	tr.send = func(context.Context, *gomail.Msg) error {
		t.Fatal("send must not be called")
		return nil
	}

	if err := tr.Send(context.Background(), &secondary.EmailMessage{To: "not an address"}); err == nil {
		t.Fatal("expected error for invalid recipient")
	}
}

func TestSMTPTransport_SenderFallsBackToUsername(t *testing.T) {
	cfg := testConfig()
	if got := NewSMTPTransport(cfg, zap.NewNop()).sender(); got != cfg.Username {
		t.Errorf("sender = %q", got)
	}
	cfg.From = "Informes <noreply@example.com>"
	if got := NewSMTPTransport(cfg, zap.NewNop()).sender(); got != cfg.From {
		t.Errorf("sender = %q", got)
	}
}
