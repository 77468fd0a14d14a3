// Package mail sends report emails over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/config"
	"github.com/example/fieldreport/internal/ports/secondary"
)

// SMTPTransport implements secondary.EmailTransport with STARTTLS + PLAIN auth.
type SMTPTransport struct {
	cfg    config.MailConfig
	logger *zap.Logger
	send   func(ctx context.Context, m *gomail.Msg) error
}

// NewSMTPTransport creates a transport for the configured server.
func NewSMTPTransport(cfg config.MailConfig, logger *zap.Logger) *SMTPTransport {
	t := &SMTPTransport{cfg: cfg, logger: logger}
	t.send = t.dialAndSend
	return t
}

// Name identifies the transport.
func (t *SMTPTransport) Name() string { return "smtp" }

// Send builds the message and delivers it in one SMTP session.
func (t *SMTPTransport) Send(ctx context.Context, msg *secondary.EmailMessage) error {
	m, err := t.buildMessage(msg)
	if err != nil {
		return err
	}
	if err := t.send(ctx, m); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", t.cfg.SMTPHost, err)
	}
	t.logger.Info("mail sent", zap.String("transport", t.Name()), zap.String("to", msg.To))
	return nil
}

func (t *SMTPTransport) buildMessage(msg *secondary.EmailMessage) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(t.sender()); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	if msg.AttachmentPath != "" {
		m.AttachFile(msg.AttachmentPath)
	}
	return m, nil
}

func (t *SMTPTransport) sender() string {
	if t.cfg.From != "" {
		return t.cfg.From
	}
	return t.cfg.Username
}

func (t *SMTPTransport) dialAndSend(ctx context.Context, m *gomail.Msg) error {
	client, err := gomail.NewClient(t.cfg.SMTPHost,
		gomail.WithPort(t.cfg.SMTPPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(t.cfg.Username),
		gomail.WithPassword(t.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, m)
}

var _ secondary.EmailTransport = (*SMTPTransport)(nil)
