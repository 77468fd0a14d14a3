package graph

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/ports/secondary"
)

type emailAddress struct {
	Address string `json:"address"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type fileAttachment struct {
	ODataType    string `json:"@odata.type"`
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	ContentBytes string `json:"contentBytes"`
}

type message struct {
	Subject      string           `json:"subject"`
	Body         itemBody         `json:"body"`
	ToRecipients []recipient      `json:"toRecipients"`
	Attachments  []fileAttachment `json:"attachments,omitempty"`
}

type sendMailRequest struct {
	Message         message `json:"message"`
	SaveToSentItems bool    `json:"saveToSentItems"`
}

// MailTransport implements secondary.EmailTransport with the Graph sendMail action.
type MailTransport struct {
	client *Client
	sender string
}

// NewMailTransport sends as the given mailbox.
func NewMailTransport(client *Client, sender string) *MailTransport {
	return &MailTransport{client: client, sender: sender}
}

// Name identifies the transport.
func (t *MailTransport) Name() string { return "graph" }

// Send posts the message, with the PDF inlined as a file attachment.
func (t *MailTransport) Send(ctx context.Context, msg *secondary.EmailMessage) error {
	body := sendMailRequest{
		Message: message{
			Subject:      msg.Subject,
			Body:         itemBody{ContentType: "HTML", Content: msg.HTMLBody},
			ToRecipients: []recipient{{EmailAddress: emailAddress{Address: msg.To}}},
		},
		SaveToSentItems: true,
	}
	if msg.AttachmentPath != "" {
		raw, err := os.ReadFile(msg.AttachmentPath)
		if err != nil {
			return fmt.Errorf("failed to read attachment: %w", err)
		}
		body.Message.Attachments = []fileAttachment{{
			ODataType:    "#microsoft.graph.fileAttachment",
			Name:         filepath.Base(msg.AttachmentPath),
			ContentType:  "application/pdf",
			ContentBytes: base64.StdEncoding.EncodeToString(raw),
		}}
	}

	req, err := t.client.request(ctx)
	if err != nil {
		return err
	}
	var apiErr apiError
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetError(&apiErr).
		Post("/users/" + url.PathEscape(t.sender) + "/sendMail")
	if err != nil {
		return fmt.Errorf("failed to call graph sendMail: %w", err)
	}
	if err := checkResponse(resp, "graph sendMail", &apiErr); err != nil {
		return err
	}

	t.client.logger.Info("mail sent", zap.String("transport", t.Name()), zap.String("to", msg.To))
	return nil
}

var _ secondary.EmailTransport = (*MailTransport)(nil)
