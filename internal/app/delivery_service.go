package app

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/clock"
	"github.com/example/fieldreport/internal/core/visit"
	"github.com/example/fieldreport/internal/ctxutil"
	"github.com/example/fieldreport/internal/ports/primary"
	"github.com/example/fieldreport/internal/ports/secondary"
)

const emailBodyTemplate = `<html>
  <body>
    <h2 style="color:#0583F2;">Reporte de Visita</h2>
    <p>Se adjunta el informe técnico realizado por %s.</p>
  </body>
</html>`

// DeliveryServiceImpl implements the DeliveryService interface.
// email and archive may be nil when the channel is not configured.
type DeliveryServiceImpl struct {
	visitRepo  secondary.VisitRepository
	clientRepo secondary.ClientRepository
	email      secondary.EmailTransport
	archive    secondary.ArchiveStore
	rootFolder string
	clock      clock.Clock
	logger     *zap.Logger
}

// NewDeliveryService creates a new DeliveryService with injected dependencies.
// rootFolder is the top-level archive folder for reports.
func NewDeliveryService(
	visitRepo secondary.VisitRepository,
	clientRepo secondary.ClientRepository,
	email secondary.EmailTransport,
	archive secondary.ArchiveStore,
	rootFolder string,
	clk clock.Clock,
	logger *zap.Logger,
) *DeliveryServiceImpl {
	return &DeliveryServiceImpl{
		visitRepo:  visitRepo,
		clientRepo: clientRepo,
		email:      email,
		archive:    archive,
		rootFolder: rootFolder,
		clock:      clk,
		logger:     logger,
	}
}

// SendEmail emails the PDF to recipient. Every failure, including a transport
// panic, comes back as a result with OK=false.
func (s *DeliveryServiceImpl) SendEmail(ctx context.Context, pdfPath, clientName, recipient, technicianName string) (result primary.DeliveryResult) {
	if s.email == nil {
		return primary.DeliveryResult{Message: "email delivery is not configured"}
	}
	if !fileExists(pdfPath) {
		return primary.DeliveryResult{Message: fmt.Sprintf("PDF not found: %s", pdfPath)}
	}
	if recipient == "" {
		return primary.DeliveryResult{Message: fmt.Sprintf("no email address for client %s", clientName)}
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("email transport panicked", zap.Any("panic", r), zap.String("client", clientName))
			result = primary.DeliveryResult{Message: fmt.Sprintf("email send error: %v", r)}
		}
	}()

	msg := &secondary.EmailMessage{
		To:             recipient,
		Subject:        fmt.Sprintf("Reporte - %s - %s", clientName, s.clock.Now().Format("02/01")),
		HTMLBody:       fmt.Sprintf(emailBodyTemplate, html.EscapeString(technicianName)),
		AttachmentPath: pdfPath,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Warn("email not sent",
			append(ctxutil.Fields(ctx), zap.String("client", clientName), zap.Error(err))...)
		return primary.DeliveryResult{Message: fmt.Sprintf("email send error: %v", err)}
	}
	return primary.DeliveryResult{OK: true, Message: fmt.Sprintf("sent to %s", recipient)}
}

// UploadArchive copies the PDF to <root>/<client>/<YYYY>/<MM>/<file>.
func (s *DeliveryServiceImpl) UploadArchive(ctx context.Context, pdfPath, clientName string) (result primary.DeliveryResult) {
	if s.archive == nil {
		return primary.DeliveryResult{Message: "archive upload is not configured"}
	}
	if !fileExists(pdfPath) {
		return primary.DeliveryResult{Message: fmt.Sprintf("PDF not found: %s", pdfPath)}
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("archive store panicked", zap.Any("panic", r), zap.String("client", clientName))
			result = primary.DeliveryResult{Message: fmt.Sprintf("upload error: %v", r)}
		}
	}()

	remote := ArchivePath(s.rootFolder, clientName, s.clock.Now().Format("2006"), s.clock.Now().Format("01"), filepath.Base(pdfPath))
	if err := s.archive.Upload(ctx, pdfPath, remote); err != nil {
		s.logger.Warn("archive upload failed",
			append(ctxutil.Fields(ctx), zap.String("remote_path", remote), zap.Error(err))...)
		return primary.DeliveryResult{Message: fmt.Sprintf("upload error: %v", err)}
	}
	return primary.DeliveryResult{OK: true, Message: fmt.Sprintf("uploaded to %s (%s)", remote, s.archive.Name())}
}

// DeliverVisit emails and archives a stored visit. The visit becomes sent
// only when the email went out; the archive upload is best effort.
func (s *DeliveryServiceImpl) DeliverVisit(ctx context.Context, visitID int64) (*primary.DeliveryOutcome, error) {
	record, err := s.visitRepo.GetByID(ctx, visitID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrVisitNotFound, visitID)
	}
	if err != nil {
		return nil, err
	}

	recipient, err := s.clientRepo.GetEmail(ctx, record.ClientName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}

	outcome := &primary.DeliveryOutcome{
		VisitID: visitID,
		Email:   s.SendEmail(ctx, record.PDFPath, record.ClientName, recipient, record.TechnicianName),
		Archive: s.UploadArchive(ctx, record.PDFPath, record.ClientName),
	}

	transition := visit.ApplyDelivery(record.DeliveryState, outcome.Email.OK)
	if transition.Persist {
		if err := s.visitRepo.SetDeliveryState(ctx, visitID, transition.NewState); err != nil {
			return nil, fmt.Errorf("failed to mark visit sent: %w", err)
		}
	}
	outcome.State = transition.NewState

	s.logger.Info("visit delivered",
		append(ctxutil.Fields(ctx),
			zap.Int64("visit_id", visitID),
			zap.Bool("email_ok", outcome.Email.OK),
			zap.Bool("archive_ok", outcome.Archive.OK),
			zap.Stringer("state", outcome.State),
		)...)
	return outcome, nil
}

// ArchivePath joins the remote archive location of a file.
func ArchivePath(root, client, year, month, file string) string {
	return path.Join(root, client, year, month, file)
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}

// Ensure DeliveryServiceImpl implements the interface
var _ primary.DeliveryService = (*DeliveryServiceImpl)(nil)
