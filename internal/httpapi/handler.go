package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/app"
	"github.com/example/fieldreport/internal/core/checklist"
	"github.com/example/fieldreport/internal/core/visit"
	"github.com/example/fieldreport/internal/ports/primary"
	"github.com/example/fieldreport/internal/ports/secondary"
)

// maxUploadMemory bounds the multipart form kept in memory; the rest spills to disk.
const maxUploadMemory = 32 << 20

// Handler serves the API routes.
type Handler struct {
	svc        Services
	uploadsDir string
	logger     *zap.Logger
}

type createClientRequest struct {
	Name  string `json:"nombre" binding:"required"`
	Email string `json:"email"`
}

// userEntryForm is one element of the datos_usuarios form field.
// Fotos name files of the fotos upload by their original file name.
type userEntryForm struct {
	Name      string             `json:"nombre"`
	Attended  bool               `json:"atendido"`
	Detail    string             `json:"detalle"`
	Photos    []string           `json:"fotos"`
	Checklist checklist.State    `json:"checklist,omitempty"`
	Strokes   []secondary.Stroke `json:"firma,omitempty"`
}

type visitResponse struct {
	ID             int64                `json:"id"`
	Timestamp      string               `json:"fecha"`
	ClientName     string               `json:"cliente"`
	TechnicianName string               `json:"tecnico"`
	Notes          string               `json:"obs"`
	PDFPath        string               `json:"pdf"`
	PDFExists      bool                 `json:"pdf_existe"`
	Sent           bool                 `json:"enviado"`
	Entries        []visitEntryResponse `json:"usuarios,omitempty"`
}

type visitEntryResponse struct {
	Name      string          `json:"nombre"`
	Attended  bool            `json:"atendido"`
	Detail    string          `json:"detalle"`
	Photos    []string        `json:"fotos"`
	Checklist checklist.State `json:"checklist,omitempty"`
}

type saveResponse struct {
	VisitID  int64  `json:"visit_id"`
	PDFPath  string `json:"pdf_generated"`
	Pages    int    `json:"pages"`
	Sent     bool   `json:"email_sent"`
	Archived bool   `json:"sharepoint_upload"`
	Message  string `json:"message"`
}

type syncResponse struct {
	Sent     int                   `json:"enviados"`
	Total    int                   `json:"total"`
	Failures []primary.SyncFailure `json:"fallidos,omitempty"`
}

// ListClients handles GET /clientes.
func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.svc.Directory.ListClients(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, clients)
}

// CreateClient handles POST /clientes.
func (h *Handler) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "nombre is required")
		return
	}

	added, err := h.svc.Directory.AddClient(c.Request.Context(), req.Name, req.Email)
	if errors.Is(err, app.ErrInvalidInput) {
		badRequest(c, err.Error())
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	if !added {
		fail(c, http.StatusConflict, CodeConflict, fmt.Sprintf("client %q already exists", req.Name))
		return
	}
	created(c, gin.H{"nombre": strings.TrimSpace(req.Name)})
}

// ListTechnicians handles GET /tecnicos.
func (h *Handler) ListTechnicians(c *gin.Context) {
	technicians, err := h.svc.Directory.ListTechnicians(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, technicians)
}

// ListUsers handles GET /usuarios/:cliente.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.Directory.ListUsers(c.Request.Context(), c.Param("cliente"))
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, users)
}

// ListVisits handles GET /reportes.
func (h *Handler) ListVisits(c *gin.Context) {
	visits, err := h.svc.Visits.ListVisits(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	out := make([]visitResponse, len(visits))
	for i, v := range visits {
		out[i] = toVisitResponse(v, false)
	}
	ok(c, out)
}

// GetVisit handles GET /reportes/:id.
func (h *Handler) GetVisit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid visit id")
		return
	}

	v, err := h.svc.Visits.GetVisit(c.Request.Context(), id)
	if errors.Is(err, app.ErrVisitNotFound) {
		fail(c, http.StatusNotFound, CodeNotFound, err.Error())
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, toVisitResponse(v, true))
}

// CreateVisit handles POST /reporte/crear. The form carries cliente, tecnico,
// obs, datos_usuarios (JSON), optional visita_id, lat, lon and enviar, plus
// the files firma_tecnico and fotos.
func (h *Handler) CreateVisit(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		badRequest(c, "invalid multipart form")
		return
	}

	var forms []userEntryForm
	if raw := c.PostForm("datos_usuarios"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &forms); err != nil {
			badRequest(c, "datos_usuarios must be a JSON array")
			return
		}
	}

	var visitID int64
	if raw := c.PostForm("visita_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			badRequest(c, "invalid visita_id")
			return
		}
		visitID = id
	}

	names := make([]visit.UserEntry, len(forms))
	for i, f := range forms {
		names[i] = visit.UserEntry{Name: f.Name}
	}
	guard := visit.CanSaveVisit(visit.SaveVisitContext{
		ClientName:     c.PostForm("cliente"),
		TechnicianName: c.PostForm("tecnico"),
		Entries:        names,
	})
	if !guard.Allowed {
		badRequest(c, guard.Error().Error())
		return
	}

	photoFiles := c.Request.MultipartForm.File["fotos"]
	if name, dup := duplicateName(photoFiles); dup {
		badRequest(c, fmt.Sprintf("fotos: file name %q is uploaded more than once", name))
		return
	}

	photos, err := h.saveUploads(photoFiles)
	if err != nil {
		internalError(c, err)
		return
	}
	var signaturePath string
	if files := c.Request.MultipartForm.File["firma_tecnico"]; len(files) > 0 {
		saved, err := h.saveUploads(files[:1])
		if err != nil {
			internalError(c, err)
			return
		}
		signaturePath = saved[files[0].Filename]
	}

	req := primary.SaveVisitRequest{
		VisitID:        visitID,
		ClientName:     c.PostForm("cliente"),
		TechnicianName: c.PostForm("tecnico"),
		Notes:          c.PostForm("obs"),
		SignaturePath:  signaturePath,
		Latitude:       c.PostForm("lat"),
		Longitude:      c.PostForm("lon"),
		Deliver:        c.DefaultPostForm("enviar", "true") == "true",
		Entries:        make([]primary.EntryInput, len(forms)),
	}
	for i, f := range forms {
		entry := primary.EntryInput{
			Name:             f.Name,
			Attended:         f.Attended,
			Detail:           f.Detail,
			Checklist:        f.Checklist,
			SignatureStrokes: f.Strokes,
		}
		for _, name := range f.Photos {
			if p, found := photos[name]; found {
				entry.Photos = append(entry.Photos, p)
			}
		}
		req.Entries[i] = entry
	}

	resp, err := h.svc.Visits.SaveVisit(c.Request.Context(), req)
	switch {
	case errors.Is(err, visit.ErrValidation):
		badRequest(c, err.Error())
		return
	case errors.Is(err, app.ErrVisitNotFound):
		fail(c, http.StatusNotFound, CodeNotFound, err.Error())
		return
	case errors.Is(err, app.ErrRender):
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, CodeRender, err.Error())
		return
	case err != nil:
		internalError(c, err)
		return
	}

	out := saveResponse{
		VisitID: resp.VisitID,
		PDFPath: resp.PDFPath,
		Pages:   resp.Pages,
		Sent:    resp.State == visit.StateSent,
		Message: resp.Message,
	}
	if resp.Delivery != nil {
		out.Archived = resp.Delivery.Archive.OK
	}
	created(c, out)
}

// SyncPending handles POST /sync.
func (h *Handler) SyncPending(c *gin.Context) {
	report, err := h.svc.Sync.SyncPending(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, syncResponse{Sent: report.Sent, Total: report.Total, Failures: report.Failures})
}

// saveUploads stores each file under a fresh name and maps the client's
// original file name to the stored path.
func (h *Handler) saveUploads(files []*multipart.FileHeader) (map[string]string, error) {
	saved := make(map[string]string, len(files))
	if len(files) == 0 {
		return saved, nil
	}
	if err := os.MkdirAll(h.uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}

	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		dest := filepath.Join(h.uploadsDir, uuid.NewString()+ext)
		if err := saveFile(fh, dest); err != nil {
			return nil, err
		}
		saved[fh.Filename] = dest
	}
	return saved, nil
}

// duplicateName returns the first original file name shared by two uploads.
// Entries reference photos by that name, so it must be unique.
func duplicateName(files []*multipart.FileHeader) (string, bool) {
	seen := make(map[string]bool, len(files))
	for _, fh := range files {
		if seen[fh.Filename] {
			return fh.Filename, true
		}
		seen[fh.Filename] = true
	}
	return "", false
}

func saveFile(fh *multipart.FileHeader, dest string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to store upload %s: %w", fh.Filename, err)
	}
	if _, err := out.ReadFrom(src); err != nil {
		out.Close()
		return fmt.Errorf("failed to store upload %s: %w", fh.Filename, err)
	}
	return out.Close()
}

func toVisitResponse(v *primary.Visit, withEntries bool) visitResponse {
	out := visitResponse{
		ID:             v.ID,
		Timestamp:      v.Timestamp,
		ClientName:     v.ClientName,
		TechnicianName: v.TechnicianName,
		Notes:          v.Notes,
		PDFPath:        v.PDFPath,
		PDFExists:      v.PDFExists,
		Sent:           v.DeliveryState == visit.StateSent,
	}
	if !withEntries {
		return out
	}
	out.Entries = make([]visitEntryResponse, len(v.Entries))
	for i, e := range v.Entries {
		photos := e.Photos
		if photos == nil {
			photos = []string{}
		}
		out.Entries[i] = visitEntryResponse{
			Name:      e.Name,
			Attended:  e.Attended,
			Detail:    e.Detail,
			Photos:    photos,
			Checklist: e.Checklist,
		}
	}
	return out
}
