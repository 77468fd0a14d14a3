// Package pdf renders visit reports as paginated A4 PDF documents.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/core/visit"
	"github.com/example/fieldreport/internal/ports/secondary"
)

// Layout constants, in millimetres.
const (
	headerHeight   = 25.0
	marginSide     = 15.0
	marginTop      = headerHeight + 7
	marginBottom   = 20.0
	nearBottom     = 60.0 // an entry starting below pageHeight-nearBottom moves to a new page
	photoRowHeight = 40.0
	photoGap       = 3.0
	signatureW     = 50.0
	signatureH     = 25.0
	globalSigW     = 70.0
	globalSigH     = 35.0

	title            = "REPORTE TÉCNICO"
	notesPlaceholder = "Sin observaciones."
)

// LogoCandidates are looked up, in order, inside the assets directory.
var LogoCandidates = []string{"logo.png", "logo2.png"}

type rgb struct{ r, g, b int }

var (
	colorPrimary   = rgb{5, 131, 242}
	colorSecondary = rgb{38, 133, 191}
	colorInfoBox   = rgb{224, 242, 255}
	colorDivider   = rgb{224, 224, 224}
	colorOKFill    = rgb{222, 247, 228}
	colorOKText    = rgb{27, 122, 52}
	colorNoFill    = rgb{255, 229, 229}
	colorNoText    = rgb{178, 34, 34}
)

// Options configures a Renderer.
type Options struct {
	AssetsDir string // where LogoCandidates are searched
	OutputDir string // empty = OS temp dir
	Compress  bool
}

// Renderer implements secondary.ReportRenderer with fpdf.
type Renderer struct {
	opts   Options
	logger *zap.Logger
}

// NewRenderer creates a new PDF renderer.
func NewRenderer(opts Options, logger *zap.Logger) *Renderer {
	if opts.OutputDir == "" {
		opts.OutputDir = os.TempDir()
	}
	return &Renderer{opts: opts, logger: logger}
}

// Render lays out the report and writes it to OutputDir.
func (r *Renderer) Render(ctx context.Context, req secondary.RenderRequest) (*secondary.RenderedReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	doc := newDocument(r.findLogo(), r.opts.Compress)
	doc.AddPage()
	doc.infoBlock(req)

	doc.sectionTitle("BITÁCORA")
	for _, entry := range req.Entries {
		if err := doc.entry(entry); err != nil {
			return nil, err
		}
	}

	doc.sectionTitle("OBSERVACIONES")
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		notes = notesPlaceholder
	}
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 5, doc.tr(notes), "", "L", false)
	doc.Ln(4)

	if req.SignaturePath != "" {
		if err := doc.globalSignature(req.SignaturePath); err != nil {
			return nil, err
		}
	}

	path := filepath.Join(r.opts.OutputDir, FileName(req.ClientName, req.GeneratedAt.Format("20060102_150405")))
	pages := doc.PageNo()
	if err := doc.OutputFileAndClose(path); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	r.logger.Info("report rendered",
		zap.String("path", path),
		zap.Int("pages", pages),
		zap.Int("entries", len(req.Entries)),
	)
	return &secondary.RenderedReport{Path: path, Pages: pages}, nil
}

func (r *Renderer) findLogo() string {
	for _, name := range LogoCandidates {
		path := filepath.Join(r.opts.AssetsDir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FileName returns the report file name for a client and a formatted stamp.
func FileName(client, stamp string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(client))
	safe = strings.ReplaceAll(safe, " ", "_")
	return fmt.Sprintf("Reporte_%s_%s.pdf", safe, stamp)
}

// document wraps fpdf with the report's drawing helpers.
type document struct {
	*fpdf.Fpdf
	tr     func(string) string
	images map[string]*embeddedImage
}

func newDocument(logo string, compress bool) *document {
	f := fpdf.New("P", "mm", "A4", "")
	d := &document{
		Fpdf:   f,
		tr:     f.UnicodeTranslatorFromDescriptor(""),
		images: make(map[string]*embeddedImage),
	}

	f.SetCompression(compress)
	f.SetMargins(marginSide, marginTop, marginSide)
	f.SetAutoPageBreak(true, marginBottom)
	f.AliasNbPages("")
	f.SetTitle(title, true)

	var logoImg *embeddedImage
	if logo != "" {
		img, err := registerImage(f, logo)
		if err == nil {
			logoImg = img
		} else {
			// A broken logo must not poison the document.
			f.ClearError()
		}
	}

	f.SetHeaderFuncMode(func() {
		pageW, _ := f.GetPageSize()
		d.fill(colorPrimary)
		f.Rect(0, 0, pageW, headerHeight, "F")
		if logoImg != nil {
			h := headerHeight - 8
			f.ImageOptions(logoImg.name, 8, 4, h*logoImg.aspect, h, false, fpdf.ImageOptions{}, 0, "")
		}
		f.SetFont("Helvetica", "B", 16)
		f.SetTextColor(255, 255, 255)
		f.SetXY(0, (headerHeight-10)/2)
		f.CellFormat(pageW, 10, d.tr(title), "", 0, "C", false, 0, "")
		f.SetTextColor(0, 0, 0)
	}, true)

	f.SetFooterFunc(func() {
		f.SetY(-15)
		f.SetFont("Helvetica", "I", 8)
		f.SetTextColor(128, 128, 128)
		f.CellFormat(0, 10, d.tr(fmt.Sprintf("Página %d de {nb}", f.PageNo())), "", 0, "C", false, 0, "")
		f.SetTextColor(0, 0, 0)
	})

	return d
}

func (d *document) fill(c rgb) { d.SetFillColor(c.r, c.g, c.b) }

func (d *document) pageBottom() float64 {
	_, h := d.GetPageSize()
	return h - marginBottom
}

func (d *document) usableWidth() float64 {
	w, _ := d.GetPageSize()
	return w - 2*marginSide
}

// ensureSpace starts a new page when h millimetres do not fit below the cursor.
func (d *document) ensureSpace(h float64) {
	if d.GetY()+h > d.pageBottom() {
		d.AddPage()
	}
}

func (d *document) infoBlock(req secondary.RenderRequest) {
	const lineH, pad = 6.0, 3.0
	y := d.GetY()
	boxH := 3*lineH + 2*pad

	d.fill(colorInfoBox)
	d.Rect(marginSide, y, d.usableWidth(), boxH, "F")

	lines := [][2]string{
		{"Cliente:", req.ClientName},
		{"Técnico:", req.TechnicianName},
		{"Fecha:", req.GeneratedAt.Format("02/01/2006 15:04")},
	}
	d.SetXY(marginSide+4, y+pad)
	for _, l := range lines {
		d.SetFont("Helvetica", "B", 10)
		d.CellFormat(25, lineH, d.tr(l[0]), "", 0, "L", false, 0, "")
		d.SetFont("Helvetica", "", 10)
		d.CellFormat(0, lineH, d.tr(l[1]), "", 1, "L", false, 0, "")
		d.SetX(marginSide + 4)
	}
	d.SetY(y + boxH + 6)
}

func (d *document) sectionTitle(text string) {
	d.ensureSpace(14)
	d.SetFont("Helvetica", "B", 13)
	d.SetTextColor(colorSecondary.r, colorSecondary.g, colorSecondary.b)
	d.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
	d.SetTextColor(0, 0, 0)
	d.Ln(2)
}

func (d *document) entry(e visit.UserEntry) error {
	_, pageH := d.GetPageSize()
	if d.GetY() > pageH-nearBottom {
		d.AddPage()
	}

	chipW := 32.0
	d.SetFont("Helvetica", "B", 11)
	d.CellFormat(d.usableWidth()-chipW, 7, d.tr(e.Name), "", 0, "L", false, 0, "")

	label, fill, text := "NO ATENDIDO", colorNoFill, colorNoText
	if e.Attended {
		label, fill, text = "ATENDIDO", colorOKFill, colorOKText
	}
	d.fill(fill)
	d.SetTextColor(text.r, text.g, text.b)
	d.SetFont("Helvetica", "B", 8)
	d.CellFormat(chipW, 7, label, "", 1, "C", true, 0, "")
	d.SetTextColor(0, 0, 0)

	detail := strings.TrimSpace(e.Detail)
	if detail == "" {
		detail = "-"
	}
	d.SetFont("Helvetica", "", 10)
	d.MultiCell(0, 5, d.tr(detail), "", "L", false)
	d.Ln(2)

	if e.Attended && len(e.Photos) > 0 {
		if err := d.photos(e.Photos); err != nil {
			return err
		}
	}

	if e.SignaturePath != "" {
		img, err := d.image(e.SignaturePath)
		if err != nil {
			return err
		}
		if img != nil {
			d.ensureSpace(6 + signatureH)
			d.SetFont("Helvetica", "I", 9)
			d.CellFormat(0, 6, d.tr("Firma: "+e.Name), "", 1, "L", false, 0, "")
			y := d.GetY()
			d.ImageOptions(img.name, marginSide, y, signatureW, signatureH, false, fpdf.ImageOptions{}, 0, "")
			d.SetY(y + signatureH + 2)
		}
	}

	y := d.GetY() + 2
	d.SetDrawColor(colorDivider.r, colorDivider.g, colorDivider.b)
	d.SetLineWidth(0.2)
	d.Line(marginSide, y, marginSide+d.usableWidth(), y)
	d.SetY(y + 4)
	return nil
}

// photos lays images out left to right in rows of photoRowHeight, wrapping to
// a new row past the usable width and to a new page past the bottom margin.
func (d *document) photos(paths []string) error {
	var imgs []*embeddedImage
	for _, p := range paths {
		img, err := d.image(p)
		if err != nil {
			return err
		}
		if img != nil {
			imgs = append(imgs, img)
		}
	}
	if len(imgs) == 0 {
		return nil
	}

	d.ensureSpace(6 + photoRowHeight)
	d.SetFont("Helvetica", "B", 9)
	d.CellFormat(0, 6, "Evidencias", "", 1, "L", false, 0, "")

	left, right := marginSide, marginSide+d.usableWidth()
	x, y := left, d.GetY()
	for _, img := range imgs {
		w, h := photoRowHeight*img.aspect, photoRowHeight
		if w > right-left {
			w = right - left
			h = w / img.aspect
		}
		if x > left && x+w > right {
			x = left
			y += photoRowHeight + photoGap
		}
		if y+h > d.pageBottom() {
			d.AddPage()
			x, y = left, d.GetY()
		}
		d.ImageOptions(img.name, x, y, w, h, false, fpdf.ImageOptions{}, 0, "")
		x += w + photoGap
	}
	d.SetY(y + photoRowHeight + photoGap)
	return nil
}

func (d *document) globalSignature(path string) error {
	img, err := d.image(path)
	if err != nil || img == nil {
		return err
	}
	d.ensureSpace(14 + globalSigH)
	d.sectionTitle("CONFORMIDAD DEL SERVICIO")
	y := d.GetY()
	d.ImageOptions(img.name, marginSide, y, globalSigW, globalSigH, false, fpdf.ImageOptions{}, 0, "")
	d.SetY(y + globalSigH + 2)
	return nil
}

// image returns a registered image, or nil when the file is missing.
func (d *document) image(path string) (*embeddedImage, error) {
	if img, ok := d.images[path]; ok {
		return img, nil
	}
	img, err := registerImage(d.Fpdf, path)
	if errors.Is(err, errMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.images[path] = img
	return img, nil
}

var _ secondary.ReportRenderer = (*Renderer)(nil)
