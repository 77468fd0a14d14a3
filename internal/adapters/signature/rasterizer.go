// Package signature turns captured pen strokes into PNG signature images.
package signature

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/vector"

	"github.com/example/fieldreport/internal/ports/secondary"
)

const (
	// Width and Height are the fixed canvas size in pixels.
	Width  = 400
	Height = 200

	// PenWidth is the rendered stroke width in pixels.
	PenWidth = 3

	// DefaultName is used for the visit-wide signature.
	DefaultName = "firma_temp.png"
)

// Rasterizer implements secondary.SignatureRasterizer.
type Rasterizer struct {
	dir string
}

// NewRasterizer writes images into dir, or the OS temp directory when dir is empty.
func NewRasterizer(dir string) *Rasterizer {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Rasterizer{dir: dir}
}

// Rasterize renders strokes onto a white canvas and writes it as PNG.
// An empty stroke list produces no file and returns "".
func (r *Rasterizer) Rasterize(strokes []secondary.Stroke, name string) (string, error) {
	if len(strokes) == 0 {
		return "", nil
	}
	if name == "" {
		name = DefaultName
	}

	img := Render(strokes)

	path := filepath.Join(r.dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create signature file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode signature: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write signature: %w", err)
	}
	return path, nil
}

// Render draws strokes into a new Width x Height image. Multi-point strokes
// become connected segments PenWidth wide; a single-point stroke sets one pixel.
// Points with a NaN or infinite coordinate are dropped.
func Render(strokes []secondary.Stroke) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ras := vector.NewRasterizer(Width, Height)
	drawn := false
	for _, stroke := range strokes {
		stroke = finitePoints(stroke)
		switch len(stroke) {
		case 0:
		case 1:
			img.SetGray(int(stroke[0].X), int(stroke[0].Y), color.Gray{Y: 0})
		default:
			for i := 1; i < len(stroke); i++ {
				addSegment(ras, stroke[i-1], stroke[i])
			}
			for _, p := range stroke {
				addSquare(ras, p)
			}
			drawn = true
		}
	}
	if drawn {
		ras.Draw(img, img.Bounds(), image.Black, image.Point{})
	}
	return img
}

func finitePoints(stroke secondary.Stroke) secondary.Stroke {
	out := make(secondary.Stroke, 0, len(stroke))
	for _, p := range stroke {
		if isFinite(p.X) && isFinite(p.Y) {
			out = append(out, p)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// addSegment adds the rectangle covering a pen-wide line from a to b.
// Every polygon is added clockwise so overlaps accumulate instead of cancelling.
func addSegment(ras *vector.Rasterizer, a, b secondary.Point) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	half := float64(PenWidth) / 2
	nx, ny := -dy/length*half, dx/length*half

	addPolygon(ras, [4][2]float64{
		{a.X + nx, a.Y + ny},
		{b.X + nx, b.Y + ny},
		{b.X - nx, b.Y - ny},
		{a.X - nx, a.Y - ny},
	})
}

// addSquare fills the joint at p so consecutive segments meet without notches.
func addSquare(ras *vector.Rasterizer, p secondary.Point) {
	half := float64(PenWidth) / 2
	addPolygon(ras, [4][2]float64{
		{p.X - half, p.Y - half},
		{p.X + half, p.Y - half},
		{p.X + half, p.Y + half},
		{p.X - half, p.Y + half},
	})
}

func addPolygon(ras *vector.Rasterizer, pts [4][2]float64) {
	if signedArea(pts) < 0 {
		pts[1], pts[3] = pts[3], pts[1]
	}
	ras.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		ras.LineTo(float32(p[0]), float32(p[1]))
	}
	ras.ClosePath()
}

func signedArea(pts [4][2]float64) float64 {
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return sum / 2
}

var _ secondary.SignatureRasterizer = (*Rasterizer)(nil)
