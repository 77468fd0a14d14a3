package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"

	_ "image/gif"

	"github.com/go-pdf/fpdf"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxImageSide is the longest side, in pixels, an embedded image keeps.
// Phone photos above it are downscaled before embedding.
const MaxImageSide = 1600

// errMissing marks a referenced file that no longer exists.
var errMissing = errors.New("image file missing")

// embeddedImage is an image registered with the document.
type embeddedImage struct {
	name   string
	aspect float64 // width / height
}

// registerImage loads path, normalises it to JPEG or PNG and registers it
// under path. Missing files return errMissing; undecodable files are an error.
func registerImage(doc *fpdf.Fpdf, path string) (*embeddedImage, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}

	data, imageType, err := prepareImage(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	info := doc.RegisterImageOptionsReader(path, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("failed to embed image %s: %w", path, err)
	}
	if info == nil || info.Height() == 0 {
		return nil, fmt.Errorf("failed to embed image %s: empty image", path)
	}
	return &embeddedImage{name: path, aspect: info.Width() / info.Height()}, nil
}

// prepareImage returns bytes fpdf can embed plus their image type. JPEGs within
// MaxImageSide pass through untouched; everything else is re-encoded, scaled
// down first when too large.
func prepareImage(raw []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", err
	}

	b := img.Bounds()
	oversized := b.Dx() > MaxImageSide || b.Dy() > MaxImageSide
	if format == "jpeg" && !oversized {
		return raw, "JPG", nil
	}
	if oversized {
		img = downscale(img, MaxImageSide)
	}

	var out bytes.Buffer
	if format == "jpeg" {
		if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", err
		}
		return out.Bytes(), "JPG", nil
	}
	if err := png.Encode(&out, img); err != nil {
		return nil, "", err
	}
	return out.Bytes(), "PNG", nil
}

// downscale fits img inside a maxSide square, keeping its aspect ratio.
func downscale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = h * maxSide / w
		w = maxSide
	} else {
		w = w * maxSide / h
		h = maxSide
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
