// Package transcode normalizes uploaded images to one encoding before storage.
package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the webp decoder with image.Decode
)

// Output format of every normalized image.
const (
	ContentType    = "image/jpeg"
	Extension      = ".jpg"
	DefaultQuality = 80
	// DefaultMaxDimension bounds the longer edge; larger images are downscaled.
	DefaultMaxDimension = 2560
	// DefaultMaxPixels caps the declared canvas checked before decoding.
	DefaultMaxPixels = 50_000_000
)

// ErrUnsupportedImage is returned for input that cannot be decoded or that
// declares a canvas larger than the pixel budget.
var ErrUnsupportedImage = errors.New("unsupported image")

// JPEGTranscoder re-encodes images as JPEG at a fixed quality.
type JPEGTranscoder struct {
	quality      int
	maxDimension int
	maxPixels    int64
}

// New returns a transcoder with DefaultQuality, DefaultMaxDimension and
// DefaultMaxPixels.
func New() *JPEGTranscoder {
	return &JPEGTranscoder{quality: DefaultQuality, maxDimension: DefaultMaxDimension, maxPixels: DefaultMaxPixels}
}

// ContentType returns the MIME type of Normalize output.
func (t *JPEGTranscoder) ContentType() string { return ContentType }

// Extension returns the file extension of Normalize output.
func (t *JPEGTranscoder) Extension() string { return Extension }

// Normalize decodes jpeg, png, gif or webp input, applies EXIF orientation,
// flattens transparency onto white, downscales oversized images and encodes JPEG.
func (t *JPEGTranscoder) Normalize(data []byte) ([]byte, error) {
	if err := t.checkCanvas(data); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}

	b := img.Bounds()
	if b.Dx() > t.maxDimension || b.Dy() > t.maxDimension {
		img = imaging.Fit(img, t.maxDimension, t.maxDimension, imaging.Lanczos)
		b = img.Bounds()
	}

	canvas := imaging.New(b.Dx(), b.Dy(), color.White)
	flat := imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(t.quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// checkCanvas reads only the image header so oversized canvases are rejected
// before any pixel buffer is allocated.
func (t *JPEGTranscoder) checkCanvas(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty canvas %dx%d", ErrUnsupportedImage, cfg.Width, cfg.Height)
	}
	limit := t.maxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if int64(cfg.Width)*int64(cfg.Height) > limit {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedImage, cfg.Width, cfg.Height, limit)
	}
	return nil
}
