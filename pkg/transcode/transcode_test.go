package transcode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"runtime"
	"testing"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNormalize_PNGBecomesJPEG(t *testing.T) {
	out, err := New().Normalize(pngBytes(t, 40, 20, color.NRGBA{R: 200, A: 255}))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("format = %q, want jpeg", format)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("size = %v, want 40x20", b)
	}
}

func TestNormalize_DownscalesLargeImages(t *testing.T) {
	tr := &JPEGTranscoder{quality: DefaultQuality, maxDimension: 32}
	out, err := tr.Normalize(pngBytes(t, 128, 64, color.Black))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 32 || cfg.Height != 16 {
		t.Fatalf("size = %dx%d, want 32x16", cfg.Width, cfg.Height)
	}
}

func TestNormalize_TransparentBecomesWhite(t *testing.T) {
	out, err := New().Normalize(pngBytes(t, 8, 8, color.NRGBA{}))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := img.At(4, 4).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Fatalf("expected near-white pixel, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	_, err := New().Normalize([]byte("definitely not an image"))
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
}

func TestTranscoder_OutputMetadata(t *testing.T) {
	tr := New()
	if tr.ContentType() != "image/jpeg" || tr.Extension() != ".jpg" {
		t.Fatalf("unexpected metadata %q %q", tr.ContentType(), tr.Extension())
	}
}

// pngHeader returns a PNG signature and IHDR chunk declaring a w×h 8-bit
// grayscale canvas with no pixel data behind it.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth; color type, compression, filter and interlace stay 0

	chunk := append([]byte("IHDR"), ihdr...)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestNormalize_RejectsHugeCanvasBeforeDecoding(t *testing.T) {
	data := pngHeader(100_000, 100_000)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	_, err := New().Normalize(data)
	runtime.ReadMemStats(&after)

	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
	if grew := after.TotalAlloc - before.TotalAlloc; grew > 16<<20 {
		t.Fatalf("allocated %d bytes while rejecting a header-only image", grew)
	}
}

func TestNormalize_PixelBudget(t *testing.T) {
	tr := &JPEGTranscoder{quality: DefaultQuality, maxDimension: DefaultMaxDimension, maxPixels: 100}
	if _, err := tr.Normalize(pngBytes(t, 20, 10, color.Black)); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("200 pixels over a 100 pixel budget: got %v", err)
	}
	if _, err := tr.Normalize(pngBytes(t, 10, 10, color.Black)); err != nil {
		t.Fatalf("100 pixels within budget: %v", err)
	}
}
