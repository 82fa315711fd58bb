package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrsinham/starforge/internal/field"
)

func patternCanvas(t *testing.T, w, h int) *field.Canvas {
	t.Helper()
	c, err := field.NewCanvas(w, h)
	if err != nil {
		t.Fatalf("NewCanvas failed: %v", err)
	}
	for i := range c.Pix() {
		c.Pix()[i] = uint8((i*37 + i/w) % 256)
	}
	return c
}

func TestRaw_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "input_image.bin")
	c := patternCanvas(t, 31, 17)

	if err := WriteRaw(path, c); err != nil {
		t.Fatalf("WriteRaw failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 31*17 {
		t.Errorf("Expected %d bytes, got %d", 31*17, info.Size())
	}

	got, err := ReadRaw(path, 31, 17)
	if err != nil {
		t.Fatalf("ReadRaw failed: %v", err)
	}
	if !bytes.Equal(got.Pix(), c.Pix()) {
		t.Errorf("Raw round trip is not lossless")
	}
}

func TestRaw_NoHeaderRowMajor(t *testing.T) {
	c, _ := field.NewCanvas(3, 2)
	c.Blend(2, 0, 7)
	c.Blend(0, 1, 9)

	var buf bytes.Buffer
	if err := EncodeRaw(&buf, c); err != nil {
		t.Fatalf("EncodeRaw failed: %v", err)
	}
	want := []byte{0, 0, 7, 9, 0, 0}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Expected %v, got %v", want, buf.Bytes())
	}
}

func TestReadRaw_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	short := filepath.Join(tmpDir, "short.bin")
	if err := os.WriteFile(short, make([]byte, 10), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		w, h    int
		wantErr error
	}{
		{"missing file", filepath.Join(tmpDir, "nope.bin"), 4, 4, ErrMissingInputFile},
		{"size mismatch", short, 4, 4, ErrSizeMismatch},
		{"invalid dimensions", short, 0, 10, field.ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRaw(tt.path, tt.w, tt.h)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDecodeRaw_Length(t *testing.T) {
	if _, err := DecodeRaw(bytes.NewReader(make([]byte, 5)), 2, 3); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Short stream: expected ErrSizeMismatch, got %v", err)
	}
	if _, err := DecodeRaw(bytes.NewReader(make([]byte, 7)), 2, 3); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Long stream: expected ErrSizeMismatch, got %v", err)
	}
	if _, err := DecodeRaw(bytes.NewReader(make([]byte, 6)), 2, 3); err != nil {
		t.Errorf("Exact stream: unexpected error %v", err)
	}
}

func TestEncodeJPEG_Grayscale(t *testing.T) {
	c := patternCanvas(t, 64, 48)

	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, c.Gray(), 0); err != nil {
		t.Fatalf("EncodeJPEG failed: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if cfg.ColorModel != color.GrayModel {
		t.Errorf("Expected single-channel JPEG")
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("Expected 64x48, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestDecodeGray(t *testing.T) {
	tmpDir := t.TempDir()

	rgba := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			rgba.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	path := filepath.Join(tmpDir, "red.png")
	if err := WritePNG(path, rgba); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	g, format, err := DecodeGray(path)
	if err != nil {
		t.Fatalf("DecodeGray failed: %v", err)
	}
	if format != "png" {
		t.Errorf("Expected png format, got %q", format)
	}
	want := color.GrayModel.Convert(color.RGBA{255, 0, 0, 255}).(color.Gray).Y
	if got := g.GrayAt(3, 3).Y; got != want {
		t.Errorf("Expected luminance %d, got %d", want, got)
	}

	if _, _, err := DecodeGray(filepath.Join(tmpDir, "missing.jpg")); !errors.Is(err, ErrMissingInputFile) {
		t.Errorf("Expected ErrMissingInputFile, got %v", err)
	}

	garbage := filepath.Join(tmpDir, "garbage.jpg")
	_ = os.WriteFile(garbage, []byte("not an image"), 0644)
	if _, _, err := DecodeGray(garbage); !errors.Is(err, ErrCodec) {
		t.Errorf("Expected ErrCodec, got %v", err)
	}
}

func TestToGray_SubImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	src.SetGray(6, 7, color.Gray{Y: 99})
	sub := src.SubImage(image.Rect(5, 5, 10, 10))

	g := ToGray(sub)
	if g.Bounds() != image.Rect(0, 0, 5, 5) {
		t.Fatalf("Expected origin-anchored bounds, got %v", g.Bounds())
	}
	if g.GrayAt(1, 2).Y != 99 {
		t.Errorf("Expected 99 at (1,2), got %d", g.GrayAt(1, 2).Y)
	}
}

func TestResize(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 40, 30))
	for i := range src.Pix {
		src.Pix[i] = 128
	}

	dst, err := Resize(src, 80, 15)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if dst.Bounds().Dx() != 80 || dst.Bounds().Dy() != 15 {
		t.Errorf("Expected 80x15, got %v", dst.Bounds())
	}
	if v := dst.GrayAt(40, 7).Y; v < 126 || v > 130 {
		t.Errorf("Flat image should stay flat, got %d", v)
	}

	if _, err := Resize(src, 0, 10); !errors.Is(err, field.ErrInvalidDimensions) {
		t.Errorf("Expected ErrInvalidDimensions, got %v", err)
	}
}

func TestPGM_RoundTrip(t *testing.T) {
	c := patternCanvas(t, 23, 11)

	var buf bytes.Buffer
	if err := EncodePGM(&buf, c.Gray()); err != nil {
		t.Fatalf("EncodePGM failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("P5")) {
		t.Errorf("Expected binary PGM magic P5, got %q", buf.Bytes()[:2])
	}

	g, err := DecodePGM(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodePGM failed: %v", err)
	}
	got, err := field.FromGray(g)
	if err != nil {
		t.Fatalf("FromGray failed: %v", err)
	}
	if !bytes.Equal(got.Pix(), c.Pix()) {
		t.Errorf("PGM round trip is not lossless")
	}
}

func TestDecodePGM_Plain(t *testing.T) {
	plain := "P2\n# comment\n3 2\n255\n0 10 20\n30 40 255\n"
	g, err := DecodePGM(bytes.NewReader([]byte(plain)))
	if err != nil {
		t.Fatalf("DecodePGM failed: %v", err)
	}
	if g.GrayAt(1, 0).Y != 10 || g.GrayAt(2, 1).Y != 255 {
		t.Errorf("Unexpected samples: %v", g.Pix)
	}
}

func TestReadPGM_Missing(t *testing.T) {
	if _, err := ReadPGM(filepath.Join(t.TempDir(), "output_frame0.pgm")); !errors.Is(err, ErrMissingInputFile) {
		t.Errorf("Expected ErrMissingInputFile, got %v", err)
	}
}

func TestAnnotate(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 200, 100))
	for i := range src.Pix {
		src.Pix[i] = 128
	}

	out, err := Annotate(src, "seed 42")
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	lo, hi := uint8(255), uint8(0)
	for _, v := range out.Pix {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi < 200 || lo > 50 {
		t.Errorf("Expected white text with dark outline, range %d..%d", lo, hi)
	}
	for _, v := range src.Pix {
		if v != 128 {
			t.Fatalf("Annotate must not modify its input")
		}
	}

	plain, err := Annotate(src, "")
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if !bytes.Equal(plain.Pix, src.Pix) {
		t.Errorf("Empty label should copy the image unchanged")
	}

	if _, err := Annotate(image.NewGray(image.Rect(0, 0, 0, 0)), "x"); err == nil {
		t.Errorf("Expected error for empty image")
	}
}
