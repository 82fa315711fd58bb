package convert

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrsinham/starforge/internal/imageio"
)

func writeSource(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x * 255) / max(1, w-1))})
		}
	}
	if err := imageio.WritePNG(path, img); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
}

func TestRun_ExactSize(t *testing.T) {
	tmpDir := t.TempDir()
	in := filepath.Join(tmpDir, "Raw_image_Fig1.png")
	out := filepath.Join(tmpDir, "input_image.bin")
	writeSource(t, in, 40, 30)

	var buf bytes.Buffer
	res, err := Run(Options{Input: in, Output: out, Width: 40, Height: 30, Out: &buf})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Resized() {
		t.Errorf("Exact-size source should not be resized")
	}
	if res.Bytes != 40*30 {
		t.Errorf("Expected %d bytes, got %d", 40*30, res.Bytes)
	}
	if strings.Contains(buf.String(), "[WARN]") {
		t.Errorf("Unexpected warning: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "[SUCCESS] Saved "+out) {
		t.Errorf("Expected success line, got %q", buf.String())
	}

	c, err := imageio.ReadRaw(out, 40, 30)
	if err != nil {
		t.Fatalf("ReadRaw failed: %v", err)
	}
	if c.At(0, 0) != 0 || c.At(39, 29) != 255 {
		t.Errorf("Expected lossless gradient, got %d..%d", c.At(0, 0), c.At(39, 29))
	}
}

func TestRun_ResizesOnMismatch(t *testing.T) {
	tmpDir := t.TempDir()
	in := filepath.Join(tmpDir, "small.png")
	out := filepath.Join(tmpDir, "input_image.bin")
	writeSource(t, in, 20, 10)

	var buf bytes.Buffer
	res, err := Run(Options{Input: in, Output: out, Width: 64, Height: 48, Out: &buf})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !errors.Is(res.Mismatch, imageio.ErrSizeMismatch) {
		t.Errorf("Expected ErrSizeMismatch warning, got %v", res.Mismatch)
	}
	if !strings.Contains(buf.String(), "[WARN] Resizing image from (20, 10) to (64, 48)") {
		t.Errorf("Expected resize warning, got %q", buf.String())
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 64*48 {
		t.Errorf("Expected %d bytes, got %d", 64*48, info.Size())
	}
}

func TestRun_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	garbage := filepath.Join(tmpDir, "garbage.jpg")
	_ = os.WriteFile(garbage, []byte("definitely not a jpeg"), 0644)

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{
			name:    "missing input",
			opts:    Options{Input: filepath.Join(tmpDir, "Raw_image_Fig1.jpg"), Output: filepath.Join(tmpDir, "o.bin"), Width: 4, Height: 4},
			wantErr: imageio.ErrMissingInputFile,
		},
		{
			name:    "corrupt input",
			opts:    Options{Input: garbage, Output: filepath.Join(tmpDir, "o.bin"), Width: 4, Height: 4},
			wantErr: imageio.ErrCodec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Quiet = true
			_, err := Run(tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if _, statErr := os.Stat(tt.opts.Output); statErr == nil {
				t.Errorf("Output should not be written on failure")
			}
		})
	}
}

func TestRun_Quiet(t *testing.T) {
	tmpDir := t.TempDir()
	in := filepath.Join(tmpDir, "src.png")
	writeSource(t, in, 8, 8)

	var buf bytes.Buffer
	if _, err := Run(Options{Input: in, Output: filepath.Join(tmpDir, "o.bin"), Width: 16, Height: 16, Quiet: true, Out: &buf}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Quiet run printed %q", buf.String())
	}
}
