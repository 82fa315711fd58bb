package view

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrsinham/starforge/internal/imageio"
)

func writePGM(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 251)
	}
	if err := imageio.WritePGM(path, img); err != nil {
		t.Fatalf("WritePGM failed: %v", err)
	}
}

func TestRun(t *testing.T) {
	tmpDir := t.TempDir()
	in := filepath.Join(tmpDir, "output_frame0.pgm")
	out := filepath.Join(tmpDir, "output_visualized.png")
	writePGM(t, in, 30, 20)

	var opened string
	var buf bytes.Buffer
	res, err := Run(context.Background(), Options{
		Input:  in,
		Output: out,
		Show:   true,
		Opener: func(_ context.Context, p string) error { opened = p; return nil },
		Out:    &buf,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Width != 30 || res.Height != 20 {
		t.Errorf("Expected 30x20, got %dx%d", res.Width, res.Height)
	}
	if !res.Shown || opened != out {
		t.Errorf("Expected viewer to open %s, got %q", out, opened)
	}
	for _, line := range []string{"Loaded " + in + " successfully.", "Dimensions: (30, 20) | Mode: L", "Saved visualization to: " + out} {
		if !strings.Contains(buf.String(), line) {
			t.Errorf("Missing status line %q in %q", line, buf.String())
		}
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Open PNG failed: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("PNG decode failed: %v", err)
	}
	g := imageio.ToGray(img)
	if g.Pix[45] != 45 {
		t.Errorf("PNG should be lossless, sample 45 is %d", g.Pix[45])
	}
}

func TestRun_MissingInput(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := Run(context.Background(), Options{
		Input:  filepath.Join(tmpDir, "output_frame0.pgm"),
		Output: filepath.Join(tmpDir, "output_visualized.png"),
		Quiet:  true,
	})
	if !errors.Is(err, imageio.ErrMissingInputFile) {
		t.Errorf("Expected ErrMissingInputFile, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "output_visualized.png")); err == nil {
		t.Errorf("No PNG should be written without input")
	}
}

func TestRun_CorruptInput(t *testing.T) {
	tmpDir := t.TempDir()
	in := filepath.Join(tmpDir, "output_frame0.pgm")
	_ = os.WriteFile(in, []byte("P5\nbroken"), 0644)

	_, err := Run(context.Background(), Options{Input: in, Output: filepath.Join(tmpDir, "o.png"), Quiet: true})
	if !errors.Is(err, imageio.ErrCodec) {
		t.Errorf("Expected ErrCodec, got %v", err)
	}
}

func TestRun_ViewerFailureIsNotFatal(t *testing.T) {
	tmpDir := t.TempDir()
	in := filepath.Join(tmpDir, "output_frame0.pgm")
	writePGM(t, in, 4, 4)

	var buf bytes.Buffer
	res, err := Run(context.Background(), Options{
		Input:  in,
		Output: filepath.Join(tmpDir, "o.png"),
		Show:   true,
		Opener: func(context.Context, string) error { return errors.New("no display") },
		Out:    &buf,
	})
	if err != nil {
		t.Fatalf("Viewer failure should not fail Run: %v", err)
	}
	if res.Shown {
		t.Errorf("Shown should be false when the viewer fails")
	}
	if !strings.Contains(buf.String(), "Could not open viewer: no display") {
		t.Errorf("Expected viewer failure message, got %q", buf.String())
	}
}
