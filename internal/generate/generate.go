// Package generate renders star-field frames and writes every artifact the
// downstream tools consume: the JPEG reference preview, the raw pipeline
// buffer and, optionally, a DICOM Secondary Capture.
package generate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/mrsinham/starforge/internal/config"
	"github.com/mrsinham/starforge/internal/dicom"
	"github.com/mrsinham/starforge/internal/field"
	"github.com/mrsinham/starforge/internal/imageio"
	"github.com/mrsinham/starforge/internal/scene"
	"github.com/mrsinham/starforge/internal/util"
)

// Kinds of generated files.
const (
	KindPreview = "jpeg"
	KindRaw     = "raw"
	KindDICOM   = "dicom"
)

// Options configures a generation run.
type Options struct {
	Config *config.Config

	Quiet            bool                     // Suppress progress output (for TUI integration)
	ProgressCallback func(current, total int) // Optional callback for progress updates
	Out              io.Writer                // status lines, defaults to os.Stdout
}

// GeneratedFile describes one written artifact.
type GeneratedFile struct {
	Path  string
	Kind  string
	Frame int
	Bytes int64
}

// FrameReport describes one rendered frame.
type FrameReport struct {
	Index   int
	Seed    uint64
	Summary scene.Summary
	Stats   field.Statistics
}

// Result is the outcome of a run.
type Result struct {
	Seed   uint64
	Frames []FrameReport
	Files  []GeneratedFile
}

// ResolveSeed returns the configured seed, or a seed derived from the raw
// output filename so the same configuration reproduces the same frames.
func ResolveSeed(cfg *config.Config) (seed uint64, derived bool) {
	if cfg.Scene.Seed != 0 {
		return cfg.Scene.Seed, false
	}
	return util.SeedFromString(cfg.Files.Raw), true
}

// FramePath returns path for single-frame runs and <stem>_NNN<ext> for
// frame i of a batch.
func FramePath(path string, i, frames int) string {
	if frames <= 1 || path == "" {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(path, ext), i, ext)
}

// Run renders cfg.Output.Frames frames and writes their artifacts.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	var mu sync.Mutex
	printf := func(format string, args ...any) {
		if opts.Quiet {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprintf(out, format, args...)
	}

	so := cfg.SceneOptions()
	frames := cfg.Output.Frames

	seed, derived := ResolveSeed(cfg)
	if derived {
		printf("[INFO] Auto-generated seed from '%s': %d\n", cfg.Files.Raw, seed)
	} else {
		printf("[INFO] Using seed: %d\n", seed)
	}

	printf("[INFO] Creating %dx%d synthetic image...\n", so.Width, so.Height)
	printf("[INFO] Adding %d stars...\n", so.Stars.Count)
	printf("[INFO] Adding %d satellite streaks...\n", so.Streaks.Count)
	printf("[INFO] Adding %d diffuse spots...\n", so.Blobs.Count)

	numWorkers := cfg.Output.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	// Don't use more workers than frames
	if numWorkers > frames {
		numWorkers = frames
	}
	if frames > 1 {
		printf("[INFO] Generating %d frames with %d parallel workers...\n", frames, numWorkers)
	}

	// Each frame is written by the goroutine that rendered it, so at most
	// numWorkers canvases are held at once.
	res := &Result{Seed: seed, Frames: make([]FrameReport, frames)}
	perFrame := make([][]GeneratedFile, frames)
	var progressMu sync.Mutex
	completed := 0

	err := scene.RenderEach(ctx, so, seed, frames, numWorkers, func(f scene.Frame) error {
		files, st, err := writeFrame(ctx, cfg, seed, f, frames, printf)
		if err != nil {
			return fmt.Errorf("write frame %d: %w", f.Index, err)
		}

		progressMu.Lock()
		defer progressMu.Unlock()
		res.Frames[f.Index] = FrameReport{Index: f.Index, Seed: f.Seed, Summary: f.Summary, Stats: st}
		perFrame[f.Index] = files
		completed++
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(completed, frames)
		}
		if frames > 1 && (completed%10 == 0 || completed == frames) {
			printf("  Progress: %d/%d (%.0f%%)\n", completed, frames, float64(completed)/float64(frames)*100)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, files := range perFrame {
		res.Files = append(res.Files, files...)
	}

	if !opts.Quiet {
		mu.Lock()
		for _, fr := range res.Frames {
			if frames > 1 {
				_, _ = fmt.Fprintf(out, "\n[STATS] frame %d (seed %d)\n", fr.Index, fr.Seed)
			} else {
				_, _ = fmt.Fprintf(out, "\n[STATS]\n")
			}
			PrintStats(out, fr.Stats)
		}
		_, _ = fmt.Fprintf(out, "\n[READY] You can now run:\n")
		_, _ = fmt.Fprintf(out, "  tracksim --mode sequential\n")
		_, _ = fmt.Fprintf(out, "  tracksim --mode staged\n")
		mu.Unlock()
	}
	return res, nil
}

// writeFrame writes every artifact of one frame and returns them with the
// frame statistics. The preview label never touches the raw buffer.
func writeFrame(ctx context.Context, cfg *config.Config, seed uint64, f scene.Frame, frames int, printf func(string, ...any)) ([]GeneratedFile, field.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, field.Statistics{}, err
	}

	st := field.ComputeStatistics(f.Canvas, field.DefaultBrightThreshold)
	var files []GeneratedFile

	if path := FramePath(cfg.Files.Preview, f.Index, frames); path != "" {
		preview := f.Canvas.Gray()
		if cfg.Output.Label {
			text := cfg.Output.LabelText
			if text == "" {
				text = fmt.Sprintf("seed %d frame %d/%d", f.Seed, f.Index+1, frames)
			}
			labeled, err := imageio.Annotate(preview, text)
			if err != nil {
				return nil, st, fmt.Errorf("annotate preview: %w", err)
			}
			preview = labeled
		}
		if err := imageio.WriteJPEG(path, preview, cfg.Output.JPEGQuality); err != nil {
			return nil, st, fmt.Errorf("write preview: %w", err)
		}
		files = append(files, GeneratedFile{Path: path, Kind: KindPreview, Frame: f.Index, Bytes: fileSize(path)})
		printf("[SUCCESS] Saved synthetic test image: %s\n", path)
		printf("[INFO] Image size: %dx%d pixels\n", f.Canvas.Width(), f.Canvas.Height())
		printf("[INFO] Pixel value range: %d to %d\n", st.Min, st.Max)
	}

	rawPath := FramePath(cfg.Files.Raw, f.Index, frames)
	if err := imageio.WriteRaw(rawPath, f.Canvas); err != nil {
		return nil, st, fmt.Errorf("write raw buffer: %w", err)
	}
	files = append(files, GeneratedFile{Path: rawPath, Kind: KindRaw, Frame: f.Index, Bytes: int64(f.Canvas.Len())})
	printf("[SUCCESS] Saved binary test data: %s\n", rawPath)
	printf("[INFO] File size: %s (%s bytes)\n", humanize.Bytes(uint64(f.Canvas.Len())), humanize.Comma(int64(f.Canvas.Len())))

	if cfg.Files.DICOM != "" {
		path := FramePath(cfg.Files.DICOM, f.Index, frames)
		err := dicom.Export(path, f.Canvas, dicom.ExportOptions{
			Key:            fmt.Sprintf("%s_%d", cfg.Files.Raw, seed),
			InstanceNumber: f.Index + 1,
			Comments: fmt.Sprintf("seed=%d stars=%d streaks=%d blobs=%d",
				f.Seed, f.Summary.Stars, f.Summary.Streaks, f.Summary.Blobs),
			Tags: cfg.Output.DICOMTags,
		})
		if err != nil {
			return nil, st, err
		}
		files = append(files, GeneratedFile{Path: path, Kind: KindDICOM, Frame: f.Index, Bytes: fileSize(path)})
		printf("[SUCCESS] Saved DICOM secondary capture: %s\n", path)
	}

	util.Logger().Debug("frame written", "frame", f.Index, "seed", f.Seed, "files", len(files))
	return files, st, nil
}

// PrintStats writes the statistics block of a frame.
func PrintStats(w io.Writer, st field.Statistics) {
	_, _ = fmt.Fprintf(w, "  Mean pixel value: %.2f\n", st.Mean)
	_, _ = fmt.Fprintf(w, "  Std deviation: %.2f\n", st.StdDev)
	_, _ = fmt.Fprintf(w, "  Bright pixels (>%d): %s (%.3f%%)\n",
		st.Threshold, humanize.Comma(int64(st.Above)), 100*st.AboveFraction())
	_, _ = fmt.Fprintf(w, "  Value range: %d..%d\n", st.Min, st.Max)
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
