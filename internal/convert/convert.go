// Package convert turns an arbitrary image into the raw buffer consumed by
// the tracking pipeline: decode, reduce to luminance, resize to the frame
// size when needed, then write one byte per sample.
package convert

import (
	"fmt"
	"io"
	"os"

	"github.com/mrsinham/starforge/internal/field"
	"github.com/mrsinham/starforge/internal/imageio"
	"github.com/mrsinham/starforge/internal/util"
)

// Options configures a conversion.
type Options struct {
	Input  string
	Output string
	Width  int
	Height int

	Quiet bool
	Out   io.Writer // status lines, defaults to os.Stdout
}

// Result describes a finished conversion.
type Result struct {
	Output       string
	SourceFormat string
	SourceWidth  int
	SourceHeight int
	Width        int
	Height       int
	Bytes        int64

	// Mismatch wraps imageio.ErrSizeMismatch when the source was resized.
	Mismatch error
}

// Resized reports whether the source had to be rescaled.
func (r *Result) Resized() bool { return r.Mismatch != nil }

// Run converts opts.Input to a raw buffer at opts.Output. A size mismatch is
// recovered by resizing and reported as a warning, not an error.
func Run(opts Options) (*Result, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	printf := func(format string, args ...any) {
		if !opts.Quiet {
			_, _ = fmt.Fprintf(out, format, args...)
		}
	}

	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", field.ErrInvalidDimensions, opts.Width, opts.Height)
	}

	img, format, err := imageio.DecodeGray(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	res := &Result{
		Output:       opts.Output,
		SourceFormat: format,
		SourceWidth:  img.Bounds().Dx(),
		SourceHeight: img.Bounds().Dy(),
		Width:        opts.Width,
		Height:       opts.Height,
	}
	util.Logger().Debug("decoded source", "path", opts.Input, "format", format,
		"width", res.SourceWidth, "height", res.SourceHeight)

	if res.SourceWidth != opts.Width || res.SourceHeight != opts.Height {
		res.Mismatch = fmt.Errorf("%w: source %dx%d, target %dx%d", imageio.ErrSizeMismatch,
			res.SourceWidth, res.SourceHeight, opts.Width, opts.Height)
		printf("[WARN] Resizing image from (%d, %d) to (%d, %d)\n",
			res.SourceWidth, res.SourceHeight, opts.Width, opts.Height)

		img, err = imageio.Resize(img, opts.Width, opts.Height)
		if err != nil {
			return nil, fmt.Errorf("resize: %w", err)
		}
	}

	c, err := field.FromGray(img)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if err := imageio.WriteRaw(opts.Output, c); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	res.Bytes = int64(c.Len())

	printf("[SUCCESS] Saved %s. Ready for pipeline simulation.\n", opts.Output)
	return res, nil
}
