// Package view renders a pipeline output frame (PGM) as a PNG and optionally
// hands it to the desktop image viewer.
package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"runtime"

	"github.com/mrsinham/starforge/internal/imageio"
	"github.com/mrsinham/starforge/internal/util"
)

// Opener displays the file at path.
type Opener func(ctx context.Context, path string) error

// Options configures a visualization.
type Options struct {
	Input  string
	Output string
	Show   bool
	Opener Opener // defaults to SystemOpener

	Quiet bool
	Out   io.Writer // status lines, defaults to os.Stdout
}

// Result describes a finished visualization.
type Result struct {
	Output string
	Width  int
	Height int
	Shown  bool
}

// Run loads opts.Input, writes it to opts.Output as PNG and, if requested,
// opens the PNG. Failure to open a viewer is reported but does not fail Run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	printf := func(format string, args ...any) {
		if !opts.Quiet {
			_, _ = fmt.Fprintf(out, format, args...)
		}
	}

	if _, err := os.Stat(opts.Input); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", imageio.ErrMissingInputFile, opts.Input)
	}

	img, err := imageio.ReadPGM(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	res := &Result{Output: opts.Output, Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}

	printf("Loaded %s successfully.\n", opts.Input)
	printf("Dimensions: (%d, %d) | Mode: L\n", res.Width, res.Height)

	if err := imageio.WritePNG(opts.Output, img); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	printf("Saved visualization to: %s\n", opts.Output)

	if opts.Show {
		open := opts.Opener
		if open == nil {
			open = SystemOpener
		}
		if err := open(ctx, opts.Output); err != nil {
			util.Logger().Warn("viewer failed", "path", opts.Output, "error", err)
			printf("Could not open viewer: %v\n", err)
		} else {
			res.Shown = true
		}
	}
	return res, nil
}

// SystemOpener starts the platform's default viewer without waiting for it.
func SystemOpener(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start viewer: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
