package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/mrsinham/starforge/internal/field"
)

// EncodeRaw writes the canvas samples row-major, one byte per sample, with
// no header.
func EncodeRaw(w io.Writer, c *field.Canvas) error {
	if _, err := w.Write(c.Pix()); err != nil {
		return fmt.Errorf("write raw buffer: %w", err)
	}
	return nil
}

// DecodeRaw reads exactly width*height samples from r. A short stream or
// trailing bytes fail with ErrSizeMismatch.
func DecodeRaw(r io.Reader, width, height int) (*field.Canvas, error) {
	c, err := field.NewCanvas(width, height)
	if err != nil {
		return nil, err
	}

	n, err := io.ReadFull(r, c.Pix())
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrSizeMismatch, n, c.Len(), width, height)
		}
		return nil, fmt.Errorf("read raw buffer: %w", err)
	}

	var extra [1]byte
	if _, err := io.ReadFull(r, extra[:]); err == nil {
		return nil, fmt.Errorf("%w: more than %d bytes for %dx%d", ErrSizeMismatch, c.Len(), width, height)
	}
	return c, nil
}

// WriteRaw writes the canvas to path in raw buffer format.
func WriteRaw(path string, c *field.Canvas) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	if err := EncodeRaw(bw, c); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush raw buffer: %w", err)
	}
	return f.Close()
}

// ReadRaw loads a width x height raw buffer from path. The file length is
// checked before any sample is read.
func ReadRaw(path string, width, height int) (*field.Canvas, error) {
	c, err := field.NewCanvas(width, height)
	if err != nil {
		return nil, err
	}
	if err := ReadRawInto(path, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadRawInto loads a raw buffer from path into an existing canvas, whose
// dimensions define the expected file length.
func ReadRawInto(path string, c *field.Canvas) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingInputFile, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if want := int64(c.Len()); info.Size() != want {
		return fmt.Errorf("%w: %s is %d bytes, want %d for %dx%d",
			ErrSizeMismatch, path, info.Size(), want, c.Width(), c.Height())
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.ReadFull(f, c.Pix()); err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrSizeMismatch, path, err)
	}
	return nil
}
