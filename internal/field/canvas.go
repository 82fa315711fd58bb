// Package field composites synthetic star-field imagery onto an 8-bit
// intensity canvas.
//
// Every paint operation uses max-blend compositing: a sample is only ever
// raised to the candidate value, never lowered. Candidate values are clamped
// to [0, 255] before blending, and samples that fall outside the canvas are
// skipped. Only canvas construction can fail.
package field

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidDimensions is returned when a canvas is requested with a
// non-positive width or height, or with a size that cannot be addressed.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// Canvas is a row-major grid of 8-bit intensity samples with fixed
// dimensions.
type Canvas struct {
	width  int
	height int
	pix    []uint8
}

// NewCanvas allocates a zero-initialized width x height canvas.
func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	// Check for potential overflow on 32-bit systems
	maxSize := int(^uint(0) >> 1)
	if width > maxSize/height {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrInvalidDimensions, width, height)
	}

	return &Canvas{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height),
	}, nil
}

// FromPixels wraps an existing row-major sample slice. The slice is used
// directly, not copied.
func FromPixels(width, height int, pix []uint8) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("%w: %d samples for %dx%d", ErrInvalidDimensions, len(pix), width, height)
	}
	return &Canvas{width: width, height: height, pix: pix}, nil
}

// Width returns the canvas width in samples.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in samples.
func (c *Canvas) Height() int { return c.height }

// Len returns width*height.
func (c *Canvas) Len() int { return len(c.pix) }

// Pix returns the underlying row-major samples.
func (c *Canvas) Pix() []uint8 { return c.pix }

// In reports whether (x, y) lies inside the canvas.
func (c *Canvas) In(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// At returns the sample at (x, y), or 0 outside the canvas.
func (c *Canvas) At(x, y int) uint8 {
	if !c.In(x, y) {
		return 0
	}
	return c.pix[y*c.width+x]
}

// Blend raises the sample at (x, y) to v if v is brighter. v is clamped to
// [0, 255] first. It reports whether the sample changed; out-of-bounds
// positions are ignored.
func (c *Canvas) Blend(x, y, v int) bool {
	if !c.In(x, y) {
		return false
	}
	v = clampSample(v)
	idx := y*c.width + x
	if uint8(v) <= c.pix[idx] {
		return false
	}
	c.pix[idx] = uint8(v)
	return true
}

// Clone returns a deep copy of the canvas.
func (c *Canvas) Clone() *Canvas {
	pix := make([]uint8, len(c.pix))
	copy(pix, c.pix)
	return &Canvas{width: c.width, height: c.height, pix: pix}
}

// Gray returns an *image.Gray view sharing the canvas samples.
func (c *Canvas) Gray() *image.Gray {
	return &image.Gray{
		Pix:    c.pix,
		Stride: c.width,
		Rect:   image.Rect(0, 0, c.width, c.height),
	}
}

// FromGray copies a grayscale image into a new canvas.
func FromGray(img *image.Gray) (*Canvas, error) {
	b := img.Bounds()
	c, err := NewCanvas(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < c.height; y++ {
		start := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(c.pix[y*c.width:(y+1)*c.width], img.Pix[start:start+c.width])
	}
	return c, nil
}

func clampSample(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
