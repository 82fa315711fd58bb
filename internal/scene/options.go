// Package scene draws randomized star-field paint requests and renders them
// with the field compositor.
//
// Sampling and compositing are kept apart: Plan turns a seeded RNG into an
// ordered list of field.Request values, and Render applies them. The same
// seed always yields the same canvas.
package scene

import (
	"errors"
	"fmt"

	"github.com/mrsinham/starforge/internal/util"
)

// Reference canvas size of the downstream pipeline.
const (
	DefaultWidth  = 3124
	DefaultHeight = 3030
)

// ErrInvalidOptions wraps every validation failure.
var ErrInvalidOptions = errors.New("invalid scene options")

// Range is a half-open integer interval [Min, Max).
type Range struct {
	Min int
	Max int
}

// Empty reports whether the range contains no integers.
func (r Range) Empty() bool { return r.Max <= r.Min }

func (r Range) String() string { return fmt.Sprintf("[%d, %d)", r.Min, r.Max) }

// StarOptions controls point sources.
type StarOptions struct {
	Count       int
	Margin      int // distance kept from every edge
	Brightness  Range
	SizeWeights []float64 // weights of size classes 1, 2, 3
}

// StreakOptions controls linear trails.
type StreakOptions struct {
	Count        int
	Margin       int
	Length       Range
	Brightness   Range
	WidthWeights []float64 // weights of width classes 1, 2, 3
}

// BlobOptions controls diffuse Gaussian spots.
type BlobOptions struct {
	Count      int
	Margin     int
	Brightness Range
	Radius     Range
}

// Options fully describes a scene. Width and Height are the canvas size.
type Options struct {
	Width      int
	Height     int
	NoiseLevel int

	Stars   StarOptions
	Streaks StreakOptions
	Blobs   BlobOptions
}

// DefaultOptions returns the reference scene: a 3124x3030 frame with 800
// stars, 7 streaks and 20 diffuse spots over a noise floor of 25.
func DefaultOptions() Options {
	return Options{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		NoiseLevel: 25,
		Stars: StarOptions{
			Count:       800,
			Margin:      5,
			Brightness:  Range{120, 255},
			SizeWeights: []float64{0.5, 0.3, 0.2},
		},
		Streaks: StreakOptions{
			Count:        7,
			Margin:       100,
			Length:       Range{80, 300},
			Brightness:   Range{150, 240},
			WidthWeights: []float64{0.3, 0.5, 0.2},
		},
		Blobs: BlobOptions{
			Count:      20,
			Margin:     10,
			Brightness: Range{80, 150},
			Radius:     Range{3, 8},
		},
	}
}

// Validate reports the first inconsistency in o.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidOptions, o.Width, o.Height)
	}
	if o.NoiseLevel < 0 || o.NoiseLevel > 256 {
		return fmt.Errorf("%w: noise level %d outside [0, 256]", ErrInvalidOptions, o.NoiseLevel)
	}

	counts := []struct {
		name string
		n    int
		m    int
	}{
		{"stars", o.Stars.Count, o.Stars.Margin},
		{"streaks", o.Streaks.Count, o.Streaks.Margin},
		{"blobs", o.Blobs.Count, o.Blobs.Margin},
	}
	for _, c := range counts {
		if c.n < 0 {
			return fmt.Errorf("%w: %s count %d is negative", ErrInvalidOptions, c.name, c.n)
		}
		if c.m < 0 {
			return fmt.Errorf("%w: %s margin %d is negative", ErrInvalidOptions, c.name, c.m)
		}
	}

	ranges := []struct {
		name string
		r    Range
		lo   int
		hi   int
	}{
		{"star brightness", o.Stars.Brightness, 0, 256},
		{"streak brightness", o.Streaks.Brightness, 0, 256},
		{"streak length", o.Streaks.Length, 1, 1 << 20},
		{"blob brightness", o.Blobs.Brightness, 0, 256},
		{"blob radius", o.Blobs.Radius, 1, 1 << 12},
	}
	for _, r := range ranges {
		if r.r.Empty() {
			return fmt.Errorf("%w: %s range %s is empty", ErrInvalidOptions, r.name, r.r)
		}
		if r.r.Min < r.lo || r.r.Max > r.hi {
			return fmt.Errorf("%w: %s range %s outside [%d, %d)", ErrInvalidOptions, r.name, r.r, r.lo, r.hi)
		}
	}

	if len(o.Stars.SizeWeights) != 3 {
		return fmt.Errorf("%w: star size weights need 3 entries, got %d", ErrInvalidOptions, len(o.Stars.SizeWeights))
	}
	if err := util.ValidateWeights(o.Stars.SizeWeights); err != nil {
		return fmt.Errorf("%w: star size weights: %v", ErrInvalidOptions, err)
	}
	if len(o.Streaks.WidthWeights) != 3 {
		return fmt.Errorf("%w: streak width weights need 3 entries, got %d", ErrInvalidOptions, len(o.Streaks.WidthWeights))
	}
	if err := util.ValidateWeights(o.Streaks.WidthWeights); err != nil {
		return fmt.Errorf("%w: streak width weights: %v", ErrInvalidOptions, err)
	}
	return nil
}

// axis returns the coordinate range [margin, size-margin), or the whole
// axis when the margin leaves nothing.
func axis(size, margin int) Range {
	if r := (Range{margin, size - margin}); !r.Empty() {
		return r
	}
	return Range{0, size}
}
