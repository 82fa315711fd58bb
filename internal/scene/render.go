package scene

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mrsinham/starforge/internal/field"
	"github.com/mrsinham/starforge/internal/util"
)

// Render builds one frame: a zero canvas, background noise, then the
// planned requests in order. Noise and plan draw from independent streams
// derived from seed.
func Render(o Options, seed uint64) (*field.Canvas, Summary, error) {
	if err := o.Validate(); err != nil {
		return nil, Summary{}, err
	}

	c, err := field.NewCanvas(o.Width, o.Height)
	if err != nil {
		return nil, Summary{}, err
	}

	log := util.Logger()

	field.ApplyBackgroundNoise(c, o.NoiseLevel, util.NewRNG(util.DeriveSeed(seed, "noise", 0)))

	reqs := Plan(o, util.NewRNG(util.DeriveSeed(seed, "plan", 0)))
	for _, r := range reqs {
		r.Apply(c)
		log.Debug("painted", "request", r)
	}

	sum := Summarize(seed, reqs)
	log.Debug("frame rendered", "seed", seed, "stars", sum.Stars, "streaks", sum.Streaks, "blobs", sum.Blobs)
	return c, sum, nil
}

// Frame is one rendered frame of a batch.
type Frame struct {
	Index   int
	Seed    uint64
	Canvas  *field.Canvas
	Summary Summary
}

// FrameSeed returns the seed of frame i in a batch. Frame 0 uses seed
// itself so single-frame runs match Render(o, seed).
func FrameSeed(seed uint64, i int) uint64 {
	if i == 0 {
		return seed
	}
	return util.DeriveSeed(seed, "frame", i)
}

// GenerateBatch renders frames independent frames using up to workers
// goroutines (0 = CPU count). Each goroutine owns its canvas; no canvas is
// shared. Results are returned in frame order.
func GenerateBatch(ctx context.Context, o Options, seed uint64, frames, workers int) ([]Frame, error) {
	out := make([]Frame, max(frames, 0))
	err := RenderEach(ctx, o, seed, frames, workers, func(f Frame) error {
		out[f.Index] = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RenderEach renders frames like GenerateBatch but hands each frame to fn
// as soon as it is rendered, on the rendering goroutine. At most workers
// canvases are alive at once when fn does not retain them. fn may be
// called concurrently and in any frame order.
func RenderEach(ctx context.Context, o Options, seed uint64, frames, workers int, fn func(Frame) error) error {
	if frames <= 0 {
		return fmt.Errorf("%w: frame count must be > 0, got %d", ErrInvalidOptions, frames)
	}
	if err := o.Validate(); err != nil {
		return err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	// Don't use more workers than frames
	if workers > frames {
		workers = frames
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < frames; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := FrameSeed(seed, i)
			c, sum, err := Render(o, s)
			if err != nil {
				return fmt.Errorf("render frame %d: %w", i, err)
			}
			return fn(Frame{Index: i, Seed: s, Canvas: c, Summary: sum})
		})
	}

	return g.Wait()
}
