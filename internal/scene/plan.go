package scene

import (
	"math"
	"math/rand/v2"

	"github.com/mrsinham/starforge/internal/field"
	"github.com/mrsinham/starforge/internal/util"
)

// Plan draws every paint request of a scene: stars, then streaks, then
// blobs. The RNG is consumed in that order, one request at a time.
func Plan(o Options, rng *rand.Rand) []field.Request {
	reqs := make([]field.Request, 0, o.Stars.Count+o.Streaks.Count+o.Blobs.Count)

	sx, sy := axis(o.Width, o.Stars.Margin), axis(o.Height, o.Stars.Margin)
	for i := 0; i < o.Stars.Count; i++ {
		reqs = append(reqs, field.Star{
			X:          util.IntRange(rng, sx.Min, sx.Max),
			Y:          util.IntRange(rng, sy.Min, sy.Max),
			Brightness: util.IntRange(rng, o.Stars.Brightness.Min, o.Stars.Brightness.Max),
			Size:       field.SizeClass(util.WeightedIndex(rng, o.Stars.SizeWeights) + 1),
		})
	}

	tx, ty := axis(o.Width, o.Streaks.Margin), axis(o.Height, o.Streaks.Margin)
	for i := 0; i < o.Streaks.Count; i++ {
		reqs = append(reqs, field.Streak{
			X0:         util.IntRange(rng, tx.Min, tx.Max),
			Y0:         util.IntRange(rng, ty.Min, ty.Max),
			Length:     util.IntRange(rng, o.Streaks.Length.Min, o.Streaks.Length.Max),
			Angle:      rng.Float64() * 2 * math.Pi,
			Brightness: util.IntRange(rng, o.Streaks.Brightness.Min, o.Streaks.Brightness.Max),
			Width:      field.WidthClass(util.WeightedIndex(rng, o.Streaks.WidthWeights) + 1),
		})
	}

	bx, by := axis(o.Width, o.Blobs.Margin), axis(o.Height, o.Blobs.Margin)
	for i := 0; i < o.Blobs.Count; i++ {
		reqs = append(reqs, field.Blob{
			X:          util.IntRange(rng, bx.Min, bx.Max),
			Y:          util.IntRange(rng, by.Min, by.Max),
			Brightness: util.IntRange(rng, o.Blobs.Brightness.Min, o.Blobs.Brightness.Max),
			Radius:     util.IntRange(rng, o.Blobs.Radius.Min, o.Blobs.Radius.Max),
		})
	}

	return reqs
}

// Summary counts what a plan contains.
type Summary struct {
	Seed         uint64
	Stars        int
	Streaks      int
	Blobs        int
	SizeClasses  [3]int // stars per size class 1..3
	WidthClasses [3]int // streaks per width class 1..3
}

// Summarize tallies reqs.
func Summarize(seed uint64, reqs []field.Request) Summary {
	s := Summary{Seed: seed}
	for _, r := range reqs {
		switch r := r.(type) {
		case field.Star:
			s.Stars++
			if r.Size >= 1 && r.Size <= 3 {
				s.SizeClasses[r.Size-1]++
			}
		case field.Streak:
			s.Streaks++
			if r.Width >= 1 && r.Width <= 3 {
				s.WidthClasses[r.Width-1]++
			}
		case field.Blob:
			s.Blobs++
		}
	}
	return s
}
