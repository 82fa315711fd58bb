package util

import (
	"errors"
	"math/rand/v2"
)

// ErrInvalidWeights is returned for weight vectors that cannot form a
// distribution.
var ErrInvalidWeights = errors.New("weights must be non-negative with a positive sum")

// ValidateWeights checks that w can be used with WeightedIndex.
func ValidateWeights(w []float64) error {
	var sum float64
	for _, v := range w {
		if v < 0 {
			return ErrInvalidWeights
		}
		sum += v
	}
	if sum <= 0 {
		return ErrInvalidWeights
	}
	return nil
}

// WeightedIndex draws an index into w with probability proportional to its
// weight. Weights need not sum to 1. w must pass ValidateWeights.
func WeightedIndex(rng *rand.Rand, w []float64) int {
	var sum float64
	for _, v := range w {
		sum += v
	}

	r := rng.Float64() * sum
	for i, v := range w {
		if r < v {
			return i
		}
		r -= v
	}

	// Rounding can leave r marginally above the last bucket
	for i := len(w) - 1; i >= 0; i-- {
		if w[i] > 0 {
			return i
		}
	}
	return 0
}

// IntRange draws uniformly from [lo, hi). If the range is empty lo is
// returned.
func IntRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo)
}
