package util

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestValidateWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		wantErr bool
	}{
		{"star sizes", []float64{0.5, 0.3, 0.2}, false},
		{"unnormalized", []float64{5, 3, 2}, false},
		{"single bucket", []float64{0, 1, 0}, false},
		{"negative", []float64{0.5, -0.1, 0.6}, true},
		{"all zero", []float64{0, 0, 0}, true},
		{"empty", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWeights(tt.weights)
			if tt.wantErr && !errors.Is(err, ErrInvalidWeights) {
				t.Errorf("Expected ErrInvalidWeights, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestWeightedIndex_Distribution(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	weights := []float64{0.5, 0.3, 0.2}
	counts := make([]int, len(weights))

	const draws = 10000
	for i := 0; i < draws; i++ {
		counts[WeightedIndex(rng, weights)]++
	}

	for i, w := range weights {
		got := float64(counts[i]) / draws
		if got < w-0.03 || got > w+0.03 {
			t.Errorf("Bucket %d frequency %.3f, want ~%.2f", i, got, w)
		}
	}
}

func TestWeightedIndex_ZeroBucketNeverChosen(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		if idx := WeightedIndex(rng, []float64{0, 1, 0}); idx != 1 {
			t.Fatalf("Drew zero-weight bucket %d", idx)
		}
	}
}

func TestIntRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 1000; i++ {
		v := IntRange(rng, 120, 255)
		if v < 120 || v >= 255 {
			t.Fatalf("IntRange(120, 255) = %d out of range", v)
		}
	}
	if v := IntRange(rng, 10, 10); v != 10 {
		t.Errorf("Empty range should return lo, got %d", v)
	}
}
