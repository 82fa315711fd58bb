package field

import "math"

// DefaultBrightThreshold is the level above which a sample counts as bright
// in generation reports.
const DefaultBrightThreshold = 100

// Statistics summarizes a canvas.
type Statistics struct {
	Mean      float64
	StdDev    float64 // population standard deviation
	Min       uint8
	Max       uint8
	Threshold uint8
	Above     int // samples strictly greater than Threshold
	Total     int
}

// AboveFraction returns Above/Total.
func (s Statistics) AboveFraction() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Above) / float64(s.Total)
}

// ComputeStatistics reduces every sample of c. It does not modify c.
func ComputeStatistics(c *Canvas, threshold uint8) Statistics {
	st := Statistics{Threshold: threshold, Total: len(c.pix), Min: 255}
	if len(c.pix) == 0 {
		st.Min = 0
		return st
	}

	// Both passes walk the 256-bin histogram rather than the samples
	var hist [256]int
	for _, v := range c.pix {
		hist[v]++
	}

	var sum float64
	for v, n := range hist {
		if n == 0 {
			continue
		}
		if uint8(v) < st.Min {
			st.Min = uint8(v)
		}
		st.Max = uint8(v)
		sum += float64(v) * float64(n)
		if v > int(threshold) {
			st.Above += n
		}
	}
	st.Mean = sum / float64(st.Total)

	var sq float64
	for v, n := range hist {
		if n == 0 {
			continue
		}
		d := float64(v) - st.Mean
		sq += d * d * float64(n)
	}
	st.StdDev = math.Sqrt(sq / float64(st.Total))
	return st
}

// CountAbove returns the number of samples strictly greater than threshold.
func CountAbove(c *Canvas, threshold uint8) int {
	n := 0
	for _, v := range c.pix {
		if v > threshold {
			n++
		}
	}
	return n
}
