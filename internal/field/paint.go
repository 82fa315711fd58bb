package field

import "math"

// IntSource is the random source consumed by ApplyBackgroundNoise.
// *rand.Rand from math/rand/v2 satisfies it.
type IntSource interface {
	IntN(n int) int
}

// ApplyBackgroundNoise adds an independent offset drawn uniformly from
// [0, level) to every sample, saturating at 255. A level below 1 leaves the
// canvas unchanged.
func ApplyBackgroundNoise(c *Canvas, level int, src IntSource) {
	if level < 1 {
		return
	}
	for i, v := range c.pix {
		n := int(v) + src.IntN(level)
		if n > 255 {
			n = 255
		}
		c.pix[i] = uint8(n)
	}
}

// SizeClass is the apparent extent of a star.
type SizeClass int

const (
	SizePoint  SizeClass = 1 // single pixel
	SizeSmall  SizeClass = 2 // 3x3 halo
	SizeMedium SizeClass = 3 // 5x5 halo with 3x3 core
)

// PaintStar blends a point source centered at (x, y). Class values outside
// [1, 3] are clamped into that range.
func PaintStar(c *Canvas, x, y, brightness int, size SizeClass) {
	brightness = clampSample(brightness)
	switch {
	case size <= SizePoint:
	case size == SizeSmall:
		blendSquare(c, x, y, 1, brightness-30)
	default:
		blendSquare(c, x, y, 2, brightness-50)
		blendSquare(c, x, y, 1, brightness-20)
	}
	c.Blend(x, y, brightness)
}

// blendSquare blends v over the (2r+1)x(2r+1) square centered at (x, y).
func blendSquare(c *Canvas, x, y, r, v int) {
	v = clampSample(v)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Blend(x+dx, y+dy, v)
		}
	}
}

// WidthClass is the cross-track width of a streak.
type WidthClass int

// PaintStreak blends a linear trail of length steps starting at (x0, y0)
// along angle (radians). Brightness peaks at the midpoint and tapers
// linearly to 70% at both ends; wider classes blend a square
// neighborhood around each step, decaying radially. Steps whose center falls off the canvas are skipped.
func PaintStreak(c *Canvas, x0, y0, length int, angle float64, brightness int, width WidthClass) {
	if length <= 0 {
		return
	}
	brightness = clampSample(brightness)
	cos, sin := math.Cos(angle), math.Sin(angle)
	half := float64(length) / 2
	w := int(width)

	for j := 0; j < length; j++ {
		x := int(float64(x0) + float64(j)*cos)
		y := int(float64(y0) + float64(j)*sin)
		if !c.In(x, y) {
			continue
		}

		positionFactor := 1.0 - math.Abs(float64(j)-half)/half*0.3
		pixelBrightness := int(float64(brightness) * positionFactor)

		if w <= 1 {
			c.Blend(x, y, pixelBrightness)
			continue
		}

		// Offsets span [floor(-w/2), w/2], one wider on the negative side
		// for odd widths.
		lo := -((w + 1) / 2)
		for dy := lo; dy <= w/2; dy++ {
			for dx := lo; dx <= w/2; dx++ {
				dist := math.Sqrt(float64(dx*dx + dy*dy))
				falloff := math.Max(0, 1-dist/float64(w))
				c.Blend(x+dx, y+dy, int(float64(pixelBrightness)*falloff))
			}
		}
	}
}

// PaintBlob blends a radially symmetric Gaussian spot centered at (x, y):
// samples within radius receive brightness*exp(-(d/radius)^2). A
// non-positive radius degenerates to a single point.
func PaintBlob(c *Canvas, x, y, brightness, radius int) {
	brightness = clampSample(brightness)
	if radius <= 0 {
		c.Blend(x, y, brightness)
		return
	}
	r := float64(radius)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			dist := math.Sqrt(float64(dx*dx + dy*dy))
			if dist > r {
				continue
			}
			q := dist / r
			c.Blend(x+dx, y+dy, int(float64(brightness)*math.Exp(-q*q)))
		}
	}
}
