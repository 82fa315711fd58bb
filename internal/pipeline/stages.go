// Package pipeline simulates the on-board tracking pipeline that consumes
// raw star-field frames: background subtraction, blur, Sobel edge detection
// and a capped list of edge detections per frame.
package pipeline

import (
	"fmt"

	"github.com/mrsinham/starforge/internal/field"
)

// Processing defaults of the reference pipeline.
const (
	DefaultBlockSize     = 100
	DefaultEdgeThreshold = 40
	DefaultMaxDetections = 50000
)

// blurMargin is the half width of the binomial kernel; sobelMargin keeps the
// 3x3 Sobel window inside the blurred interior.
const (
	blurMargin  = 2
	sobelMargin = blurMargin + 1
)

var binomial = [5]uint32{1, 4, 6, 4, 1}

// Detection is one edge sample at or above the threshold. Address is the
// row-major sample offset.
type Detection struct {
	Address uint32
	Value   uint8
}

// BlockMedian returns the first intensity whose cumulative count reaches
// n/2 (integer division).
func BlockMedian(hist *[256]int, n int) uint8 {
	half := n / 2
	count := 0
	for v, c := range hist {
		count += c
		if count >= half {
			return uint8(v)
		}
	}
	return 0
}

// SubtractBackground writes src minus its local median into dst. The frame
// is tiled into block x block tiles (edge tiles smaller); results are
// clamped at 0.
func SubtractBackground(dst, src *field.Canvas, block int) error {
	if dst.Width() != src.Width() || dst.Height() != src.Height() {
		return fmt.Errorf("%w: background %dx%d into %dx%d", field.ErrInvalidDimensions,
			src.Width(), src.Height(), dst.Width(), dst.Height())
	}
	if block <= 0 {
		block = DefaultBlockSize
	}

	w, h := src.Width(), src.Height()
	in, out := src.Pix(), dst.Pix()
	var hist [256]int

	for y0 := 0; y0 < h; y0 += block {
		y1 := min(y0+block, h)
		for x0 := 0; x0 < w; x0 += block {
			x1 := min(x0+block, w)

			hist = [256]int{}
			for y := y0; y < y1; y++ {
				for _, v := range in[y*w+x0 : y*w+x1] {
					hist[v]++
				}
			}
			median := BlockMedian(&hist, (y1-y0)*(x1-x0))

			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					if v := in[y*w+x]; v > median {
						out[y*w+x] = v - median
					} else {
						out[y*w+x] = 0
					}
				}
			}
		}
	}
	return nil
}

// EdgeDetector holds the blur scratch buffers of one stage worker. It is
// not safe for concurrent use.
type EdgeDetector struct {
	width, height int
	horiz         []uint32
	blur          []uint8

	Threshold     uint8
	MaxDetections int
}

// NewEdgeDetector allocates scratch space for width x height frames.
func NewEdgeDetector(width, height int) (*EdgeDetector, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", field.ErrInvalidDimensions, width, height)
	}
	return &EdgeDetector{
		width:         width,
		height:        height,
		horiz:         make([]uint32, width*height),
		blur:          make([]uint8, width*height),
		Threshold:     DefaultEdgeThreshold,
		MaxDetections: DefaultMaxDetections,
	}, nil
}

// Detect blurs img with a separable {1,4,6,4,1} kernel, replaces the
// interior with the Sobel magnitude |gx|+|gy| (clamped to 255) and appends
// every magnitude >= Threshold to dets, up to MaxDetections. Samples outside
// the Sobel interior are left unchanged.
func (d *EdgeDetector) Detect(img *field.Canvas, dets []Detection) ([]Detection, error) {
	if img.Width() != d.width || img.Height() != d.height {
		return dets, fmt.Errorf("%w: detector is %dx%d, frame is %dx%d", field.ErrInvalidDimensions,
			d.width, d.height, img.Width(), img.Height())
	}
	w, h := d.width, d.height
	pix := img.Pix()

	for y := 0; y < h; y++ {
		row := y * w
		for x := blurMargin; x < w-blurMargin; x++ {
			var sum uint32
			for k := 0; k < 5; k++ {
				sum += uint32(pix[row+x+k-2]) * binomial[k]
			}
			d.horiz[row+x] = sum
		}
	}

	for y := blurMargin; y < h-blurMargin; y++ {
		for x := blurMargin; x < w-blurMargin; x++ {
			var sum uint32
			for k := 0; k < 5; k++ {
				sum += d.horiz[(y+k-2)*w+x] * binomial[k]
			}
			d.blur[y*w+x] = uint8((sum + 128) >> 8)
		}
	}

	b := d.blur
	for y := sobelMargin; y < h-sobelMargin; y++ {
		up, mid, down := (y-1)*w, y*w, (y+1)*w
		for x := sobelMargin; x < w-sobelMargin; x++ {
			gx := int(b[up+x+1]) - int(b[up+x-1]) +
				2*(int(b[mid+x+1])-int(b[mid+x-1])) +
				int(b[down+x+1]) - int(b[down+x-1])
			gy := int(b[down+x-1]) + 2*int(b[down+x]) + int(b[down+x+1]) -
				(int(b[up+x-1]) + 2*int(b[up+x]) + int(b[up+x+1]))

			mag := abs(gx) + abs(gy)
			if mag > 255 {
				mag = 255
			}
			pix[mid+x] = uint8(mag)

			if mag >= int(d.Threshold) && len(dets) < d.MaxDetections {
				dets = append(dets, Detection{Address: uint32(mid + x), Value: uint8(mag)})
			}
		}
	}
	return dets, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
