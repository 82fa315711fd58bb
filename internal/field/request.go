package field

import "fmt"

// Request is a single paint operation. Requests carry every random draw
// they need, so applying them is deterministic.
type Request interface {
	Apply(c *Canvas)
	String() string
}

// Star is a point source request.
type Star struct {
	X, Y       int
	Brightness int
	Size       SizeClass
}

// Apply paints the star onto c.
func (s Star) Apply(c *Canvas) { PaintStar(c, s.X, s.Y, s.Brightness, s.Size) }

func (s Star) String() string {
	return fmt.Sprintf("star(%d,%d) b=%d size=%d", s.X, s.Y, s.Brightness, s.Size)
}

// Streak is a linear trail request.
type Streak struct {
	X0, Y0     int
	Length     int
	Angle      float64 // radians, [0, 2π)
	Brightness int
	Width      WidthClass
}

// Apply paints the streak onto c.
func (s Streak) Apply(c *Canvas) {
	PaintStreak(c, s.X0, s.Y0, s.Length, s.Angle, s.Brightness, s.Width)
}

func (s Streak) String() string {
	return fmt.Sprintf("streak(%d,%d) len=%d angle=%.3f b=%d width=%d",
		s.X0, s.Y0, s.Length, s.Angle, s.Brightness, s.Width)
}

// Blob is a diffuse Gaussian spot request.
type Blob struct {
	X, Y       int
	Brightness int
	Radius     int
}

// Apply paints the blob onto c.
func (b Blob) Apply(c *Canvas) { PaintBlob(c, b.X, b.Y, b.Brightness, b.Radius) }

func (b Blob) String() string {
	return fmt.Sprintf("blob(%d,%d) b=%d r=%d", b.X, b.Y, b.Brightness, b.Radius)
}

// Paint applies requests in order.
func Paint(c *Canvas, reqs ...Request) {
	for _, r := range reqs {
		r.Apply(c)
	}
}
