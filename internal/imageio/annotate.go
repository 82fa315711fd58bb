package imageio

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Annotate returns a copy of img with text drawn near the top, centered
// horizontally. Text is white with a black outline so it stays readable on
// both dark sky and bright sources. The label is rendered with basicfont and
// upscaled for wide frames, so it must never be applied to pipeline input.
func Annotate(img *image.Gray, text string) (*image.Gray, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", b.Dx(), b.Dy())
	}

	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	if text == "" {
		return out, nil
	}

	label := renderLabel(text)

	// Roughly 1/50 of the frame height per text line
	scale := max(1, b.Dy()/(50*label.Bounds().Dy()))
	lw, lh := label.Bounds().Dx()*scale, label.Bounds().Dy()*scale

	x := (b.Dx() - lw) / 2
	y := int(float64(b.Dy()) * 0.05)
	target := image.Rect(x, y, x+lw, y+lh).Intersect(out.Bounds())
	if target.Empty() {
		return out, nil
	}

	draw.BiLinear.Scale(out, image.Rect(x, y, x+lw, y+lh), label, label.Bounds(), draw.Over, nil)
	return out, nil
}

// renderLabel draws text at native font size on a transparent background.
func renderLabel(text string) *image.RGBA {
	const outline = 2

	face := basicfont.Face7x13
	metrics := face.Metrics()
	w := font.MeasureString(face, text).Ceil() + 2*outline
	h := metrics.Height.Ceil() + 2*outline

	label := image.NewRGBA(image.Rect(0, 0, w, h))
	x, y := outline, outline+metrics.Ascent.Ceil()

	drawer := &font.Drawer{
		Dst:  label,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	for dx := -outline; dx <= outline; dx++ {
		for dy := -outline; dy <= outline; dy++ {
			if dx != 0 || dy != 0 {
				drawer.Dot = fixed.P(x+dx, y+dy)
				drawer.DrawString(text)
			}
		}
	}

	drawer.Src = image.NewUniform(color.White)
	drawer.Dot = fixed.P(x, y)
	drawer.DrawString(text)

	return label
}
