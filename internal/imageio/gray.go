package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"

	"golang.org/x/image/draw"

	"github.com/mrsinham/starforge/internal/field"
)

// DecodeGray decodes a JPEG, PNG or Netpbm file and converts it to 8-bit
// luminance. The detected format name is returned alongside the image.
func DecodeGray(path string) (*image.Gray, string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrMissingInputFile, path)
		}
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: decode %s: %v", ErrCodec, path, err)
	}
	return ToGray(img), format, nil
}

// ToGray converts img to an *image.Gray anchored at the origin. Gray images
// already anchored at the origin are returned as is.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Resize scales src to width x height with a Catmull-Rom filter.
func Resize(src image.Image, width, height int) (*image.Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resize target %dx%d", field.ErrInvalidDimensions, width, height)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty source image", ErrCodec)
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}
