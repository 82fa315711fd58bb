package imageio

import (
	"fmt"
	"image"
	"image/png"
	"io"
)

// EncodePNG writes img losslessly as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("%w: encode png: %v", ErrCodec, err)
	}
	return nil
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	return writeFile(path, func(w io.Writer) error { return EncodePNG(w, img) })
}
