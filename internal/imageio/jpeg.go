package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
)

// DefaultJPEGQuality is the quality of reference previews.
const DefaultJPEGQuality = 95

// EncodeJPEG writes img as JPEG. A *image.Gray source yields a
// single-channel file. Quality outside [1, 100] falls back to
// DefaultJPEGQuality.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("%w: encode jpeg: %v", ErrCodec, err)
	}
	return nil
}

// WriteJPEG encodes img to path.
func WriteJPEG(path string, img image.Image, quality int) error {
	return writeFile(path, func(w io.Writer) error { return EncodeJPEG(w, img, quality) })
}

func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
