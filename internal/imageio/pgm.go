package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"

	"github.com/spakin/netpbm"
)

// DecodePGM reads a portable graymap (plain or binary). Other Netpbm
// formats are converted to gray.
func DecodePGM(r io.Reader) (*image.Gray, error) {
	img, err := netpbm.Decode(r, &netpbm.DecodeOptions{Target: netpbm.PGM})
	if err != nil {
		return nil, fmt.Errorf("%w: decode pgm: %v", ErrCodec, err)
	}
	return ToGray(img), nil
}

// ReadPGM loads a PGM file from path.
func ReadPGM(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInputFile, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodePGM(bufio.NewReader(f))
}

// EncodePGM writes img as a binary (P5) graymap with a maximum value of 255.
func EncodePGM(w io.Writer, img image.Image) error {
	err := netpbm.Encode(w, img, &netpbm.EncodeOptions{
		Format:   netpbm.PGM,
		MaxValue: 255,
	})
	if err != nil {
		return fmt.Errorf("%w: encode pgm: %v", ErrCodec, err)
	}
	return nil
}

// WritePGM encodes img to path.
func WritePGM(path string, img image.Image) error {
	return writeFile(path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if err := EncodePGM(bw, img); err != nil {
			return err
		}
		return bw.Flush()
	})
}
