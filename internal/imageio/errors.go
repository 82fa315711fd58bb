// Package imageio reads and writes star-field frames: the headerless raw
// buffer consumed by the tracking pipeline, and JPEG, PNG and PGM images for
// human inspection.
package imageio

import "errors"

var (
	// ErrMissingInputFile is returned when a source image does not exist.
	ErrMissingInputFile = errors.New("input file not found")

	// ErrCodec wraps decode and encode failures of the image libraries.
	ErrCodec = errors.New("image codec error")

	// ErrSizeMismatch is returned when image or buffer dimensions differ
	// from the configured frame size.
	ErrSizeMismatch = errors.New("image size mismatch")
)
