package help

// HelpText contains information about a field
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts contains help information for all wizard fields, keyed by form
// field key.
var Texts = map[string]HelpText{
	"width": {
		Title:       "FRAME WIDTH",
		Description: "Width of the generated frame in pixels.",
		Details:     "Must match the width the tracking pipeline expects (3124 for the reference sensor).",
	},
	"height": {
		Title:       "FRAME HEIGHT",
		Description: "Height of the generated frame in pixels.",
		Details:     "Must match the height the tracking pipeline expects (3030 for the reference sensor).",
	},
	"seed": {
		Title:       "SEED",
		Description: "Seed for the random scene.",
		Details: `Same seed and settings produce identical frames.
Leave empty to derive the seed from the raw output filename.`,
	},
	"frames": {
		Title:       "FRAMES",
		Description: "Number of frames to render.",
		Details:     "With more than one frame, files are numbered: input_image_000.bin, input_image_001.bin, ...",
	},
	"workers": {
		Title:       "WORKERS",
		Description: "Number of frames rendered in parallel.",
		Details:     "0 uses one worker per CPU core.",
	},
	"preview": {
		Title:       "JPEG PREVIEW",
		Description: "Grayscale JPEG written for visual inspection.",
		Details:     "Lossy. Never feed it back to the pipeline, use the raw buffer instead.",
	},
	"raw": {
		Title:       "RAW BUFFER",
		Description: "Headerless 8-bit buffer read by the tracking pipeline.",
		Details:     "Exactly width x height bytes, row-major, one byte per pixel.",
	},
	"dicom": {
		Title:       "DICOM EXPORT",
		Description: "Optional DICOM Secondary Capture copy of each frame.",
		Details:     "Leave empty to skip. Opens in any DICOM viewer (8-bit MONOCHROME2).",
	},
	"label": {
		Title:       "LABEL PREVIEW",
		Description: "Stamp seed and frame number on the JPEG preview.",
		Details:     "The raw buffer is never labeled.",
	},
	"jpeg_quality": {
		Title:       "JPEG QUALITY",
		Description: "Encoder quality of the preview, 1 to 100.",
	},
	"noise_level": {
		Title:       "NOISE LEVEL",
		Description: "Upper bound of the uniform background noise.",
		Details:     "Every pixel starts at a random value in [0, level).",
	},
	"stars": {
		Title:       "STARS",
		Description: "Number of point sources.",
		Details: `Each star is one of three size classes:
small 3x3 Gaussian, medium 5x5 Gaussian, large 7x7 disk with falloff.`,
	},
	"star_brightness_min": {
		Title:       "STAR BRIGHTNESS (MIN)",
		Description: "Lowest peak intensity of a star, inclusive.",
	},
	"star_brightness_max": {
		Title:       "STAR BRIGHTNESS (MAX)",
		Description: "Highest peak intensity of a star, exclusive.",
	},
	"streaks": {
		Title:       "SATELLITE STREAKS",
		Description: "Number of linear trails crossing the frame.",
		Details:     "Random direction, length and width class (thin, medium, wide).",
	},
	"blobs": {
		Title:       "DIFFUSE SPOTS",
		Description: "Number of out-of-focus sources.",
		Details:     "Radially symmetric, brightness falls off linearly from the center.",
	},
	"config_path": {
		Title:       "CONFIG FILE",
		Description: "YAML file to write.",
		Details:     "Reload it with: starforge --config <file>, or starforge wizard --from <file>",
	},
}
