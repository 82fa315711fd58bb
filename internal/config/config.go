// Package config holds the YAML configuration shared by the starforge
// commands. Default reproduces the fixed constants of the reference setup,
// so every command runs without a configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrsinham/starforge/internal/dicom"
	"github.com/mrsinham/starforge/internal/imageio"
	"github.com/mrsinham/starforge/internal/pipeline"
	"github.com/mrsinham/starforge/internal/scene"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the complete configuration for YAML serialization.
type Config struct {
	Canvas   CanvasConfig   `yaml:"canvas"`
	Files    FilesConfig    `yaml:"files"`
	Scene    SceneConfig    `yaml:"scene"`
	Output   OutputConfig   `yaml:"output"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// CanvasConfig is the frame size agreed between producer and consumer.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// FilesConfig names every file the commands read or write.
type FilesConfig struct {
	Preview    string `yaml:"preview"`    // generated JPEG, also the converter input
	Raw        string `yaml:"raw"`        // raw buffer for the pipeline
	Frame      string `yaml:"frame"`      // pipeline PGM dump
	Inference  string `yaml:"inference"`  // pipeline CSV dump
	Visualized string `yaml:"visualized"` // viewer PNG
	DICOM      string `yaml:"dicom,omitempty"`
}

// RangeYAML is a half-open [min, max) interval.
type RangeYAML struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// StarsYAML configures point sources.
type StarsYAML struct {
	Count       int       `yaml:"count"`
	Margin      int       `yaml:"margin"`
	Brightness  RangeYAML `yaml:"brightness"`
	SizeWeights []float64 `yaml:"size_weights"`
}

// StreaksYAML configures linear trails.
type StreaksYAML struct {
	Count        int       `yaml:"count"`
	Margin       int       `yaml:"margin"`
	Length       RangeYAML `yaml:"length"`
	Brightness   RangeYAML `yaml:"brightness"`
	WidthWeights []float64 `yaml:"width_weights"`
}

// BlobsYAML configures diffuse spots.
type BlobsYAML struct {
	Count      int       `yaml:"count"`
	Margin     int       `yaml:"margin"`
	Brightness RangeYAML `yaml:"brightness"`
	Radius     RangeYAML `yaml:"radius"`
}

// SceneConfig holds the sampling policy. A zero Seed is derived from the raw
// output filename.
type SceneConfig struct {
	Seed       uint64      `yaml:"seed,omitempty"`
	NoiseLevel int         `yaml:"noise_level"`
	Stars      StarsYAML   `yaml:"stars"`
	Streaks    StreaksYAML `yaml:"streaks"`
	Blobs      BlobsYAML   `yaml:"blobs"`
}

// OutputConfig controls what the generator writes.
type OutputConfig struct {
	Frames      int    `yaml:"frames"`
	Workers     int    `yaml:"workers"`
	JPEGQuality int    `yaml:"jpeg_quality"`
	Label       bool   `yaml:"label"`
	LabelText   string `yaml:"label_text,omitempty"`

	// DICOMTags overrides DICOM attributes by name, e.g. InstitutionName.
	DICOMTags map[string]string `yaml:"dicom_tags,omitempty"`
}

// PipelineConfig controls the tracking pipeline simulator.
type PipelineConfig struct {
	Mode           string `yaml:"mode"`
	Frames         int    `yaml:"frames"`
	RingSize       int    `yaml:"ring_size"`
	LoadIntervalMS int    `yaml:"load_interval_ms"`
	BlockSize      int    `yaml:"block_size"`
	EdgeThreshold  int    `yaml:"edge_threshold"`
	MaxDetections  int    `yaml:"max_detections"`
}

// Default returns the reference configuration.
func Default() *Config {
	so := scene.DefaultOptions()
	return &Config{
		Canvas: CanvasConfig{Width: so.Width, Height: so.Height},
		Files: FilesConfig{
			Preview:    "Raw_image_Fig1.jpg",
			Raw:        "input_image.bin",
			Frame:      "output_frame0.pgm",
			Inference:  "output_inference0.csv",
			Visualized: "output_visualized.png",
		},
		Scene: SceneConfig{
			NoiseLevel: so.NoiseLevel,
			Stars: StarsYAML{
				Count:       so.Stars.Count,
				Margin:      so.Stars.Margin,
				Brightness:  fromRange(so.Stars.Brightness),
				SizeWeights: so.Stars.SizeWeights,
			},
			Streaks: StreaksYAML{
				Count:        so.Streaks.Count,
				Margin:       so.Streaks.Margin,
				Length:       fromRange(so.Streaks.Length),
				Brightness:   fromRange(so.Streaks.Brightness),
				WidthWeights: so.Streaks.WidthWeights,
			},
			Blobs: BlobsYAML{
				Count:      so.Blobs.Count,
				Margin:     so.Blobs.Margin,
				Brightness: fromRange(so.Blobs.Brightness),
				Radius:     fromRange(so.Blobs.Radius),
			},
		},
		Output: OutputConfig{
			Frames:      1,
			JPEGQuality: imageio.DefaultJPEGQuality,
		},
		Pipeline: PipelineConfig{
			Mode:           pipeline.Sequential.String(),
			Frames:         10,
			RingSize:       pipeline.DefaultRingSize,
			LoadIntervalMS: 100,
			BlockSize:      pipeline.DefaultBlockSize,
			EdgeThreshold:  pipeline.DefaultEdgeThreshold,
			MaxDetections:  pipeline.DefaultMaxDetections,
		},
	}
}

func fromRange(r scene.Range) RangeYAML { return RangeYAML{Min: r.Min, Max: r.Max} }

func (r RangeYAML) toRange() scene.Range { return scene.Range{Min: r.Min, Max: r.Max} }

// SceneOptions converts the configuration to scene options.
func (c *Config) SceneOptions() scene.Options {
	return scene.Options{
		Width:      c.Canvas.Width,
		Height:     c.Canvas.Height,
		NoiseLevel: c.Scene.NoiseLevel,
		Stars: scene.StarOptions{
			Count:       c.Scene.Stars.Count,
			Margin:      c.Scene.Stars.Margin,
			Brightness:  c.Scene.Stars.Brightness.toRange(),
			SizeWeights: c.Scene.Stars.SizeWeights,
		},
		Streaks: scene.StreakOptions{
			Count:        c.Scene.Streaks.Count,
			Margin:       c.Scene.Streaks.Margin,
			Length:       c.Scene.Streaks.Length.toRange(),
			Brightness:   c.Scene.Streaks.Brightness.toRange(),
			WidthWeights: c.Scene.Streaks.WidthWeights,
		},
		Blobs: scene.BlobOptions{
			Count:      c.Scene.Blobs.Count,
			Margin:     c.Scene.Blobs.Margin,
			Brightness: c.Scene.Blobs.Brightness.toRange(),
			Radius:     c.Scene.Blobs.Radius.toRange(),
		},
	}
}

// PipelineOptions converts the configuration to simulator options, reading
// the raw buffer and dumping to the configured files.
func (c *Config) PipelineOptions() (pipeline.Options, error) {
	mode, err := pipeline.ParseMode(c.Pipeline.Mode)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return pipeline.Options{
		Input:         c.Files.Raw,
		Width:         c.Canvas.Width,
		Height:        c.Canvas.Height,
		Frames:        c.Pipeline.Frames,
		Mode:          mode,
		RingSize:      c.Pipeline.RingSize,
		LoadInterval:  time.Duration(c.Pipeline.LoadIntervalMS) * time.Millisecond,
		BlockSize:     c.Pipeline.BlockSize,
		Threshold:     c.Pipeline.EdgeThreshold,
		MaxDetections: c.Pipeline.MaxDetections,
		DumpPGM:       c.Files.Frame,
		DumpCSV:       c.Files.Inference,
	}, nil
}

// Validate reports the first inconsistency in c.
func (c *Config) Validate() error {
	if err := c.SceneOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Files.Raw == "" {
		return fmt.Errorf("%w: files.raw is required", ErrInvalidConfig)
	}
	if c.Output.Frames <= 0 {
		return fmt.Errorf("%w: output.frames must be > 0, got %d", ErrInvalidConfig, c.Output.Frames)
	}
	if c.Output.Workers < 0 {
		return fmt.Errorf("%w: output.workers must be >= 0, got %d", ErrInvalidConfig, c.Output.Workers)
	}
	if q := c.Output.JPEGQuality; q < 1 || q > 100 {
		return fmt.Errorf("%w: output.jpeg_quality must be in [1, 100], got %d", ErrInvalidConfig, q)
	}
	for name := range c.Output.DICOMTags {
		if _, err := dicom.GetTagByName(name); err != nil {
			return fmt.Errorf("%w: output.dicom_tags: %v", ErrInvalidConfig, err)
		}
	}
	if _, err := pipeline.ParseMode(c.Pipeline.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Pipeline.Frames <= 0 {
		return fmt.Errorf("%w: pipeline.frames must be > 0, got %d", ErrInvalidConfig, c.Pipeline.Frames)
	}
	if c.Pipeline.LoadIntervalMS < 0 {
		return fmt.Errorf("%w: pipeline.load_interval_ms must be >= 0", ErrInvalidConfig)
	}
	if t := c.Pipeline.EdgeThreshold; t < 0 || t > 255 {
		return fmt.Errorf("%w: pipeline.edge_threshold must be in [0, 255], got %d", ErrInvalidConfig, t)
	}
	return nil
}

// Load reads a YAML file. Keys absent from the file keep their Default
// values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
