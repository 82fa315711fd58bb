package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mrsinham/starforge/internal/config"
	"github.com/mrsinham/starforge/internal/convert"
	"github.com/mrsinham/starforge/internal/util"
)

func main() {
	configFile := flag.String("config", "", "Load configuration from YAML file")
	input := flag.String("input", "", "Source image (default: files.preview, Raw_image_Fig1.jpg)")
	output := flag.String("output", "", "Raw buffer to write (default: files.raw, input_image.bin)")
	width := flag.Int("width", 0, "Target width (default: canvas.width, 3124)")
	height := flag.Int("height", 0, "Target height (default: canvas.height, 3030)")
	quiet := flag.Bool("quiet", false, "Suppress status output")
	verbose := flag.Bool("verbose", false, "Log diagnostics to stderr")
	flag.Parse()

	if *verbose {
		util.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Printf("[ERROR] Could not load config: %v\n", err)
			return
		}
		cfg = loaded
	}

	opts := convert.Options{
		Input:  cfg.Files.Preview,
		Output: cfg.Files.Raw,
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
		Quiet:  *quiet,
	}
	if *input != "" {
		opts.Input = *input
	}
	if *output != "" {
		opts.Output = *output
	}
	if *width > 0 {
		opts.Width = *width
	}
	if *height > 0 {
		opts.Height = *height
	}

	if _, err := convert.Run(opts); err != nil {
		fmt.Printf("[ERROR] Could not convert image: %v\n", err)
	}
}
