package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mrsinham/starforge/internal/config"
	"github.com/mrsinham/starforge/internal/imageio"
	"github.com/mrsinham/starforge/internal/util"
	"github.com/mrsinham/starforge/internal/view"
)

func main() {
	configFile := flag.String("config", "", "Load configuration from YAML file")
	input := flag.String("input", "", "PGM dump to read (default: files.frame, output_frame0.pgm)")
	output := flag.String("output", "", "PNG to write (default: files.visualized, output_visualized.png)")
	noShow := flag.Bool("no-show", false, "Do not open the PNG in the system viewer")
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

	opts := view.Options{
		Input:  cfg.Files.Frame,
		Output: cfg.Files.Visualized,
		Show:   !*noShow,
		Quiet:  *quiet,
	}
	if *input != "" {
		opts.Input = *input
	}
	if *output != "" {
		opts.Output = *output
	}

	_, err := view.Run(context.Background(), opts)
	switch {
	case errors.Is(err, imageio.ErrMissingInputFile):
		fmt.Printf("Error: %s not found. Run the pipeline simulation first.\n", opts.Input)
	case err != nil:
		fmt.Printf("An error occurred: %v\n", err)
	}
}
