package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/mrsinham/starforge/cmd/starforge/wizard"
	"github.com/mrsinham/starforge/internal/config"
	"github.com/mrsinham/starforge/internal/dicom"
	"github.com/mrsinham/starforge/internal/generate"
	"github.com/mrsinham/starforge/internal/util"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Check for wizard subcommand (before flag.Parse)
	if len(os.Args) > 1 && os.Args[1] == "wizard" {
		// Extract --from flag if present
		var fromConfig string
		for i, arg := range os.Args[2:] {
			if arg == "--from" && i+3 < len(os.Args) {
				fromConfig = os.Args[i+3]
			}
		}
		if err := wizard.Run(fromConfig); err != nil {
			fmt.Printf("[ERROR] %v\n", err)
		}
		os.Exit(0)
	}

	configFile := flag.String("config", "", "Load configuration from YAML file")
	seed := flag.Uint64("seed", 0, "Seed for reproducibility (0 or unset derives it from the raw filename)")
	frames := flag.Int("frames", 0, "Number of frames to generate (default: 1)")
	workers := flag.Int("workers", 0, fmt.Sprintf("Number of parallel workers (default: %d = CPU cores)", runtime.NumCPU()))
	dicomPath := flag.String("dicom", "", "Also write a DICOM Secondary Capture to this path")
	label := flag.Bool("label", false, "Stamp the seed on the JPEG preview")
	quiet := flag.Bool("quiet", false, "Suppress status output")
	verbose := flag.Bool("verbose", false, "Log diagnostics to stderr")
	saveConfig := flag.String("save-config", "", "Save configuration to YAML file (after generation)")

	tags := map[string]string{}
	flag.Func("tag", "Override a DICOM attribute, Name=Value (repeatable)", func(s string) error {
		name, value, err := dicom.ParseTag(s)
		if err != nil {
			return err
		}
		tags[name] = value
		return nil
	})

	interactive := flag.Bool("interactive", false, "Launch interactive wizard")
	flag.BoolVar(interactive, "i", false, "Launch interactive wizard (shortcut)")

	help := flag.Bool("help", false, "Show help message")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Parse()

	if *showVersion {
		fmt.Printf("starforge %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *verbose {
		util.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if *interactive {
		if err := wizard.Run(*configFile); err != nil {
			fmt.Printf("[ERROR] %v\n", err)
		}
		os.Exit(0)
	}

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Printf("[ERROR] Could not load config: %v\n", err)
			os.Exit(0)
		}
		cfg = loaded
		if !*quiet {
			fmt.Printf("[INFO] Loading config from %s\n", *configFile)
		}
	}

	// Only flags given on the command line override the configuration.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Scene.Seed = *seed
		case "frames":
			cfg.Output.Frames = *frames
		case "workers":
			cfg.Output.Workers = *workers
		case "dicom":
			cfg.Files.DICOM = *dicomPath
		case "label":
			cfg.Output.Label = *label
		}
	})

	if len(tags) > 0 {
		if cfg.Output.DICOMTags == nil {
			cfg.Output.DICOMTags = map[string]string{}
		}
		for name, value := range tags {
			cfg.Output.DICOMTags[name] = value
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err := generate.Run(ctx, generate.Options{Config: cfg, Quiet: *quiet})
	if err != nil {
		fmt.Printf("[ERROR] Failed to generate image: %v\n", err)
		os.Exit(0)
	}

	if *saveConfig != "" {
		if err := config.Save(cfg, *saveConfig); err != nil {
			fmt.Printf("[WARN] Could not save config: %v\n", err)
		} else if !*quiet {
			fmt.Printf("[INFO] Configuration saved to %s\n", *saveConfig)
		}
	}
}

func printHelp() {
	fmt.Println("starforge")
	fmt.Println("=========")
	fmt.Println()
	fmt.Println("Generate synthetic star-field test frames for the tracking pipeline.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  starforge [options]")
	fmt.Println("  starforge wizard [--from <FILE>]")
	fmt.Println()
	fmt.Println("With no options, writes a 3124x3030 frame to Raw_image_Fig1.jpg and input_image.bin.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <FILE>       Load configuration from YAML file")
	fmt.Println("  --seed <N>            Seed for reproducibility; 0 or unset derives it from the raw filename")
	fmt.Println("  --frames <N>          Number of frames; N > 1 writes <stem>_000<ext>, <stem>_001<ext>, ...")
	fmt.Printf("  --workers <N>         Number of parallel workers (default: %d = CPU cores)\n", runtime.NumCPU())
	fmt.Println("  --dicom <FILE>        Also write a DICOM Secondary Capture")
	fmt.Println("  --tag <NAME=VALUE>    Override a DICOM attribute (repeatable, e.g. InstitutionName=\"Pic du Midi\")")
	fmt.Println("  --label               Stamp seed and frame number on the JPEG preview (never on the raw buffer)")
	fmt.Println("  --save-config <FILE>  Save the effective configuration after generation")
	fmt.Println("  --quiet               Suppress status output")
	fmt.Println("  --verbose             Log diagnostics to stderr")
	fmt.Println("  -i, --interactive     Launch interactive wizard")
	fmt.Println("  --version             Show version")
	fmt.Println("  --help                Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Reference frame")
	fmt.Println("  starforge")
	fmt.Println()
	fmt.Println("  # Ten reproducible frames with 4 workers")
	fmt.Println("  starforge --frames 10 --seed 42 --workers 4")
	fmt.Println()
	fmt.Println("  # Frame plus DICOM copy for external viewers")
	fmt.Println("  starforge --dicom frame.dcm --label")
	fmt.Println()
	fmt.Println("Related commands:")
	fmt.Println("  jpg2raw    Convert a JPEG into the raw pipeline buffer")
	fmt.Println("  tracksim   Run the tracking pipeline simulation on the raw buffer")
	fmt.Println("  pgmview    Convert the pipeline's PGM dump to PNG and open it")
}
