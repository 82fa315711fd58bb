package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/mrsinham/starforge/internal/config"
	"github.com/mrsinham/starforge/internal/pipeline"
	"github.com/mrsinham/starforge/internal/util"
)

func main() {
	configFile := flag.String("config", "", "Load configuration from YAML file")
	input := flag.String("input", "", "Raw buffer to process (default: files.raw, input_image.bin)")
	mode := flag.String("mode", "", "Pipeline mode: sequential or staged (default: pipeline.mode)")
	frames := flag.Int("frames", 0, "Number of frames to process (default: pipeline.frames, 10)")
	interval := flag.Duration("interval", -1, "Minimum spacing between frame loads (default: pipeline.load_interval_ms)")
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
	if *mode != "" {
		cfg.Pipeline.Mode = *mode
	}

	opts, err := cfg.PipelineOptions()
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		return
	}
	if *input != "" {
		opts.Input = *input
	}
	if *frames > 0 {
		opts.Frames = *frames
	}
	if *interval >= 0 {
		opts.LoadInterval = *interval
	}
	opts.Quiet = *quiet

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := pipeline.Run(ctx, opts)
	if err != nil {
		fmt.Printf("[ERROR] Simulation failed: %v\n", err)
		return
	}
	if *quiet {
		return
	}

	fmt.Println()
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(tw, "frame\tslot\tstage1\tstage2\ttotal\tdetections\t")
	var total time.Duration
	for _, ft := range report.Frames {
		total += ft.Total
		_, _ = fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%d\t\n", ft.Frame, ft.Slot,
			ft.Stage1.Round(time.Microsecond), ft.Stage2.Round(time.Microsecond),
			ft.Total.Round(time.Microsecond), ft.Detections)
	}
	_ = tw.Flush()

	if n := len(report.Frames); n > 0 {
		fmt.Printf("\nMean frame time: %s over %d frames (%s mode)\n", (total / time.Duration(n)).Round(time.Microsecond), n, report.Mode)
	}
	if report.Starved > 0 {
		fmt.Printf("[WARN] %d load ticks found no free buffer\n", report.Starved)
	}
}
