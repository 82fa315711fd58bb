package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mrsinham/starforge/internal/imageio"
	"github.com/mrsinham/starforge/internal/util"
)

// Mode selects how stages are scheduled.
type Mode int

const (
	// Sequential runs acquisition and both stages in one cooperative loop.
	Sequential Mode = iota
	// Staged runs stage 1 and stage 2 on separate goroutines connected by
	// channels, with the ring preloaded.
	Staged
)

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Staged:
		return "staged"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "sequential" or "staged" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential", "single":
		return Sequential, nil
	case "staged", "dual":
		return Staged, nil
	default:
		return 0, fmt.Errorf("invalid pipeline mode %q (valid: sequential, staged)", s)
	}
}

// Options configures a simulation run.
type Options struct {
	Input  string
	Width  int
	Height int

	Frames        int
	Mode          Mode
	RingSize      int           // 0 = DefaultRingSize
	LoadInterval  time.Duration // minimum spacing between frame loads
	BlockSize     int           // 0 = DefaultBlockSize
	Threshold     int           // 0 = DefaultEdgeThreshold
	MaxDetections int           // 0 = DefaultMaxDetections

	// First completed frame is dumped here; empty paths skip the dump.
	DumpPGM string
	DumpCSV string

	Quiet bool
	Out   io.Writer
}

// FrameTiming records how long one frame took.
type FrameTiming struct {
	Frame      int
	Slot       int
	Stage1     time.Duration
	Stage2     time.Duration
	Total      time.Duration
	Detections int
}

// Report is the outcome of a run.
type Report struct {
	Mode       Mode
	Frames     []FrameTiming
	Starved    int // stage 1 ticks that found no free slot
	Dumped     bool
	Detections []Detection // detections of the dumped frame
}

type simulator struct {
	opts   Options
	ring   *Ring
	report *Report
	printf func(format string, args ...any)
}

// Run processes opts.Frames frames from opts.Input.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Frames <= 0 {
		return nil, fmt.Errorf("frame count must be > 0, got %d", opts.Frames)
	}
	if opts.Threshold < 0 || opts.Threshold > 255 {
		return nil, fmt.Errorf("edge threshold %d outside [0, 255]", opts.Threshold)
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultEdgeThreshold
	}
	if opts.MaxDetections <= 0 {
		opts.MaxDetections = DefaultMaxDetections
	}

	ring, err := NewRing(opts.RingSize, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	var mu sync.Mutex
	s := &simulator{
		opts:   opts,
		ring:   ring,
		report: &Report{Mode: opts.Mode, Frames: make([]FrameTiming, opts.Frames)},
		printf: func(format string, args ...any) {
			if opts.Quiet {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			_, _ = fmt.Fprintf(out, format, args...)
		},
	}

	s.printf("System initialization...\n")
	s.printf("commencing %s simulation\n", opts.Mode)

	switch opts.Mode {
	case Sequential:
		err = s.runSequential(ctx)
	case Staged:
		err = s.runStaged(ctx)
	default:
		err = fmt.Errorf("unknown mode %s", opts.Mode)
	}
	if err != nil {
		return nil, err
	}

	s.printf("Simulation complete\n")
	return s.report, nil
}

func (s *simulator) newDetector() (*EdgeDetector, error) {
	d, err := NewEdgeDetector(s.opts.Width, s.opts.Height)
	if err != nil {
		return nil, err
	}
	d.Threshold = uint8(s.opts.Threshold)
	d.MaxDetections = s.opts.MaxDetections
	return d, nil
}

func (s *simulator) load(slot *Slot) error {
	if err := imageio.ReadRawInto(s.opts.Input, slot.Raw); err != nil {
		return fmt.Errorf("load frame: %w", err)
	}
	s.printf("[SYS] Loaded test vector: %s (%d bytes)\n", s.opts.Input, slot.Raw.Len())
	return nil
}

func (s *simulator) stage1(slot *Slot) error {
	if err := slot.advance(Stage1Ready); err != nil {
		return err
	}
	return SubtractBackground(slot.Processed, slot.Raw, s.opts.BlockSize)
}

func (s *simulator) stage2(d *EdgeDetector, slot *Slot) error {
	if err := slot.advance(Stage2Ready); err != nil {
		return err
	}
	dets, err := d.Detect(slot.Processed, slot.Detections[:0])
	if err != nil {
		return err
	}
	slot.Detections = dets

	if !s.report.Dumped {
		if err := s.dump(slot); err != nil {
			return err
		}
	}
	return nil
}

// release returns a completed slot to the writer.
func (s *simulator) release(slot *Slot) error {
	if err := slot.advance(Complete); err != nil {
		return err
	}
	slot.Frame = -1
	return nil
}

func (s *simulator) dump(slot *Slot) error {
	s.report.Dumped = true
	s.report.Detections = append([]Detection(nil), slot.Detections...)
	if s.opts.DumpPGM == "" && s.opts.DumpCSV == "" {
		return nil
	}

	s.printf("[DEBUG] Dumping frame %d inference & image...\n", slot.Frame)
	if s.opts.DumpPGM != "" {
		if err := imageio.WritePGM(s.opts.DumpPGM, slot.Processed.Gray()); err != nil {
			return fmt.Errorf("dump frame: %w", err)
		}
	}
	if s.opts.DumpCSV != "" {
		if err := WriteDetectionsCSV(s.opts.DumpCSV, slot.Detections); err != nil {
			return fmt.Errorf("dump inference: %w", err)
		}
	}
	return nil
}

// runSequential drives acquisition, stage 1 and stage 2 from one loop, each
// step acting on the slot it points at when that slot is in the right state.
func (s *simulator) runSequential(ctx context.Context) error {
	det, err := s.newDetector()
	if err != nil {
		return err
	}

	var (
		writePos, stage1Pos, stage2Pos int
		loaded, completed              int
		lastLoad                       time.Time
		starts                         = make([]time.Time, s.opts.Frames)
		stage1Done                     = make([]time.Time, s.opts.Frames)
	)

	for completed < s.opts.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		progressed := false

		if w := s.ring.At(writePos); loaded < s.opts.Frames && w.State == WriteReady &&
			time.Since(lastLoad) >= s.opts.LoadInterval {
			lastLoad = time.Now()
			if err := s.load(w); err != nil {
				return err
			}
			w.Frame = loaded
			if err := w.advance(WriteReady); err != nil {
				return err
			}
			starts[loaded] = time.Now()
			loaded++
			writePos++
			progressed = true
		}

		if t1 := s.ring.At(stage1Pos); t1.State == Stage1Ready {
			if err := s.stage1(t1); err != nil {
				return err
			}
			stage1Done[t1.Frame] = time.Now()
			stage1Pos++
			progressed = true
		}

		if t2 := s.ring.At(stage2Pos); t2.State == Stage2Ready {
			if err := s.stage2(det, t2); err != nil {
				return err
			}
			f := t2.Frame
			stop := time.Now()
			s.report.Frames[f] = FrameTiming{
				Frame:      f,
				Slot:       t2.ID,
				Stage1:     stage1Done[f].Sub(starts[f]),
				Stage2:     stop.Sub(stage1Done[f]),
				Total:      stop.Sub(starts[f]),
				Detections: len(t2.Detections),
			}
			if err := s.release(t2); err != nil {
				return err
			}
			stage2Pos++
			completed++
			progressed = true
		}

		if !progressed {
			if wait := s.opts.LoadInterval - time.Since(lastLoad); wait > 0 {
				time.Sleep(wait)
			}
		}
	}
	return nil
}

type stagedFrame struct {
	slot   *Slot
	start  time.Time
	stage1 time.Duration
}

// runStaged preloads every slot, then runs stage 1 on a paced producer and
// stage 2 on a consumer. Slots are handed over through channels so exactly
// one goroutine owns a slot at a time.
func (s *simulator) runStaged(ctx context.Context) error {
	free := make(chan *Slot, s.ring.Len())
	for i := 0; i < s.ring.Len(); i++ {
		slot := s.ring.At(i)
		if err := s.load(slot); err != nil {
			return err
		}
		free <- slot
	}

	det, err := s.newDetector()
	if err != nil {
		return err
	}

	ready := make(chan stagedFrame, s.ring.Len())
	g, ctx := errgroup.WithContext(ctx)
	log := util.Logger()

	g.Go(func() error {
		defer close(ready)
		var tick <-chan time.Time
		if s.opts.LoadInterval > 0 {
			t := time.NewTicker(s.opts.LoadInterval)
			defer t.Stop()
			tick = t.C
		}

		for frame := 0; frame < s.opts.Frames; {
			var slot *Slot
			if tick == nil {
				select {
				case slot = <-free:
				case <-ctx.Done():
					return ctx.Err()
				}
			} else {
				select {
				case <-tick:
				case <-ctx.Done():
					return ctx.Err()
				}
				select {
				case slot = <-free:
				default:
					s.report.Starved++
					log.Warn("no free slot", "frame", frame)
					s.printf("[ERROR] Buffer not free\n")
					continue
				}
			}

			start := time.Now()
			slot.Frame = frame
			if err := slot.advance(WriteReady); err != nil {
				return err
			}
			if err := s.stage1(slot); err != nil {
				return err
			}

			select {
			case ready <- stagedFrame{slot: slot, start: start, stage1: time.Since(start)}:
			case <-ctx.Done():
				return ctx.Err()
			}
			frame++
		}
		return nil
	})

	g.Go(func() error {
		for sf := range ready {
			begin := time.Now()
			if err := s.stage2(det, sf.slot); err != nil {
				return err
			}
			stop := time.Now()
			f := sf.slot.Frame
			s.report.Frames[f] = FrameTiming{
				Frame:      f,
				Slot:       sf.slot.ID,
				Stage1:     sf.stage1,
				Stage2:     stop.Sub(begin),
				Total:      stop.Sub(sf.start),
				Detections: len(sf.slot.Detections),
			}
			if err := s.release(sf.slot); err != nil {
				return err
			}
			free <- sf.slot
		}
		return nil
	})

	return g.Wait()
}

// WriteDetectionsCSV writes detections with an "Address,Value" header.
func WriteDetectionsCSV(path string, dets []Detection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Address", "Value"}); err != nil {
		return err
	}
	for _, d := range dets {
		rec := []string{strconv.FormatUint(uint64(d.Address), 10), strconv.Itoa(int(d.Value))}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
