package pipeline

import (
	"fmt"

	"github.com/mrsinham/starforge/internal/field"
)

// DefaultRingSize is the number of frame slots in flight.
const DefaultRingSize = 4

// SlotState is the position of a slot in the processing cycle.
type SlotState int

const (
	WriteReady SlotState = iota
	Stage1Ready
	Stage2Ready
	Complete
)

func (s SlotState) String() string {
	switch s {
	case WriteReady:
		return "write-ready"
	case Stage1Ready:
		return "stage1-ready"
	case Stage2Ready:
		return "stage2-ready"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("SlotState(%d)", int(s))
	}
}

// Slot owns the buffers of one frame in flight.
type Slot struct {
	ID         int
	State      SlotState
	Frame      int // frame number currently held, -1 when empty
	Raw        *field.Canvas
	Processed  *field.Canvas
	Detections []Detection
}

// advance moves the slot to the next state and fails on an out-of-order
// transition.
func (s *Slot) advance(from SlotState) error {
	if s.State != from {
		return fmt.Errorf("slot %d: expected %s, found %s", s.ID, from, s.State)
	}
	s.State = (s.State + 1) % (Complete + 1)
	return nil
}

// Ring is a fixed cycle of slots. Position i is followed by (i+1) % Len.
type Ring struct {
	slots []*Slot
}

// NewRing allocates size slots for width x height frames.
func NewRing(size, width, height int) (*Ring, error) {
	if size <= 0 {
		size = DefaultRingSize
	}
	r := &Ring{slots: make([]*Slot, size)}
	for i := range r.slots {
		raw, err := field.NewCanvas(width, height)
		if err != nil {
			return nil, err
		}
		processed, err := field.NewCanvas(width, height)
		if err != nil {
			return nil, err
		}
		r.slots[i] = &Slot{
			ID:         i,
			Frame:      -1,
			Raw:        raw,
			Processed:  processed,
			Detections: make([]Detection, 0, 1024),
		}
	}
	return r, nil
}

// Len returns the number of slots.
func (r *Ring) Len() int { return len(r.slots) }

// At returns the slot at position i modulo Len.
func (r *Ring) At(i int) *Slot { return r.slots[i%len(r.slots)] }
