package picking

import "github.com/Beginsangod/Painter/internal/engine/gpu"

// State is the phase of a rubber-band selection.
type State int

const (
	Idle State = iota
	Dragging
	Resolving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resolving:
		return "resolving"
	}
	return "unknown"
}

// Drag tracks a rectangle selection: Begin on press, Move while the button
// is held, Release when it goes up, Done once the pick has been applied.
type Drag struct {
	state      State
	start, end [2]int32
}

// State returns the current phase.
func (d *Drag) State() State { return d.state }

// Begin fixes the start corner and enters Dragging.
func (d *Drag) Begin(x, y int32) {
	d.state = Dragging
	d.start = [2]int32{x, y}
	d.end = d.start
}

// Move tracks the end corner. It is ignored outside Dragging.
func (d *Drag) Move(x, y int32) bool {
	if d.state != Dragging {
		return false
	}
	d.end = [2]int32{x, y}
	return true
}

// Start returns the fixed corner.
func (d *Drag) Start() [2]int32 { return d.start }

// End returns the tracked corner.
func (d *Drag) End() [2]int32 { return d.end }

// Rect returns the rectangle from start to end; width and height are
// negative when the drag went left or up.
func (d *Drag) Rect() gpu.Rect {
	return gpu.Rect{
		X: d.start[0],
		Y: d.start[1],
		W: d.end[0] - d.start[0],
		H: d.end[1] - d.start[1],
	}
}

// Release records the final corner and enters Resolving. ok is false when
// no drag was in progress; the caller then resolves to an empty pick.
func (d *Drag) Release(x, y int32) (r gpu.Rect, ok bool) {
	if d.state != Dragging {
		return gpu.Rect{}, false
	}
	d.end = [2]int32{x, y}
	d.state = Resolving
	return d.Rect(), true
}

// Done returns to Idle after the pick result has been applied.
func (d *Drag) Done() { d.state = Idle }

// Cancel abandons the drag.
func (d *Drag) Cancel() { d.state = Idle }
