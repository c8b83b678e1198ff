// Package input defines the window-system independent events the viewport
// consumes. The sdlinput subpackage produces them from SDL.
package input

// EventType identifies an event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventWheel
)

// Button is a mouse button, or a set of them when used as a held mask.
type Button uint8

const (
	ButtonLeft Button = 1 << iota
	ButtonMiddle
	ButtonRight
)

// Modifier is a set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether every modifier in m is held.
func (mods Modifier) Has(m Modifier) bool { return mods&m == m }

// Event is one processed input event. Mouse coordinates are logical pixels
// with a top-left origin.
type Event struct {
	Type EventType

	// Key is the character of a key event, lower case for letters.
	Key rune

	X, Y float32
	// Button is the button that changed on press or release.
	Button Button
	// Buttons is every button held after the event.
	Buttons Button
	Mods    Modifier

	// WheelX and WheelY are wheel deltas in eighths of a degree, 120 per notch.
	WheelX, WheelY float32

	Width, Height int
}

// Input collects the events of one frame.
type Input struct {
	events []Event
}

// New creates an empty event queue.
func New() *Input {
	return &Input{events: make([]Event, 0, 16)}
}

// Reset drops the events of the previous frame.
func (i *Input) Reset() { i.events = i.events[:0] }

// Push appends an event.
func (i *Input) Push(e Event) { i.events = append(i.events, e) }

// Events returns the events collected since the last Reset.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a key went down this frame.
func (i *Input) IsKeyPressed(key rune) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

// Quit reports whether a quit event arrived this frame.
func (i *Input) Quit() bool {
	for _, e := range i.events {
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}
