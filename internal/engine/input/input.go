// Package input defines window-system independent input events.
package input

// EventType tags an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventResize
	EventKey
	EventPointerMove
	EventButton
	EventScroll
	EventCursorEnter
)

// Action is the state change carried by key and button events.
type Action int

const (
	Release Action = iota
	Press
	Repeat
)

// Mods is a bit set of held modifier keys.
type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether every bit of m2 is set.
func (m Mods) Has(m2 Mods) bool { return m&m2 == m2 }

// Key identifies the keys the game reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyE
	KeyP
	KeyR
	KeyM
	KeySpace
	KeyEscape
	KeyLeftShift
	KeyRightShift
	KeyF1
	KeyF12
)

var keyNames = map[Key]string{
	KeyW:          "W",
	KeyA:          "A",
	KeyS:          "S",
	KeyD:          "D",
	KeyE:          "E",
	KeyP:          "P",
	KeyR:          "R",
	KeyM:          "M",
	KeySpace:      "Space",
	KeyEscape:     "Escape",
	KeyLeftShift:  "LeftShift",
	KeyRightShift: "RightShift",
	KeyF1:         "F1",
	KeyF12:        "F12",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "Unknown"
}

// IsShift reports whether k is either shift key.
func (k Key) IsShift() bool {
	return k == KeyLeftShift || k == KeyRightShift
}

// Mouse buttons.
const (
	ButtonLeft   = 1
	ButtonMiddle = 2
	ButtonRight  = 3
)

// Event is a single input event. Only the fields relevant to Type are set.
type Event struct {
	Type   EventType
	Key    Key
	Action Action
	Mods   Mods

	// Pointer position for EventPointerMove and EventButton.
	X, Y   float64
	Button int

	ScrollX, ScrollY float64

	Width, Height int

	// Entered is false when the cursor leaves the window.
	Entered bool
}

// Input collects the events of one frame.
type Input struct {
	events []Event
	quit   bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Reset drops the previous frame's events.
func (i *Input) Reset() {
	i.events = i.events[:0]
}

// Push records an event.
func (i *Input) Push(e Event) {
	if e.Type == EventQuit {
		i.quit = true
	}
	i.events = append(i.events, e)
}

// RequestQuit marks the session for shutdown without an OS event.
func (i *Input) RequestQuit() {
	i.quit = true
}

// QuitRequested reports whether a quit event has been seen.
func (i *Input) QuitRequested() bool {
	return i.quit
}

// Events returns the events pushed since the last Reset.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(k Key) bool {
	for _, e := range i.events {
		if e.Type == EventKey && e.Action == Press && e.Key == k {
			return true
		}
	}
	return false
}
