package ui2d

import "github.com/Faultbox/bouncer/internal/engine/input"

// InputState holds the pointer state the widgets read. It is fed from the
// same event queue as the game.
type InputState struct {
	MouseX float32
	MouseY float32

	MouseLeftDown     bool
	MouseLeftPressed  bool // went down this frame
	MouseLeftReleased bool // went up this frame

	// MouseLeftClicked is set by a press event and consumed by the first
	// widget that claims it, so fast clicks between frames are not lost.
	MouseLeftClicked bool

	prevMouseLeft bool
}

// Feed applies one window event.
func (i *InputState) Feed(ev input.Event) {
	switch ev.Type {
	case input.EventPointerMove:
		i.MouseX, i.MouseY = float32(ev.X), float32(ev.Y)
	case input.EventButton:
		if ev.Button != input.ButtonLeft {
			return
		}
		i.MouseX, i.MouseY = float32(ev.X), float32(ev.Y)
		switch ev.Action {
		case input.Press:
			i.MouseLeftDown = true
			i.MouseLeftClicked = true
		case input.Release:
			i.MouseLeftDown = false
		}
	}
}

// Update prepares input state for a new frame.
// Call this at the start of each frame after feeding the frame's events.
func (i *InputState) Update() {
	i.MouseLeftPressed = i.MouseLeftDown && !i.prevMouseLeft
	i.MouseLeftReleased = !i.MouseLeftDown && i.prevMouseLeft
	i.prevMouseLeft = i.MouseLeftDown
}

// EndFrame clears per-frame input state.
func (i *InputState) EndFrame() {
	i.MouseLeftClicked = false
}

// IsMouseInRect checks if the mouse is within a rectangle.
func (i *InputState) IsMouseInRect(x, y, w, h float32) bool {
	return Rect{x, y, w, h}.Contains(i.MouseX, i.MouseY)
}
