package sim

import (
	"go.uber.org/zap"

	"github.com/Faultbox/bouncer/internal/engine/input"
	"github.com/Faultbox/bouncer/internal/engine/scene"
)

// Intent is a request from the overlay. The overlay never touches State
// directly; it returns an Intent which the frame loop hands to Apply.
type Intent int

const (
	IntentNone Intent = iota
	IntentStartGame
	IntentQuit
)

func (i Intent) String() string {
	switch i {
	case IntentStartGame:
		return "start"
	case IntentQuit:
		return "quit"
	default:
		return "none"
	}
}

// Apply consumes an overlay intent.
func (s *State) Apply(i Intent) {
	switch i {
	case IntentStartGame:
		if s.Paused {
			s.TogglePause()
		}
	case IntentQuit:
		s.quit = true
	}
}

// HandleEvents routes a frame's worth of events.
func (s *State) HandleEvents(events []input.Event) {
	for _, e := range events {
		s.HandleEvent(e)
	}
}

// HandleEvent updates key flags and modes from a single event.
func (s *State) HandleEvent(e input.Event) {
	switch e.Type {
	case input.EventQuit:
		s.quit = true
	case input.EventKey:
		s.handleKey(e)
	case input.EventPointerMove:
		s.handlePointer(e.X, e.Y)
	case input.EventScroll:
		if !s.Paused {
			s.PoseJoints(float32(e.ScrollY) * s.settings.JointStepDegrees)
		}
	case input.EventCursorEnter:
		// the pointer may have moved anywhere while outside
		s.resample = true
	case input.EventResize:
		if e.Height > 0 {
			s.SetAspect(float32(e.Width) / float32(e.Height))
		}
	}
}

func (s *State) handleKey(e input.Event) {
	if e.Action == input.Repeat {
		return
	}
	down := e.Action == input.Press

	switch e.Key {
	case input.KeyW:
		s.setMove(&s.Keys.Forward, down)
	case input.KeyS:
		s.setMove(&s.Keys.Back, down)
	case input.KeyA:
		s.setMove(&s.Keys.Left, down)
	case input.KeyD:
		s.setMove(&s.Keys.Right, down)
	case input.KeyLeftShift, input.KeyRightShift:
		if down && !s.Boosting {
			s.sounds.Play(SoundWhoosh)
		}
		s.Boosting = down
	case input.KeyP:
		if down {
			s.TogglePause()
		}
	case input.KeyE:
		if down && !s.Paused {
			s.StartAnimation()
		}
	case input.KeyR:
		if down {
			s.ResetJoints()
		}
	case input.KeyEscape:
		if down {
			s.quit = true
		}
	}
}

// setMove records a movement key. Presses are ignored while paused so the
// player does not start moving the moment the game resumes.
func (s *State) setMove(flag *bool, down bool) {
	if down && s.Paused {
		return
	}
	*flag = down
}

func (s *State) handlePointer(x, y float64) {
	if s.havePointer && !s.resample && !s.Paused {
		dx := float32(x - s.pointerX)
		dy := float32(y - s.pointerY)
		s.Camera.Look(&s.Player, dx, dy, s.settings.MouseSensitivity)
		s.syncPlayer()
	}
	s.pointerX, s.pointerY = x, y
	s.havePointer = true
	s.resample = false
}

// TogglePause flips the pause state. Held movement keys are released and
// the next pointer sample only re-anchors the cursor.
func (s *State) TogglePause() {
	s.Paused = !s.Paused
	s.Keys = Keys{}
	s.resample = true
	s.log.Debug("pause toggled", zap.Bool("paused", s.Paused))
}

// CaptureMouse reports whether the window should hold the pointer.
func (s *State) CaptureMouse() bool {
	return !s.Paused
}

// StartAnimation plays the first limb animation. It reports whether one
// was started.
func (s *State) StartAnimation() bool {
	for _, a := range s.Animations {
		if a.Playing() {
			return false
		}
	}
	if len(s.Animations) == 0 {
		return false
	}
	s.Animations[0].Start(s.Graph)
	return s.Animations[0].Playing()
}

// PoseJoints rotates every joint of the player about X by degrees within
// its range.
func (s *State) PoseJoints(degrees float32) {
	if degrees == 0 {
		return
	}
	for _, id := range s.Graph.Joints(s.Roots.Player) {
		if _, err := s.Graph.RotateJoint(id, scene.AxisX, degrees); err != nil {
			s.log.Debug("pose joint", zap.Error(err))
		}
	}
}

// ResetJoints returns every player joint to its initial pose.
func (s *State) ResetJoints() {
	for _, id := range s.Graph.Joints(s.Roots.Player) {
		_ = s.Graph.ResetJoint(id)
	}
}
