// Package sim advances the game world one frame at a time: player and ball
// movement, collisions, particle bursts, limb animation and the input state
// machine that drives them.
//
// The package holds no GPU or window state. The frame loop publishes State
// to the renderer by reference after each Step.
package sim

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/bouncer/internal/engine/camera"
	"github.com/Faultbox/bouncer/internal/engine/particles"
	"github.com/Faultbox/bouncer/internal/engine/scene"
	"github.com/Faultbox/bouncer/internal/logger"
	"github.com/Faultbox/bouncer/pkg/math"
)

// Cue names passed to Sounds.Play.
const (
	SoundBounce = "bounce"
	SoundWhoosh = "whoosh"
	SoundClick  = "click"
)

// Sounds plays named feedback cues. Calls must not block.
type Sounds interface {
	Play(name string)
}

type silent struct{}

func (silent) Play(string) {}

// Settings tunes the simulation.
type Settings struct {
	PlayerBoundary float32 // player may not leave this radius
	BallBoundary   float32 // ball bounces off this radius
	HitDistance    float32 // ball/player contact distance
	BallSpeed      float32 // units per millisecond
	MoveDivisor    float32 // milliseconds per unit of player movement
	BoostFactor    float32
	WhooshPeriodMs int64

	MouseSensitivity float32 // pixels per radian
	JointStepDegrees float32 // joint rotation per scroll notch

	FovDegrees float32
	Near       float32
	Far        float32

	Particles particles.Settings
}

// DefaultSettings returns the settings used in game.
func DefaultSettings() Settings {
	return Settings{
		PlayerBoundary:   49,
		BallBoundary:     49.5,
		HitDistance:      1.5,
		BallSpeed:        0.02,
		MoveDivisor:      100,
		BoostFactor:      2,
		WhooshPeriodMs:   500,
		MouseSensitivity: 1000,
		JointStepDegrees: 5,
		FovDegrees:       60,
		Near:             0.1,
		Far:              100,
		Particles:        particles.DefaultSettings(),
	}
}

// Roots names the independently imported subtrees. Any of them may be
// scene.NoNode when its scene file failed to load.
type Roots struct {
	Arena  scene.NodeID
	Ball   scene.NodeID
	Player scene.NodeID
}

// Keys holds the held movement keys.
type Keys struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
}

// Any reports whether any movement key is held.
func (k Keys) Any() bool {
	return k.Forward || k.Back || k.Left || k.Right
}

// Effect selects the full-screen post effect for the frame.
type Effect int

const (
	EffectNone Effect = iota
	EffectMotionBlur
	EffectPaused
)

// Options configures New.
type Options struct {
	Settings   Settings
	Sounds     Sounds
	Rand       *rand.Rand // particle directions; nil seeds randomly
	Aspect     float32
	Animations []scene.Animation // keyframe animations of the player subtree
	BallDir    math.Vec3         // initial ball direction; zero picks a default
}

// State is the whole simulation. It owns the scene graph, the player and
// camera coupling, the particle burst and the animation players.
type State struct {
	Graph  *scene.Graph
	Roots  Roots
	Camera *camera.FirstPerson

	// Player is the player's transform. The camera view is kept equal to
	// its inverse. It is mirrored into the player root when one exists.
	Player math.Mat4

	Particles  *particles.Burst
	Animations []*Animator

	Keys        Keys
	Boosting    bool
	Paused      bool
	InCollision bool
	BallDir     math.Vec3
	Hits        int

	prevMs  int64
	started bool

	pointerX, pointerY float64
	havePointer        bool
	resample           bool

	quit     bool
	settings Settings
	sounds   Sounds
	log      *zap.Logger
}

// New builds the simulation around an imported graph. The game starts
// paused.
func New(g *scene.Graph, roots Roots, opts Options) *State {
	if opts.Sounds == nil {
		opts.Sounds = silent{}
	}
	if opts.Aspect <= 0 {
		opts.Aspect = 1
	}
	dir := opts.BallDir
	if dir.Length() < epsilon {
		dir = math.Vec3{X: 0.6, Y: 0.48, Z: 0.64}
	}

	s := &State{
		Graph:     g,
		Roots:     roots,
		Player:    math.Identity(),
		Particles: particles.NewBurst(opts.Settings.Particles, opts.Rand),
		Paused:    true,
		BallDir:   dir.Normalize(),
		settings:  opts.Settings,
		sounds:    opts.Sounds,
		log:       logger.Named("sim"),
	}

	if g.Valid(roots.Player) {
		s.Player = g.Local(roots.Player)
	}
	st := opts.Settings
	s.Camera = camera.NewFirstPerson(s.Player, st.FovDegrees, opts.Aspect, st.Near, st.Far)

	for _, a := range opts.Animations {
		an, err := NewAnimator(g, roots.Player, a)
		if err != nil {
			s.log.Warn("skipping animation", zap.String("name", a.Name), zap.Error(err))
			continue
		}
		s.Animations = append(s.Animations, an)
	}

	return s
}

// QuitRequested reports whether the player asked to leave.
func (s *State) QuitRequested() bool {
	return s.quit
}

// Effect returns the post effect matching the current state.
func (s *State) Effect() Effect {
	switch {
	case s.Paused:
		return EffectPaused
	case s.Boosting && s.Keys.Any():
		return EffectMotionBlur
	default:
		return EffectNone
	}
}

// BallPosition returns the ball's world position.
func (s *State) BallPosition() (math.Vec3, bool) {
	if !s.Graph.Valid(s.Roots.Ball) {
		return math.Vec3{}, false
	}
	return s.Graph.Local(s.Roots.Ball).Translation(), true
}

// PlayerPosition returns the player's world position.
func (s *State) PlayerPosition() math.Vec3 {
	return s.Player.Translation()
}

// SetAspect updates the projection after a resize.
func (s *State) SetAspect(aspect float32) {
	s.Camera.SetAspect(aspect)
}

// syncPlayer writes Player into the graph.
func (s *State) syncPlayer() {
	if s.Graph.Valid(s.Roots.Player) {
		_ = s.Graph.SetLocal(s.Roots.Player, s.Player)
	}
}
