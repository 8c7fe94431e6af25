package sim

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/bouncer/internal/engine/input"
	"github.com/Faultbox/bouncer/internal/engine/scene"
	"github.com/Faultbox/bouncer/pkg/math"
)

const tol = 1e-4

type recorder struct {
	played []string
}

func (r *recorder) Play(name string) { r.played = append(r.played, name) }

func (r *recorder) count(name string) int {
	n := 0
	for _, p := range r.played {
		if p == name {
			n++
		}
	}
	return n
}

type fixture struct {
	state  *State
	sounds *recorder
	arm    scene.NodeID
	elbow  scene.NodeID
}

// newFixture builds a player at player, a ball at ball and an unpaused
// simulation around them.
func newFixture(t *testing.T, player, ball math.Vec3, anims ...scene.Animation) *fixture {
	t.Helper()

	g := scene.NewGraph()
	p, err := g.Add(scene.NoNode, scene.Node{Name: "player", Local: math.Translate(player)})
	require.NoError(t, err)
	elbow, err := g.Add(p, scene.Node{
		Name:  "elbow",
		Kind:  scene.KindJoint,
		Local: math.Identity(),
		Joint: scene.NewJoint(scene.JointRange{Min: -30, Init: 0, Max: 30}, scene.JointRange{}),
	})
	require.NoError(t, err)
	arm, err := g.Add(p, scene.Node{
		Name:     "arm",
		Kind:     scene.KindGeometry,
		Local:    math.Translate(math.Vec3{X: 1}),
		Geometry: scene.Geometry{Mesh: "cube", Material: scene.DefaultMaterial()},
	})
	require.NoError(t, err)
	b, err := g.Add(scene.NoNode, scene.Node{Name: "ball", Kind: scene.KindGeometry, Local: math.Translate(ball)})
	require.NoError(t, err)

	rec := &recorder{}
	s := New(g, Roots{Arena: scene.NoNode, Ball: b, Player: p}, Options{
		Settings:   DefaultSettings(),
		Sounds:     rec,
		Rand:       rand.New(rand.NewPCG(1, 2)),
		Aspect:     4.0 / 3.0,
		Animations: anims,
		BallDir:    math.Vec3{X: 1},
	})
	s.Paused = false
	return &fixture{state: s, sounds: rec, arm: arm, elbow: elbow}
}

func assertViewInversePlayer(t *testing.T, s *State) {
	t.Helper()
	assert.True(t, s.Camera.View.Mul(s.Player).ApproxEqual(math.Identity(), tol),
		"view must stay the inverse of the player transform")
}

func TestNewStartsPaused(t *testing.T) {
	g := scene.NewGraph()
	s := New(g, Roots{Arena: scene.NoNode, Ball: scene.NoNode, Player: scene.NoNode}, Options{Settings: DefaultSettings()})

	assert.True(t, s.Paused)
	assert.Equal(t, EffectPaused, s.Effect())
	assert.InDelta(t, 1, s.BallDir.Length(), tol)
	assertViewInversePlayer(t, s)
}

func TestMovePlayerForward(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.Keys.Forward = true

	s.MovePlayer(100)

	// forward is -Z in the player's frame, one unit per 100ms
	assert.InDelta(t, -1, s.PlayerPosition().Z, tol)
	assert.InDelta(t, 0, s.PlayerPosition().X, tol)
	assert.Equal(t, s.Player, s.Graph.Local(s.Roots.Player))
	assertViewInversePlayer(t, s)
}

func TestMovePlayerNormalizesDiagonal(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.Keys.Forward = true
	s.Keys.Left = true

	s.MovePlayer(100)

	assert.InDelta(t, 1, s.PlayerPosition().Length(), tol)
}

func TestMovePlayerBoostDoubles(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.Keys.Back = true
	s.Boosting = true

	s.MovePlayer(100)

	assert.InDelta(t, 2, s.PlayerPosition().Z, tol)
	assert.Equal(t, EffectMotionBlur, s.Effect())
}

func TestMovePlayerOpposingKeysCancel(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.Keys = Keys{Forward: true, Back: true}
	view := s.Camera.View

	s.MovePlayer(100)

	assert.Equal(t, math.Identity(), s.Player)
	assert.Equal(t, view, s.Camera.View)
}

func TestMovePlayerRollbackAtBoundary(t *testing.T) {
	tests := []struct {
		name  string
		start math.Vec3
		delta float32
	}{
		// 48 + 12 = 60
		{"near wall", math.Vec3{Z: 48}, 1200},
		// a single 60 unit step from the centre
		{"from origin", math.Vec3{}, 6000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.start, math.Vec3{X: 20})
			s := f.state
			s.Keys.Back = true // +Z
			player, view := s.Player, s.Camera.View

			s.MovePlayer(tt.delta)

			assert.Equal(t, player, s.Player, "player transform must be untouched")
			assert.Equal(t, view, s.Camera.View, "view must be untouched")
			assert.Equal(t, player, s.Graph.Local(s.Roots.Player))
		})
	}
}

func TestMovePlayerInsideBoundaryAccepted(t *testing.T) {
	f := newFixture(t, math.Vec3{Z: 47}, math.Vec3{X: 20})
	s := f.state
	s.Keys.Back = true

	s.MovePlayer(100)

	assert.InDelta(t, 48, s.PlayerPosition().Z, tol)
}

func TestMoveBallBoundaryBounce(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 50})
	s := f.state
	require.False(t, s.InCollision)

	s.MoveBall(16)

	assert.True(t, s.InCollision)
	assert.InDelta(t, -1, s.BallDir.X, tol)
	assert.InDelta(t, 1, s.BallDir.Length(), tol)
	assert.Equal(t, 2000, s.Particles.Live())
	assert.Equal(t, float32(700), s.Particles.LifetimeMs)
	assert.Equal(t, 1, f.sounds.count(SoundBounce))
	assert.Equal(t, 1, s.Hits)
}

func TestMoveBallPlayerBounce(t *testing.T) {
	// ball just left of the player, heading into it
	f := newFixture(t, math.Vec3{}, math.Vec3{X: -1.6})
	s := f.state

	s.MoveBall(10) // 0.2 units closer

	assert.True(t, s.InCollision)
	// normal points from player to ball, i.e. -X
	assert.InDelta(t, -1, s.BallDir.X, tol)
	assert.Equal(t, 1, f.sounds.count(SoundBounce))
}

func TestMoveBallDebounce(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 50})
	s := f.state

	s.MoveBall(16)
	require.True(t, s.InCollision)

	// still past the wall heading back in: no second trigger
	s.BallDir = math.Vec3{X: 1}
	s.MoveBall(16)
	assert.True(t, s.InCollision)
	assert.Equal(t, 1, s.Hits)
	assert.InDelta(t, 1, s.BallDir.X, tol, "direction must not be reflected twice")

	// move back inside both radii, flag clears
	_ = s.Graph.SetLocal(s.Roots.Ball, math.Translate(math.Vec3{X: 20}))
	s.MoveBall(1)
	assert.False(t, s.InCollision)

	// and a new contact fires again
	_ = s.Graph.SetLocal(s.Roots.Ball, math.Translate(math.Vec3{X: 49.6}))
	s.MoveBall(1)
	assert.True(t, s.InCollision)
	assert.Equal(t, 2, s.Hits)
}

func TestReflectionPreservesNormalComponent(t *testing.T) {
	d := math.Vec3{X: 0.6, Y: 0.8}
	n := math.Vec3{X: -1}

	r := math.Reflect(d, n)

	assert.InDelta(t, -d.Dot(n), r.Dot(n), tol)
	assert.InDelta(t, 1, r.Length(), tol)
}

func TestMoveBallWithoutBall(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.Roots.Ball = scene.NoNode

	s.MoveBall(16)

	assert.False(t, s.InCollision)
	_, ok := s.BallPosition()
	assert.False(t, ok)
}

func TestStepSkipsWhilePaused(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.Keys.Back = true

	s.Step(1000)
	s.Paused = true
	s.Step(5000)
	s.Paused = false
	s.Step(5010)

	// only the last 10ms moved the player
	assert.InDelta(t, 0.1, s.PlayerPosition().Z, tol)
}

func TestStepAgesParticlesUntilExpired(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.BallDir = math.Vec3{Y: 1} // keep the ball away from everything
	s.Particles.Spawn(math.Identity())

	s.Step(0)
	for now := int64(100); now <= 700; now += 100 {
		s.Step(now)
	}

	assert.Equal(t, 0, s.Particles.Live())
	assert.Empty(t, s.Particles.Velocities)
}

// runFrame drives one frame in the game loop's order: input, step, then
// the end-of-frame snapshot. It returns the view and projection rendered.
func runFrame(s *State, nowMs int64, events ...input.Event) (math.Mat4, math.Mat4) {
	s.HandleEvents(events)
	s.Step(nowMs)
	view, proj := s.Camera.View, s.Camera.Proj
	s.EndFrame()
	return view, proj
}

func TestEndFrameSnapshotsTranslation(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.Keys.Forward = true

	first, _ := runFrame(s, 0)
	s.Step(100)

	assert.Equal(t, first, s.Camera.PrevView)
	assert.NotEqual(t, s.Camera.View, s.Camera.PrevView)
}

func TestPrevViewIsLastRenderedAfterLook(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state

	first, _ := runFrame(s, 0, input.Event{Type: input.EventPointerMove, X: 100, Y: 100})

	s.HandleEvents([]input.Event{{Type: input.EventPointerMove, X: 300, Y: 100}})
	s.Step(16)

	require.False(t, s.Camera.View.ApproxEqual(first, tol), "pointer move must turn the view")
	assert.Equal(t, first, s.Camera.PrevView)
}

func TestPrevProjIsLastRenderedAfterResize(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state

	_, first := runFrame(s, 0)

	s.HandleEvents([]input.Event{{Type: input.EventResize, Width: 1920, Height: 1080}})
	s.Step(16)

	require.NotEqual(t, first, s.Camera.Proj)
	assert.Equal(t, first, s.Camera.PrevProj)
}

func TestStepLeavesSnapshotAlone(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.Keys.Forward = true
	prev := s.Camera.PrevView

	s.Step(0)
	s.Step(100)

	assert.Equal(t, prev, s.Camera.PrevView)
}

func TestWhooshWhileBoosting(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.BallDir = math.Vec3{Y: 1}
	s.Boosting = true

	s.Step(400)
	s.Step(450) // 400%500 < 450%500
	assert.Equal(t, 0, f.sounds.count(SoundWhoosh))
	s.Step(520) // 450 > 20
	assert.Equal(t, 1, f.sounds.count(SoundWhoosh))

	s.Boosting = false
	s.Step(1010)
	assert.Equal(t, 1, f.sounds.count(SoundWhoosh))
}

func TestAnimationInterpolates(t *testing.T) {
	p := math.Vec3{X: 2, Y: 4}
	anim := scene.Animation{Name: "wave", Tracks: []scene.Track{{
		Node: "arm",
		Keys: []scene.Keyframe{{TimeMs: 0}, {TimeMs: 500, Position: p}},
	}}}
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20}, anim)
	s := f.state
	require.Len(t, s.Animations, 1)
	base := s.Graph.Local(f.arm)

	require.True(t, s.StartAnimation())
	s.Animations[0].Step(s.Graph, 250)

	want := math.Translate(p.Scale(0.5)).Mul(base)
	assert.True(t, s.Graph.Local(f.arm).ApproxEqual(want, tol))

	// finishing snaps back and stops
	s.Animations[0].Step(s.Graph, 250)
	assert.False(t, s.Animations[0].Playing())
	assert.Equal(t, base, s.Graph.Local(f.arm))

	// replay starts from the same base
	require.True(t, s.StartAnimation())
	s.Animations[0].Step(s.Graph, 250)
	assert.True(t, s.Graph.Local(f.arm).ApproxEqual(want, tol))
}

func TestAnimationUnknownNodeSkipped(t *testing.T) {
	anim := scene.Animation{Name: "ghost", Tracks: []scene.Track{{
		Node: "tail",
		Keys: []scene.Keyframe{{TimeMs: 0}, {TimeMs: 100}},
	}}}
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20}, anim)

	assert.Empty(t, f.state.Animations)
	assert.False(t, f.state.StartAnimation())
}

func TestRouterMovementKeys(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state

	s.HandleEvents([]input.Event{
		{Type: input.EventKey, Key: input.KeyW, Action: input.Press},
		{Type: input.EventKey, Key: input.KeyD, Action: input.Press},
	})
	assert.Equal(t, Keys{Forward: true, Right: true}, s.Keys)

	s.HandleEvent(input.Event{Type: input.EventKey, Key: input.KeyW, Action: input.Release})
	assert.Equal(t, Keys{Right: true}, s.Keys)
}

func TestRouterBoostPlaysWhooshOnce(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state

	s.HandleEvent(input.Event{Type: input.EventKey, Key: input.KeyLeftShift, Action: input.Press})
	s.HandleEvent(input.Event{Type: input.EventKey, Key: input.KeyLeftShift, Action: input.Repeat})
	assert.True(t, s.Boosting)
	assert.Equal(t, 1, f.sounds.count(SoundWhoosh))

	s.HandleEvent(input.Event{Type: input.EventKey, Key: input.KeyLeftShift, Action: input.Release})
	assert.False(t, s.Boosting)
}

func TestRouterPauseClearsKeys(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.Keys = Keys{Forward: true, Left: true}

	s.HandleEvent(input.Event{Type: input.EventKey, Key: input.KeyP, Action: input.Press})

	assert.True(t, s.Paused)
	assert.False(t, s.CaptureMouse())
	assert.Equal(t, Keys{}, s.Keys)

	// movement presses are ignored while paused
	s.HandleEvent(input.Event{Type: input.EventKey, Key: input.KeyW, Action: input.Press})
	assert.Equal(t, Keys{}, s.Keys)
}

func TestRouterPointerLook(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state

	s.HandleEvent(input.Event{Type: input.EventPointerMove, X: 100, Y: 100})
	assert.Equal(t, math.Identity(), s.Player, "first sample only anchors")

	s.HandleEvent(input.Event{Type: input.EventPointerMove, X: 100 + 500, Y: 100})
	assert.False(t, s.Player.ApproxEqual(math.Identity(), tol))
	assertViewInversePlayer(t, s)
	assert.Equal(t, s.Player, s.Graph.Local(s.Roots.Player))
}

func TestRouterPointerRecordedWhilePaused(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.HandleEvent(input.Event{Type: input.EventPointerMove, X: 0, Y: 0})

	s.TogglePause()
	s.HandleEvent(input.Event{Type: input.EventPointerMove, X: 900, Y: 900})
	s.TogglePause()
	s.HandleEvent(input.Event{Type: input.EventPointerMove, X: 900, Y: 900})

	// no spurious jump from the travel while paused
	assert.True(t, s.Player.ApproxEqual(math.Identity(), tol))
}

func TestRouterScrollPosesJoints(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state

	for i := 0; i < 10; i++ {
		s.HandleEvent(input.Event{Type: input.EventScroll, ScrollY: 1})
	}
	n := s.Graph.Node(f.elbow)
	assert.Equal(t, float32(30), n.Joint.CurX, "clamped to max")

	s.HandleEvent(input.Event{Type: input.EventKey, Key: input.KeyR, Action: input.Press})
	assert.Equal(t, float32(0), n.Joint.CurX)
	assert.Equal(t, math.Identity(), n.Local)
}

func TestRouterQuit(t *testing.T) {
	tests := []struct {
		name string
		e    input.Event
	}{
		{"escape", input.Event{Type: input.EventKey, Key: input.KeyEscape, Action: input.Press}},
		{"window close", input.Event{Type: input.EventQuit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
			f.state.HandleEvent(tt.e)
			assert.True(t, f.state.QuitRequested())
		})
	}
}

func TestRouterResizeUpdatesProjection(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	before := s.Camera.Proj

	s.HandleEvent(input.Event{Type: input.EventResize, Width: 1920, Height: 1080})

	assert.NotEqual(t, before, s.Camera.Proj)
}

func TestApplyIntents(t *testing.T) {
	f := newFixture(t, math.Vec3{}, math.Vec3{X: 20})
	s := f.state
	s.Paused = true

	s.Apply(IntentStartGame)
	assert.False(t, s.Paused)
	s.Apply(IntentStartGame)
	assert.False(t, s.Paused, "start while running keeps running")

	s.Apply(IntentQuit)
	assert.True(t, s.QuitRequested())
}
