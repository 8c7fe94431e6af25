package sim

import (
	"github.com/Faultbox/bouncer/pkg/math"
)

// epsilon below which a movement vector counts as zero.
const epsilon = 1e-7

// EndFrame records the camera matrices just rendered, so the next frame's
// motion blur reprojects against them. Call it after the frame is drawn;
// input handled before the next Step must not leak into the snapshot.
func (s *State) EndFrame() {
	s.Camera.Snapshot()
}

// Step advances the simulation to nowMs, a monotonic millisecond clock.
// The delta is the wall-clock time since the previous Step, so the
// simulation speed follows the frame rate.
//
// While paused nothing moves, but the timestamp is still recorded so
// unpausing does not produce one huge step.
func (s *State) Step(nowMs int64) {
	if !s.started {
		s.prevMs = nowMs
		s.started = true
	}
	prev := s.prevMs
	s.prevMs = nowMs

	if s.Paused {
		return
	}

	delta := float32(nowMs - prev)
	if delta < 0 {
		delta = 0
	}

	s.Particles.Age(delta)
	for _, a := range s.Animations {
		a.Step(s.Graph, delta)
	}
	s.MovePlayer(delta)
	s.MoveBall(delta)
	s.whoosh(prev, nowMs)
}

// MovePlayer moves the player by the held keys. The view and the player
// transform change together; if the player would end up beyond the
// boundary both are restored and the move is dropped.
func (s *State) MovePlayer(deltaMs float32) {
	var v math.Vec3
	if s.Keys.Forward {
		v.Z += 1
	}
	if s.Keys.Back {
		v.Z -= 1
	}
	if s.Keys.Left {
		v.X += 1
	}
	if s.Keys.Right {
		v.X -= 1
	}
	if v.Length() <= epsilon {
		return
	}

	boost := float32(1)
	if s.Boosting {
		boost = s.settings.BoostFactor
	}
	v = v.Normalize().Scale(boost).Scale(deltaMs / s.settings.MoveDivisor)

	prevView, prevPlayer := s.Camera.View, s.Player

	s.Camera.Translate(v)
	s.Player = s.Player.Mul(math.Translate(v.Negate()))

	if s.Player.Translation().Length() > s.settings.PlayerBoundary {
		s.Camera.View = prevView
		s.Player = prevPlayer
		return
	}
	s.syncPlayer()
}

// MoveBall advances the ball and bounces it off the player and the arena
// wall. A contact reflects the direction once; the next contact can only
// fire after the ball has been outside both trigger radii.
func (s *State) MoveBall(deltaMs float32) {
	if !s.Graph.Valid(s.Roots.Ball) {
		return
	}

	ball := math.Translate(s.BallDir.Scale(s.settings.BallSpeed * deltaMs)).Mul(s.Graph.Local(s.Roots.Ball))
	_ = s.Graph.SetLocal(s.Roots.Ball, ball)

	pos := ball.Translation()
	player := s.Player.Translation()
	toPlayer := pos.Distance(player)
	fromCenter := pos.Length()

	if s.InCollision {
		if toPlayer > s.settings.HitDistance && fromCenter < s.settings.BallBoundary {
			s.InCollision = false
		}
		return
	}

	switch {
	case toPlayer <= s.settings.HitDistance:
		s.bounce(ball, pos.Sub(player).Normalize())
	case fromCenter >= s.settings.BallBoundary:
		s.bounce(ball, pos.Negate().Normalize())
	}
}

func (s *State) bounce(ball math.Mat4, normal math.Vec3) {
	s.BallDir = math.Reflect(s.BallDir, normal)
	s.InCollision = true
	s.Hits++
	s.Particles.Spawn(ball)
	s.sounds.Play(SoundBounce)
}

// whoosh fires while boosting whenever the clock crosses a period
// boundary between frames.
//
// TODO: a frame longer than one period skips the cue; track the last cue
// time instead once exact cadence matters.
func (s *State) whoosh(prevMs, nowMs int64) {
	if !s.Boosting || s.settings.WhooshPeriodMs <= 0 {
		return
	}
	p := s.settings.WhooshPeriodMs
	if prevMs%p > nowMs%p {
		s.sounds.Play(SoundWhoosh)
	}
}
