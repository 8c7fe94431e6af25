package sim

import (
	"fmt"

	"github.com/Faultbox/bouncer/internal/engine/scene"
	"github.com/Faultbox/bouncer/pkg/math"
)

type animTrack struct {
	node scene.NodeID
	keys []scene.Keyframe
	next int // index of the first key not yet reached
	base math.Mat4
}

// Animator plays one keyframe animation. Positions are applied as offsets
// from the transform each node had when playback started, so repeated
// playback never drifts.
type Animator struct {
	Name string

	tracks     []animTrack
	durationMs float32
	elapsedMs  float32
	playing    bool
}

// NewAnimator resolves every track of a against the subtree at root.
func NewAnimator(g *scene.Graph, root scene.NodeID, a scene.Animation) (*Animator, error) {
	if !g.Valid(root) {
		return nil, fmt.Errorf("animation %s: %w", a.Name, scene.ErrNoSuchNode)
	}

	an := &Animator{Name: a.Name}
	for _, tr := range a.Tracks {
		if len(tr.Keys) == 0 {
			continue
		}
		id := g.Find(root, tr.Node)
		if id == scene.NoNode {
			return nil, fmt.Errorf("animation %s: node %q: %w", a.Name, tr.Node, scene.ErrNoSuchNode)
		}
		for i := 1; i < len(tr.Keys); i++ {
			if tr.Keys[i].TimeMs < tr.Keys[i-1].TimeMs {
				return nil, fmt.Errorf("animation %s: node %q: keys out of order", a.Name, tr.Node)
			}
		}
		an.tracks = append(an.tracks, animTrack{node: id, keys: tr.Keys})
		an.durationMs = max(an.durationMs, tr.Keys[len(tr.Keys)-1].TimeMs)
	}
	return an, nil
}

// Playing reports whether playback is active.
func (a *Animator) Playing() bool {
	return a.playing
}

// Duration returns the time of the last keyframe.
func (a *Animator) Duration() float32 {
	return a.durationMs
}

// Start begins playback from the first key. Starting while playing is
// ignored.
func (a *Animator) Start(g *scene.Graph) {
	if a.playing || len(a.tracks) == 0 {
		return
	}
	for i := range a.tracks {
		a.tracks[i].base = g.Local(a.tracks[i].node)
		a.tracks[i].next = 0
	}
	a.elapsedMs = 0
	a.playing = true
}

// Step advances playback by deltaMs. At the end every node snaps back to
// its base transform and playback stops.
func (a *Animator) Step(g *scene.Graph, deltaMs float32) {
	if !a.playing {
		return
	}
	a.elapsedMs += deltaMs

	if a.elapsedMs >= a.durationMs {
		for i := range a.tracks {
			t := &a.tracks[i]
			_ = g.SetLocal(t.node, t.base)
			t.next = 0
		}
		a.elapsedMs = 0
		a.playing = false
		return
	}

	for i := range a.tracks {
		t := &a.tracks[i]
		for t.next < len(t.keys) && a.elapsedMs >= t.keys[t.next].TimeMs {
			t.next++
		}
		pos := t.sample(a.elapsedMs)
		_ = g.SetLocal(t.node, math.Translate(pos).Mul(t.base))
	}
}

// sample interpolates between the last reached key and the next one.
func (t *animTrack) sample(elapsed float32) math.Vec3 {
	switch {
	case t.next == 0:
		return t.keys[0].Position
	case t.next >= len(t.keys):
		return t.keys[len(t.keys)-1].Position
	}
	prev, cur := t.keys[t.next-1], t.keys[t.next]
	span := cur.TimeMs - prev.TimeMs
	if span <= 0 {
		return cur.Position
	}
	f := (elapsed - prev.TimeMs) / span
	return prev.Position.Add(cur.Position.Sub(prev.Position).Scale(f))
}
