// Package particles implements the short-lived particle burst shown when the
// ball bounces.
package particles

import (
	"math/rand/v2"

	"github.com/Faultbox/bouncer/pkg/math"
)

// Settings tunes a burst.
type Settings struct {
	Count       int     // particles per burst
	LifetimeMs  float32 // burst lifetime
	SpawnOffset float32 // distance from the origin along the direction
	StartScale  float32 // scale applied to the origin transform
	Speed       float32 // local units per millisecond
	Shrink      float32 // per-frame scale factor
}

// DefaultSettings returns the settings used in game.
func DefaultSettings() Settings {
	return Settings{
		Count:       2000,
		LifetimeMs:  700,
		SpawnOffset: 0.5,
		StartScale:  0.05,
		Speed:       0.1,
		Shrink:      0.98,
	}
}

// minSampleLength rejects direction samples too short to normalize.
const minSampleLength = 1e-3

// Burst holds the live particles of the most recent burst. Transforms and
// Velocities always have the same length; zero length means no burst.
type Burst struct {
	Transforms []math.Mat4
	Velocities []math.Vec3
	LifetimeMs float32

	settings Settings
	rng      *rand.Rand
}

// NewBurst returns an empty burst. rng may be nil, in which case a randomly
// seeded source is used.
func NewBurst(s Settings, rng *rand.Rand) *Burst {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Burst{
		Transforms: make([]math.Mat4, 0, s.Count),
		Velocities: make([]math.Vec3, 0, s.Count),
		settings:   s,
		rng:        rng,
	}
}

// Live returns the number of live particles.
func (b *Burst) Live() int {
	return len(b.Transforms)
}

// Spawn replaces any live particles with a fresh burst centred on origin.
func (b *Burst) Spawn(origin math.Mat4) {
	n := b.settings.Count
	b.Transforms = b.Transforms[:0]
	b.Velocities = b.Velocities[:0]

	scaled := origin.Mul(math.ScaleUniform(b.settings.StartScale))
	for i := 0; i < n; i++ {
		dir := b.randomDirection()
		t := math.Translate(dir.Scale(b.settings.SpawnOffset)).Mul(scaled)
		b.Transforms = append(b.Transforms, t)
		b.Velocities = append(b.Velocities, dir)
	}
	b.LifetimeMs = b.settings.LifetimeMs
}

// randomDirection draws a direction uniformly on the unit sphere by
// rejection sampling the unit ball.
func (b *Burst) randomDirection() math.Vec3 {
	for {
		v := math.Vec3{
			X: b.rng.Float32()*2 - 1,
			Y: b.rng.Float32()*2 - 1,
			Z: b.rng.Float32()*2 - 1,
		}
		l := v.Length()
		if l < minSampleLength || l > 1 {
			continue
		}
		return v.Scale(1 / l)
	}
}

// Age advances the burst by deltaMs. Once the lifetime runs out every
// particle is dropped; otherwise each particle moves along its velocity and
// shrinks, both relative to its current transform.
func (b *Burst) Age(deltaMs float32) {
	if b.Live() == 0 {
		return
	}
	b.LifetimeMs -= deltaMs
	if b.LifetimeMs <= 0 {
		b.Clear()
		return
	}

	shrink := math.ScaleUniform(b.settings.Shrink)
	step := deltaMs * b.settings.Speed
	for i := range b.Transforms {
		t := b.Transforms[i].Mul(math.Translate(b.Velocities[i].Scale(step)))
		b.Transforms[i] = t.Mul(shrink)
	}
}

// Clear drops every particle.
func (b *Burst) Clear() {
	b.Transforms = b.Transforms[:0]
	b.Velocities = b.Velocities[:0]
	b.LifetimeMs = 0
}
