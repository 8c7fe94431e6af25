package particles

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/bouncer/pkg/math"
)

func newTestBurst() *Burst {
	return NewBurst(DefaultSettings(), rand.New(rand.NewPCG(1, 2)))
}

func TestSpawnFillsBurst(t *testing.T) {
	b := newTestBurst()
	origin := math.Translate(math.Vec3{X: 10, Y: 5})
	b.Spawn(origin)

	require.Equal(t, 2000, b.Live())
	assert.Len(t, b.Velocities, 2000)
	assert.Equal(t, float32(700), b.LifetimeMs)

	for i, v := range b.Velocities {
		require.InDelta(t, 1, v.Length(), 1e-5, "velocity %d not unit length", i)
		// each particle sits SpawnOffset away from the origin along its velocity
		pos := b.Transforms[i].Translation()
		want := origin.Translation().Add(v.Scale(0.5))
		require.InDelta(t, 0, pos.Distance(want), 1e-4, "particle %d misplaced", i)
	}
	// scaled-down copy of the origin
	assert.InDelta(t, 0.05, b.Transforms[0][0], 1e-6)
}

func TestSpawnReplacesLiveBurst(t *testing.T) {
	b := newTestBurst()
	b.Spawn(math.Identity())
	b.Age(300)
	b.Spawn(math.Identity())
	assert.Equal(t, 2000, b.Live())
	assert.Equal(t, float32(700), b.LifetimeMs)
}

func TestAgeExpires(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float32
		live   bool
	}{
		{"half life", []float32{350}, true},
		{"just short", []float32{400, 299}, true},
		{"exactly lifetime", []float32{700}, false},
		{"cumulative", []float32{300, 300, 100}, false},
		{"overshoot", []float32{5000}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBurst()
			b.Spawn(math.Identity())
			for _, d := range tt.deltas {
				b.Age(d)
			}
			if tt.live {
				assert.Equal(t, 2000, b.Live())
				assert.Len(t, b.Velocities, 2000)
			} else {
				assert.Zero(t, b.Live())
				assert.Empty(t, b.Velocities)
			}
		})
	}
}

func TestAgeMovesAndShrinks(t *testing.T) {
	b := newTestBurst()
	b.Spawn(math.Identity())
	before := b.Transforms[0]
	start := before.Translation()
	dir := b.Velocities[0]

	b.Age(10)

	after := b.Transforms[0]
	moved := after.Translation().Sub(start)
	// translation happens in the particle's scaled local frame
	assert.InDelta(t, 10*0.1*0.05, moved.Length(), 1e-5)
	assert.Greater(t, moved.Dot(dir), float32(0))
	assert.InDelta(t, before[0]*0.98, after[0], 1e-6)
}

func TestAgeWithoutBurstIsNoop(t *testing.T) {
	b := newTestBurst()
	b.Age(16)
	assert.Zero(t, b.Live())
	assert.Zero(t, b.LifetimeMs)
}
