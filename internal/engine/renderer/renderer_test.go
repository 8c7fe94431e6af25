package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitCubeFacesPointOutward(t *testing.T) {
	verts := unitCube()
	require.Len(t, verts, 36*3)

	for tri := 0; tri < 12; tri++ {
		var p [3][3]float32
		for v := 0; v < 3; v++ {
			copy(p[v][:], verts[(tri*3+v)*3:])
		}
		e1 := [3]float32{p[1][0] - p[0][0], p[1][1] - p[0][1], p[1][2] - p[0][2]}
		e2 := [3]float32{p[2][0] - p[0][0], p[2][1] - p[0][1], p[2][2] - p[0][2]}
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		centre := [3]float32{
			(p[0][0] + p[1][0] + p[2][0]) / 3,
			(p[0][1] + p[1][1] + p[2][1]) / 3,
			(p[0][2] + p[1][2] + p[2][2]) / 3,
		}
		dot := n[0]*centre[0] + n[1]*centre[1] + n[2]*centre[2]
		assert.Greater(t, dot, float32(0), "triangle %d winds inward", tri)
	}
}

func TestUnitCubeBounds(t *testing.T) {
	for i, v := range unitCube() {
		assert.Contains(t, []float32{-0.5, 0.5}, v, "component %d", i)
	}
}

func TestPostModeString(t *testing.T) {
	tests := []struct {
		mode PostMode
		want string
	}{
		{PostPassthrough, "passthrough"},
		{PostMotionBlur, "motion-blur"},
		{PostPaused, "paused"},
		{PostMode(9), "passthrough"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.mode.String())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, float32(0.35), cfg.ClearColour.X)
	assert.Equal(t, 2000, cfg.ParticleCapacity)
	assert.Positive(t, cfg.ShadowResolution)
}
