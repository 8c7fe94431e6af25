// Package lighting describes the point lights that illuminate and shadow the
// arena.
package lighting

import (
	"github.com/Faultbox/bouncer/internal/engine/shadow"
	"github.com/Faultbox/bouncer/pkg/math"
)

// LightSource is a white or tinted point light.
type LightSource struct {
	Position     math.Vec3
	RGBIntensity math.Vec3
}

// PointLight is a shadow-casting light: the source plus its cube face
// matrices, computed once because the lights never move.
type PointLight struct {
	LightSource
	Views    [6]math.Mat4
	Proj     math.Mat4
	Matrices [6]math.Mat4 // Proj * Views[i]
	Far      float32
}

// Near plane used by every light projection.
const Near = 0.1

// NewPointLight builds a shadow-casting light at pos.
func NewPointLight(pos, rgb math.Vec3, far float32) PointLight {
	views := shadow.CubeFaceViews(pos)
	proj := shadow.CubeProjection(Near, far)
	return PointLight{
		LightSource: LightSource{Position: pos, RGBIntensity: rgb},
		Views:       views,
		Proj:        proj,
		Matrices:    shadow.FaceMatrices(proj, views),
		Far:         far,
	}
}

// Rig is the fixed lighting of the arena.
type Rig struct {
	Lights  [2]PointLight
	Ambient math.Vec3
}

// DefaultRig places one light above and one below the arena centre.
func DefaultRig(far float32) Rig {
	white := math.Vec3{X: 0.8, Y: 0.8, Z: 0.8}
	return Rig{
		Lights: [2]PointLight{
			NewPointLight(math.Vec3{Y: 50}, white, far),
			NewPointLight(math.Vec3{Y: -50}, white, far),
		},
		Ambient: math.Vec3{X: 0.33, Y: 0.33, Z: 0.33},
	}
}
