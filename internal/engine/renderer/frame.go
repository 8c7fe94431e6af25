package renderer

import (
	"github.com/Faultbox/bouncer/internal/engine/lighting"
	"github.com/Faultbox/bouncer/internal/engine/scene"
	"github.com/Faultbox/bouncer/pkg/math"
)

// PostMode selects the post-process filter. Values match the shader.
type PostMode int32

const (
	PostPassthrough PostMode = iota
	PostMotionBlur
	PostPaused
)

func (m PostMode) String() string {
	switch m {
	case PostMotionBlur:
		return "motion-blur"
	case PostPaused:
		return "paused"
	default:
		return "passthrough"
	}
}

// Root is a scene subtree drawn with the same base transform every pass.
type Root struct {
	ID       scene.NodeID
	Textured bool // draw with the arena texture in the main pass
}

// Frame is everything the renderer reads for one frame. The graph and
// particle slices are borrowed from the simulation, not copied.
type Frame struct {
	Graph *scene.Graph
	Roots []Root

	View     math.Mat4
	Proj     math.Mat4
	PrevView math.Mat4
	PrevProj math.Mat4

	Particles []math.Mat4

	Mode   PostMode
	Lights *lighting.Rig
}
