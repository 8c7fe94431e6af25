// Package shaders provides the embedded GLSL sources of the render passes.
package shaders

import _ "embed"

const version = "#version 410 core\n"

//go:embed scene.vert
var sceneVertex string

//go:embed scene.frag
var sceneFragment string

// SceneVertexShader is shared by the textured and untextured lit passes.
var SceneVertexShader = version + sceneVertex

// SceneFragmentShader returns the lit fragment shader; textured selects the
// variant that modulates the diffuse colour with matTexture.
func SceneFragmentShader(textured bool) string {
	if textured {
		return version + "#define TEXTURED\n" + sceneFragment
	}
	return version + sceneFragment
}

// Cube shadow depth pass: the geometry shader fans each triangle out to the
// six cube faces.
//
//go:embed cube_depth.vert
var cubeDepthVertex string

//go:embed cube_depth.geom
var cubeDepthGeometry string

//go:embed cube_depth.frag
var cubeDepthFragment string

var (
	CubeDepthVertexShader   = version + cubeDepthVertex
	CubeDepthGeometryShader = version + cubeDepthGeometry
	CubeDepthFragmentShader = version + cubeDepthFragment
)

// Motion depth pass, sampled by the post-process reprojection.
//
//go:embed motion_depth.vert
var motionDepthVertex string

//go:embed motion_depth.frag
var motionDepthFragment string

var (
	MotionDepthVertexShader   = version + motionDepthVertex
	MotionDepthFragmentShader = version + motionDepthFragment
)

//go:embed particle.vert
var particleVertex string

//go:embed particle.frag
var particleFragment string

var (
	ParticleVertexShader   = version + particleVertex
	ParticleFragmentShader = version + particleFragment
)

//go:embed post.vert
var postVertex string

//go:embed post.frag
var postFragment string

var (
	PostVertexShader   = version + postVertex
	PostFragmentShader = version + postFragment
)
