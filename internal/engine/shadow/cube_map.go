// Package shadow provides omnidirectional shadow mapping for point lights.
package shadow

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// DefaultResolution is the default per-face resolution of a cube map.
const DefaultResolution = 2048

// CubeMap is a depth-only cube map framebuffer. The depth pass renders all
// six faces in one draw via a layered geometry shader and stores linear
// distance to the light divided by the far plane.
type CubeMap struct {
	FBO          uint32
	DepthTexture uint32
	Resolution   int32
	prevViewport [4]int32
}

// NewCubeMap creates a cube map with the given per-face resolution.
func NewCubeMap(resolution int32) (*CubeMap, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	cm := &CubeMap{Resolution: resolution}

	gl.GenTextures(1, &cm.DepthTexture)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cm.DepthTexture)
	for face := uint32(0); face < 6; face++ {
		gl.TexImage2D(
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+face,
			0,
			gl.DEPTH_COMPONENT,
			resolution,
			resolution,
			0,
			gl.DEPTH_COMPONENT,
			gl.FLOAT,
			nil,
		)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &cm.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, cm.FBO)
	gl.FramebufferTexture(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, cm.DepthTexture, 0)

	// depth only
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		cm.Destroy()
		return nil, fmt.Errorf("shadow cube map incomplete: 0x%x", status)
	}
	return cm, nil
}

// Bind binds the framebuffer for the depth pass, sizing the viewport to one
// face and clearing depth.
func (cm *CubeMap) Bind() {
	gl.GetIntegerv(gl.VIEWPORT, &cm.prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, cm.FBO)
	gl.Viewport(0, 0, cm.Resolution, cm.Resolution)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	// the arena is seen from inside, so both windings cast
	gl.Disable(gl.CULL_FACE)
}

// Unbind restores the default framebuffer, the saved viewport and culling.
func (cm *CubeMap) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(cm.prevViewport[0], cm.prevViewport[1], cm.prevViewport[2], cm.prevViewport[3])
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
}

// BindTexture binds the depth cube map to textureUnit (e.g. gl.TEXTURE0).
func (cm *CubeMap) BindTexture(textureUnit uint32) {
	gl.ActiveTexture(textureUnit)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cm.DepthTexture)
}

// Destroy releases the GPU resources.
func (cm *CubeMap) Destroy() {
	if cm.FBO != 0 {
		gl.DeleteFramebuffers(1, &cm.FBO)
		cm.FBO = 0
	}
	if cm.DepthTexture != 0 {
		gl.DeleteTextures(1, &cm.DepthTexture)
		cm.DepthTexture = 0
	}
}
