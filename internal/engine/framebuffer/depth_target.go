package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// DepthTarget is a depth-only framebuffer whose attachment is a sampleable
// texture.
type DepthTarget struct {
	fbo     uint32
	texture uint32
	width   int32
	height  int32
}

// NewDepthTarget creates a depth target of the given size.
func NewDepthTarget(width, height int32) (*DepthTarget, error) {
	dt := &DepthTarget{width: max(width, 1), height: max(height, 1)}

	gl.GenTextures(1, &dt.texture)
	gl.BindTexture(gl.TEXTURE_2D, dt.texture)
	dt.alloc()
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &dt.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, dt.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, dt.texture, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		dt.Destroy()
		return nil, fmt.Errorf("depth target incomplete: 0x%x", status)
	}
	return dt, nil
}

func (dt *DepthTarget) alloc() {
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, dt.width, dt.height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
}

// Bind makes the target current, sizes the viewport and clears depth.
func (dt *DepthTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, dt.fbo)
	gl.Viewport(0, 0, dt.width, dt.height)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// Unbind restores the default framebuffer.
func (dt *DepthTarget) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// BindTexture binds the depth texture to textureUnit.
func (dt *DepthTarget) BindTexture(textureUnit uint32) {
	gl.ActiveTexture(textureUnit)
	gl.BindTexture(gl.TEXTURE_2D, dt.texture)
}

// Resize reallocates the depth texture if the size changed.
func (dt *DepthTarget) Resize(width, height int32) {
	width, height = max(width, 1), max(height, 1)
	if width == dt.width && height == dt.height {
		return
	}
	dt.width, dt.height = width, height
	gl.BindTexture(gl.TEXTURE_2D, dt.texture)
	dt.alloc()
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Destroy releases all OpenGL resources.
func (dt *DepthTarget) Destroy() {
	if dt.fbo != 0 {
		gl.DeleteFramebuffers(1, &dt.fbo)
		dt.fbo = 0
	}
	if dt.texture != 0 {
		gl.DeleteTextures(1, &dt.texture)
		dt.texture = 0
	}
}
