// Package ui2d provides a small immediate-mode 2D overlay drawn with OpenGL
// on top of the presented frame.
package ui2d

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/bouncer/internal/engine/shader"
	"github.com/Faultbox/bouncer/pkg/math"
)

// Painter is what the widgets draw through. Renderer implements it on GL.
type Painter interface {
	Begin()
	End()
	Resize(width, height int)
	ScreenSize() (int, int)
	DrawRect(x, y, w, h float32, color Color)
	DrawRectOutline(x, y, w, h, thickness float32, color Color)
	DrawText(x, y float32, text string, scale float32, color Color)
	MeasureText(text string, scale float32) (float32, float32)
	Close()
}

const (
	solidStride = 6 // pos2 + color4
	textStride  = 8 // pos2 + uv2 + color4
)

// Renderer batches solid and textured quads and flushes them in End.
type Renderer struct {
	screenWidth  int
	screenHeight int

	solid *shader.Program
	text  *shader.Program

	solidVAO, solidVBO uint32
	textVAO, textVBO   uint32

	solidVertices []float32
	textVertices  []float32

	atlas    *Atlas
	atlasTex uint32
}

// New creates a new 2D UI renderer. The GL context must be current.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:   width,
		screenHeight:  height,
		solidVertices: make([]float32, 0, 4096),
		textVertices:  make([]float32, 0, 4096),
		atlas:         NewAtlas(),
	}

	id, err := shader.CompileProgram(solidVertexShader, solidFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	r.solid = shader.NewProgram("ui solid", id)

	id, err = shader.CompileProgram(textVertexShader, textFragmentShader)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("create text shader: %w", err)
	}
	r.text = shader.NewProgram("ui text", id)

	r.solidVAO, r.solidVBO = createBuffers(solidStride, []int32{2, 4})
	r.textVAO, r.textVBO = createBuffers(textStride, []int32{2, 2, 4})
	r.atlasTex = r.atlas.upload()

	return r, nil
}

// createBuffers builds a VAO with interleaved float attributes at
// consecutive locations.
func createBuffers(stride int32, sizes []int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	var offset uintptr
	for loc, n := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(loc), n, gl.FLOAT, false, stride*4, offset)
		gl.EnableVertexAttribArray(uint32(loc))
		offset += uintptr(n) * 4
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// ScreenSize returns the current screen dimensions.
func (r *Renderer) ScreenSize() (int, int) {
	return r.screenWidth, r.screenHeight
}

// Begin starts a new UI frame.
func (r *Renderer) Begin() {
	r.solidVertices = r.solidVertices[:0]
	r.textVertices = r.textVertices[:0]
}

// End renders everything queued since Begin onto the bound framebuffer.
func (r *Renderer) End() {
	if len(r.solidVertices) == 0 && len(r.textVertices) == 0 {
		return
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := math.Ortho(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)

	if len(r.solidVertices) > 0 {
		r.solid.Use()
		r.solid.SetMat4("uProjection", proj)
		flush(r.solidVAO, r.solidVBO, r.solidVertices, solidStride)
	}

	if len(r.textVertices) > 0 {
		r.text.Use()
		r.text.SetMat4("uProjection", proj)
		r.text.SetInt("uTexture", 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.atlasTex)
		flush(r.textVAO, r.textVBO, r.textVertices, textStride)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}

	gl.UseProgram(0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
}

func flush(vao, vbo uint32, verts []float32, stride int) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)/stride))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	if r.atlasTex != 0 {
		gl.DeleteTextures(1, &r.atlasTex)
	}
	for _, vao := range []*uint32{&r.solidVAO, &r.textVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
		}
	}
	for _, vbo := range []*uint32{&r.solidVBO, &r.textVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
		}
	}
	if r.solid != nil {
		r.solid.Delete()
	}
	if r.text != nil {
		r.text.Delete()
	}
}

// DrawRect draws a filled rectangle.
func (r *Renderer) DrawRect(x, y, w, h float32, c Color) {
	r.solidVertices = append(r.solidVertices,
		x, y, c.R, c.G, c.B, c.A,
		x+w, y, c.R, c.G, c.B, c.A,
		x+w, y+h, c.R, c.G, c.B, c.A,
		x, y, c.R, c.G, c.B, c.A,
		x+w, y+h, c.R, c.G, c.B, c.A,
		x, y+h, c.R, c.G, c.B, c.A,
	)
}

// DrawRectOutline draws a rectangle outline.
func (r *Renderer) DrawRectOutline(x, y, w, h, t float32, c Color) {
	r.DrawRect(x, y, w, t, c)
	r.DrawRect(x, y+h-t, w, t, c)
	r.DrawRect(x, y+t, t, h-t*2, c)
	r.DrawRect(x+w-t, y+t, t, h-t*2, c)
}

// DrawText draws text with its top-left corner at x, y.
func (r *Renderer) DrawText(x, y float32, text string, scale float32, c Color) {
	cw := float32(r.atlas.GlyphW) * scale
	ch := float32(r.atlas.GlyphH) * scale

	curX := x
	for _, char := range text {
		if char == '\n' {
			curX = x
			y += ch
			continue
		}
		u0, v0, u1, v1 := r.atlas.GlyphUV(char)
		r.textVertices = append(r.textVertices,
			curX, y, u0, v0, c.R, c.G, c.B, c.A,
			curX+cw, y, u1, v0, c.R, c.G, c.B, c.A,
			curX+cw, y+ch, u1, v1, c.R, c.G, c.B, c.A,
			curX, y, u0, v0, c.R, c.G, c.B, c.A,
			curX+cw, y+ch, u1, v1, c.R, c.G, c.B, c.A,
			curX, y+ch, u0, v1, c.R, c.G, c.B, c.A,
		)
		curX += cw
	}
}

// MeasureText returns the width and height of rendered text.
func (r *Renderer) MeasureText(text string, scale float32) (float32, float32) {
	return r.atlas.Measure(text, scale)
}

const solidVertexShader = `#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;
uniform mat4 uProjection;
out vec4 vColor;
void main() {
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
    vColor = aColor;
}
`

const solidFragmentShader = `#version 410 core
in vec4 vColor;
out vec4 FragColor;
void main() {
    FragColor = vColor;
}
`

const textVertexShader = `#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;
uniform mat4 uProjection;
out vec2 vTexCoord;
out vec4 vColor;
void main() {
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
    vTexCoord = aTexCoord;
    vColor = aColor;
}
`

const textFragmentShader = `#version 410 core
uniform sampler2D uTexture;
in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;
void main() {
    float alpha = texture(uTexture, vTexCoord).a;
    FragColor = vec4(vColor.rgb, vColor.a * alpha);
}
`
