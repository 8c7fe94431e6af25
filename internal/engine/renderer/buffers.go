package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/bouncer/internal/engine/mesh"
	"github.com/Faultbox/bouncer/pkg/math"
)

const (
	attribPosition = 0
	attribNormal   = 1
	attribTexCoord = 2
	attribInstance = 3 // mat4 occupies 3..6
)

const mat4Size = int(unsafe.Sizeof(math.Mat4{}))

// uploadScene copies the consolidated vertex arrays into the shared VAO.
func (r *RenderState) uploadScene(data *mesh.Data) {
	gl.GenVertexArrays(1, &r.sceneVAO)
	gl.BindVertexArray(r.sceneVAO)
	gl.GenBuffers(3, &r.sceneVBOs[0])

	if data == nil {
		data = &mesh.Data{}
	}
	arrays := []struct {
		values []float32
		loc    uint32
		size   int32
	}{
		{data.Positions, attribPosition, 3},
		{data.Normals, attribNormal, 3},
		{data.TexCoords, attribTexCoord, 2},
	}
	for i, a := range arrays {
		gl.BindBuffer(gl.ARRAY_BUFFER, r.sceneVBOs[i])
		if len(a.values) > 0 {
			gl.BufferData(gl.ARRAY_BUFFER, len(a.values)*4, gl.Ptr(a.values), gl.STATIC_DRAW)
		}
		gl.EnableVertexAttribArray(a.loc)
		gl.VertexAttribPointerWithOffset(a.loc, a.size, gl.FLOAT, false, 0, 0)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// createParticleBuffers builds the particle cube and the instance buffer,
// sized once for the full burst capacity.
func (r *RenderState) createParticleBuffers() {
	cube := unitCube()
	r.particleVerts = int32(len(cube) / 3)

	gl.GenVertexArrays(1, &r.particleVAO)
	gl.BindVertexArray(r.particleVAO)

	gl.GenBuffers(1, &r.particleMeshVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.particleMeshVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(cube)*4, gl.Ptr(cube), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, 0, 0)

	gl.GenBuffers(1, &r.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.instanceVBO)
	gl.BufferData(gl.ARRAY_BUFFER, max(r.config.ParticleCapacity, 1)*mat4Size, nil, gl.DYNAMIC_DRAW)
	for col := uint32(0); col < 4; col++ {
		loc := attribInstance + col
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, int32(mat4Size), uintptr(col*16))
		gl.VertexAttribDivisor(loc, 1)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// uploadInstances writes the live particle transforms into the instance
// buffer without reallocating it and returns how many were written.
func (r *RenderState) uploadInstances(transforms []math.Mat4) int32 {
	n := min(len(transforms), r.config.ParticleCapacity)
	if n == 0 {
		return 0
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.instanceVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*mat4Size, gl.Ptr(&transforms[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return int32(n)
}

// unitCube returns the 36 triangle vertices of a cube spanning -0.5..0.5,
// wound counter-clockwise seen from outside.
func unitCube() []float32 {
	const h = 0.5
	corners := [8][3]float32{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	faces := [6][4]int{
		{4, 5, 6, 7}, // +Z
		{1, 0, 3, 2}, // -Z
		{5, 1, 2, 6}, // +X
		{0, 4, 7, 3}, // -X
		{7, 6, 2, 3}, // +Y
		{0, 1, 5, 4}, // -Y
	}

	out := make([]float32, 0, 36*3)
	for _, f := range faces {
		for _, i := range [6]int{f[0], f[1], f[2], f[0], f[2], f[3]} {
			c := corners[i]
			out = append(out, c[0], c[1], c[2])
		}
	}
	return out
}
