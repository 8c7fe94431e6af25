package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/bouncer/internal/engine/scene"
	"github.com/Faultbox/bouncer/internal/engine/shader"
	"github.com/Faultbox/bouncer/pkg/math"
)

// Render draws f. The passes run in a fixed order because each one reads
// what the previous ones produced: the main pass samples both shadow cube
// maps and the post pass samples the main colour and the camera depth.
//
// A geometry node naming a mesh the registry does not know aborts the
// frame with an error wrapping mesh.ErrUnknownMesh.
func (r *RenderState) Render(f *Frame) error {
	if f.Lights == nil {
		return fmt.Errorf("render: frame has no lights")
	}

	for i := range r.shadows {
		if err := r.shadowPass(f, i); err != nil {
			return err
		}
	}
	r.checkGL("shadow")

	if err := r.motionDepthPass(f); err != nil {
		return err
	}
	r.checkGL("motion depth")

	r.main.Bind()
	c := r.config.ClearColour
	r.main.Clear(c.X, c.Y, c.Z, 1)
	if err := r.mainPass(f); err != nil {
		r.main.Unbind()
		return err
	}
	r.particlePass(f)
	r.main.Unbind()
	r.checkGL("main")

	r.postPass(f)
	r.checkGL("post")
	return nil
}

// drawFunc sets per-draw uniforms for a geometry node and returns false to
// skip it.
type drawFunc func(n *scene.Node, world math.Mat4) bool

// drawRoot walks one subtree and draws every geometry node. Uniforms for a
// node are written right before its draw call; the walk visits parents
// before children in stored order.
func (r *RenderState) drawRoot(g *scene.Graph, root scene.NodeID, setup drawFunc) error {
	if !g.Valid(root) {
		return nil
	}
	return g.Walk(root, math.Identity(), func(id scene.NodeID, n *scene.Node, world math.Mat4) error {
		if n.Kind != scene.KindGeometry {
			return nil
		}
		batch, err := r.registry.Lookup(n.Geometry.Mesh)
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
		if batch.Count == 0 || !setup(n, world) {
			return nil
		}
		gl.DrawArrays(gl.TRIANGLES, batch.Start, batch.Count)
		return nil
	})
}

func (r *RenderState) drawAll(f *Frame, p *shader.Program) error {
	gl.BindVertexArray(r.sceneVAO)
	defer gl.BindVertexArray(0)

	for _, root := range f.Roots {
		err := r.drawRoot(f.Graph, root.ID, func(_ *scene.Node, world math.Mat4) bool {
			p.SetMat4("Model", world)
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// shadowPass renders the depth cube map of light i in one draw per node;
// the geometry shader fans every triangle out to the six faces.
func (r *RenderState) shadowPass(f *Frame, i int) error {
	light := &f.Lights.Lights[i]
	cm := r.shadows[i]

	cm.Bind()
	defer cm.Unbind()

	p := r.cubeDepth
	p.Use()
	for face, m := range light.Matrices {
		p.SetMat4(fmt.Sprintf("Views[%d]", face), m)
	}
	p.SetVec3("LightPos", light.Position)
	p.SetFloat("FarPlane", light.Far)

	return r.drawAll(f, p)
}

// motionDepthPass renders camera depth for the post-process reprojection.
func (r *RenderState) motionDepthPass(f *Frame) error {
	r.motionTarget.Bind()
	defer r.motionTarget.Unbind()

	p := r.motion
	p.Use()
	p.SetMat4("Perspective", f.Proj)
	p.SetMat4("View", f.View)

	return r.drawAll(f, p)
}

func (r *RenderState) setLitUniforms(p *shader.Program, f *Frame) {
	p.Use()
	p.SetMat4("Perspective", f.Proj)
	p.SetMat4("View", f.View)

	rig := f.Lights
	p.SetVec3("light.position", rig.Lights[0].Position)
	p.SetVec3("light.rgbIntensity", rig.Lights[0].RGBIntensity)
	p.SetVec3("light2.position", rig.Lights[1].Position)
	p.SetVec3("light2.rgbIntensity", rig.Lights[1].RGBIntensity)
	p.SetVec3("ambientIntensity", rig.Ambient)
	p.SetFloat("farPlane", rig.Lights[0].Far)
}

// mainPass draws the lit scene into the off-screen framebuffer.
func (r *RenderState) mainPass(f *Frame) error {
	r.shadows[0].BindTexture(gl.TEXTURE0 + unitShadowA)
	r.shadows[1].BindTexture(gl.TEXTURE0 + unitShadowB)
	if r.arenaTexture != nil {
		r.arenaTexture.Bind(gl.TEXTURE0 + unitTexture)
	}

	r.setLitUniforms(r.lit, f)
	if r.arenaTexture != nil {
		r.setLitUniforms(r.textured, f)
	}

	gl.BindVertexArray(r.sceneVAO)
	defer gl.BindVertexArray(0)

	for _, root := range f.Roots {
		p := r.lit
		if root.Textured && r.arenaTexture != nil {
			p = r.textured
		}
		p.Use()

		err := r.drawRoot(f.Graph, root.ID, func(n *scene.Node, world math.Mat4) bool {
			m := n.Geometry.Material
			p.SetMat4("Model", world)
			p.SetMat3("NormalMatrix", math.NormalMatrix(f.View, world))
			p.SetVec3("material.kd", m.Kd)
			p.SetVec3("material.ks", m.Ks)
			p.SetFloat("material.shininess", m.Shininess)
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// particlePass draws every live particle as an opaque, flat-coloured cube
// with one instanced call. It is skipped when the burst is empty.
func (r *RenderState) particlePass(f *Frame) {
	n := r.uploadInstances(f.Particles)
	if n == 0 {
		return
	}

	p := r.particles
	p.Use()
	p.SetMat4("Perspective", f.Proj)
	p.SetMat4("View", f.View)
	p.SetVec3("colour", r.config.ParticleColour)

	gl.BindVertexArray(r.particleVAO)
	gl.DrawArraysInstanced(gl.TRIANGLES, 0, r.particleVerts, n)
	gl.BindVertexArray(0)
}

// postPass composites the main colour onto the default framebuffer.
func (r *RenderState) postPass(f *Frame) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, r.width, r.height)
	gl.Disable(gl.DEPTH_TEST)
	defer gl.Enable(gl.DEPTH_TEST)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.main.ColorTexture())
	r.motionTarget.BindTexture(gl.TEXTURE1)

	p := r.post
	p.Use()
	p.SetInt("mode", int32(f.Mode))
	p.SetMat4("Perspective", f.Proj)
	p.SetMat4("View", f.View)
	p.SetMat4("PrevPerspective", f.PrevProj)
	p.SetMat4("PrevView", f.PrevView)
	p.SetFloat("blurStrength", r.config.BlurStrength)
	p.SetFloat("radialStrength", r.config.RadialStrength)

	gl.BindVertexArray(r.postVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}
