// Package renderer draws a frame of the arena: two cube shadow passes, a
// camera depth pass, the lit main pass, instanced particles and the
// full-screen post-process composite.
package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/bouncer/internal/engine/framebuffer"
	"github.com/Faultbox/bouncer/internal/engine/mesh"
	"github.com/Faultbox/bouncer/internal/engine/renderer/shaders"
	"github.com/Faultbox/bouncer/internal/engine/shader"
	"github.com/Faultbox/bouncer/internal/engine/shadow"
	"github.com/Faultbox/bouncer/internal/engine/texture"
	"github.com/Faultbox/bouncer/internal/logger"
	"github.com/Faultbox/bouncer/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width            int // drawable size in pixels
	Height           int
	ShadowResolution int
	FarPlane         float32
	ClearColour      math.Vec3
	ParticleCapacity int
	ParticleColour   math.Vec3
	BlurStrength     float32
	RadialStrength   float32
}

// DefaultConfig returns the renderer settings used in game.
func DefaultConfig() Config {
	return Config{
		Width:            1024,
		Height:           768,
		ShadowResolution: shadow.DefaultResolution,
		FarPlane:         100,
		ClearColour:      math.Vec3{X: 0.35, Y: 0.35, Z: 0.35},
		ParticleCapacity: 2000,
		ParticleColour:   math.Vec3{X: 1, Y: 0.75, Z: 0.3},
		BlurStrength:     0.6,
		RadialStrength:   0.04,
	}
}

// Texture units shared by the lit shaders.
const (
	unitShadowA = 0
	unitShadowB = 1
	unitTexture = 2
)

// RenderState owns every GPU resource of the frame. It is created once
// after the GL context exists and lives until Close.
type RenderState struct {
	config Config
	log    *zap.Logger

	registry *mesh.Registry

	// Shared scene geometry: position, normal, uv in separate buffers.
	sceneVAO  uint32
	sceneVBOs [3]uint32

	// Particles: a unit cube plus a per-instance mat4 buffer.
	particleVAO     uint32
	particleMeshVBO uint32
	instanceVBO     uint32
	particleVerts   int32

	// The post pass generates its triangle from gl_VertexID.
	postVAO uint32

	lit       *shader.Program
	textured  *shader.Program
	cubeDepth *shader.Program
	motion    *shader.Program
	particles *shader.Program
	post      *shader.Program

	shadows      [2]*shadow.CubeMap
	motionTarget *framebuffer.DepthTarget
	main         *framebuffer.Framebuffer
	arenaTexture *texture.Texture

	width, height int32
}

// New uploads the consolidated mesh data and creates every pass resource.
// arena may be nil, in which case textured roots fall back to the
// untextured shader.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, data *mesh.Data, registry *mesh.Registry, arena *image.RGBA) (*RenderState, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &RenderState{
		config:   cfg,
		log:      logger.Named("render"),
		registry: registry,
		width:    int32(max(cfg.Width, 1)),
		height:   int32(max(cfg.Height, 1)),
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	if err := r.init(data, arena); err != nil {
		r.Close()
		return nil, err
	}
	r.checkGL("init")
	return r, nil
}

func (r *RenderState) init(data *mesh.Data, arena *image.RGBA) error {
	var err error
	if err = r.compilePrograms(); err != nil {
		return err
	}

	r.uploadScene(data)
	r.createParticleBuffers()
	gl.GenVertexArrays(1, &r.postVAO)

	res := int32(r.config.ShadowResolution)
	for i := range r.shadows {
		if r.shadows[i], err = shadow.NewCubeMap(res); err != nil {
			return fmt.Errorf("shadow map %d: %w", i, err)
		}
	}
	if r.motionTarget, err = framebuffer.NewDepthTarget(r.width, r.height); err != nil {
		return fmt.Errorf("motion depth target: %w", err)
	}
	if r.main, err = framebuffer.New(r.width, r.height); err != nil {
		return fmt.Errorf("main framebuffer: %w", err)
	}

	if arena != nil {
		r.arenaTexture = texture.Upload(arena)
	}
	return nil
}

func (r *RenderState) compilePrograms() error {
	type spec struct {
		dst        **shader.Program
		name       string
		vs, gs, fs string
	}
	specs := []spec{
		{&r.lit, "lit", shaders.SceneVertexShader, "", shaders.SceneFragmentShader(false)},
		{&r.textured, "textured", shaders.SceneVertexShader, "", shaders.SceneFragmentShader(true)},
		{&r.cubeDepth, "cube depth", shaders.CubeDepthVertexShader, shaders.CubeDepthGeometryShader, shaders.CubeDepthFragmentShader},
		{&r.motion, "motion depth", shaders.MotionDepthVertexShader, "", shaders.MotionDepthFragmentShader},
		{&r.particles, "particles", shaders.ParticleVertexShader, "", shaders.ParticleFragmentShader},
		{&r.post, "post", shaders.PostVertexShader, "", shaders.PostFragmentShader},
	}

	for _, s := range specs {
		var (
			id  uint32
			err error
		)
		if s.gs != "" {
			id, err = shader.CompileProgramWithGeometry(s.vs, s.gs, s.fs)
		} else {
			id, err = shader.CompileProgram(s.vs, s.fs)
		}
		if err != nil {
			return fmt.Errorf("%s program: %w", s.name, err)
		}
		*s.dst = shader.NewProgram(s.name, id)
	}

	// sampler units never change
	for _, p := range []*shader.Program{r.lit, r.textured} {
		p.Use()
		p.SetInt("shadowMap", unitShadowA)
		p.SetInt("shadowMap2", unitShadowB)
	}
	r.textured.SetInt("matTexture", unitTexture)
	r.post.Use()
	r.post.SetInt("sceneColour", 0)
	r.post.SetInt("sceneDepth", 1)
	gl.UseProgram(0)
	return nil
}

// Resize resizes the off-screen targets to the new drawable size.
func (r *RenderState) Resize(width, height int) {
	r.width, r.height = int32(max(width, 1)), int32(max(height, 1))
	r.main.Resize(r.width, r.height)
	r.motionTarget.Resize(r.width, r.height)
	gl.Viewport(0, 0, r.width, r.height)
	r.log.Debug("renderer resized",
		zap.Int32("width", r.width),
		zap.Int32("height", r.height),
	)
}

// Size returns the drawable size the targets are allocated for.
func (r *RenderState) Size() (int, int) {
	return int(r.width), int(r.height)
}

// HasArenaTexture reports whether the textured shader has a texture bound.
func (r *RenderState) HasArenaTexture() bool {
	return r.arenaTexture != nil
}

// ReadBackBuffer returns the presented frame as bottom-up RGBA rows. Call
// it after Render and before swapping.
func (r *RenderState) ReadBackBuffer() ([]byte, int, int) {
	pixels := make([]byte, int(r.width)*int(r.height)*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, r.width, r.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, int(r.width), int(r.height)
}

// Close releases every GPU resource. It is safe on a partially built state.
func (r *RenderState) Close() {
	r.log.Info("closing renderer")

	for _, p := range []*shader.Program{r.lit, r.textured, r.cubeDepth, r.motion, r.particles, r.post} {
		if p != nil {
			p.Delete()
		}
	}
	for _, s := range r.shadows {
		if s != nil {
			s.Destroy()
		}
	}
	if r.motionTarget != nil {
		r.motionTarget.Destroy()
	}
	if r.main != nil {
		r.main.Destroy()
	}
	r.arenaTexture.Delete()

	for _, vao := range []*uint32{&r.sceneVAO, &r.particleVAO, &r.postVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
			*vao = 0
		}
	}
	for _, vbo := range []*uint32{&r.sceneVBOs[0], &r.sceneVBOs[1], &r.sceneVBOs[2], &r.particleMeshVBO, &r.instanceVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
			*vbo = 0
		}
	}
}

// checkGL drains the GL error queue. Errors are diagnostics only.
func (r *RenderState) checkGL(stage string) {
	var errs []error
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		errs = append(errs, fmt.Errorf("0x%04x", code))
		if len(errs) > 8 {
			break
		}
	}
	if len(errs) > 0 {
		r.log.Warn("GL error", zap.String("stage", stage), zap.Error(errors.Join(errs...)))
	}
}
