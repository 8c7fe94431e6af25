// Package game wires the window, renderer, audio and simulation together
// and runs the frame loop.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/bouncer/internal/assets"
	"github.com/Faultbox/bouncer/internal/config"
	"github.com/Faultbox/bouncer/internal/engine/audio"
	"github.com/Faultbox/bouncer/internal/engine/debug"
	"github.com/Faultbox/bouncer/internal/engine/input"
	"github.com/Faultbox/bouncer/internal/engine/lighting"
	"github.com/Faultbox/bouncer/internal/engine/renderer"
	"github.com/Faultbox/bouncer/internal/engine/scene"
	"github.com/Faultbox/bouncer/internal/engine/ui2d"
	"github.com/Faultbox/bouncer/internal/engine/window"
	"github.com/Faultbox/bouncer/internal/game/sim"
	"github.com/Faultbox/bouncer/internal/game/ui"
	"github.com/Faultbox/bouncer/internal/logger"
)

// Title is the window title.
const Title = "Bouncer"

// Game is the main game instance.
type Game struct {
	config *config.Config
	log    *zap.Logger

	window   *window.Window
	renderer *renderer.RenderState
	audio    *audio.Manager
	assets   *assets.Manager
	input    *input.Input
	overlay  *ui.Overlay

	sim    *sim.State
	lights lighting.Rig

	screenshots *debug.Screenshotter
	captured    bool // relative mouse mode currently on
	musicPaused bool
	intent      sim.Intent
}

// New creates the window and every subsystem, then loads the scenes.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		config:      cfg,
		log:         logger.Named("game"),
		input:       input.New(),
		assets:      assets.NewManager(),
		screenshots: debug.NewScreenshotter("screenshots", "bouncer"),
	}
	g.log.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("fullscreen", cfg.Graphics.Fullscreen),
	)

	if err := g.init(); err != nil {
		g.Close()
		return nil, err
	}
	g.log.Info("game initialized successfully")
	return g, nil
}

func (g *Game) init() error {
	cfg := g.config

	for _, dir := range cfg.Assets.Dirs {
		if err := g.assets.AddDir(dir); err != nil {
			g.log.Warn("asset directory skipped", zap.String("dir", dir), zap.Error(err))
		}
	}

	var err error
	// window first: it creates the OpenGL context
	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	g.audio = audio.New()
	if err := g.audio.Init(); err != nil {
		g.log.Warn("audio unavailable, continuing silent", zap.Error(err))
	}
	g.audio.SetMasterVolume(float64(cfg.Audio.MasterVolume))
	g.audio.SetSFXVolume(float64(cfg.Audio.SFXVolume))
	g.audio.SetMusicVolume(float64(cfg.Audio.MusicVolume))
	g.audio.SetMuted(cfg.Audio.Muted)
	loadSounds(g.assets, g.audio, g.log)
	startMusic(g.assets, g.audio, cfg.Audio.Music, g.log)
	g.audio.PauseMusic(true)
	g.musicPaused = true

	graph := scene.NewGraph()
	roots, anims := loadScenes(g.assets, graph, cfg.Game, g.log)
	data, registry := loadMeshes(g.assets, cfg.Game.Meshes, g.log)
	arena := loadTexture(g.assets, cfg.Game.ArenaTexture, g.log)

	dw, dh := g.window.DrawableSize()
	rc := renderer.DefaultConfig()
	rc.Width, rc.Height = dw, dh
	rc.ShadowResolution = cfg.Graphics.ShadowResolution
	rc.FarPlane = cfg.Graphics.FarPlane
	rc.ParticleCapacity = cfg.Physics.ParticleCount
	g.renderer, err = renderer.New(rc, data, registry, arena)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	g.lights = lighting.DefaultRig(cfg.Graphics.FarPlane)

	ww, wh := g.window.GetSize()
	ctx, err := ui2d.NewContext(ww, wh)
	if err != nil {
		return fmt.Errorf("failed to create overlay: %w", err)
	}
	g.overlay = ui.NewOverlay(ctx, g.audio, cfg.Game.ShowFPS)

	g.sim = sim.New(graph, roots, sim.Options{
		Settings:   simSettings(cfg),
		Sounds:     g.audio,
		Aspect:     float32(dw) / float32(max(dh, 1)),
		Animations: anims,
	})
	return nil
}

// Close releases resources in reverse order of creation. It is safe on a
// partially initialised game.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.overlay != nil {
		g.overlay.Context().Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.audio != nil {
		g.audio.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
	if g.assets != nil {
		hits, misses := g.assets.Cache().Stats()
		g.log.Debug("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
		g.assets.Close()
	}
}

// Run drives frames until the player quits. A panic or render error inside
// a frame ends the loop; the error is returned after being logged.
func (g *Game) Run() error {
	g.log.Info("starting game loop")

	start := time.Now()
	last := start
	for {
		now := time.Now()
		g.overlay.FPS.Update(float64(now.Sub(last).Microseconds()) / 1000)
		last = now

		done, err := g.safeFrame(now.Sub(start).Milliseconds())
		if err != nil {
			g.log.Error("frame failed, stopping", zap.Error(err))
			return err
		}
		if done {
			g.log.Info("game loop finished", zap.Int("hits", g.sim.Hits))
			return nil
		}
	}
}

func (g *Game) safeFrame(nowMs int64) (done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in frame: %v", r)
		}
	}()
	return g.frame(nowMs)
}

// frame runs one input, simulation and render cycle.
func (g *Game) frame(nowMs int64) (bool, error) {
	g.window.PollEvents(g.input)
	events := g.input.Events()
	g.handleEvents(events)

	g.sim.HandleEvents(events)
	g.sim.Apply(g.intent)
	g.intent = sim.IntentNone
	if g.input.QuitRequested() || g.sim.QuitRequested() {
		return true, nil
	}

	if want := g.sim.CaptureMouse(); want != g.captured {
		g.window.SetRelativeMouse(want)
		g.captured = want
	}

	if g.sim.Paused != g.musicPaused {
		g.audio.PauseMusic(g.sim.Paused)
		g.musicPaused = g.sim.Paused
	}

	g.sim.Step(nowMs)

	if err := g.renderer.Render(g.buildFrame()); err != nil {
		return false, err
	}
	g.sim.EndFrame()
	g.intent = g.overlay.Draw(ui.View{Paused: g.sim.Paused, Hits: g.sim.Hits})

	if g.input.IsKeyPressed(input.KeyF12) {
		g.screenshot()
	}
	g.window.SwapBuffers()
	return false, nil
}

// handleEvents reacts to the events the simulation does not own.
func (g *Game) handleEvents(events []input.Event) {
	in := g.overlay.Context().Input()
	for _, e := range events {
		in.Feed(e)
		switch e.Type {
		case input.EventResize:
			g.renderer.Resize(e.Width, e.Height)
			g.overlay.Context().Resize(g.window.GetSize())
		case input.EventKey:
			if e.Key == input.KeyF1 && e.Action == input.Press {
				g.overlay.ShowFPS = !g.overlay.ShowFPS
			}
		}
	}
}

func (g *Game) buildFrame() *renderer.Frame {
	s := g.sim
	cam := s.Camera

	return &renderer.Frame{
		Graph: s.Graph,
		Roots: []renderer.Root{
			{ID: s.Roots.Arena, Textured: true},
			{ID: s.Roots.Ball},
			{ID: s.Roots.Player},
		},
		View:      cam.View,
		Proj:      cam.Proj,
		PrevView:  cam.PrevView,
		PrevProj:  cam.PrevProj,
		Particles: s.Particles.Transforms,
		Mode:      postMode(s.Effect(), g.config.Graphics.MotionBlur),
		Lights:    &g.lights,
	}
}

func (g *Game) screenshot() {
	pixels, w, h := g.renderer.ReadBackBuffer()
	path, err := g.screenshots.Save(pixels, w, h)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}
