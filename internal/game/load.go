package game

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/bouncer/internal/assets"
	"github.com/Faultbox/bouncer/internal/config"
	"github.com/Faultbox/bouncer/internal/engine/mesh"
	"github.com/Faultbox/bouncer/internal/engine/particles"
	"github.com/Faultbox/bouncer/internal/engine/renderer"
	"github.com/Faultbox/bouncer/internal/engine/scene"
	"github.com/Faultbox/bouncer/internal/engine/texture"
	"github.com/Faultbox/bouncer/internal/game/sim"
)

const musicClip = "music"

// cueFiles maps feedback cues to their sound files.
var cueFiles = []struct {
	cue  string
	file string
}{
	{sim.SoundBounce, "sounds/bounce.wav"},
	{sim.SoundWhoosh, "sounds/whoosh.wav"},
	{sim.SoundClick, "sounds/click.wav"},
}

// importScene attaches one scene file from the asset roots to g.
func importScene(am *assets.Manager, g *scene.Graph, name string) (scene.Imported, error) {
	data, err := am.Load(name)
	if err != nil {
		return scene.Imported{Root: scene.NoNode}, err
	}
	imp, err := scene.Import(g, data)
	if err != nil {
		return scene.Imported{Root: scene.NoNode}, fmt.Errorf("import %s: %w", name, err)
	}
	return imp, nil
}

// loadScenes imports the arena, ball and player subtrees. A scene that
// fails to load is logged and its root left as scene.NoNode; only the
// player's animations are kept.
func loadScenes(am *assets.Manager, g *scene.Graph, gc config.GameConfig, log *zap.Logger) (sim.Roots, []scene.Animation) {
	roots := sim.Roots{Arena: scene.NoNode, Ball: scene.NoNode, Player: scene.NoNode}
	var anims []scene.Animation

	for _, s := range []struct {
		name string
		dst  *scene.NodeID
	}{
		{gc.ArenaScene, &roots.Arena},
		{gc.BallScene, &roots.Ball},
		{gc.PlayerScene, &roots.Player},
	} {
		imp, err := importScene(am, g, s.name)
		if err != nil {
			log.Warn("scene not loaded, subtree skipped", zap.String("scene", s.name), zap.Error(err))
			continue
		}
		*s.dst = imp.Root
		if s.dst == &roots.Player {
			anims = imp.Animations
		}
		log.Debug("scene imported", zap.String("scene", s.name), zap.Int32("root", int32(imp.Root)))
	}
	return roots, anims
}

// loadMeshes consolidates every mesh file that loads. OBJ files are read
// through the asset roots; glTF needs an on-disk path for its buffers.
func loadMeshes(am *assets.Manager, paths []string, log *zap.Logger) (*mesh.Data, *mesh.Registry) {
	c := mesh.NewConsolidator()
	for _, p := range paths {
		if err := addMesh(c, am, p); err != nil {
			log.Warn("mesh not loaded", zap.String("mesh", p), zap.Error(err))
			continue
		}
	}
	data, reg := c.Build()
	log.Info("meshes consolidated",
		zap.Int("meshes", reg.Len()),
		zap.Int("vertices", data.VertexCount()),
	)
	return data, reg
}

func addMesh(c *mesh.Consolidator, am *assets.Manager, name string) error {
	if strings.EqualFold(filepath.Ext(name), ".obj") {
		data, err := am.Load(name)
		if err != nil {
			return err
		}
		m, err := mesh.ParseOBJ(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		return c.Add(mesh.KeyFor(name), m)
	}

	path, err := am.Resolve(name)
	if err != nil {
		return err
	}
	return c.AddFile(path)
}

// loadTexture decodes the arena texture. A nil image means the arena is
// drawn untextured.
func loadTexture(am *assets.Manager, name string, log *zap.Logger) *image.RGBA {
	if name == "" {
		return nil
	}
	data, err := am.Load(name)
	if err == nil {
		var img *image.RGBA
		if img, err = texture.Decode(data); err == nil {
			return img
		}
	}
	log.Warn("arena texture not loaded, drawing untextured", zap.String("texture", name), zap.Error(err))
	return nil
}

type clipLoader interface {
	Load(name string, data []byte) error
}

// loadSounds loads the feedback cues. A missing cue stays silent.
func loadSounds(am *assets.Manager, clips clipLoader, log *zap.Logger) int {
	loaded := 0
	for _, c := range cueFiles {
		data, err := am.Load(c.file)
		if err == nil {
			err = clips.Load(c.cue, data)
		}
		if err != nil {
			log.Warn("sound not loaded", zap.String("cue", c.cue), zap.Error(err))
			continue
		}
		loaded++
	}
	return loaded
}

// musicPlayer is the slice of the audio manager the background track needs.
type musicPlayer interface {
	clipLoader
	PlayMusic(name string) error
}

// startMusic loads and starts the looping track, if one is configured.
func startMusic(am *assets.Manager, player musicPlayer, file string, log *zap.Logger) bool {
	if file == "" {
		return false
	}
	data, err := am.Load(file)
	if err == nil {
		err = player.Load(musicClip, data)
	}
	if err == nil {
		err = player.PlayMusic(musicClip)
	}
	if err != nil {
		log.Warn("music not started", zap.String("file", file), zap.Error(err))
		return false
	}
	return true
}

// simSettings translates the configuration into simulation tunables.
func simSettings(cfg *config.Config) sim.Settings {
	p := cfg.Physics
	s := sim.DefaultSettings()
	s.PlayerBoundary = p.PlayerBoundary
	s.BallBoundary = p.BallBoundary
	s.HitDistance = p.HitDistance
	s.BallSpeed = p.BallSpeed
	s.MoveDivisor = p.MoveDivisor
	s.BoostFactor = p.BoostFactor
	s.WhooshPeriodMs = p.WhooshPeriodMs
	s.MouseSensitivity = cfg.Game.MouseSensitivity
	s.FovDegrees = cfg.Graphics.FOV
	s.Near = cfg.Graphics.Near
	s.Far = cfg.Graphics.FarPlane
	s.Particles = particles.Settings{
		Count:       p.ParticleCount,
		LifetimeMs:  p.ParticleLifeMs,
		SpawnOffset: p.ParticleOffset,
		StartScale:  p.ParticleScale,
		Speed:       p.ParticleSpeed,
		Shrink:      p.ParticleShrink,
	}
	return s
}

// postMode picks the post filter for a simulation effect.
func postMode(e sim.Effect, motionBlur bool) renderer.PostMode {
	switch e {
	case sim.EffectPaused:
		return renderer.PostPaused
	case sim.EffectMotionBlur:
		if motionBlur {
			return renderer.PostMotionBlur
		}
	}
	return renderer.PostPassthrough
}
