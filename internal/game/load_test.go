package game

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Faultbox/bouncer/internal/assets"
	"github.com/Faultbox/bouncer/internal/config"
	"github.com/Faultbox/bouncer/internal/engine/renderer"
	"github.com/Faultbox/bouncer/internal/engine/scene"
	"github.com/Faultbox/bouncer/internal/game/sim"
)

const arenaYAML = `
root:
  name: arena
  children:
    - name: shell
      kind: geometry
      mesh: arena
`

const playerYAML = `
root:
  name: player
  transform:
    - translate: [0, 0, 20]
  children:
    - name: arm
      kind: geometry
      mesh: cube
animations:
  - name: swing
    tracks:
      - node: arm
        keys: [{t: 0, pos: [0, 0, 0]}, {t: 100, pos: [0, 1, 0]}]
`

const triangleOBJ = `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func testAssets(files fstest.MapFS) *assets.Manager {
	am := assets.NewManager()
	am.AddFS(files)
	return am
}

func TestLoadScenesSkipsFailures(t *testing.T) {
	am := testAssets(fstest.MapFS{
		"arena.yaml":  {Data: []byte(arenaYAML)},
		"ball.yaml":   {Data: []byte("root: [not, a, node")},
		"player.yaml": {Data: []byte(playerYAML)},
	})
	g := scene.NewGraph()

	roots, anims := loadScenes(am, g, config.Default().Game, zap.NewNop())

	assert.True(t, g.Valid(roots.Arena))
	assert.Equal(t, scene.NoNode, roots.Ball)
	require.True(t, g.Valid(roots.Player))
	assert.Equal(t, "player", g.Node(roots.Player).Name)
	require.Len(t, anims, 1)
	assert.Equal(t, "swing", anims[0].Name)
}

func TestLoadScenesAllMissing(t *testing.T) {
	g := scene.NewGraph()
	roots, anims := loadScenes(testAssets(fstest.MapFS{}), g, config.Default().Game, zap.NewNop())

	assert.Equal(t, sim.Roots{Arena: scene.NoNode, Ball: scene.NoNode, Player: scene.NoNode}, roots)
	assert.Empty(t, anims)
	assert.Zero(t, g.Len())
}

func TestLoadMeshes(t *testing.T) {
	am := testAssets(fstest.MapFS{
		"meshes/tri.obj":    {Data: []byte(triangleOBJ)},
		"meshes/broken.obj": {Data: []byte("f 1 2 3\n")},
	})

	data, reg := loadMeshes(am, []string{"meshes/tri.obj", "meshes/broken.obj", "meshes/missing.obj", "meshes/odd.fbx"}, zap.NewNop())

	assert.Equal(t, []string{"tri"}, reg.Keys())
	b, err := reg.Lookup("tri")
	require.NoError(t, err)
	assert.Equal(t, int32(0), b.Start)
	assert.Equal(t, int32(3), b.Count)
	assert.Equal(t, 3, data.VertexCount())
}

func TestLoadTexture(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 2))))
	am := testAssets(fstest.MapFS{
		"textures/arena.png": {Data: buf.Bytes()},
		"textures/bad.png":   {Data: []byte("nope")},
	})
	log := zap.NewNop()

	img := loadTexture(am, "textures/arena.png", log)
	require.NotNil(t, img)
	assert.Equal(t, 4, img.Bounds().Dx())

	assert.Nil(t, loadTexture(am, "textures/bad.png", log))
	assert.Nil(t, loadTexture(am, "textures/missing.png", log))
	assert.Nil(t, loadTexture(am, "", log))
}

type clipRecorder struct {
	loaded []string
	fail   string
}

func (c *clipRecorder) Load(name string, _ []byte) error {
	if name == c.fail {
		return errors.New("bad clip")
	}
	c.loaded = append(c.loaded, name)
	return nil
}

func TestLoadSounds(t *testing.T) {
	am := testAssets(fstest.MapFS{
		"sounds/bounce.wav": {Data: []byte("RIFF")},
		"sounds/whoosh.wav": {Data: []byte("RIFF")},
	})

	rec := &clipRecorder{fail: sim.SoundWhoosh}
	n := loadSounds(am, rec, zap.NewNop())

	assert.Equal(t, 1, n)
	assert.Equal(t, []string{sim.SoundBounce}, rec.loaded)
}

type musicRecorder struct {
	clipRecorder
	playing string
	err     error
}

func (m *musicRecorder) PlayMusic(name string) error {
	if m.err != nil {
		return m.err
	}
	m.playing = name
	return nil
}

func TestStartMusic(t *testing.T) {
	am := testAssets(fstest.MapFS{"music/theme.wav": {Data: []byte("RIFF")}})

	t.Run("not configured", func(t *testing.T) {
		rec := &musicRecorder{}
		assert.False(t, startMusic(am, rec, "", zap.NewNop()))
		assert.Empty(t, rec.loaded)
	})

	t.Run("missing file", func(t *testing.T) {
		rec := &musicRecorder{}
		assert.False(t, startMusic(am, rec, "music/none.wav", zap.NewNop()))
		assert.Empty(t, rec.playing)
	})

	t.Run("playback fails", func(t *testing.T) {
		rec := &musicRecorder{err: errors.New("no device")}
		assert.False(t, startMusic(am, rec, "music/theme.wav", zap.NewNop()))
	})

	t.Run("started", func(t *testing.T) {
		rec := &musicRecorder{}
		assert.True(t, startMusic(am, rec, "music/theme.wav", zap.NewNop()))
		assert.Equal(t, []string{musicClip}, rec.loaded)
		assert.Equal(t, musicClip, rec.playing)
	})
}

func TestSimSettingsMatchDefaults(t *testing.T) {
	assert.Equal(t, sim.DefaultSettings(), simSettings(config.Default()))
}

func TestSimSettingsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Physics.BallSpeed = 0.05
	cfg.Physics.ParticleCount = 10
	cfg.Game.MouseSensitivity = 500

	s := simSettings(cfg)
	assert.Equal(t, float32(0.05), s.BallSpeed)
	assert.Equal(t, 10, s.Particles.Count)
	assert.Equal(t, float32(500), s.MouseSensitivity)
}

func TestPostMode(t *testing.T) {
	tests := []struct {
		effect sim.Effect
		blur   bool
		want   renderer.PostMode
	}{
		{sim.EffectNone, true, renderer.PostPassthrough},
		{sim.EffectPaused, true, renderer.PostPaused},
		{sim.EffectPaused, false, renderer.PostPaused},
		{sim.EffectMotionBlur, true, renderer.PostMotionBlur},
		{sim.EffectMotionBlur, false, renderer.PostPassthrough},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, postMode(tt.effect, tt.blur))
	}
}
