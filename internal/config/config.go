// Package config handles game configuration loading and management.
package config

// Config holds all game settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Audio    AudioConfig    `yaml:"audio"`
	Game     GameConfig     `yaml:"game"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AssetsConfig holds asset search directories. Later entries win.
type AssetsConfig struct {
	Dirs []string `yaml:"dirs"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	Fullscreen       bool    `yaml:"fullscreen"`
	VSync            bool    `yaml:"vsync"`
	FOV              float32 `yaml:"fov"`
	Near             float32 `yaml:"near"`
	FarPlane         float32 `yaml:"far_plane"`
	ShadowResolution int     `yaml:"shadow_resolution"`
	MotionBlur       bool    `yaml:"motion_blur"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
	MusicVolume  float32 `yaml:"music_volume"`
	Muted        bool    `yaml:"muted"`
	// Music is an optional looping track; empty disables it.
	Music string `yaml:"music"`
}

// GameConfig holds scene files and gameplay settings.
type GameConfig struct {
	ArenaScene       string   `yaml:"arena_scene"`
	BallScene        string   `yaml:"ball_scene"`
	PlayerScene      string   `yaml:"player_scene"`
	Meshes           []string `yaml:"meshes"`
	ArenaTexture     string   `yaml:"arena_texture"`
	ShowFPS          bool     `yaml:"show_fps"`
	MouseSensitivity float32  `yaml:"mouse_sensitivity"`
}

// PhysicsConfig holds the simulation tunables.
type PhysicsConfig struct {
	PlayerBoundary float32 `yaml:"player_boundary"`
	BallBoundary   float32 `yaml:"ball_boundary"`
	HitDistance    float32 `yaml:"hit_distance"`
	BallSpeed      float32 `yaml:"ball_speed"`
	MoveDivisor    float32 `yaml:"move_divisor"`
	BoostFactor    float32 `yaml:"boost_factor"`
	WhooshPeriodMs int64   `yaml:"whoosh_period_ms"`
	ParticleCount  int     `yaml:"particle_count"`
	ParticleLifeMs float32 `yaml:"particle_life_ms"`
	ParticleSpeed  float32 `yaml:"particle_speed"`
	ParticleShrink float32 `yaml:"particle_shrink"`
	ParticleScale  float32 `yaml:"particle_scale"`
	ParticleOffset float32 `yaml:"particle_offset"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:            1024,
			Height:           768,
			Fullscreen:       false,
			VSync:            true,
			FOV:              60,
			Near:             0.1,
			FarPlane:         100,
			ShadowResolution: 2048,
			MotionBlur:       true,
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			SFXVolume:    1.0,
			MusicVolume:  0.5,
			Muted:        false,
		},
		Game: GameConfig{
			ArenaScene:  "arena.yaml",
			BallScene:   "ball.yaml",
			PlayerScene: "player.yaml",
			Meshes: []string{
				"meshes/cube.obj",
				"meshes/sphere.obj",
				"meshes/arena.obj",
			},
			ArenaTexture:     "textures/arena.png",
			ShowFPS:          false,
			MouseSensitivity: 1000,
		},
		Physics: PhysicsConfig{
			PlayerBoundary: 49,
			BallBoundary:   49.5,
			HitDistance:    1.5,
			BallSpeed:      0.02,
			MoveDivisor:    100,
			BoostFactor:    2,
			WhooshPeriodMs: 500,
			ParticleCount:  2000,
			ParticleLifeMs: 700,
			ParticleSpeed:  0.1,
			ParticleShrink: 0.98,
			ParticleScale:  0.05,
			ParticleOffset: 0.5,
		},
		Assets: AssetsConfig{
			Dirs: []string{"assets"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
