package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)
	cfg.normalize()

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Bouncer")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Bouncer")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "bouncer")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "bouncer")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	def := Default()

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		c.Graphics.Width, c.Graphics.Height = def.Graphics.Width, def.Graphics.Height
	}
	if c.Graphics.FOV <= 0 || c.Graphics.FOV >= 180 {
		c.Graphics.FOV = def.Graphics.FOV
	}
	if c.Graphics.Near <= 0 || c.Graphics.FarPlane <= c.Graphics.Near {
		c.Graphics.Near, c.Graphics.FarPlane = def.Graphics.Near, def.Graphics.FarPlane
	}
	if c.Graphics.ShadowResolution <= 0 {
		c.Graphics.ShadowResolution = def.Graphics.ShadowResolution
	}

	c.Audio.MasterVolume = clamp01(c.Audio.MasterVolume)
	c.Audio.SFXVolume = clamp01(c.Audio.SFXVolume)
	c.Audio.MusicVolume = clamp01(c.Audio.MusicVolume)

	if c.Game.MouseSensitivity <= 0 {
		c.Game.MouseSensitivity = def.Game.MouseSensitivity
	}
	if c.Physics.MoveDivisor <= 0 {
		c.Physics.MoveDivisor = def.Physics.MoveDivisor
	}
	if c.Physics.WhooshPeriodMs <= 0 {
		c.Physics.WhooshPeriodMs = def.Physics.WhooshPeriodMs
	}
	if c.Physics.ParticleCount <= 0 {
		c.Physics.ParticleCount = def.Physics.ParticleCount
	}
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}
