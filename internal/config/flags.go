package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagAssets     = flag.String("assets", "", "Extra asset directory (highest priority)")
	flagPick       = flag.Bool("pick", false, "Choose the arena scene file with a file dialog")
)

// positional returns the non-flag arguments; replaced in tests.
var positional = flag.Args

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// PickArena reports whether the arena file should be chosen interactively.
func PickArena() bool {
	return *flagPick
}

// ArenaArg returns the positional arena scene argument, if any.
func ArenaArg() string {
	if args := positional(); len(args) > 0 {
		return args[0]
	}
	return ""
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Game.ShowFPS = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagAssets != "" {
		cfg.Assets.Dirs = append(cfg.Assets.Dirs, *flagAssets)
	}
	if arena := ArenaArg(); arena != "" {
		cfg.Game.ArenaScene = arena
	}
}
