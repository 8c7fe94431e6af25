// Package main is the entry point for Bouncer.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/bouncer/internal/config"
	"github.com/Faultbox/bouncer/internal/game"
	"github.com/Faultbox/bouncer/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fatal("Config error", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fatal("Logger error", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== Bouncer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.PickArena() {
		if err := pickArena(cfg); err != nil {
			if errors.Is(err, dialog.ErrCancelled) {
				logger.Info("arena selection cancelled")
				return 0
			}
			fatal("Arena selection failed", err)
			return 1
		}
	}

	g, err := game.New(cfg)
	if err != nil {
		logger.Error("failed to create game", zap.Error(err))
		fatal("Failed to start", err)
		return 1
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		logger.Error("game error", zap.Error(err))
		return 1
	}

	logger.Info("game closed normally")
	return 0
}

// pickArena asks for the arena scene file. Its directory becomes the
// highest priority asset root so sibling files resolve from there.
func pickArena(cfg *config.Config) error {
	path, err := dialog.File().
		Title("Choose arena scene").
		Filter("Scene files", "yaml", "yml").
		Load()
	if err != nil {
		return err
	}
	cfg.Assets.Dirs = append(cfg.Assets.Dirs, filepath.Dir(path))
	cfg.Game.ArenaScene = filepath.Base(path)
	logger.Info("arena selected", zap.String("path", path))
	return nil
}

// fatal reports a startup failure on stderr and in a message box.
func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
	dialog.Message("%s: %v", what, err).Title(game.Title).Error()
}
