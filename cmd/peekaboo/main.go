// Command peekaboo runs the spot-the-character game in a window.
//
// Settings come from PEEKABOO_* environment variables; see Config.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/phanxgames/peekaboo"
	"github.com/phanxgames/peekaboo/audio"
)

func main() {
	if err := run(); err != nil {
		slog.Error("peekaboo failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	peekaboo.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stage := peekaboo.NewStage(peekaboo.StageConfig{
		Camera:        cfg.CameraConfig(),
		Loader:        peekaboo.FileLoader{Root: filepath.Dir(cfg.Level)},
		ScreenshotDir: cfg.Shots,
		WheelSmooth:   cfg.WheelSmooth,
	})
	stage.SetDebugMode(cfg.Debug)
	defer stage.Destroy()

	var runner *peekaboo.TestRunner
	if cfg.Script != "" {
		data, err := os.ReadFile(cfg.Script)
		if err != nil {
			return err
		}
		runner, err = peekaboo.LoadTestScript(data)
		if err != nil {
			return err
		}
		stage.SetTestRunner(runner)
	}

	var chime *audio.Chime
	if cfg.Sound {
		chime = audio.NewChime()
		if err := chime.Init(); err != nil {
			slog.Warn("audio disabled", "error", err)
			chime = nil
		} else {
			defer chime.Close()
		}
	}

	ctl := newController(ctx, cfg, stage, chime)
	ctl.runner = runner
	if cfg.Watch {
		w, err := newLevelWatcher(cfg.Level)
		if err != nil {
			return err
		}
		defer w.Close()
		go func() { _ = w.Run(ctx) }()
		ctl.reload = w.changed
	}
	if err := ctl.start(); err != nil {
		return err
	}

	rc := cfg.RunConfig()
	rc.HUDText = ctl.hudText
	rc.OnUpdate = ctl.update
	return peekaboo.Run(stage, rc)
}
