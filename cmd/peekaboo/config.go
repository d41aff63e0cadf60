package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/phanxgames/peekaboo"
)

// Config is read from PEEKABOO_* environment variables.
type Config struct {
	Level     string  `envconfig:"LEVEL" default:"levels/park.json"`
	Seed      uint64  `envconfig:"SEED"` // 0 picks a time-based seed
	Fit       string  `envconfig:"FIT" default:"cover"`
	MaxZoom   float64 `envconfig:"MAX_ZOOM" default:"2.2"`
	WheelStep float64 `envconfig:"WHEEL_STEP" default:"0.12"`
	// Wheel zoom easing in seconds; negative zooms instantly.
	WheelSmooth float32 `envconfig:"WHEEL_SMOOTH" default:"0.2333"`
	// Per-tick glide decay after a drag; 0 disables it.
	Friction float64 `envconfig:"FRICTION" default:"0.95"`
	Width    int     `envconfig:"WIDTH" default:"1280"`
	Height   int     `envconfig:"HEIGHT" default:"720"`
	Sidebar  int     `envconfig:"SIDEBAR" default:"240"`
	Seconds  int     `envconfig:"SECONDS" default:"180"`
	Sound    bool    `envconfig:"SOUND" default:"true"`
	Watch    bool    `envconfig:"WATCH" default:"false"`
	Debug    bool    `envconfig:"DEBUG" default:"false"`
	Script   string  `envconfig:"SCRIPT"` // optional JSON test script
	Shots    string  `envconfig:"SCREENSHOT_DIR" default:"screenshots"`
}

func loadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("peekaboo", &cfg); err != nil {
		return nil, err
	}
	if _, ok := peekaboo.ParseFitMode(cfg.Fit); !ok {
		return nil, fmt.Errorf("PEEKABOO_FIT: unknown fit mode %q", cfg.Fit)
	}
	if cfg.Seconds <= 0 {
		return nil, fmt.Errorf("PEEKABOO_SECONDS: must be positive, got %d", cfg.Seconds)
	}
	return &cfg, nil
}

// CameraConfig maps the environment onto the camera policy.
func (c *Config) CameraConfig() peekaboo.CameraConfig {
	fit, _ := peekaboo.ParseFitMode(c.Fit)
	friction := c.Friction
	if friction == 0 {
		friction = -1
	}
	return peekaboo.CameraConfig{
		Fit:       fit,
		MaxZoom:   c.MaxZoom,
		WheelStep: c.WheelStep,
		Friction:  friction,
	}
}

// RunConfig maps the environment onto the window settings.
func (c *Config) RunConfig() peekaboo.RunConfig {
	return peekaboo.RunConfig{
		Title:        "Peekaboo",
		Width:        c.Width,
		Height:       c.Height,
		SidebarWidth: c.Sidebar,
		ShowHUD:      true,
		ShowFPS:      c.Debug,
	}
}
