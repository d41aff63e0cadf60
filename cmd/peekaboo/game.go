package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"

	"github.com/phanxgames/peekaboo"
	"github.com/phanxgames/peekaboo/audio"
	"github.com/phanxgames/peekaboo/ecs"
)

// controller owns the session lifecycle around a Stage: mounting, the
// countdown, end of game, and restarts when the level file changes.
type controller struct {
	ctx   context.Context
	cfg   *Config
	stage *peekaboo.Stage
	chime *audio.Chime

	// world queues found events from the layer until the next tick.
	world donburi.World

	// runner is set when a test script drives the game; the window closes
	// once it is done.
	runner *peekaboo.TestRunner

	// reload is nil unless the level file is watched.
	reload <-chan struct{}
	mounts chan error

	session  *peekaboo.Session
	deadline time.Time
	started  bool
	status   string
	// lastFound names the most recent find for the HUD.
	lastFound string
}

func newController(ctx context.Context, cfg *Config, stage *peekaboo.Stage, chime *audio.Chime) *controller {
	c := &controller{
		ctx:    ctx,
		cfg:    cfg,
		stage:  stage,
		chime:  chime,
		world:  donburi.NewWorld(),
		mounts: make(chan error, 1),
	}
	ecs.FoundEventType.Subscribe(c.world, c.onFound)
	return c
}

// start loads the level, picks a session and mounts it in the background.
func (c *controller) start() error {
	level, err := peekaboo.LoadLevelFile(c.cfg.Level)
	if err != nil {
		return err
	}
	seed := c.cfg.Seed
	if seed == 0 {
		seed = peekaboo.NewSessionSeed()
	}
	session, err := peekaboo.NewSession(level, seed)
	if err != nil {
		return err
	}
	session.Layer().SetEventSink(ecs.NewDonburiSink(c.world))

	c.session = session
	c.started = false
	c.lastFound = ""
	c.status = "Loading..."
	slog.Info("session starting", "session", session.ID, "seed", seed, "level", c.cfg.Level)

	viewport := c.cfg.RunConfig().Viewport(c.cfg.Width, c.cfg.Height)
	go func() {
		c.mounts <- c.stage.Mount(c.ctx, session, viewport)
	}()
	return nil
}

func (c *controller) onFound(_ donburi.World, e peekaboo.FoundEvent) {
	slog.Info("found", "target", e.TargetID, "name", e.Name, "found", e.Found, "total", e.Total)
	c.lastFound = e.Name
	if c.chime != nil {
		c.chime.OnFound(e)
	}
}

// update runs once per tick before the stage.
func (c *controller) update() error {
	if c.runner != nil && c.runner.Done() {
		slog.Info("test script finished")
		return ebiten.Termination
	}
	ecs.FoundEventType.ProcessEvents(c.world)
	select {
	case err := <-c.mounts:
		c.mounted(err)
	default:
	}

	if c.reload != nil {
		select {
		case <-c.reload:
			slog.Info("level changed, restarting", "level", c.cfg.Level)
			c.stage.Destroy()
			if err := c.start(); err != nil {
				// Keep the window open so the level can be fixed and saved again.
				slog.Error("reload failed", "error", err)
				c.status = fmt.Sprintf("Level error:\n%v", err)
			}
		default:
		}
	}

	if !c.started || !c.stage.Active() {
		return nil
	}
	found, total, err := c.stage.Progress()
	if err != nil {
		return nil
	}
	switch {
	case found == total:
		c.stage.SetActive(false)
		elapsed := time.Duration(c.cfg.Seconds)*time.Second - time.Until(c.deadline)
		c.status = fmt.Sprintf("All found in %s!", elapsed.Round(time.Second))
		slog.Info("session complete", "session", c.session.ID, "elapsed", elapsed)
	case time.Now().After(c.deadline):
		c.stage.SetActive(false)
		c.status = "Time's up!"
		slog.Info("session timed out", "session", c.session.ID, "found", found, "total", total)
	}
	return nil
}

func (c *controller) mounted(err error) {
	switch {
	case err == nil:
		c.started = true
		c.deadline = time.Now().Add(time.Duration(c.cfg.Seconds) * time.Second)
		c.stage.SetActive(true)
		c.status = ""
	case errors.Is(err, peekaboo.ErrDestroyed):
		// Superseded by a reload.
	case errors.Is(err, peekaboo.ErrBackgroundLoad):
		c.status = fmt.Sprintf("Could not load world:\n%v", err)
	default:
		c.status = fmt.Sprintf("Error:\n%v", err)
	}
}

func (c *controller) hudText() string {
	if !c.started {
		return c.status
	}
	text := fmt.Sprintf("Time %s", max(time.Until(c.deadline), 0).Round(time.Second))
	if c.lastFound != "" {
		text += "\nFound: " + c.lastFound
	}
	if c.status != "" {
		text += "\n\n" + c.status
	}
	return text
}
