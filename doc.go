// Package peekaboo is the camera and hit-testing core of a "spot the
// character" point-and-click game built on [Ebitengine].
//
// A player pans and zooms a background scene many times larger than the
// screen and taps on hidden characters. The package owns the parts of that
// game with real rules in them:
//
//   - geometry: point-in-rect, point-in-polygon (even-odd) and circle tests,
//     see [IsHit] and [Hitbox]
//   - target selection: one seeded random hiding spot per character and a
//     shuffled presentation order, see [PickTargets]
//   - the viewport camera: cover/contain fit, zoom and pan clamping,
//     focal-point zoom and screen/world conversion, see [Camera]
//   - hit resolution: topmost unfound marker wins, found events fire once,
//     see [Layer]
//
// # Quick start
//
//	level, err := peekaboo.LoadLevelFile("level.json")
//	if err != nil { ... }
//	session, err := peekaboo.NewSession(level, peekaboo.NewSessionSeed())
//	if err != nil { ... }
//
//	session.Layer().OnFound(func(e peekaboo.FoundEvent) {
//		fmt.Println("found", e.TargetID, e.Found, "/", e.Total)
//	})
//
//	stage := peekaboo.NewStage(peekaboo.StageConfig{
//		Loader: peekaboo.FileLoader{Root: "levels"},
//	})
//	cfg := peekaboo.RunConfig{Title: "Peekaboo", Width: 1280, Height: 720}
//	go stage.Mount(ctx, session, cfg.Viewport(cfg.Width, cfg.Height))
//	if err := peekaboo.Run(stage, cfg); err != nil { ... }
//
// Mount loads the background and sprites concurrently and makes the stage
// interactive when the background is ready. A failed sprite only hides
// that marker; a failed background fails the mount with [ErrBackgroundLoad].
//
// Mount, Destroy, Resize and all gesture handling are also available
// directly on [Stage] for hosts that implement [ebiten.Game] themselves.
//
// [Ebitengine]: https://ebitengine.org
package peekaboo
