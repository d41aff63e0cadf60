package peekaboo

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMarkerConcurrency = 4
	// defaultWheelSmooth spreads a wheel notch over 14 ticks at 60 TPS.
	defaultWheelSmooth = 14.0 / 60
)

// StageConfig configures a Stage. Zero values select defaults.
type StageConfig struct {
	Camera CameraConfig
	// Loader fetches the background and marker sprites. Defaults to FileLoader{}.
	Loader Loader
	// DragDeadZone is the pointer movement in pixels before a press becomes
	// a drag. Zero means 4.
	DragDeadZone float64
	// MarkerConcurrency bounds parallel sprite loads. Zero means 4.
	MarkerConcurrency int
	// FoundAlpha is the opacity of a found marker. Zero means DefaultFoundAlpha.
	FoundAlpha float64
	// FoundFade is the found fade in seconds. Zero means DefaultFoundFade,
	// negative snaps immediately.
	FoundFade float32
	// WheelSmooth eases each wheel notch in over this many seconds around
	// the cursor. Zero means 14 ticks at 60 TPS; negative zooms instantly.
	WheelSmooth float32
	// ScreenshotDir receives PNGs queued with Stage.Screenshot. Defaults to
	// "screenshots".
	ScreenshotDir string
}

func (cfg StageConfig) withDefaults() StageConfig {
	if cfg.Loader == nil {
		cfg.Loader = FileLoader{}
	}
	if !(cfg.DragDeadZone > 0) {
		cfg.DragDeadZone = defaultDragDeadZone
	}
	if cfg.MarkerConcurrency <= 0 {
		cfg.MarkerConcurrency = defaultMarkerConcurrency
	}
	if cfg.FoundAlpha == 0 {
		cfg.FoundAlpha = DefaultFoundAlpha
	}
	if cfg.FoundFade == 0 {
		cfg.FoundFade = DefaultFoundFade
	}
	if cfg.WheelSmooth == 0 {
		cfg.WheelSmooth = defaultWheelSmooth
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = defaultScreenshotDir
	}
	return cfg
}

// mountToken identifies one Mount call. Destroy or a newer Mount sets
// cancelled, and the loads it started see their context cancelled.
type mountToken struct {
	cancelled atomic.Bool
	cancel    context.CancelFunc
}

// Stage hosts one session on screen: the background world, the marker
// layer, the camera and the input pipeline that drives them.
//
// Mount may run on any goroutine. All other methods are meant for the game
// goroutine; they are serialized with Mount's final commit so a late load
// never writes into a destroyed stage. OnFound callbacks run with the stage
// locked and must not call back into it.
type Stage struct {
	mu  sync.Mutex
	cfg StageConfig
	cam *Camera

	session    *Session
	background image.Image
	bgTex      *ebiten.Image
	mount      *mountToken

	active bool
	debug  bool

	// Input state
	input        inputReader
	pointers     [maxPointers]pointerState
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	touchBuf     []touchPoint
	pinch        pinchState
	dragDeadZone float64

	injectMu    sync.Mutex
	injectQueue []syntheticEvent
	testRunner  *TestRunner

	screenshotQueue []string
}

// NewStage creates an empty, active stage.
func NewStage(cfg StageConfig) *Stage {
	cfg = cfg.withDefaults()
	return &Stage{
		cfg:          cfg,
		cam:          NewCamera(cfg.Camera),
		active:       true,
		input:        &ebitenInput{},
		dragDeadZone: cfg.DragDeadZone,
	}
}

// Mount loads the session's background and marker sprites and fits the
// camera to the background's natural size. It blocks until loading ends.
//
// A background failure returns an error matching ErrBackgroundLoad and
// leaves the camera uninitialized. A marker sprite failure is logged and
// skipped; that marker stays tappable. If the stage is destroyed, or
// mounted again, before loading ends, nothing is committed and Mount
// returns ErrDestroyed.
func (s *Stage) Mount(ctx context.Context, session *Session, viewport Rect) error {
	if session == nil {
		return fmt.Errorf("peekaboo: mount: nil session")
	}

	s.mu.Lock()
	s.teardown()
	tok := &mountToken{}
	ctx, tok.cancel = context.WithCancel(ctx)
	defer tok.cancel()
	s.mount = tok
	s.cam.beginFitting(viewport)
	loader := s.cfg.Loader
	limit := s.cfg.MarkerConcurrency
	s.mu.Unlock()

	markers := session.layer.markers
	sprites := make([]image.Image, len(markers))
	var bg image.Image

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit + 1)
	g.Go(func() error {
		src := session.Level.Background.Src
		img, err := loader.Load(gctx, src)
		if err == nil && img == nil {
			err = ErrEmptyWorld
		}
		if err != nil {
			return &AssetError{Src: src, Err: err, Background: true}
		}
		bg = img
		return nil
	})
	for i, m := range markers {
		src := m.Target.Sprite
		if src == "" {
			continue
		}
		g.Go(func() error {
			img, err := loader.Load(gctx, src)
			if err != nil {
				if gctx.Err() == nil {
					logger.Warn("peekaboo: marker sprite failed, drawing without it",
						"session", session.ID, "target", m.Target.ID, "src", src, "error", err)
				}
				return nil
			}
			sprites[i] = img
			return nil
		})
	}
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.cancelled.Load() || s.mount != tok {
		return ErrDestroyed
	}
	if err != nil {
		s.mount = nil
		s.cam.Destroy()
		logger.Error("peekaboo: world failed to load", "session", session.ID, "error", err)
		return err
	}

	b := bg.Bounds()
	if err := s.cam.Initialize(float64(b.Dx()), float64(b.Dy()), s.cam.Viewport()); err != nil {
		s.mount = nil
		s.cam.Destroy()
		return fmt.Errorf("peekaboo: mount %s: %w", session.Level.Background.Src, err)
	}
	s.session = session
	s.background = bg
	session.layer.SetFoundStyle(s.cfg.FoundAlpha, s.cfg.FoundFade)
	for i, img := range sprites {
		if img != nil {
			session.layer.SetSprite(markers[i].Target.ID, img)
		}
	}
	logger.Info("peekaboo: stage mounted",
		"session", session.ID, "seed", session.Seed,
		"world", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), "targets", len(markers))
	return nil
}

// teardown cancels any in-flight mount and releases the mounted session.
// Caller holds s.mu.
func (s *Stage) teardown() {
	if s.mount != nil {
		s.mount.cancelled.Store(true)
		s.mount.cancel()
		s.mount = nil
	}
	if s.bgTex != nil {
		s.bgTex.Deallocate()
		s.bgTex = nil
	}
	s.background = nil
	if s.session != nil {
		s.session.layer.releaseTextures()
		s.session = nil
	}
	s.cam.Destroy()
	s.pointers = [maxPointers]pointerState{}
	s.touchUsed = [maxPointers]bool{}
	s.pinch = pinchState{}
}

// Destroy cancels any in-flight Mount, releases textures and returns the
// camera to StateUninitialized. Safe to call repeatedly and concurrently
// with Mount. The stage can be mounted again afterwards.
func (s *Stage) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardown()
}

// Resize records a new screen-space viewport.
func (s *Stage) Resize(viewport Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam.Resize(viewport)
}

// Update processes input and advances animations by one tick.
func (s *Stage) Update() {
	dt := float32(1.0 / float64(ebiten.TPS()))
	// Scripts start once the world is on screen.
	if r := s.testRunner; r != nil && s.interactive() {
		r.step(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.processInput()
	s.cam.Update(dt)
	if s.session != nil {
		s.session.layer.Update(dt)
	}
}

func (s *Stage) interactive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil && s.cam.State() == StateInteractive
}

// Draw renders the world and markers into the viewport area of screen.
func (s *Stage) Draw(screen *ebiten.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draw(screen)
}

// Tap resolves a screen-space tap. It reports the found character's id, or
// false when the tap missed, landed outside the viewport, or the stage is
// inactive or not mounted.
func (s *Stage) Tap(sx, sy float64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tap(sx, sy)
}

func (s *Stage) tap(sx, sy float64) (string, bool) {
	if !s.active || s.session == nil || s.cam.State() != StateInteractive {
		return "", false
	}
	if !s.cam.Viewport().Contains(sx, sy) {
		return "", false
	}
	wx, wy := s.cam.ScreenToWorld(sx, sy)
	id, ok := s.session.layer.Tap(Vec2{X: wx, Y: wy})
	if s.debug {
		s.debugTap(sx, sy, wx, wy, id, ok)
	}
	return id, ok
}

// ApplyGesture forwards a gesture to the camera.
func (s *Stage) ApplyGesture(g Gesture) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyGesture(g)
}

func (s *Stage) applyGesture(g Gesture) bool {
	ok := s.cam.ApplyGesture(g)
	if ok && s.debug {
		s.debugGesture(g)
	}
	return ok
}

// ZoomBy zooms around the viewport center, as the zoom buttons do.
func (s *Stage) ZoomBy(factor float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cam.ZoomBy(factor)
}

// AnimateZoom eases toward the zoom a ZoomBy(factor) would reach over
// duration seconds.
func (s *Stage) AnimateZoom(factor float64, duration float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cam.AnimateZoom(factor, duration, ease.InOutQuad)
}

// SetActive enables or disables tap processing. Navigation stays enabled.
func (s *Stage) SetActive(active bool) {
	s.mu.Lock()
	s.active = active
	s.mu.Unlock()
}

// Active reports whether taps are processed.
func (s *Stage) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetDebugMode enables per-gesture and per-tap debug logging.
func (s *Stage) SetDebugMode(enabled bool) {
	s.mu.Lock()
	s.debug = enabled
	s.mu.Unlock()
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (s *Stage) SetDragDeadZone(pixels float64) {
	s.mu.Lock()
	s.dragDeadZone = pixels
	s.mu.Unlock()
}

// Viewport returns the current screen-space viewport.
func (s *Stage) Viewport() Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cam.Viewport()
}

// CameraView is a snapshot of the camera taken under the stage lock.
type CameraView struct {
	State    CameraState
	Scale    float64
	MinScale float64
	MaxScale float64
	Pan      Vec2
	Visible  Rect
	Viewport Rect
}

// View returns a consistent snapshot of the camera. Unlike Camera it is
// safe to call while a Mount is committing on another goroutine.
func (s *Stage) View() CameraView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CameraView{
		State:    s.cam.State(),
		Scale:    s.cam.Scale(),
		MinScale: s.cam.MinScale(),
		MaxScale: s.cam.MaxScale(),
		Pan:      s.cam.Pan(),
		Visible:  s.cam.VisibleBounds(),
		Viewport: s.cam.Viewport(),
	}
}

// Camera returns the stage camera. Its methods are not synchronized with
// the stage, so a Mount committing on another goroutine races with reads
// through it. Use it from the game goroutine once Mount has returned, and
// View elsewhere.
func (s *Stage) Camera() *Camera {
	return s.cam
}

// Session returns the mounted session, or nil.
func (s *Stage) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Progress returns found and total counts of the mounted session.
func (s *Stage) Progress() (found, total int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return 0, 0, ErrNotMounted
	}
	found, total = s.session.layer.Progress()
	return found, total, nil
}
