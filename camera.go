package peekaboo

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// DefaultMaxZoom is the default maximum scale as a multiple of the fitted
	// minimum scale.
	DefaultMaxZoom = 2.2
	// DefaultWheelStep is the default relative zoom change per wheel notch.
	DefaultWheelStep = 0.12
	// DefaultFriction is the fraction of glide velocity kept per 1/60 s
	// after a drag is released.
	DefaultFriction = 0.95

	// minGlideSpeed stops a glide, in screen pixels per second.
	minGlideSpeed = 10.0
)

// CameraConfig holds the fit and zoom policy of a Camera.
type CameraConfig struct {
	// Fit selects cover (no blank edges) or contain (letterboxed) framing.
	Fit FitMode
	// MaxZoom is the maximum scale as a multiple of the minimum scale.
	// Zero means DefaultMaxZoom; values below 1 are raised to 1.
	MaxZoom float64
	// WheelStep is the relative zoom per wheel notch (0.12 = 12%).
	// Zero means DefaultWheelStep.
	WheelStep float64
	// Underflow positions the world on an axis where it is smaller than
	// the visible area.
	Underflow Underflow
	// Friction is the fraction of glide velocity kept per 1/60 s after a
	// released drag. Zero means DefaultFriction; negative or >= 1 turns
	// gliding off.
	Friction float64
}

func (cfg CameraConfig) withDefaults() CameraConfig {
	if !(cfg.MaxZoom > 0) || math.IsInf(cfg.MaxZoom, 0) {
		cfg.MaxZoom = DefaultMaxZoom
	}
	if cfg.MaxZoom < 1 {
		cfg.MaxZoom = 1
	}
	if !(cfg.WheelStep > 0) || math.IsInf(cfg.WheelStep, 0) {
		cfg.WheelStep = DefaultWheelStep
	}
	if cfg.Friction == 0 {
		cfg.Friction = DefaultFriction
	}
	if cfg.Underflow == UnderflowAuto {
		if cfg.Fit == FitContain {
			cfg.Underflow = UnderflowCenter
		} else {
			cfg.Underflow = UnderflowTopLeft
		}
	}
	return cfg
}

// Gesture is one unit of user navigation input in screen space.
type Gesture struct {
	Kind GestureKind
	// DeltaX and DeltaY are the screen-space pointer movement (GestureDrag).
	DeltaX, DeltaY float64
	// Factor is the multiplicative scale change (GesturePinch).
	Factor float64
	// Notches is the wheel movement; positive zooms in (GestureWheel).
	Notches float64
	// FocusX and FocusY are the screen-space focal point (GesturePinch, GestureWheel).
	FocusX, FocusY float64
}

// DragGesture returns a pan gesture for a screen-space pointer delta.
func DragGesture(dx, dy float64) Gesture {
	return Gesture{Kind: GestureDrag, DeltaX: dx, DeltaY: dy}
}

// PinchGesture returns a zoom gesture around a screen focal point.
func PinchGesture(factor, focusX, focusY float64) Gesture {
	return Gesture{Kind: GesturePinch, Factor: factor, FocusX: focusX, FocusY: focusY}
}

// WheelGesture returns a wheel zoom gesture around a screen focal point.
func WheelGesture(notches, focusX, focusY float64) Gesture {
	return Gesture{Kind: GestureWheel, Notches: notches, FocusX: focusX, FocusY: focusY}
}

// zoomAnim holds an active animated zoom.
type zoomAnim struct {
	tween       *gween.Tween
	focalWorld  Vec2
	focalScreen Vec2
	target      float64
	// wheel is set for smoothed wheel zoom; further notches compound on
	// target instead of restarting from the current scale.
	wheel bool
}

// Camera owns the world-to-screen transform of a Stage: a pan offset (the
// world point at the viewport's top-left corner) and a uniform scale.
// Transform state changes only through Initialize, Resize, ApplyGesture,
// ZoomBy, ZoomAround, Destroy and the Update step of AnimateZoom,
// AnimateWheel and Fling; every one of them ends with the same clamp step,
// so the scale stays within [MinScale, MaxScale] and the visible rectangle
// never leaves the world on an anchored edge.
//
// A Camera is not safe for concurrent use.
type Camera struct {
	cfg   CameraConfig
	state CameraState

	world    Rect
	viewport Rect

	pan      Vec2
	scale    float64
	minScale float64
	maxScale float64

	interacted bool

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	zoomTween *zoomAnim
	// velocity is the glide speed in screen pixels per second.
	velocity Vec2
}

// NewCamera creates an uninitialized Camera with the given policy.
func NewCamera(cfg CameraConfig) *Camera {
	return &Camera{
		cfg:      cfg.withDefaults(),
		scale:    1,
		minScale: 1,
		maxScale: 1,
		dirty:    true,
	}
}

// Initialize sets the world size and viewport and applies the initial
// framing: scale = MinScale with the world's top-left corner on the
// viewport's top-left corner (cover) or the world centered (contain).
// If the viewport has no area yet the camera stays in StateFitting and
// the framing is applied by the first Resize with a usable size.
func (c *Camera) Initialize(worldW, worldH float64, viewport Rect) error {
	if !(worldW > 0) || !(worldH > 0) {
		return ErrEmptyWorld
	}
	c.world = Rect{Width: worldW, Height: worldH}
	c.viewport = viewport
	c.interacted = false
	c.zoomTween = nil
	c.velocity = Vec2{}
	c.state = StateFitting
	c.applyFit()
	return nil
}

// beginFitting marks the camera as waiting for its world. Resizes are
// recorded but no fit is applied until Initialize.
func (c *Camera) beginFitting(viewport Rect) {
	c.Destroy()
	c.state = StateFitting
	c.viewport = viewport
}

// Resize records a new viewport. Zoom bounds are recomputed and the scale
// is clamped into them. Until the user has navigated, the initial framing
// is re-applied; afterwards only the clamp runs, so the view is not pulled
// back. Repeated calls with the same viewport leave the state unchanged.
func (c *Camera) Resize(viewport Rect) {
	c.viewport = viewport
	c.dirty = true
	if c.state == StateUninitialized {
		return
	}
	c.applyFit()
}

// applyFit recomputes zoom bounds and framing. A zero-sized world or
// viewport defers the fit.
func (c *Camera) applyFit() {
	if c.world.Empty() || c.viewport.Empty() {
		return
	}
	wRatio := c.viewport.Width / c.world.Width
	hRatio := c.viewport.Height / c.world.Height
	base := math.Max(wRatio, hRatio)
	if c.cfg.Fit == FitContain {
		base = math.Min(wRatio, hRatio)
	}
	c.minScale = base
	c.maxScale = base * c.cfg.MaxZoom

	if !c.interacted {
		c.scale = c.minScale
		c.anchor()
	}
	c.clamp()
	c.state = StateInteractive
}

// anchor applies the initial pan for the fit mode.
func (c *Camera) anchor() {
	switch c.cfg.Fit {
	case FitContain:
		visW, visH := c.visibleSize()
		c.pan = Vec2{X: (c.world.Width - visW) / 2, Y: (c.world.Height - visH) / 2}
	default:
		c.pan = Vec2{}
	}
	c.dirty = true
}

// clamp constrains scale into [minScale, maxScale] and then pan into the
// world. Both steps depend only on the current state, so clamp is
// idempotent.
func (c *Camera) clamp() {
	c.scale = clamp(c.scale, c.minScale, c.maxScale)
	c.clampPan()
	c.dirty = true
}

// clampPan keeps the visible rectangle inside the world on each axis.
// On an axis where the world is smaller than the visible area the
// Underflow policy decides where the world sits.
func (c *Camera) clampPan() {
	visW, visH := c.visibleSize()
	c.pan.X = clampAxis(c.pan.X, visW, c.world.Width, c.cfg.Underflow)
	c.pan.Y = clampAxis(c.pan.Y, visH, c.world.Height, c.cfg.Underflow)
}

func clampAxis(p, visible, extent float64, u Underflow) float64 {
	if visible >= extent {
		if u == UnderflowCenter {
			return (extent - visible) / 2
		}
		return 0
	}
	return clamp(p, 0, extent-visible)
}

// visibleSize returns the viewport size in world units.
func (c *Camera) visibleSize() (w, h float64) {
	return c.viewport.Width / c.scale, c.viewport.Height / c.scale
}

// ApplyGesture applies a drag, pinch or wheel gesture, marks the camera as
// user-navigated, and clamps. It cancels a running AnimateZoom. Gestures
// are ignored unless the camera is interactive; the return value reports
// whether the gesture was applied.
func (c *Camera) ApplyGesture(g Gesture) bool {
	if c.state != StateInteractive {
		return false
	}
	switch g.Kind {
	case GestureDrag:
		c.pan.X -= g.DeltaX / c.scale
		c.pan.Y -= g.DeltaY / c.scale
	case GesturePinch:
		if !validFactor(g.Factor) {
			return false
		}
		c.zoomAroundScreen(g.Factor, g.FocusX, g.FocusY)
	case GestureWheel:
		factor := math.Pow(1+c.cfg.WheelStep, g.Notches)
		if !validFactor(factor) {
			return false
		}
		c.zoomAroundScreen(factor, g.FocusX, g.FocusY)
	default:
		return false
	}
	c.zoomTween = nil
	c.velocity = Vec2{}
	c.interacted = true
	c.clamp()
	return true
}

// ZoomBy zooms by factor around the world point at the viewport center.
// Factors above 1 zoom in, below 1 zoom out.
func (c *Camera) ZoomBy(factor float64) bool {
	cx, cy := c.viewportCenter()
	wx, wy := c.ScreenToWorld(cx, cy)
	return c.ZoomAround(factor, Vec2{X: wx, Y: wy})
}

// ZoomAround zooms by factor keeping the given world point at the same
// screen position, then clamps.
func (c *Camera) ZoomAround(factor float64, focal Vec2) bool {
	if c.state != StateInteractive || !validFactor(factor) {
		return false
	}
	sx, sy := c.WorldToScreen(focal.X, focal.Y)
	c.setScale(c.scale*factor, focal, Vec2{X: sx, Y: sy})
	c.zoomTween = nil
	c.velocity = Vec2{}
	c.interacted = true
	c.clamp()
	return true
}

// AnimateZoom tweens the scale toward the clamped scale*factor over
// duration seconds, around the viewport center. Advance it with Update.
func (c *Camera) AnimateZoom(factor float64, duration float32, easeFn ease.TweenFunc) bool {
	if c.state != StateInteractive || !validFactor(factor) {
		return false
	}
	cx, cy := c.viewportCenter()
	c.startZoom(c.scale*factor, cx, cy, duration, easeFn, false)
	return true
}

// AnimateWheel zooms by the wheel step for notches around the screen point
// (sx, sy), eased over duration seconds. Notches that arrive while a wheel
// zoom is running compound on its target. The world point under (sx, sy)
// stays put throughout.
func (c *Camera) AnimateWheel(notches, sx, sy float64, duration float32) bool {
	if c.state != StateInteractive {
		return false
	}
	factor := math.Pow(1+c.cfg.WheelStep, notches)
	if !validFactor(factor) {
		return false
	}
	target := c.scale * factor
	if z := c.zoomTween; z != nil && z.wheel {
		target = z.target * factor
	}
	c.startZoom(target, sx, sy, duration, ease.OutQuad, true)
	return true
}

func (c *Camera) startZoom(target, sx, sy float64, duration float32, easeFn ease.TweenFunc, wheel bool) {
	target = clamp(target, c.minScale, c.maxScale)
	wx, wy := c.ScreenToWorld(sx, sy)
	c.zoomTween = &zoomAnim{
		tween:       gween.New(float32(c.scale), float32(target), duration, easeFn),
		focalWorld:  Vec2{X: wx, Y: wy},
		focalScreen: Vec2{X: sx, Y: sy},
		target:      target,
		wheel:       wheel,
	}
	c.velocity = Vec2{}
	c.interacted = true
}

// Animating reports whether an AnimateZoom or AnimateWheel is in progress.
func (c *Camera) Animating() bool {
	return c.zoomTween != nil
}

// Fling starts a glide at a screen-space velocity in pixels per second, as
// left by a released drag. Update moves the view and decays the velocity
// by Friction; an axis that hits the world edge stops. Returns false when
// gliding is off or the speed is below the stop threshold.
func (c *Camera) Fling(vx, vy float64) bool {
	if c.state != StateInteractive || !(c.cfg.Friction > 0 && c.cfg.Friction < 1) {
		return false
	}
	if math.IsNaN(vx) || math.IsNaN(vy) || math.Hypot(vx, vy) < minGlideSpeed {
		return false
	}
	c.velocity = Vec2{X: vx, Y: vy}
	c.zoomTween = nil
	return true
}

// Gliding reports whether a released drag is still moving the view.
func (c *Camera) Gliding() bool {
	return c.velocity != (Vec2{})
}

// StopGlide halts a glide, as a new press does.
func (c *Camera) StopGlide() {
	c.velocity = Vec2{}
}

// Update advances a running zoom animation or glide by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.state != StateInteractive {
		return
	}
	if c.zoomTween != nil {
		val, done := c.zoomTween.tween.Update(dt)
		c.setScale(float64(val), c.zoomTween.focalWorld, c.zoomTween.focalScreen)
		c.clamp()
		if done {
			c.zoomTween = nil
		}
	}
	if c.velocity != (Vec2{}) {
		c.glide(float64(dt))
	}
}

func (c *Camera) glide(dt float64) {
	want := Vec2{
		X: c.pan.X - c.velocity.X*dt/c.scale,
		Y: c.pan.Y - c.velocity.Y*dt/c.scale,
	}
	c.pan = want
	c.clamp()
	if c.pan.X != want.X {
		c.velocity.X = 0
	}
	if c.pan.Y != want.Y {
		c.velocity.Y = 0
	}
	k := math.Pow(c.cfg.Friction, dt*60)
	c.velocity.X *= k
	c.velocity.Y *= k
	if math.Hypot(c.velocity.X, c.velocity.Y) < minGlideSpeed {
		c.velocity = Vec2{}
	}
}

// zoomAroundScreen scales around a screen-space focal point.
func (c *Camera) zoomAroundScreen(factor, sx, sy float64) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.setScale(c.scale*factor, Vec2{X: wx, Y: wy}, Vec2{X: sx, Y: sy})
}

// setScale sets the clamped scale and recomputes pan so that focalWorld
// projects to focalScreen.
func (c *Camera) setScale(scale float64, focalWorld, focalScreen Vec2) {
	c.scale = clamp(scale, c.minScale, c.maxScale)
	c.pan.X = focalWorld.X - (focalScreen.X-c.viewport.X)/c.scale
	c.pan.Y = focalWorld.Y - (focalScreen.Y-c.viewport.Y)/c.scale
	c.dirty = true
}

func validFactor(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}

func (c *Camera) viewportCenter() (float64, float64) {
	return c.viewport.X + c.viewport.Width/2, c.viewport.Y + c.viewport.Height/2
}

// Destroy returns the camera to StateUninitialized. Safe to call repeatedly.
func (c *Camera) Destroy() {
	*c = Camera{
		cfg:      c.cfg,
		scale:    1,
		minScale: 1,
		maxScale: 1,
		dirty:    true,
	}
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(viewport.X, viewport.Y) * Scale(scale) * Translate(-pan.X, -pan.Y)
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false
	c.viewMatrix = multiplyAffine(
		translateAffine(c.viewport.X, c.viewport.Y),
		multiplyAffine(scaleAffine(c.scale), translateAffine(-c.pan.X, -c.pan.Y)),
	)
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// ViewMatrix returns the world-to-screen affine matrix [a, b, c, d, tx, ty].
func (c *Camera) ViewMatrix() [6]float64 {
	return c.computeViewMatrix()
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.computeViewMatrix()
	sx, sy = transformPoint(c.viewMatrix, wx, wy)
	return
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	wx, wy = transformPoint(c.invViewMatrix, sx, sy)
	return
}

// VisibleBounds returns the world-space rectangle shown in the viewport.
func (c *Camera) VisibleBounds() Rect {
	w, h := c.visibleSize()
	return Rect{X: c.pan.X, Y: c.pan.Y, Width: w, Height: h}
}

// State returns the lifecycle state.
func (c *Camera) State() CameraState { return c.state }

// Scale returns the current world-to-screen scale.
func (c *Camera) Scale() float64 { return c.scale }

// Pan returns the world point at the viewport's top-left corner.
func (c *Camera) Pan() Vec2 { return c.pan }

// MinScale returns the fitted minimum scale.
func (c *Camera) MinScale() float64 { return c.minScale }

// MaxScale returns the maximum scale.
func (c *Camera) MaxScale() float64 { return c.maxScale }

// World returns the world rectangle, anchored at the origin.
func (c *Camera) World() Rect { return c.world }

// Viewport returns the screen-space viewport.
func (c *Camera) Viewport() Rect { return c.viewport }

// Interacted reports whether the user has navigated since Initialize.
func (c *Camera) Interacted() bool { return c.interacted }

// Config returns the effective configuration, defaults applied.
func (c *Camera) Config() CameraConfig { return c.cfg }
