package peekaboo

import (
	"errors"
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

// newCoverCamera frames a 2000x1000 world in a 1000x1000 viewport.
func newCoverCamera(t *testing.T) *Camera {
	t.Helper()
	cam := NewCamera(CameraConfig{})
	if err := cam.Initialize(2000, 1000, Rect{Width: 1000, Height: 1000}); err != nil {
		t.Fatal(err)
	}
	return cam
}

func assertRect(t *testing.T, name string, got, want Rect) {
	t.Helper()
	if !approxEqual(got.X, want.X, 1e-6) || !approxEqual(got.Y, want.Y, 1e-6) ||
		!approxEqual(got.Width, want.Width, 1e-6) || !approxEqual(got.Height, want.Height, 1e-6) {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

// assertCameraBounds checks the scale range and, for cover fit, that the
// visible rectangle stays inside the world.
func assertCameraBounds(t *testing.T, cam *Camera) {
	t.Helper()
	s := cam.Scale()
	if s < cam.MinScale()-epsilon || s > cam.MaxScale()+epsilon {
		t.Fatalf("scale %v outside [%v, %v]", s, cam.MinScale(), cam.MaxScale())
	}
	if cam.Config().Fit != FitCover {
		return
	}
	vis := cam.VisibleBounds()
	w := cam.World()
	if vis.X < -1e-9 || vis.Y < -1e-9 {
		t.Fatalf("visible %+v starts before the world origin", vis)
	}
	if vis.X+vis.Width > w.Width+1e-6 || vis.Y+vis.Height > w.Height+1e-6 {
		t.Fatalf("visible %+v extends past world %+v", vis, w)
	}
}

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera(CameraConfig{})
	if cam.State() != StateUninitialized {
		t.Errorf("State = %v, want uninitialized", cam.State())
	}
	cfg := cam.Config()
	if cfg.Fit != FitCover || cfg.MaxZoom != DefaultMaxZoom || cfg.WheelStep != DefaultWheelStep {
		t.Errorf("Config = %+v", cfg)
	}
	if cfg.Underflow != UnderflowTopLeft {
		t.Errorf("cover underflow = %v, want top-left", cfg.Underflow)
	}
	if c := NewCamera(CameraConfig{Fit: FitContain}).Config(); c.Underflow != UnderflowCenter {
		t.Errorf("contain underflow = %v, want center", c.Underflow)
	}
}

func TestCameraInitializeCover(t *testing.T) {
	cam := newCoverCamera(t)

	if cam.State() != StateInteractive {
		t.Fatalf("State = %v, want interactive", cam.State())
	}
	assertNear(t, "minScale", cam.MinScale(), 1)
	assertNear(t, "scale", cam.Scale(), 1)
	assertNear(t, "maxScale", cam.MaxScale(), DefaultMaxZoom)
	assertRect(t, "visible", cam.VisibleBounds(), Rect{Width: 1000, Height: 1000})
	if cam.Interacted() {
		t.Error("Interacted should be false after Initialize")
	}
}

func TestCameraInitializeContain(t *testing.T) {
	cam := NewCamera(CameraConfig{Fit: FitContain})
	if err := cam.Initialize(2000, 1000, Rect{Width: 1000, Height: 1000}); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "minScale", cam.MinScale(), 0.5)
	// Whole world visible, centered vertically.
	assertRect(t, "visible", cam.VisibleBounds(), Rect{X: 0, Y: -500, Width: 2000, Height: 2000})
	sx, sy := cam.WorldToScreen(1000, 500)
	assertNear(t, "center x", sx, 500)
	assertNear(t, "center y", sy, 500)
}

func TestCameraContainTopLeftUnderflow(t *testing.T) {
	cam := NewCamera(CameraConfig{Fit: FitContain, Underflow: UnderflowTopLeft})
	if err := cam.Initialize(2000, 1000, Rect{Width: 1000, Height: 1000}); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "pan y", cam.Pan().Y, 0)
}

func TestCameraMaxZoomConfig(t *testing.T) {
	tests := []struct {
		name    string
		maxZoom float64
		want    float64
	}{
		{"default", 0, DefaultMaxZoom},
		{"four", 4, 4},
		{"below one", 0.5, 1},
		{"negative", -3, DefaultMaxZoom},
		{"nan", math.NaN(), DefaultMaxZoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(CameraConfig{MaxZoom: tt.maxZoom})
			if err := cam.Initialize(2000, 1000, Rect{Width: 1000, Height: 1000}); err != nil {
				t.Fatal(err)
			}
			assertNear(t, "maxScale", cam.MaxScale(), tt.want)
			if cam.MinScale() > cam.MaxScale() {
				t.Errorf("minScale %v > maxScale %v", cam.MinScale(), cam.MaxScale())
			}
		})
	}
}

func TestCameraInitializeEmptyWorld(t *testing.T) {
	cam := NewCamera(CameraConfig{})
	err := cam.Initialize(0, 1000, Rect{Width: 1000, Height: 1000})
	if !errors.Is(err, ErrEmptyWorld) {
		t.Fatalf("err = %v, want ErrEmptyWorld", err)
	}
	if cam.State() != StateUninitialized {
		t.Errorf("State = %v, want uninitialized", cam.State())
	}
}

func TestCameraZeroViewportDefersFit(t *testing.T) {
	cam := NewCamera(CameraConfig{})
	if err := cam.Initialize(2000, 1000, Rect{}); err != nil {
		t.Fatal(err)
	}
	if cam.State() != StateFitting {
		t.Fatalf("State = %v, want fitting", cam.State())
	}
	if cam.ApplyGesture(DragGesture(10, 10)) {
		t.Error("gesture should be ignored while fitting")
	}
	if cam.ZoomBy(2) {
		t.Error("ZoomBy should be ignored while fitting")
	}

	cam.Resize(Rect{Width: 1000, Height: 1000})
	if cam.State() != StateInteractive {
		t.Fatalf("State = %v, want interactive", cam.State())
	}
	assertNear(t, "scale", cam.Scale(), 1)
}

func TestCameraGestureBeforeInitialize(t *testing.T) {
	cam := NewCamera(CameraConfig{})
	if cam.ApplyGesture(WheelGesture(1, 0, 0)) || cam.ZoomBy(2) || cam.AnimateZoom(2, 1, ease.Linear) {
		t.Error("uninitialized camera should ignore navigation")
	}
}

func TestCameraDrag(t *testing.T) {
	cam := newCoverCamera(t)

	if !cam.ApplyGesture(DragGesture(-100, 0)) {
		t.Fatal("drag not applied")
	}
	assertNear(t, "pan x", cam.Pan().X, 100)
	if !cam.Interacted() {
		t.Error("drag should set Interacted")
	}

	// Dragging right past the world's left edge clamps.
	cam.ApplyGesture(DragGesture(500, 0))
	assertNear(t, "clamped pan x", cam.Pan().X, 0)

	// At min zoom the world exactly fills the viewport vertically.
	cam.ApplyGesture(DragGesture(0, -300))
	assertNear(t, "pan y", cam.Pan().Y, 0)
}

func TestCameraDragScalesWithZoom(t *testing.T) {
	cam := newCoverCamera(t)
	cam.ZoomBy(2)
	before := cam.Pan()
	cam.ApplyGesture(DragGesture(-100, -50))
	assertNear(t, "pan x", cam.Pan().X, before.X+50)
	assertNear(t, "pan y", cam.Pan().Y, before.Y+25)
}

func TestCameraFocalInvariance(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		fx, fy float64
	}{
		{"zoom in off-center", 1.2, 300, 400},
		{"zoom out", 0.8, 600, 500},
		{"small step", 1.01, 10, 990},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newCoverCamera(t)
			cam.ZoomBy(1.5)

			wx, wy := cam.ScreenToWorld(tt.fx, tt.fy)
			if !cam.ZoomAround(tt.factor, Vec2{X: wx, Y: wy}) {
				t.Fatal("ZoomAround not applied")
			}
			sx, sy := cam.WorldToScreen(wx, wy)
			if !approxEqual(sx, tt.fx, 1e-6) || !approxEqual(sy, tt.fy, 1e-6) {
				t.Errorf("focal point moved: (%v,%v) -> (%v,%v)", tt.fx, tt.fy, sx, sy)
			}
		})
	}
}

func TestCameraPinchAndWheelKeepFocus(t *testing.T) {
	gestures := []Gesture{
		PinchGesture(1.2, 300, 400),
		WheelGesture(1, 300, 400),
		WheelGesture(-1, 300, 400),
	}
	for _, g := range gestures {
		t.Run(g.Kind.String(), func(t *testing.T) {
			cam := newCoverCamera(t)
			cam.ZoomBy(1.5)
			wx, wy := cam.ScreenToWorld(300, 400)
			cam.ApplyGesture(g)
			ax, ay := cam.ScreenToWorld(300, 400)
			if !approxEqual(ax, wx, 1e-6) || !approxEqual(ay, wy, 1e-6) {
				t.Errorf("world under focus moved: (%v,%v) -> (%v,%v)", wx, wy, ax, ay)
			}
		})
	}
}

func TestCameraWheelFactor(t *testing.T) {
	cam := newCoverCamera(t)
	cam.ApplyGesture(WheelGesture(2, 500, 500))
	assertNear(t, "scale", cam.Scale(), math.Pow(1+DefaultWheelStep, 2))

	custom := NewCamera(CameraConfig{WheelStep: 0.5})
	if err := custom.Initialize(2000, 1000, Rect{Width: 1000, Height: 1000}); err != nil {
		t.Fatal(err)
	}
	custom.ApplyGesture(WheelGesture(1, 500, 500))
	assertNear(t, "custom scale", custom.Scale(), 1.5)
}

func TestCameraZoomRoundTrip(t *testing.T) {
	cam := newCoverCamera(t)
	cam.ZoomBy(2)
	assertNear(t, "scale after zoom in", cam.Scale(), 2)
	cam.ZoomBy(0.5)
	assertNear(t, "scale", cam.Scale(), 1)
	assertNear(t, "pan x", cam.Pan().X, 0)
	assertNear(t, "pan y", cam.Pan().Y, 0)
}

func TestCameraZoomClamps(t *testing.T) {
	cam := newCoverCamera(t)
	cam.ZoomBy(100)
	assertNear(t, "max", cam.Scale(), cam.MaxScale())
	cam.ZoomBy(0.001)
	assertNear(t, "min", cam.Scale(), cam.MinScale())
}

func TestCameraInvalidFactors(t *testing.T) {
	for _, f := range []float64{0, -1, math.Inf(1), math.NaN()} {
		cam := newCoverCamera(t)
		if cam.ZoomBy(f) {
			t.Errorf("ZoomBy(%v) applied", f)
		}
		if cam.ApplyGesture(PinchGesture(f, 500, 500)) {
			t.Errorf("pinch factor %v applied", f)
		}
		assertNear(t, "scale", cam.Scale(), 1)
		if cam.Interacted() {
			t.Errorf("factor %v marked the camera as interacted", f)
		}
	}
}

func TestCameraClampIdempotent(t *testing.T) {
	cam := newCoverCamera(t)
	steps := []Gesture{
		PinchGesture(1.7, 200, 800),
		DragGesture(-350, 120),
		WheelGesture(-2, 900, 100),
		DragGesture(4000, -4000),
		PinchGesture(3, 1000, 1000),
	}
	for i, g := range steps {
		cam.ApplyGesture(g)
		scale, pan := cam.Scale(), cam.Pan()
		cam.clamp()
		if cam.Scale() != scale || cam.Pan() != pan {
			t.Fatalf("step %d: clamp changed state: %v %v -> %v %v", i, scale, pan, cam.Scale(), cam.Pan())
		}
		cam.clamp()
		if cam.Scale() != scale || cam.Pan() != pan {
			t.Fatalf("step %d: second clamp changed state", i)
		}
	}
}

func TestCameraBoundsInvariant(t *testing.T) {
	cam := newCoverCamera(t)
	ops := []func(){
		func() { cam.ApplyGesture(PinchGesture(100, 0, 0)) },
		func() { cam.ApplyGesture(DragGesture(-1e6, -1e6)) },
		func() { cam.ApplyGesture(WheelGesture(-50, 500, 500)) },
		func() { cam.Resize(Rect{Width: 640, Height: 360}) },
		func() { cam.ApplyGesture(DragGesture(1e6, 1e6)) },
		func() { cam.ZoomBy(1.3) },
		func() { cam.Resize(Rect{X: 240, Width: 3000, Height: 900}) },
		func() { cam.ApplyGesture(PinchGesture(0.01, 3000, 900)) },
		func() { cam.Resize(Rect{Width: 1000, Height: 1000}) },
	}
	for _, op := range ops {
		op()
		assertCameraBounds(t, cam)
	}
}

func TestCameraScreenWorldRoundTrip(t *testing.T) {
	cam := NewCamera(CameraConfig{})
	if err := cam.Initialize(2000, 1000, Rect{X: 240, Y: 30, Width: 1000, Height: 700}); err != nil {
		t.Fatal(err)
	}
	cam.ApplyGesture(PinchGesture(1.8, 700, 400))
	cam.ApplyGesture(DragGesture(-130, 45))

	vis := cam.VisibleBounds()
	for _, p := range []Vec2{
		{vis.X, vis.Y},
		{vis.X + vis.Width/3, vis.Y + vis.Height/2},
		{vis.X + vis.Width, vis.Y + vis.Height},
	} {
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		wx, wy := cam.ScreenToWorld(sx, sy)
		if !approxEqual(wx, p.X, 1e-9) || !approxEqual(wy, p.Y, 1e-9) {
			t.Errorf("round trip %v -> (%v,%v)", p, wx, wy)
		}
	}
}

func TestCameraViewportOffset(t *testing.T) {
	cam := NewCamera(CameraConfig{})
	if err := cam.Initialize(2000, 1000, Rect{X: 240, Width: 1000, Height: 1000}); err != nil {
		t.Fatal(err)
	}
	sx, sy := cam.WorldToScreen(0, 0)
	assertNear(t, "origin x", sx, 240)
	assertNear(t, "origin y", sy, 0)
	assertMatrix(t, "view", cam.ViewMatrix(), [6]float64{1, 0, 0, 1, 240, 0})
}

func TestCameraResizeBeforeInteraction(t *testing.T) {
	cam := newCoverCamera(t)
	cam.Resize(Rect{Width: 4000, Height: 1000})
	assertNear(t, "minScale", cam.MinScale(), 2)
	assertNear(t, "scale", cam.Scale(), 2)
	assertNear(t, "pan x", cam.Pan().X, 0)
	assertNear(t, "pan y", cam.Pan().Y, 0)

	cam.Resize(Rect{Width: 1000, Height: 1000})
	assertNear(t, "scale after shrinking back", cam.Scale(), 1)
}

func TestCameraResizeAfterInteraction(t *testing.T) {
	cam := newCoverCamera(t)
	cam.ZoomBy(2)
	pan := cam.Pan()

	cam.Resize(Rect{Width: 1000, Height: 1000})
	assertNear(t, "scale kept", cam.Scale(), 2)
	if cam.Pan() != pan {
		t.Errorf("pan moved from %v to %v", pan, cam.Pan())
	}

	// New bounds: min 0.8, max 1.76. Scale clamps, pan stays.
	cam.Resize(Rect{Width: 800, Height: 800})
	assertNear(t, "clamped scale", cam.Scale(), 0.8*DefaultMaxZoom)
	assertNear(t, "pan x", cam.Pan().X, pan.X)
	assertNear(t, "pan y", cam.Pan().Y, pan.Y)
}

func TestCameraResizeIdempotent(t *testing.T) {
	cam := newCoverCamera(t)
	cam.ApplyGesture(PinchGesture(1.4, 100, 100))
	vp := Rect{Width: 900, Height: 700}
	cam.Resize(vp)
	scale, pan := cam.Scale(), cam.Pan()
	for i := 0; i < 100; i++ {
		cam.Resize(vp)
	}
	if cam.Scale() != scale || cam.Pan() != pan {
		t.Errorf("repeated resize drifted: %v %v -> %v %v", scale, pan, cam.Scale(), cam.Pan())
	}
}

func TestCameraAnimateZoom(t *testing.T) {
	cam := newCoverCamera(t)
	if !cam.AnimateZoom(2, 1, ease.Linear) {
		t.Fatal("AnimateZoom = false")
	}
	if !cam.Animating() {
		t.Fatal("Animating = false")
	}

	cam.Update(0.5)
	assertNear(t, "halfway", cam.Scale(), 1.5)
	wx, wy := cam.ScreenToWorld(500, 500)
	assertNear(t, "center x", wx, 500)
	assertNear(t, "center y", wy, 500)

	cam.Update(0.5)
	assertNear(t, "end", cam.Scale(), 2)
	if cam.Animating() {
		t.Error("animation should be finished")
	}
}

func TestCameraAnimateZoomCancelledByGesture(t *testing.T) {
	cam := newCoverCamera(t)
	cam.AnimateZoom(2, 1, ease.Linear)
	cam.Update(0.25)
	cam.ApplyGesture(DragGesture(-10, 0))
	if cam.Animating() {
		t.Error("gesture should cancel the animation")
	}
	scale := cam.Scale()
	cam.Update(0.5)
	if cam.Scale() != scale {
		t.Error("cancelled animation kept running")
	}
}

func TestCameraDestroy(t *testing.T) {
	cam := NewCamera(CameraConfig{Fit: FitContain, MaxZoom: 3})
	if err := cam.Initialize(2000, 1000, Rect{Width: 1000, Height: 1000}); err != nil {
		t.Fatal(err)
	}
	cam.ZoomBy(2)
	cam.Destroy()
	cam.Destroy()

	if cam.State() != StateUninitialized {
		t.Errorf("State = %v, want uninitialized", cam.State())
	}
	if cam.Interacted() || !cam.World().Empty() {
		t.Error("Destroy should reset navigation state")
	}
	if cfg := cam.Config(); cfg.Fit != FitContain || cfg.MaxZoom != 3 {
		t.Errorf("Config lost on Destroy: %+v", cfg)
	}
	if cam.ZoomBy(2) {
		t.Error("destroyed camera should ignore ZoomBy")
	}
}

func assertApprox(t *testing.T, name string, got, want, eps float64) {
	t.Helper()
	if !approxEqual(got, want, eps) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestCameraFlingDecays(t *testing.T) {
	cam := newCoverCamera(t)
	cam.ZoomBy(2) // pan (250, 250), x range [0, 1500]

	if !cam.Fling(-600, 0) {
		t.Fatal("Fling = false")
	}
	// Finger moving left at 600 px/s is 5 world units per tick at scale 2.
	cam.Update(1.0 / 60)
	assertApprox(t, "pan x after 1 tick", cam.Pan().X, 255, 1e-4)
	cam.Update(1.0 / 60)
	assertApprox(t, "pan x after 2 ticks", cam.Pan().X, 255+0.95*5, 1e-4)
	assertNear(t, "pan y", cam.Pan().Y, 250)

	for i := 0; i < 1000 && cam.Gliding(); i++ {
		cam.Update(1.0 / 60)
	}
	if cam.Gliding() {
		t.Fatal("glide never stopped")
	}
	// Geometric series: 5 / (1 - 0.95) = 100 world units at most.
	if x := cam.Pan().X; x <= 255+0.95*5 || x > 350 {
		t.Errorf("glide ended at pan x %v", x)
	}
	assertCameraBounds(t, cam)
}

func TestCameraFlingStopsAtEdge(t *testing.T) {
	cam := newCoverCamera(t)
	// Pan is at the left edge; moving the finger right pushes past it.
	if !cam.Fling(600, 0) {
		t.Fatal("Fling = false")
	}
	cam.Update(1.0 / 60)
	assertNear(t, "pan x", cam.Pan().X, 0)
	if cam.Gliding() {
		t.Error("glide should stop on a clamped axis")
	}
}

func TestCameraFlingCancelled(t *testing.T) {
	tests := []struct {
		name string
		stop func(*Camera)
	}{
		{"drag", func(c *Camera) { c.ApplyGesture(DragGesture(1, 0)) }},
		{"zoom", func(c *Camera) { c.ZoomBy(1.1) }},
		{"animate", func(c *Camera) { c.AnimateZoom(2, 1, ease.Linear) }},
		{"stop", func(c *Camera) { c.StopGlide() }},
		{"destroy", func(c *Camera) { c.Destroy() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newCoverCamera(t)
			cam.ZoomBy(2)
			cam.Fling(-600, -600)
			tt.stop(cam)
			if cam.Gliding() {
				t.Error("still gliding")
			}
		})
	}
}

func TestCameraFlingRejected(t *testing.T) {
	cam := newCoverCamera(t)
	if cam.Fling(5, 5) {
		t.Error("Fling below the stop speed should be ignored")
	}
	if cam.Fling(math.NaN(), 100) {
		t.Error("NaN velocity accepted")
	}

	off := NewCamera(CameraConfig{Friction: -1})
	if err := off.Initialize(2000, 1000, Rect{Width: 1000, Height: 1000}); err != nil {
		t.Fatal(err)
	}
	if off.Fling(-600, 0) {
		t.Error("Fling with gliding off should be ignored")
	}
	if NewCamera(CameraConfig{}).Fling(-600, 0) {
		t.Error("uninitialized camera accepted a fling")
	}
}

func TestCameraAnimateWheel(t *testing.T) {
	cam := newCoverCamera(t)
	wx, wy := cam.ScreenToWorld(300, 400)

	if !cam.AnimateWheel(1, 300, 400, 0.25) {
		t.Fatal("AnimateWheel = false")
	}
	assertNear(t, "scale before update", cam.Scale(), 1)

	cam.Update(0.125)
	if s := cam.Scale(); !(s > 1 && s < 1+DefaultWheelStep) {
		t.Errorf("mid-zoom scale = %v", s)
	}
	cam.Update(0.125)
	assertApprox(t, "scale", cam.Scale(), 1+DefaultWheelStep, 1e-6)
	if cam.Animating() {
		t.Error("wheel zoom should be finished")
	}
	ax, ay := cam.ScreenToWorld(300, 400)
	assertApprox(t, "focus x", ax, wx, 1e-6)
	assertApprox(t, "focus y", ay, wy, 1e-6)
}

func TestCameraAnimateWheelCompounds(t *testing.T) {
	cam := newCoverCamera(t)
	cam.AnimateWheel(1, 500, 500, 0.25)
	cam.Update(0.1)
	cam.AnimateWheel(1, 500, 500, 0.25)
	for i := 0; i < 100 && cam.Animating(); i++ {
		cam.Update(1.0 / 60)
	}
	assertApprox(t, "scale", cam.Scale(), math.Pow(1+DefaultWheelStep, 2), 1e-6)
}

func TestCameraAnimateWheelClamps(t *testing.T) {
	cam := newCoverCamera(t)
	cam.AnimateWheel(50, 500, 500, 0.1)
	cam.Update(0.1)
	assertApprox(t, "scale", cam.Scale(), cam.MaxScale(), 1e-6)
	if cam.AnimateWheel(math.Inf(1), 500, 500, 0.1) {
		t.Error("infinite notches accepted")
	}
}
