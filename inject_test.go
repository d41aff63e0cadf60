package peekaboo

import "testing"

func TestInjectClick(t *testing.T) {
	s, sess := mountedStage(t)

	s.InjectClick(125, 125)
	if n := s.pendingInjections(); n != 2 {
		t.Fatalf("expected 2 queued events, got %d", n)
	}

	// Frame 1: press taps.
	s.processInput()
	if m, _ := sess.Layer().Marker("owl"); !m.Found() {
		t.Error("press frame should find owl")
	}
	if !s.pointers[0].down {
		t.Error("pointer should be down after the press frame")
	}

	// Frame 2: release.
	s.processInput()
	if n := s.pendingInjections(); n != 0 {
		t.Fatalf("expected 0 remaining events, got %d", n)
	}
	if s.pointers[0].down {
		t.Error("pointer should be up after the release frame")
	}
}

func TestInjectDrag(t *testing.T) {
	s, _ := mountedStage(t)

	// press 700, moves 675/650/625, release 600.
	s.InjectDrag(700, 700, 600, 700, 5)
	if n := s.pendingInjections(); n != 5 {
		t.Fatalf("expected 5 queued events, got %d", n)
	}
	for i := 0; i < 5; i++ {
		s.processInput()
	}
	assertNear(t, "pan x", s.Camera().Pan().X, 75)
	assertNear(t, "pan y", s.Camera().Pan().Y, 0)
}

func TestInjectDragMinimumFrames(t *testing.T) {
	s := newTestStage(fakeLoader())
	s.InjectDrag(0, 0, 10, 10, 0)
	if n := s.pendingInjections(); n != 2 {
		t.Errorf("expected press and release, got %d events", n)
	}
}

func TestInjectWheel(t *testing.T) {
	s, _ := mountedStage(t)
	s.InjectWheel(500, 500, 2)
	s.processInput()
	assertNear(t, "scale", s.Camera().Scale(), (1+DefaultWheelStep)*(1+DefaultWheelStep))
}

func TestInjectPinch(t *testing.T) {
	s, _ := mountedStage(t)

	s.InjectPinch(500, 700, 200, 300, 3)
	if n := s.pendingInjections(); n != 3 {
		t.Fatalf("expected 3 queued events, got %d", n)
	}
	for i := 0; i < 3; i++ {
		s.processInput()
	}
	assertNear(t, "scale", s.Camera().Scale(), 1.5)
	if s.pinch.active {
		t.Error("pinch should end after the fingers lift")
	}
}

func TestInjectedFrameSkipsDevice(t *testing.T) {
	s, _ := mountedStage(t)
	s.input = pressedInput{x: 125, y: 125}

	s.InjectWheel(500, 500, 1)
	s.processInput()
	if s.pointers[0].down {
		t.Error("device input should be skipped on an injected frame")
	}
	s.processInput()
	if !s.pointers[0].down {
		t.Error("device input should be read once the queue is empty")
	}
}

// pressedInput holds the mouse button down at a fixed point.
type pressedInput struct{ x, y float64 }

func (p pressedInput) cursor() (float64, float64, bool) { return p.x, p.y, true }
func (pressedInput) wheel() (float64, float64) { return 0, 0 }
func (pressedInput) appendTouches(b []touchPoint) []touchPoint { return b }
