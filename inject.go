package peekaboo

import "github.com/hajimehoshi/ebiten/v2"

type syntheticKind uint8

const (
	syntheticPointer syntheticKind = iota
	syntheticWheel
	syntheticTouches
)

// syntheticEvent is one frame of injected input. Screen coordinates are used,
// exactly as real device input arrives.
type syntheticEvent struct {
	kind             syntheticKind
	screenX, screenY float64
	pressed          bool
	notches          float64
	touches          []touchPoint
}

func (s *Stage) inject(evt syntheticEvent) {
	s.injectMu.Lock()
	s.injectQueue = append(s.injectQueue, evt)
	s.injectMu.Unlock()
}

// pendingInjections returns the number of queued synthetic frames.
func (s *Stage) pendingInjections() int {
	s.injectMu.Lock()
	defer s.injectMu.Unlock()
	return len(s.injectQueue)
}

// InjectPress queues a mouse press at the given screen coordinates. The
// event is consumed on the next frame's Update.
func (s *Stage) InjectPress(x, y float64) {
	s.inject(syntheticEvent{kind: syntheticPointer, screenX: x, screenY: y, pressed: true})
}

// InjectMove queues a pointer move with the button held down. Use it between
// InjectPress and InjectRelease to simulate a drag.
func (s *Stage) InjectMove(x, y float64) {
	s.inject(syntheticEvent{kind: syntheticPointer, screenX: x, screenY: y, pressed: true})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (s *Stage) InjectRelease(x, y float64) {
	s.inject(syntheticEvent{kind: syntheticPointer, screenX: x, screenY: y})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (s *Stage) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (s *Stage) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel movement at the given screen coordinates.
// Positive notches zoom in.
func (s *Stage) InjectWheel(x, y, notches float64) {
	s.inject(syntheticEvent{kind: syntheticWheel, screenX: x, screenY: y, notches: notches})
}

// InjectPinch queues a horizontal two-finger pinch centered on (cx, cy).
// The finger distance goes from fromDist to toDist over frames-1 frames,
// then both fingers lift. Minimum frames is 3.
func (s *Stage) InjectPinch(cx, cy, fromDist, toDist float64, frames int) {
	if frames < 3 {
		frames = 3
	}
	steps := frames - 1
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1)
		half := (fromDist + (toDist-fromDist)*t) / 2
		s.inject(syntheticEvent{kind: syntheticTouches, touches: []touchPoint{
			{id: ebiten.TouchID(1), x: cx - half, y: cy},
			{id: ebiten.TouchID(2), x: cx + half, y: cy},
		}})
	}
	s.inject(syntheticEvent{kind: syntheticTouches})
}

// processInjectedInput pops one event from the inject queue and feeds it
// through the same pipeline as real input. Returns true if an event was
// consumed.
func (s *Stage) processInjectedInput() bool {
	s.injectMu.Lock()
	if len(s.injectQueue) == 0 {
		s.injectMu.Unlock()
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	s.injectMu.Unlock()

	switch evt.kind {
	case syntheticPointer:
		s.processPointer(0, evt.screenX, evt.screenY, evt.pressed, false)
	case syntheticWheel:
		s.processWheel(evt.screenX, evt.screenY, evt.notches)
	case syntheticTouches:
		s.processTouches(evt.touches)
	}
	return true
}
