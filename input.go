package peekaboo

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // pixels
)

// touchPoint is one active touch in screen coordinates.
type touchPoint struct {
	id   ebiten.TouchID
	x, y float64
}

// inputReader polls raw device state once per frame.
type inputReader interface {
	cursor() (x, y float64, pressed bool)
	wheel() (dx, dy float64)
	appendTouches(buf []touchPoint) []touchPoint
}

// ebitenInput reads the mouse, wheel and touch screen through ebiten.
type ebitenInput struct {
	ids []ebiten.TouchID
}

func (e *ebitenInput) cursor() (float64, float64, bool) {
	mx, my := ebiten.CursorPosition()
	return float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

func (e *ebitenInput) wheel() (float64, float64) {
	return ebiten.Wheel()
}

func (e *ebitenInput) appendTouches(buf []touchPoint) []touchPoint {
	e.ids = ebiten.AppendTouchIDs(e.ids[:0])
	for _, id := range e.ids {
		tx, ty := ebiten.TouchPosition(id)
		buf = append(buf, touchPoint{id: id, x: float64(tx), y: float64(ty)})
	}
	return buf
}

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
	// vx and vy are the last tick's drag movement in pixels; a release
	// turns them into a glide.
	vx, vy float64
	// outside is set when the press landed outside the viewport; such a
	// pointer never pans.
	outside bool
}

// --- Pinch state ---

type pinchState struct {
	active   bool
	pointer0 int
	pointer1 int
	prevDist float64
	prevCX   float64
	prevCY   float64
}

// processInput is called from Stage.Update to handle injected, mouse,
// wheel and touch input, in that order. A frame with an injected event
// skips real device input.
func (s *Stage) processInput() {
	if s.processInjectedInput() {
		return
	}
	cx, cy, pressed := s.input.cursor()
	s.processPointer(0, cx, cy, pressed, false)

	if _, dy := s.input.wheel(); dy != 0 {
		s.processWheel(cx, cy, dy)
	}

	s.touchBuf = s.input.appendTouches(s.touchBuf[:0])
	s.processTouches(s.touchBuf)
}

// processWheel zooms around the cursor when it is over the viewport,
// eased over WheelSmooth unless smoothing is off.
func (s *Stage) processWheel(sx, sy, notches float64) {
	if !s.cam.Viewport().Contains(sx, sy) {
		return
	}
	if d := s.cfg.WheelSmooth; d > 0 {
		if s.cam.AnimateWheel(notches, sx, sy, d) && s.debug {
			s.debugGesture(WheelGesture(notches, sx, sy))
		}
		return
	}
	s.applyGesture(WheelGesture(notches, sx, sy))
}

// processTouches runs the pointer machine for each touch (pointers 1-9),
// releases lifted touches, and then detects a two-finger pinch.
func (s *Stage) processTouches(touches []touchPoint) {
	multi := len(touches) >= 2

	var activeSlots [maxPointers]bool
	for _, t := range touches {
		slot := s.touchSlot(t.id)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true
		s.processPointer(slot, t.x, t.y, true, multi)
	}

	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false, false)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}

	s.detectPinch()
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Stage) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the pointer state machine for a single pointer in
// screen coordinates. A press is a tap and stops any glide. Movement beyond
// the dead zone pans the camera, and releasing a drag that was still moving
// flings the view. While suppressDrag is set (a second finger is down) the
// pointer's drag origin follows it, so lifting one finger of a pinch does
// not jump the view.
func (s *Stage) processPointer(pointerID int, sx, sy float64, pressed, suppressDrag bool) {
	ps := &s.pointers[pointerID]

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = sx, sy
		ps.lastX, ps.lastY = sx, sy
		ps.dragging = false
		ps.vx, ps.vy = 0, 0
		ps.outside = !s.cam.Viewport().Contains(sx, sy)
		if !ps.outside {
			s.cam.StopGlide()
			s.tap(sx, sy)
		}

	case !pressed && ps.down:
		if ps.dragging {
			tps := float64(ebiten.TPS())
			s.cam.Fling(ps.vx*tps, ps.vy*tps)
		}
		ps.down = false
		ps.dragging = false
		ps.vx, ps.vy = 0, 0

	case pressed && ps.down:
		ps.vx, ps.vy = 0, 0
		if suppressDrag {
			ps.dragging = false
			ps.startX, ps.startY = sx, sy
		} else if !ps.outside && (sx != ps.lastX || sy != ps.lastY) {
			if !ps.dragging {
				dx := sx - ps.startX
				dy := sy - ps.startY
				if math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone {
					ps.dragging = true
					s.applyGesture(DragGesture(dx, dy))
				}
			} else {
				s.applyGesture(DragGesture(sx-ps.lastX, sy-ps.lastY))
			}
			if ps.dragging {
				ps.vx, ps.vy = sx-ps.lastX, sy-ps.lastY
			}
		}
		ps.lastX, ps.lastY = sx, sy

	default:
		ps.lastX, ps.lastY = sx, sy
	}
}

// --- Pinch detection ---

// detectPinch turns the first two down touch pointers into zoom around
// their midpoint plus a pan by the midpoint's movement.
func (s *Stage) detectPinch() {
	p0, p1 := -1, -1
	for i := 1; i < maxPointers; i++ {
		if !s.pointers[i].down {
			continue
		}
		if p0 < 0 {
			p0 = i
		} else {
			p1 = i
			break
		}
	}
	if p1 < 0 {
		s.pinch.active = false
		return
	}

	ps0 := &s.pointers[p0]
	ps1 := &s.pointers[p1]
	cx := (ps0.lastX + ps1.lastX) / 2
	cy := (ps0.lastY + ps1.lastY) / 2
	dist := math.Hypot(ps1.lastX-ps0.lastX, ps1.lastY-ps0.lastY)

	if !s.pinch.active || s.pinch.pointer0 != p0 || s.pinch.pointer1 != p1 {
		s.pinch = pinchState{
			active:   true,
			pointer0: p0,
			pointer1: p1,
			prevDist: dist,
			prevCX:   cx,
			prevCY:   cy,
		}
		return
	}

	if s.pinch.prevDist > 0 && dist > 0 && dist != s.pinch.prevDist {
		s.applyGesture(PinchGesture(dist/s.pinch.prevDist, s.pinch.prevCX, s.pinch.prevCY))
	}
	if cx != s.pinch.prevCX || cy != s.pinch.prevCY {
		s.applyGesture(DragGesture(cx-s.pinch.prevCX, cy-s.pinch.prevCY))
	}
	s.pinch.prevDist = dist
	s.pinch.prevCX = cx
	s.pinch.prevCY = cy
}
