package peekaboo

import (
	"log/slog"
	"math"
)

// Vec2 is a 2D vector used for points, offsets and sizes throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return !(r.Width > 0) || !(r.Height > 0)
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// FitMode selects how the world is fitted to the viewport at minimum zoom.
type FitMode uint8

const (
	FitCover   FitMode = iota // world covers the whole viewport, no blank edges
	FitContain                // whole world visible, letterboxed
)

func (f FitMode) String() string {
	switch f {
	case FitCover:
		return "cover"
	case FitContain:
		return "contain"
	default:
		return "unknown"
	}
}

// ParseFitMode converts "cover" or "contain" to a FitMode.
func ParseFitMode(s string) (FitMode, bool) {
	switch s {
	case "cover", "":
		return FitCover, true
	case "contain":
		return FitContain, true
	}
	return FitCover, false
}

// Underflow selects where the world sits on an axis where it is smaller
// than the visible area.
type Underflow uint8

const (
	UnderflowAuto    Underflow = iota // top-left for cover, center for contain
	UnderflowTopLeft                  // pin the world to the viewport's top/left edge
	UnderflowCenter                   // center the world on that axis
)

// CameraState is the lifecycle state of a Camera.
type CameraState uint8

const (
	StateUninitialized CameraState = iota // no world, or torn down
	StateFitting                          // world pending or viewport not laid out yet
	StateInteractive                      // fitted and accepting gestures
)

func (s CameraState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateFitting:
		return "fitting"
	case StateInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// GestureKind identifies the kind of camera gesture.
type GestureKind uint8

const (
	GestureDrag  GestureKind = iota // pan by a screen-space delta
	GesturePinch                    // multiplicative zoom around a screen focal point
	GestureWheel                    // wheel notches around a screen focal point
)

func (k GestureKind) String() string {
	switch k {
	case GestureDrag:
		return "drag"
	case GesturePinch:
		return "pinch"
	case GestureWheel:
		return "wheel"
	default:
		return "unknown"
	}
}

var logger = slog.Default()

// SetLogger replaces the logger used by the package. Passing nil restores
// slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger = l
}

// clamp constrains v into [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
