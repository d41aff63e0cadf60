package peekaboo

import (
	"math"
)

// polygonEpsilon is added to the edge height in the crossing test so a
// zero-height edge can never divide by zero.
const polygonEpsilon = 1e-7

// HitShape is a region in world coordinates that can be hit-tested.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (r HitRect) Contains(x, y float64) bool {
	return PointInRect(Vec2{x, y}, r)
}

// HitCircle is a circular hit area.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a simple polygon hit area. The last point connects back to
// the first. Convex and concave polygons are both supported.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside the polygon (even-odd rule).
func (p HitPolygon) Contains(x, y float64) bool {
	return PointInPolygon(Vec2{x, y}, p.Points)
}

// PointInRect reports whether p lies in [r.X, r.X+r.Width] x [r.Y, r.Y+r.Height].
func PointInRect(p Vec2, r HitRect) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// PointInPolygon runs an even-odd ray cast from p toward +X against the
// closed polygon described by vertices. Callers must pass at least three
// vertices.
func PointInPolygon(p Vec2, vertices []Vec2) bool {
	inside := false
	n := len(vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := vertices[i].X, vertices[i].Y
		xj, yj := vertices[j].X, vertices[j].Y
		// A horizontal edge never straddles p.Y, so it is skipped before the
		// division is reached.
		if (yi > p.Y) != (yj > p.Y) &&
			p.X < (xj-xi)*(p.Y-yi)/(yj-yi+polygonEpsilon)+xi {
			inside = !inside
		}
	}
	return inside
}

// IsHit dispatches to the test matching the hitbox's shape tag.
func IsHit(p Vec2, h Hitbox) bool {
	switch h.Type {
	case HitboxRect:
		return PointInRect(p, h.Rect)
	case HitboxPolygon:
		return PointInPolygon(p, h.Points)
	case HitboxCircle:
		return h.Circle.Contains(p.X, p.Y)
	default:
		return false
	}
}

// HitboxType tags the shape stored in a Hitbox.
type HitboxType uint8

const (
	HitboxRect    HitboxType = iota // Rect is set
	HitboxPolygon                   // Points is set
	HitboxCircle                    // Circle is set
)

func (t HitboxType) String() string {
	switch t {
	case HitboxRect:
		return "rect"
	case HitboxPolygon:
		return "poly"
	case HitboxCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Hitbox is a tagged world-space region: exactly one of Rect, Points or
// Circle is meaningful, as selected by Type.
type Hitbox struct {
	Type   HitboxType
	Rect   HitRect
	Points []Vec2
	Circle HitCircle
}

// RectHitbox returns a rectangular Hitbox.
func RectHitbox(x, y, w, h float64) Hitbox {
	return Hitbox{Type: HitboxRect, Rect: HitRect{X: x, Y: y, Width: w, Height: h}}
}

// PolygonHitbox returns a polygonal Hitbox.
func PolygonHitbox(points ...Vec2) Hitbox {
	return Hitbox{Type: HitboxPolygon, Points: points}
}

// CircleHitbox returns a circular Hitbox.
func CircleHitbox(cx, cy, r float64) Hitbox {
	return Hitbox{Type: HitboxCircle, Circle: HitCircle{CenterX: cx, CenterY: cy, Radius: r}}
}

// Contains implements HitShape.
func (h Hitbox) Contains(x, y float64) bool {
	return IsHit(Vec2{x, y}, h)
}

// Bounds returns the axis-aligned bounding box of the region.
func (h Hitbox) Bounds() Rect {
	switch h.Type {
	case HitboxRect:
		return Rect{X: h.Rect.X, Y: h.Rect.Y, Width: h.Rect.Width, Height: h.Rect.Height}
	case HitboxPolygon:
		if len(h.Points) == 0 {
			return Rect{}
		}
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range h.Points {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
		return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	case HitboxCircle:
		c := h.Circle
		return Rect{X: c.CenterX - c.Radius, Y: c.CenterY - c.Radius, Width: 2 * c.Radius, Height: 2 * c.Radius}
	default:
		return Rect{}
	}
}
