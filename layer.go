package peekaboo

import (
	"cmp"
	"image"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// DefaultFoundAlpha is the marker opacity once its character is found.
	DefaultFoundAlpha = 0.3
	// DefaultFoundFade is the found fade duration in seconds.
	DefaultFoundFade = 0.25

	markerBaseOrder = 10
)

// FoundEvent is emitted once per character, on the tap that finds it.
type FoundEvent struct {
	TargetID string
	Name     string
	// WorldX and WorldY are the world-space tap point.
	WorldX, WorldY float64
	// Found and Total are the layer's progress after this find.
	Found, Total int
}

// EventSink receives found events in addition to OnFound callbacks.
// See the ecs package for a Donburi adapter.
type EventSink interface {
	EmitFound(event FoundEvent)
}

// Marker is the visual and interactive placement of one Target.
type Marker struct {
	Target Target
	// Anchor is the bottom-center of the region's bounding box, where the
	// sprite's feet are placed.
	Anchor Vec2
	// DrawOrder is the paint order; higher draws on top and wins hit tests.
	DrawOrder int

	found  bool
	alpha  float64
	fade   *gween.Tween
	sprite image.Image
	tex    *ebiten.Image
}

// Found reports whether the marker's character has been found.
func (m *Marker) Found() bool { return m.found }

// Alpha returns the current opacity.
func (m *Marker) Alpha() float64 { return m.alpha }

// HasSprite reports whether a sprite image has been attached.
func (m *Marker) HasSprite() bool { return m.sprite != nil }

// SpriteScale returns the scale that makes the sprite as tall as its region.
// Zero when no sprite is attached.
func (m *Marker) SpriteScale() float64 {
	if m.sprite == nil {
		return 0
	}
	h := m.sprite.Bounds().Dy()
	if h <= 0 {
		return 0
	}
	return m.Target.Region.Bounds().Height / float64(h)
}

// TargetStatus is a read-only progress row for a sidebar.
type TargetStatus struct {
	ID    string
	Name  string
	Icon  string
	Found bool
}

type foundHandler struct {
	id uint32
	fn func(FoundEvent)
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	layer *Layer
}

// Remove unregisters this callback so it no longer fires. It may be called
// from inside a found callback; the dispatch in progress is unaffected.
func (h CallbackHandle) Remove() {
	if h.layer == nil {
		return
	}
	h.layer.handlers = slices.DeleteFunc(slices.Clone(h.layer.handlers), func(fh foundHandler) bool {
		return fh.id == h.id
	})
}

// Layer holds the session's markers and resolves taps against them.
// Found markers stay in the layer for rendering but are never hit again.
type Layer struct {
	markers  []*Marker // presentation order
	hitOrder []*Marker // descending DrawOrder
	byID     map[string]*Marker
	found    int

	handlers []foundHandler
	nextID   uint32
	sink     EventSink

	foundAlpha float64
	foundFade  float32
}

// NewLayer places one marker per target. Targets later in the slice draw
// on top of earlier ones.
func NewLayer(targets []Target) *Layer {
	l := &Layer{
		markers:    make([]*Marker, len(targets)),
		byID:       make(map[string]*Marker, len(targets)),
		foundAlpha: DefaultFoundAlpha,
		foundFade:  DefaultFoundFade,
	}
	for i, t := range targets {
		b := t.Region.Bounds()
		m := &Marker{
			Target:    t,
			Anchor:    Vec2{X: b.X + b.Width/2, Y: b.Y + b.Height},
			DrawOrder: markerBaseOrder + i,
			alpha:     1,
		}
		l.markers[i] = m
		l.byID[t.ID] = m
	}
	l.rebuildHitOrder()
	return l
}

func (l *Layer) rebuildHitOrder() {
	l.hitOrder = append(l.hitOrder[:0], l.markers...)
	slices.SortStableFunc(l.hitOrder, func(a, b *Marker) int {
		return cmp.Compare(b.DrawOrder, a.DrawOrder)
	})
}

// SetDrawOrder changes a marker's paint order. Returns false for an
// unknown id.
func (l *Layer) SetDrawOrder(id string, order int) bool {
	m, ok := l.byID[id]
	if !ok {
		return false
	}
	m.DrawOrder = order
	l.rebuildHitOrder()
	return true
}

// SetFoundStyle sets the found opacity and fade duration in seconds.
// A zero duration snaps immediately.
func (l *Layer) SetFoundStyle(alpha float64, fade float32) {
	l.foundAlpha = clamp(alpha, 0, 1)
	if fade < 0 {
		fade = 0
	}
	l.foundFade = fade
}

// ResolveTap returns the id of the topmost unfound marker whose region
// contains the world point.
func (l *Layer) ResolveTap(world Vec2) (string, bool) {
	for _, m := range l.hitOrder {
		if m.found {
			continue
		}
		if IsHit(world, m.Target.Region) {
			return m.Target.ID, true
		}
	}
	return "", false
}

// Tap resolves a world-space tap and, on a hit, marks the character found
// and emits exactly one FoundEvent before returning.
func (l *Layer) Tap(world Vec2) (string, bool) {
	id, ok := l.ResolveTap(world)
	if !ok {
		return "", false
	}
	l.markFound(l.byID[id], world)
	return id, true
}

// MarkFound marks a character found and emits a FoundEvent located at its
// anchor. Marking an already-found or unknown character is a no-op and
// returns false.
func (l *Layer) MarkFound(id string) bool {
	m, ok := l.byID[id]
	if !ok {
		return false
	}
	return l.markFound(m, m.Anchor)
}

func (l *Layer) markFound(m *Marker, at Vec2) bool {
	if m.found {
		return false
	}
	m.found = true
	l.found++
	if l.foundFade > 0 {
		m.fade = gween.New(float32(m.alpha), float32(l.foundAlpha), l.foundFade, ease.OutQuad)
	} else {
		m.alpha = l.foundAlpha
	}

	evt := FoundEvent{
		TargetID: m.Target.ID,
		Name:     m.Target.Name,
		WorldX:   at.X,
		WorldY:   at.Y,
		Found:    l.found,
		Total:    len(l.markers),
	}
	// Callbacks may register or remove handlers.
	for _, h := range slices.Clone(l.handlers) {
		h.fn(evt)
	}
	if l.sink != nil {
		l.sink.EmitFound(evt)
	}
	return true
}

// OnFound registers a callback fired synchronously when a character is found.
func (l *Layer) OnFound(fn func(FoundEvent)) CallbackHandle {
	l.nextID++
	id := l.nextID
	l.handlers = append(l.handlers, foundHandler{id: id, fn: fn})
	return CallbackHandle{id: id, layer: l}
}

// SetEventSink sets the optional event bridge.
func (l *Layer) SetEventSink(sink EventSink) {
	l.sink = sink
}

// Update advances found fades by dt seconds.
func (l *Layer) Update(dt float32) {
	for _, m := range l.markers {
		if m.fade == nil {
			continue
		}
		val, done := m.fade.Update(dt)
		m.alpha = float64(val)
		if done {
			m.fade = nil
		}
	}
}

// SetSprite attaches a loaded sprite image to a marker.
func (l *Layer) SetSprite(id string, img image.Image) bool {
	m, ok := l.byID[id]
	if !ok {
		return false
	}
	m.sprite = img
	m.tex = nil
	return true
}

// Marker returns the marker for a target id.
func (l *Layer) Marker(id string) (*Marker, bool) {
	m, ok := l.byID[id]
	return m, ok
}

// Markers returns markers in presentation order. The returned slice MUST
// NOT be mutated.
func (l *Layer) Markers() []*Marker {
	return l.markers
}

// Progress returns the found and total character counts.
func (l *Layer) Progress() (found, total int) {
	return l.found, len(l.markers)
}

// Complete reports whether every character has been found.
func (l *Layer) Complete() bool {
	return l.found == len(l.markers)
}

// Status returns one row per character in presentation order.
func (l *Layer) Status() []TargetStatus {
	out := make([]TargetStatus, len(l.markers))
	for i, m := range l.markers {
		out[i] = TargetStatus{
			ID:    m.Target.ID,
			Name:  m.Target.Name,
			Icon:  m.Target.Icon,
			Found: m.found,
		}
	}
	return out
}

// releaseTextures frees GPU textures created for marker sprites.
func (l *Layer) releaseTextures() {
	for _, m := range l.markers {
		if m.tex != nil {
			m.tex.Deallocate()
			m.tex = nil
		}
	}
}
