package peekaboo

import (
	"encoding/json"
	"fmt"
	"os"
)

// Level is the static definition of one hidden-character scene.
type Level struct {
	Background Background  `json:"background"`
	Targets    []TargetDef `json:"targets"`
}

// Background describes the world image. Width and Height are informational;
// the camera always uses the loaded image's natural size.
type Background struct {
	Src    string  `json:"src"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// TargetDef is one character with its candidate hiding spots.
type TargetDef struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Sprite    string     `json:"sprite,omitempty"`
	Icon      string     `json:"icon,omitempty"`
	Positions []Position `json:"positions"`
}

// Position is one candidate hiding spot.
type Position struct {
	Hitbox Hitbox         `json:"hitbox"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// LoadLevel parses and validates level JSON.
func LoadLevel(jsonData []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(jsonData, &lvl); err != nil {
		return nil, fmt.Errorf("peekaboo: failed to parse level JSON: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// LoadLevelFile reads and parses a level file.
func LoadLevelFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("peekaboo: read level: %w", err)
	}
	return LoadLevel(data)
}

// Validate checks the level for configuration errors that would otherwise
// surface mid-session.
func (l *Level) Validate() error {
	seen := make(map[string]struct{}, len(l.Targets))
	for i, t := range l.Targets {
		if t.ID == "" {
			return &ConfigError{Reason: fmt.Sprintf("target %d has no id", i)}
		}
		if _, dup := seen[t.ID]; dup {
			return &ConfigError{Target: t.ID, Reason: "duplicate id"}
		}
		seen[t.ID] = struct{}{}
		if len(t.Positions) == 0 {
			return &ConfigError{Target: t.ID, Reason: "no candidate positions", err: ErrNoCandidates}
		}
		for j, p := range t.Positions {
			if reason := validateHitbox(p.Hitbox); reason != "" {
				return &ConfigError{Target: t.ID, Reason: fmt.Sprintf("position %d: %s", j, reason)}
			}
		}
	}
	return nil
}

func validateHitbox(h Hitbox) string {
	switch h.Type {
	case HitboxRect:
		if h.Rect.Width < 0 || h.Rect.Height < 0 {
			return "rect has negative size"
		}
	case HitboxPolygon:
		if len(h.Points) < 3 {
			return fmt.Sprintf("polygon has %d points, need at least 3", len(h.Points))
		}
	case HitboxCircle:
		if h.Circle.Radius < 0 {
			return "circle has negative radius"
		}
	default:
		return "unknown hitbox type"
	}
	return ""
}

// --- JSON structure types ---

type jsonRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type jsonCircle struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

type jsonHitbox struct {
	Type   string       `json:"type"`
	Rect   *jsonRect    `json:"rect,omitempty"`
	Points [][2]float64 `json:"points,omitempty"`
	Circle *jsonCircle  `json:"circle,omitempty"`
}

// UnmarshalJSON decodes {"type":"rect","rect":{...}}, {"type":"poly",
// "points":[[x,y],...]} and {"type":"circle","circle":{x,y,r}}.
func (h *Hitbox) UnmarshalJSON(data []byte) error {
	var raw jsonHitbox
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case "rect":
		if raw.Rect == nil {
			return fmt.Errorf("peekaboo: rect hitbox missing \"rect\"")
		}
		*h = RectHitbox(raw.Rect.X, raw.Rect.Y, raw.Rect.W, raw.Rect.H)
	case "poly", "polygon":
		pts := make([]Vec2, len(raw.Points))
		for i, p := range raw.Points {
			pts[i] = Vec2{X: p[0], Y: p[1]}
		}
		*h = PolygonHitbox(pts...)
	case "circle":
		if raw.Circle == nil {
			return fmt.Errorf("peekaboo: circle hitbox missing \"circle\"")
		}
		*h = CircleHitbox(raw.Circle.X, raw.Circle.Y, raw.Circle.R)
	default:
		return fmt.Errorf("peekaboo: unknown hitbox type %q", raw.Type)
	}
	return nil
}

// MarshalJSON encodes the hitbox in the level file format.
func (h Hitbox) MarshalJSON() ([]byte, error) {
	raw := jsonHitbox{Type: h.Type.String()}
	switch h.Type {
	case HitboxRect:
		raw.Rect = &jsonRect{X: h.Rect.X, Y: h.Rect.Y, W: h.Rect.Width, H: h.Rect.Height}
	case HitboxPolygon:
		raw.Points = make([][2]float64, len(h.Points))
		for i, p := range h.Points {
			raw.Points[i] = [2]float64{p.X, p.Y}
		}
	case HitboxCircle:
		raw.Circle = &jsonCircle{X: h.Circle.CenterX, Y: h.Circle.CenterY, R: h.Circle.Radius}
	default:
		return nil, fmt.Errorf("peekaboo: unknown hitbox type %d", h.Type)
	}
	return json.Marshal(raw)
}
