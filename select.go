package peekaboo

import (
	"maps"
	"math/rand/v2"
	"time"
)

// Target is one character with the single hiding spot chosen for a session.
type Target struct {
	ID     string
	Name   string
	Sprite string
	Icon   string
	Region Hitbox
	Meta   map[string]any
}

// NewSessionSeed returns a wall-clock based seed for production sessions.
func NewSessionSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// newRand returns the deterministic generator used for target selection.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// PickTargets chooses one candidate region per target uniformly at random
// and then shuffles the result. The same level and seed always produce the
// same selection and order. A target with no candidates is reported as
// ErrNoCandidates before anything is chosen.
func PickTargets(level *Level, seed uint64) ([]Target, error) {
	for _, t := range level.Targets {
		if len(t.Positions) == 0 {
			return nil, &ConfigError{Target: t.ID, Reason: "no candidate positions", err: ErrNoCandidates}
		}
	}

	rng := newRand(seed)
	chosen := make([]Target, len(level.Targets))
	for i, t := range level.Targets {
		pos := t.Positions[pickIndex(rng, len(t.Positions))]
		meta := maps.Clone(pos.Meta)
		if meta == nil {
			meta = map[string]any{}
		}
		chosen[i] = Target{
			ID:     t.ID,
			Name:   t.Name,
			Sprite: t.Sprite,
			Icon:   t.Icon,
			Region: pos.Hitbox,
			Meta:   meta,
		}
	}

	// Fisher-Yates from the last index down to 1.
	for i := len(chosen) - 1; i > 0; i-- {
		j := pickIndex(rng, i+1)
		chosen[i], chosen[j] = chosen[j], chosen[i]
	}
	return chosen, nil
}

// pickIndex returns floor(r * n) for r in [0, 1).
func pickIndex(rng *rand.Rand, n int) int {
	return int(rng.Float64() * float64(n))
}
