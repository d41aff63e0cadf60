package peekaboo

import (
	"github.com/google/uuid"
)

// Session is one play-through: the targets chosen for it and the layer
// that tracks which have been found. Selection runs once, in NewSession,
// and is fixed for the session's lifetime.
type Session struct {
	ID    string
	Seed  uint64
	Level *Level

	targets []Target
	layer   *Layer
}

// NewSession validates the level, picks targets with seed, and builds the
// interactive layer.
func NewSession(level *Level, seed uint64) (*Session, error) {
	if err := level.Validate(); err != nil {
		return nil, err
	}
	targets, err := PickTargets(level, seed)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:      uuid.NewString(),
		Seed:    seed,
		Level:   level,
		targets: targets,
		layer:   NewLayer(targets),
	}, nil
}

// Targets returns the chosen targets in presentation order. The returned
// slice MUST NOT be mutated.
func (s *Session) Targets() []Target {
	return s.targets
}

// Layer returns the session's interactive layer.
func (s *Session) Layer() *Layer {
	return s.layer
}
