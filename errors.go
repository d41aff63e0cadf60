package peekaboo

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCandidates reports a target defined with zero candidate regions.
	ErrNoCandidates = errors.New("peekaboo: target has no candidate regions")
	// ErrEmptyWorld reports a background with zero width or height.
	ErrEmptyWorld = errors.New("peekaboo: world has zero size")
	// ErrBackgroundLoad reports that the world image could not be loaded.
	ErrBackgroundLoad = errors.New("peekaboo: could not load world")
	// ErrDestroyed is returned by an operation that finished after its
	// Stage was destroyed. Its effects were discarded.
	ErrDestroyed = errors.New("peekaboo: stage destroyed")
	// ErrNotMounted is returned when an operation needs a mounted session.
	ErrNotMounted = errors.New("peekaboo: stage not mounted")
)

// ConfigError describes invalid level data.
type ConfigError struct {
	Target string
	Reason string
	err    error
}

func (e *ConfigError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("peekaboo: invalid level: %s", e.Reason)
	}
	return fmt.Sprintf("peekaboo: invalid level: target %q: %s", e.Target, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.err }

// AssetError wraps a loader failure for one asset.
type AssetError struct {
	Src string
	Err error
	// Background is true when the failed asset is the world image.
	Background bool
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("peekaboo: load %q: %v", e.Src, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrBackgroundLoad) identify a failed world image.
func (e *AssetError) Is(target error) bool {
	return e.Background && target == ErrBackgroundLoad
}
