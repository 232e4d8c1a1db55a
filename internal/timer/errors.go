package timer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDuration matches every InvalidDurationError.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrPhaseIndex is returned when a sequencer is started outside its phase list.
	ErrPhaseIndex = errors.New("phase index out of range")
	// ErrNoPhases is returned for an empty phase list.
	ErrNoPhases = errors.New("phase list is empty")
)

// InvalidDurationError rejects a non-positive duration before any timer
// state is touched.
type InvalidDurationError struct {
	Seconds int
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration: %ds (must be > 0)", e.Seconds)
}

// Is lets errors.Is(err, ErrInvalidDuration) match.
func (e *InvalidDurationError) Is(target error) bool {
	return target == ErrInvalidDuration
}
