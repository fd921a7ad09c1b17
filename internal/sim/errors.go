package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a particle position became NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a run configuration that cannot be stepped.
	ErrInvalidConfig = errors.New("sim: invalid config")
)

// StepError wraps an error with the step and particle it occurred on.
type StepError struct {
	Step     int
	Time     float64
	Particle int
	Wrapped  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) particle %d: %v", e.Step, e.Time, e.Particle, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
