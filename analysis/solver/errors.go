package solver

import (
	"errors"
	"fmt"
)

// The error kinds a solve can fail with. No error is retried; the
// result container must not be consumed after a failed solve.
var (
	// ErrInvariantViolation reports a problem whose flow functions do
	// not preserve the zero fact, or whose algebra misbehaves.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrProblem wraps an error a problem factory surfaced while the
	// solver was querying it.
	ErrProblem = errors.New("problem error")

	// ErrStopped reports that the driver's stop hook ended the solve
	// between worklist steps.
	ErrStopped = errors.New("solve stopped")
)

func invariantViolation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

func problemError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrProblem, err)
	}
	return fmt.Errorf("%w: %v", ErrProblem, r)
}
