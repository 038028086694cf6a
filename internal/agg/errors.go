package agg

import "errors"

// Domain errors for simulation runs.
var (
	// ErrInvalidParameter indicates out-of-range or contradictory inputs,
	// detected before any simulation work starts.
	ErrInvalidParameter = errors.New("agg: invalid parameter")

	// ErrNonConvergence indicates the placement search exhausted its step
	// or attempt budget without depositing a particle.
	ErrNonConvergence = errors.New("agg: placement search did not converge")

	// ErrDegenerateGeometry indicates the target scaling is unreachable
	// for the current particle count.
	ErrDegenerateGeometry = errors.New("agg: degenerate geometry")

	// ErrCancelled indicates the run honored a cooperative abort.
	ErrCancelled = errors.New("agg: run cancelled")
)

// Error wraps a domain error with run context.
type Error struct {
	Algorithm Algorithm
	Deposited int
	Wrapped   error
}

func (e *Error) Error() string {
	return string(e.Algorithm) + ": " + e.Wrapped.Error()
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

func runErr(alg Algorithm, deposited int, err error) *Error {
	return &Error{Algorithm: alg, Deposited: deposited, Wrapped: err}
}
