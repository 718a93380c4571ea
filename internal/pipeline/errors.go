package pipeline

import "errors"

// Sentinel errors for pipeline runs
var (
	// Configuration errors
	ErrInvalidWorkers = errors.New("worker count must be positive")
	ErrInvalidTarget  = errors.New("target count must be positive")

	// Run errors
	ErrInvariantViolation = errors.New("generation invariant violated")
	ErrTargetNotReached   = errors.New("run ended before target was reached")
	ErrStopped            = errors.New("stop requested")
)
