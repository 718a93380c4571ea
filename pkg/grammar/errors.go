package grammar

import "errors"

// Sentinel errors for the grammar engine
var (
	// Configuration errors
	ErrInvalidLimits  = errors.New("invalid grammar limits")
	ErrUnknownGrammar = errors.New("unknown grammar")

	// Invariant violations. These are raised with panic from inside a
	// generation call tree and never returned by an exported function.
	ErrImpossibleBucket = errors.New("impossible bucket value")
	ErrCodePoint        = errors.New("code point conversion failed")
)
