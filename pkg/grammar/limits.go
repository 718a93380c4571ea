package grammar

import "fmt"

// Limits bound the expansion of every generation call tree.
type Limits struct {
	// MaxDepth caps the per-case symbol counter. Once a Value is entered
	// with the counter at or past MaxDepth it reduces to a Number, and
	// repetitions stop expanding past it.
	MaxDepth uint64 `toml:"max_depth" msgpack:"max_depth" json:"max_depth"`

	// MaxRepeat is the exclusive upper bound on every repetition count:
	// extra array elements, extra object pairs, string units and digits.
	MaxRepeat uint64 `toml:"max_repeat" msgpack:"max_repeat" json:"max_repeat"`
}

// DefaultLimits are used when the driver leaves a field zero.
var DefaultLimits = Limits{
	MaxDepth:  256,
	MaxRepeat: 4,
}

// WithDefaults returns l with zero fields replaced by DefaultLimits.
func (l Limits) WithDefaults() Limits {
	if l.MaxDepth == 0 {
		l.MaxDepth = DefaultLimits.MaxDepth
	}
	if l.MaxRepeat == 0 {
		l.MaxRepeat = DefaultLimits.MaxRepeat
	}
	return l
}

// Validate checks that both bounds are usable.
func (l Limits) Validate() error {
	if l.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth must be at least 1", ErrInvalidLimits)
	}
	if l.MaxRepeat < 1 {
		return fmt.Errorf("%w: max repeat must be at least 1", ErrInvalidLimits)
	}
	return nil
}
