package pipeline

import (
	"fmt"

	"pkg.jsn.cam/jsongen/pkg/grammar"
)

// Config holds pipeline configuration
type Config struct {
	Workers int            // Number of generating goroutines, must be > 0
	Target  int            // Distinct cases to collect, must be > 0
	Limits  grammar.Limits // Zero fields take grammar.DefaultLimits
	Grammar string         // Registry name (default: grammar.DefaultGrammar)

	// Seed makes the run reproducible per worker: worker i draws from
	// rng.NewSeeded(Seed+i). Zero seeds every worker from the clock.
	Seed uint64

	// BufferSize is the capacity of the results channel (default: 2*Workers).
	BufferSize int
}

// withDefaults fills zero-valued optional fields.
func (c Config) withDefaults() Config {
	if c.Grammar == "" {
		c.Grammar = grammar.DefaultGrammar
	}
	c.Limits = c.Limits.WithDefaults()
	if c.BufferSize <= 0 {
		c.BufferSize = 2 * c.Workers
	}
	return c
}

// Validate checks the configuration after defaults are applied.
func (c Config) Validate() error {
	c = c.withDefaults()

	if c.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if c.Target <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTarget, c.Target)
	}
	if err := c.Limits.Validate(); err != nil {
		return err
	}
	if _, err := grammar.Get(c.Grammar); err != nil {
		return err
	}
	return nil
}
