package store

import "errors"

var (
	// ErrNoCorpus is returned when a database holds no saved run.
	ErrNoCorpus = errors.New("no corpus in store")
	// ErrIncompatibleFormat is returned when a corpus was written with a
	// different major format version.
	ErrIncompatibleFormat = errors.New("incompatible corpus format")
)
