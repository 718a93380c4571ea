package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"
	"pkg.jsn.cam/jsongen/pkg/corpus"
	"pkg.jsn.cam/jsongen/pkg/grammar"
)

// FormatVersion is the on-disk layout version. Readers accept any corpus
// with the same major version.
const FormatVersion = "v1.1.0"

// Meta describes one saved run.
type Meta struct {
	RunID         string         `msgpack:"run_id" json:"run_id"`
	FormatVersion string         `msgpack:"format_version" json:"format_version"`
	Grammar       string         `msgpack:"grammar" json:"grammar"`
	Limits        grammar.Limits `msgpack:"limits" json:"limits"`
	Seed          uint64         `msgpack:"seed" json:"seed"`
	Workers       int            `msgpack:"workers" json:"workers"`
	Count         int            `msgpack:"count" json:"count"`
	Bytes         uint64         `msgpack:"bytes" json:"bytes"`
	Generated     uint64         `msgpack:"generated" json:"generated"`
	Duplicates    uint64         `msgpack:"duplicates" json:"duplicates"`
	CreatedAt     time.Time      `msgpack:"created_at" json:"created_at"`
}

// stamp fills in the identity of a run about to be written for set.
func (m Meta) stamp(set *corpus.Set) Meta {
	if m.RunID == "" {
		m.RunID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.FormatVersion = FormatVersion
	m.Count = set.Len()
	m.Bytes = set.Size()
	return m
}

// CheckFormat reports whether version can be read by this build.
func CheckFormat(version string) error {
	if !semver.IsValid(version) {
		return fmt.Errorf("%w: invalid version %q", ErrIncompatibleFormat, version)
	}
	if semver.Major(version) != semver.Major(FormatVersion) {
		return fmt.Errorf("%w: corpus is %s, this build reads %s.x.x",
			ErrIncompatibleFormat, version, semver.Major(FormatVersion))
	}
	return nil
}
