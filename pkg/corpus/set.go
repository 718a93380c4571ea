// Package corpus holds the deduplicated collection of test cases produced
// by one pipeline run.
package corpus

import "sort"

// Set is an append-only set of byte sequences.
// It is owned by a single goroutine; there is no internal locking.
type Set struct {
	cases map[string]struct{}
	size  uint64
}

// New returns an empty set sized for about hint cases.
func New(hint int) *Set {
	if hint < 0 {
		hint = 0
	}
	return &Set{cases: make(map[string]struct{}, hint)}
}

// Insert adds a copy of b and reports whether it was new.
// Inserting a sequence already present leaves the set unchanged.
func (s *Set) Insert(b []byte) bool {
	// The string conversion in a map index does not allocate.
	if _, exists := s.cases[string(b)]; exists {
		return false
	}
	s.cases[string(b)] = struct{}{}
	s.size += uint64(len(b))
	return true
}

// Contains reports whether b is in the set.
func (s *Set) Contains(b []byte) bool {
	_, exists := s.cases[string(b)]
	return exists
}

// Len returns the number of distinct cases.
func (s *Set) Len() int { return len(s.cases) }

// Size returns the total byte length of all distinct cases.
func (s *Set) Size() uint64 { return s.size }

// ForEach calls fn for every case in unspecified order, stopping at the
// first error. fn must not retain or modify the slice.
func (s *Set) ForEach(fn func(c []byte) error) error {
	for k := range s.cases {
		if err := fn([]byte(k)); err != nil {
			return err
		}
	}
	return nil
}

// Sorted returns a copy of every case in lexical byte order.
func (s *Set) Sorted() [][]byte {
	keys := make([]string, 0, len(s.cases))
	for k := range s.cases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = []byte(k)
	}
	return out
}
