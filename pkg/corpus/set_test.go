package corpus

import (
	"bytes"
	"errors"
	"testing"
)

func TestSet_InsertIdempotent(t *testing.T) {
	t.Parallel()

	s := New(0)
	if !s.Insert([]byte(`{"a":1}`)) {
		t.Fatal("first insert should report new")
	}
	if s.Insert([]byte(`{"a":1}`)) {
		t.Error("second insert of the same bytes should report duplicate")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if s.Size() != 7 {
		t.Errorf("Size() = %d, want 7", s.Size())
	}
}

func TestSet_InsertCopies(t *testing.T) {
	t.Parallel()

	s := New(4)
	buf := []byte("[1]")
	s.Insert(buf)
	buf[1] = '2'

	if !s.Contains([]byte("[1]")) {
		t.Error("set should hold a copy, not alias the caller's buffer")
	}
	if s.Contains([]byte("[2]")) {
		t.Error("mutating the caller's buffer leaked into the set")
	}
}

func TestSet_EmptySequence(t *testing.T) {
	t.Parallel()

	s := New(0)
	if !s.Insert(nil) {
		t.Error("empty sequence should insert once")
	}
	if s.Insert([]byte{}) {
		t.Error("nil and empty are the same sequence")
	}
}

func TestSet_Sorted(t *testing.T) {
	t.Parallel()

	s := New(-1)
	for _, c := range []string{"true", "[]", "0", "{}", "0"} {
		s.Insert([]byte(c))
	}

	got := s.Sorted()
	want := []string{"0", "[]", "true", "{}"}
	if len(got) != len(want) {
		t.Fatalf("Sorted() returned %d cases, want %d", len(got), len(want))
	}
	for i := range want {
		if !bytes.Equal(got[i], []byte(want[i])) {
			t.Errorf("Sorted()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSet_ForEach(t *testing.T) {
	t.Parallel()

	s := New(3)
	s.Insert([]byte("1"))
	s.Insert([]byte("2"))
	s.Insert([]byte("3"))

	seen := 0
	if err := s.ForEach(func(c []byte) error {
		seen++
		return nil
	}); err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if seen != 3 {
		t.Errorf("ForEach visited %d cases, want 3", seen)
	}

	stop := errors.New("stop")
	calls := 0
	err := s.ForEach(func(c []byte) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("ForEach should stop at the first error, got err=%v calls=%d", err, calls)
	}
}
