package storage

import "testing"

func TestMemoryBackend(t *testing.T) {
	backendTestSuite(t, func(t *testing.T) Backend {
		return NewMemoryBackend()
	})
}

func TestMemoryBackend_CopiesValues(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	backend.CreateBucket([]byte("cases"))

	value := []byte("[1]")
	backend.Put([]byte("cases"), SeqKey(1), value)
	value[1] = '2'

	got, _ := backend.Get([]byte("cases"), SeqKey(1))
	if string(got) != "[1]" {
		t.Errorf("stored value changed with the caller's slice: %s", got)
	}
	got[1] = '3'
	if again, _ := backend.Get([]byte("cases"), SeqKey(1)); string(again) != "[1]" {
		t.Errorf("stored value changed with the returned slice: %s", again)
	}
}
