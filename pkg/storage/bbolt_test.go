package storage

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestBboltBackend(t *testing.T) {
	backendTestSuite(t, func(t *testing.T) Backend {
		backend, err := NewBboltBackend(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("failed to open backend: %v", err)
		}
		t.Cleanup(func() { backend.Close() })
		return backend
	})
}

func TestBboltBackend_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "corpus.db")

	backend, err := NewBboltBackend(path)
	if err != nil {
		t.Fatalf("NewBboltBackend failed: %v", err)
	}
	if backend.Path() != path {
		t.Errorf("Path() = %s, want %s", backend.Path(), path)
	}
	backend.CreateBucket([]byte("cases"))
	backend.Put([]byte("cases"), SeqKey(1), []byte("true"))
	if err := backend.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewBboltBackend(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get([]byte("cases"), SeqKey(1))
	if err != nil || !bytes.Equal(got, []byte("true")) {
		t.Errorf("after reopen Get = %s, %v", got, err)
	}
}
