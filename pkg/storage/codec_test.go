package storage

import (
	"testing"
	"time"
)

type runRecord struct {
	ID      string    `json:"id" msgpack:"id"`
	Cases   int       `json:"cases" msgpack:"cases"`
	Created time.Time `json:"created" msgpack:"created"`
}

func TestStore(t *testing.T) {
	t.Parallel()

	for _, codec := range []Codec{JSON, Msgpack} {
		t.Run(codec.Name(), func(t *testing.T) {
			t.Parallel()

			store := NewStore(NewMemoryBackend(), codec)
			defer store.Close()

			if err := store.Backend().CreateBucket([]byte("meta")); err != nil {
				t.Fatalf("CreateBucket failed: %v", err)
			}

			want := runRecord{ID: "run-1", Cases: 42, Created: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
			if err := store.PutValue([]byte("meta"), []byte("run"), want); err != nil {
				t.Fatalf("PutValue failed: %v", err)
			}

			var got runRecord
			found, err := store.GetValue([]byte("meta"), []byte("run"), &got)
			if err != nil || !found {
				t.Fatalf("GetValue = %v, %v", found, err)
			}
			if got.ID != want.ID || got.Cases != want.Cases || !got.Created.Equal(want.Created) {
				t.Errorf("got %+v, want %+v", got, want)
			}

			var missing runRecord
			found, err = store.GetValue([]byte("meta"), []byte("absent"), &missing)
			if err != nil || found {
				t.Errorf("missing key: found=%v err=%v", found, err)
			}
			if missing != (runRecord{}) {
				t.Errorf("missing key should leave the value untouched, got %+v", missing)
			}
		})
	}
}

func TestStore_DecodeError(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	backend.CreateBucket([]byte("meta"))
	backend.Put([]byte("meta"), []byte("run"), []byte("{not json"))

	var v runRecord
	if _, err := NewStore(backend, JSON).GetValue([]byte("meta"), []byte("run"), &v); err == nil {
		t.Error("expected a decode error")
	}
}
