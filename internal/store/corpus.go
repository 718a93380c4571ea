// Package store persists generated corpora and exports them to flat files.
package store

import (
	"fmt"
	"log"

	"pkg.jsn.cam/jsongen/pkg/corpus"
	"pkg.jsn.cam/jsongen/pkg/storage"
)

var (
	// Bucket names
	casesBucket = []byte("cases")
	metaBucket  = []byte("meta")

	metaKey = []byte("run")
)

// CorpusStore keeps one run per database: a meta record and the cases
// keyed by insertion sequence.
type CorpusStore struct {
	backend storage.Backend
	meta    *storage.Store
}

// Open opens or creates a bbolt-backed corpus store at path.
func Open(path string) (*CorpusStore, error) {
	backend, err := storage.NewBboltBackend(path)
	if err != nil {
		return nil, err
	}
	return New(backend), nil
}

// New wraps an existing backend. Meta records are stored as msgpack.
func New(backend storage.Backend) *CorpusStore {
	return &CorpusStore{
		backend: backend,
		meta:    storage.NewStore(backend, storage.Msgpack),
	}
}

func (s *CorpusStore) Close() error {
	return s.backend.Close()
}

// Save replaces whatever the store held with set. Cases are written in
// sorted order so the same corpus always produces the same keys. Missing
// identity fields of meta are filled in and the stored record is returned.
func (s *CorpusStore) Save(meta Meta, set *corpus.Set) (Meta, error) {
	meta = meta.stamp(set)

	encoded, err := s.meta.Codec().Marshal(meta)
	if err != nil {
		return Meta{}, err
	}

	err = s.backend.Update(func(tx storage.Transaction) error {
		for _, name := range [][]byte{casesBucket, metaBucket} {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("clear %s: %w", name, err)
			}
		}

		cases, err := tx.CreateBucket(casesBucket)
		if err != nil {
			return err
		}
		for _, c := range set.Sorted() {
			seq, err := cases.NextSequence()
			if err != nil {
				return err
			}
			if err := cases.Put(storage.SeqKey(seq), c); err != nil {
				return err
			}
		}

		mb, err := tx.CreateBucket(metaBucket)
		if err != nil {
			return err
		}
		return mb.Put(metaKey, encoded)
	})
	if err != nil {
		return Meta{}, fmt.Errorf("save corpus: %w", err)
	}

	log.Printf("[STORE] Saved run %s: %d cases", meta.RunID, meta.Count)
	return meta, nil
}

// Meta reads the run record and checks its format version.
func (s *CorpusStore) Meta() (Meta, error) {
	ok, err := s.backend.BucketExists(metaBucket)
	if err != nil {
		return Meta{}, err
	}
	if !ok {
		return Meta{}, ErrNoCorpus
	}

	var meta Meta
	found, err := s.meta.GetValue(metaBucket, metaKey, &meta)
	if err != nil {
		return Meta{}, fmt.Errorf("read meta: %w", err)
	}
	if !found {
		return Meta{}, ErrNoCorpus
	}
	if err := CheckFormat(meta.FormatVersion); err != nil {
		return Meta{}, err
	}
	return meta, nil
}

// ForEachCase visits stored cases in sequence order. The slice passed to fn
// is only valid during the call.
func (s *CorpusStore) ForEachCase(fn func(seq uint64, c []byte) error) error {
	if _, err := s.Meta(); err != nil {
		return err
	}
	return s.backend.ForEach(casesBucket, func(k, v []byte) error {
		seq, ok := storage.ParseSeqKey(k)
		if !ok {
			return fmt.Errorf("%w: bad case key %x", ErrIncompatibleFormat, k)
		}
		return fn(seq, v)
	})
}

// Load reads the run back into memory.
func (s *CorpusStore) Load() (Meta, *corpus.Set, error) {
	meta, err := s.Meta()
	if err != nil {
		return Meta{}, nil, err
	}

	set := corpus.New(meta.Count)
	err = s.ForEachCase(func(_ uint64, c []byte) error {
		set.Insert(c)
		return nil
	})
	if err != nil {
		return Meta{}, nil, fmt.Errorf("load cases: %w", err)
	}
	if set.Len() != meta.Count {
		log.Printf("[STORE] Run %s records %d cases but %d were loaded", meta.RunID, meta.Count, set.Len())
	}
	return meta, set, nil
}
