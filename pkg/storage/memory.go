package storage

import (
	"fmt"
	"slices"
	"sync"
)

// MemoryBackend implements Backend with in-memory maps. Nothing is
// persisted; it backs tests and dry runs.
type MemoryBackend struct {
	buckets map[string]*memoryData
	mu      sync.RWMutex
}

type memoryData struct {
	pairs map[string][]byte
	seq   uint64
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		buckets: make(map[string]*memoryData),
	}
}

func (m *MemoryBackend) CreateBucket(name []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createLocked(string(name))
	return nil
}

func (m *MemoryBackend) createLocked(name string) *memoryData {
	d, ok := m.buckets[name]
	if !ok {
		d = &memoryData{pairs: make(map[string][]byte)}
		m.buckets[name] = d
	}
	return d
}

func (m *MemoryBackend) DeleteBucket(name []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.buckets, string(name))
	return nil
}

func (m *MemoryBackend) BucketExists(name []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.buckets[string(name)]
	return ok, nil
}

// Put stores a copy of value.
func (m *MemoryBackend) Put(bucket, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.buckets[string(bucket)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	d.pairs[string(key)] = append([]byte(nil), value...)
	return nil
}

// Get returns a copy of the value, or nil when the key is absent.
func (m *MemoryBackend) Get(bucket, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.buckets[string(bucket)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	v, ok := d.pairs[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// ForEach iterates over a snapshot taken when it is called, so fn may
// write to the backend.
func (m *MemoryBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	m.mu.RLock()
	d, ok := m.buckets[string(bucket)]
	if !ok {
		m.mu.RUnlock()
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	keys := make([]string, 0, len(d.pairs))
	for k := range d.pairs {
		keys = append(keys, k)
	}
	values := make(map[string][]byte, len(keys))
	for _, k := range keys {
		values[k] = d.pairs[k]
	}
	m.mu.RUnlock()

	slices.Sort(keys)
	for _, k := range keys {
		if err := fn([]byte(k), values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Update runs fn directly; the memory backend has no rollback.
func (m *MemoryBackend) Update(fn func(tx Transaction) error) error {
	return fn(&memoryTransaction{backend: m})
}

func (m *MemoryBackend) View(fn func(tx Transaction) error) error {
	return fn(&memoryTransaction{backend: m})
}

func (m *MemoryBackend) Close() error {
	return nil
}

type memoryTransaction struct {
	backend *MemoryBackend
}

func (t *memoryTransaction) CreateBucket(name []byte) (Bucket, error) {
	if err := t.backend.CreateBucket(name); err != nil {
		return nil, err
	}
	return &memoryBucket{backend: t.backend, name: string(name)}, nil
}

func (t *memoryTransaction) DeleteBucket(name []byte) error {
	return t.backend.DeleteBucket(name)
}

func (t *memoryTransaction) Bucket(name []byte) Bucket {
	if ok, _ := t.backend.BucketExists(name); !ok {
		return nil
	}
	return &memoryBucket{backend: t.backend, name: string(name)}
}

func (t *memoryTransaction) ForEachBucket(fn func(name []byte) error) error {
	t.backend.mu.RLock()
	names := make([]string, 0, len(t.backend.buckets))
	for name := range t.backend.buckets {
		names = append(names, name)
	}
	t.backend.mu.RUnlock()

	slices.Sort(names)
	for _, name := range names {
		if err := fn([]byte(name)); err != nil {
			return err
		}
	}
	return nil
}

type memoryBucket struct {
	backend *MemoryBackend
	name    string
}

func (b *memoryBucket) Put(key, value []byte) error {
	return b.backend.Put([]byte(b.name), key, value)
}

func (b *memoryBucket) Get(key []byte) []byte {
	v, _ := b.backend.Get([]byte(b.name), key)
	return v
}

func (b *memoryBucket) ForEach(fn func(k, v []byte) error) error {
	return b.backend.ForEach([]byte(b.name), fn)
}

func (b *memoryBucket) NextSequence() (uint64, error) {
	b.backend.mu.Lock()
	defer b.backend.mu.Unlock()

	d, ok := b.backend.buckets[b.name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrBucketNotFound, b.name)
	}
	d.seq++
	return d.seq, nil
}

func (b *memoryBucket) Len() int {
	b.backend.mu.RLock()
	defer b.backend.mu.RUnlock()

	if d, ok := b.backend.buckets[b.name]; ok {
		return len(d.pairs)
	}
	return 0
}
