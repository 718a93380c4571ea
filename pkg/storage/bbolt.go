package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BboltBackend implements Backend on a bbolt file.
type BboltBackend struct {
	db *bolt.DB
}

// NewBboltBackend opens or creates the database at dbPath, creating its
// directory when needed.
func NewBboltBackend(dbPath string) (*BboltBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Give up if another process holds the file lock.
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database: %w", err)
	}
	return &BboltBackend{db: db}, nil
}

// Path returns the database file path.
func (b *BboltBackend) Path() string {
	return b.db.Path()
}

func (b *BboltBackend) CreateBucket(name []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

func (b *BboltBackend) DeleteBucket(name []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return deleteBoltBucket(tx, name)
	})
}

func (b *BboltBackend) BucketExists(name []byte) (bool, error) {
	exists := false
	err := b.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(name) != nil
		return nil
	})
	return exists, err
}

func (b *BboltBackend) Put(bucket, key, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
		}
		return bkt.Put(key, value)
	})
}

// Get returns a copy of the value, or nil when the key is absent.
func (b *BboltBackend) Get(bucket, key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
		}
		if v := bkt.Get(key); v != nil {
			// Only valid for the life of the transaction.
			value = append([]byte(nil), v...)
		}
		return nil
	})
	return value, err
}

// ForEach passes slices that are only valid during fn.
func (b *BboltBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
		}
		return bkt.ForEach(fn)
	})
}

func (b *BboltBackend) Update(fn func(tx Transaction) error) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return fn(&bboltTransaction{tx: tx})
	})
}

func (b *BboltBackend) View(fn func(tx Transaction) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		return fn(&bboltTransaction{tx: tx})
	})
}

func (b *BboltBackend) Close() error {
	return b.db.Close()
}

func deleteBoltBucket(tx *bolt.Tx, name []byte) error {
	err := tx.DeleteBucket(name)
	if errors.Is(err, bolt.ErrBucketNotFound) {
		return nil
	}
	return err
}

type bboltTransaction struct {
	tx *bolt.Tx
}

func (t *bboltTransaction) CreateBucket(name []byte) (Bucket, error) {
	bkt, err := t.tx.CreateBucketIfNotExists(name)
	if err != nil {
		return nil, err
	}
	return &bboltBucket{bucket: bkt}, nil
}

func (t *bboltTransaction) DeleteBucket(name []byte) error {
	return deleteBoltBucket(t.tx, name)
}

func (t *bboltTransaction) Bucket(name []byte) Bucket {
	bkt := t.tx.Bucket(name)
	if bkt == nil {
		return nil
	}
	return &bboltBucket{bucket: bkt}
}

func (t *bboltTransaction) ForEachBucket(fn func(name []byte) error) error {
	return t.tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
		return fn(name)
	})
}

type bboltBucket struct {
	bucket *bolt.Bucket
}

func (b *bboltBucket) Put(key, value []byte) error { return b.bucket.Put(key, value) }

func (b *bboltBucket) Get(key []byte) []byte { return b.bucket.Get(key) }

func (b *bboltBucket) ForEach(fn func(k, v []byte) error) error { return b.bucket.ForEach(fn) }

func (b *bboltBucket) NextSequence() (uint64, error) { return b.bucket.NextSequence() }

// Len walks a cursor; Stats does not see writes pending in the transaction.
func (b *bboltBucket) Len() int {
	n := 0
	c := b.bucket.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	return n
}
