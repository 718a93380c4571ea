// Package storage is a bucketed key-value layer used to persist corpora.
// Values are raw bytes; Codec adds typed encoding on top.
package storage

import "encoding/binary"

// Backend is a key-value store with named buckets. Keys iterate in byte
// order on every implementation.
type Backend interface {
	// Bucket operations
	CreateBucket(name []byte) error
	DeleteBucket(name []byte) error
	BucketExists(name []byte) (bool, error)

	// KV operations within buckets
	Put(bucket, key, value []byte) error
	Get(bucket, key []byte) ([]byte, error)

	// ForEach visits every pair of a bucket in key order.
	ForEach(bucket []byte, fn func(k, v []byte) error) error

	// Batch operations for transactions
	Update(fn func(tx Transaction) error) error
	View(fn func(tx Transaction) error) error

	Close() error
}

// Transaction provides transactional access to the backend
type Transaction interface {
	CreateBucket(name []byte) (Bucket, error)
	DeleteBucket(name []byte) error
	// Bucket returns nil when the bucket does not exist.
	Bucket(name []byte) Bucket

	ForEachBucket(fn func(name []byte) error) error
}

// Bucket provides access to a single bucket within a transaction
type Bucket interface {
	Put(key, value []byte) error
	Get(key []byte) []byte
	ForEach(fn func(k, v []byte) error) error

	// NextSequence returns a monotonically increasing integer for the
	// bucket, starting at 1.
	NextSequence() (uint64, error)
	// Len reports the number of keys in the bucket.
	Len() int
}

// SeqKey encodes n as an 8-byte big-endian key so sequence keys sort
// numerically.
func SeqKey(n uint64) []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), n)
}

// ParseSeqKey is the inverse of SeqKey. It returns false for keys of the
// wrong length.
func ParseSeqKey(k []byte) (uint64, bool) {
	if len(k) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(k), true
}
