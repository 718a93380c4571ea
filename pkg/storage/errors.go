package storage

import "errors"

// ErrBucketNotFound is returned when an operation names a missing bucket.
var ErrBucketNotFound = errors.New("bucket not found")
