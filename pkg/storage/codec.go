package storage

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns typed values into stored bytes and back.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var (
	// JSON stores values as encoding/json documents.
	JSON Codec = jsonCodec{}
	// Msgpack stores values as MessagePack.
	Msgpack Codec = msgpackCodec{}
)

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode msgpack: %w", err)
	}
	return data, nil
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode msgpack: %w", err)
	}
	return nil
}

// Store wraps a Backend with a Codec for typed values.
type Store struct {
	backend Backend
	codec   Codec
}

// NewStore returns a typed view of backend.
func NewStore(backend Backend, codec Codec) *Store {
	return &Store{backend: backend, codec: codec}
}

// Backend returns the underlying backend
func (s *Store) Backend() Backend { return s.backend }

// Codec returns the codec values are stored with.
func (s *Store) Codec() Codec { return s.codec }

// PutValue encodes v and stores it under key.
func (s *Store) PutValue(bucket, key []byte, v any) error {
	data, err := s.codec.Marshal(v)
	if err != nil {
		return err
	}
	return s.backend.Put(bucket, key, data)
}

// GetValue decodes the value under key into v. It reports false, leaving v
// untouched, when the key is absent.
func (s *Store) GetValue(bucket, key []byte, v any) (bool, error) {
	data, err := s.backend.Get(bucket, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	return true, s.codec.Unmarshal(data, v)
}

func (s *Store) Close() error { return s.backend.Close() }
