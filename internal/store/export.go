package store

import (
	"bufio"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"pkg.jsn.cam/jsongen/pkg/corpus"
)

// WriteLines writes one case per line in sorted order. Generated cases
// never contain a raw newline, so the output splits back cleanly.
func WriteLines(w io.Writer, set *corpus.Set) error {
	bw := bufio.NewWriter(w)
	for _, c := range set.Sorted() {
		if _, err := bw.Write(c); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteMsgpack writes a self-describing stream: the run meta followed by an
// array of cases as binary strings. The written meta is returned.
func WriteMsgpack(w io.Writer, meta Meta, set *corpus.Set) (Meta, error) {
	meta = meta.stamp(set)

	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)
	if err := enc.Encode(meta); err != nil {
		return Meta{}, fmt.Errorf("encode meta: %w", err)
	}
	if err := enc.EncodeArrayLen(set.Len()); err != nil {
		return Meta{}, err
	}
	for _, c := range set.Sorted() {
		if err := enc.EncodeBytes(c); err != nil {
			return Meta{}, fmt.Errorf("encode case: %w", err)
		}
	}
	return meta, bw.Flush()
}

// ReadMsgpack reads a stream written by WriteMsgpack.
func ReadMsgpack(r io.Reader) (Meta, *corpus.Set, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(r))

	var meta Meta
	if err := dec.Decode(&meta); err != nil {
		return Meta{}, nil, fmt.Errorf("decode meta: %w", err)
	}
	if err := CheckFormat(meta.FormatVersion); err != nil {
		return Meta{}, nil, err
	}

	n, err := dec.DecodeArrayLen()
	if err != nil {
		return Meta{}, nil, fmt.Errorf("decode case count: %w", err)
	}
	set := corpus.New(max(n, 0))
	for range max(n, 0) {
		c, err := dec.DecodeBytes()
		if err != nil {
			return Meta{}, nil, fmt.Errorf("decode case: %w", err)
		}
		set.Insert(c)
	}
	return meta, set, nil
}
