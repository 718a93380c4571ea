package main

import (
	"fmt"
	"io"
	"os"

	"pkg.jsn.cam/jsongen/internal/store"
	"pkg.jsn.cam/jsongen/pkg/corpus"
)

// writeCorpus stores set in the configured format. stdout receives the
// stream formats when no path is set.
func writeCorpus(out outputConfig, meta store.Meta, set *corpus.Set, stdout io.Writer) (store.Meta, error) {
	if out.Format == formatBolt {
		s, err := store.Open(out.Path)
		if err != nil {
			return store.Meta{}, err
		}
		meta, err = s.Save(meta, set)
		if cerr := s.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", out.Path, cerr)
		}
		return meta, err
	}

	w := stdout
	var f *os.File
	if out.Path != "" && out.Path != "-" {
		var err error
		if f, err = os.Create(out.Path); err != nil {
			return store.Meta{}, fmt.Errorf("create output: %w", err)
		}
		w = f
	}

	var err error
	switch out.Format {
	case formatLines:
		meta.Count = set.Len()
		meta.Bytes = set.Size()
		err = store.WriteLines(w, set)
	case formatMsgpack:
		meta, err = store.WriteMsgpack(w, meta, set)
	default:
		err = fmt.Errorf("unsupported format %q", out.Format)
	}

	if f != nil {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}
	if err != nil {
		return store.Meta{}, fmt.Errorf("write %s output: %w", out.Format, err)
	}
	return meta, nil
}
