package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"pkg.jsn.cam/jsongen/internal/store"
	"pkg.jsn.cam/jsongen/pkg/storage"
)

var (
	inspectJSON  bool
	inspectCases int
)

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the run metadata as JSON")
	inspectCmd.Flags().IntVar(&inspectCases, "cases", 0, "also print the first N stored cases")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <corpus.db>",
	Short: "Show the metadata of a saved corpus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		// Opening would otherwise create an empty database.
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("corpus %s does not exist", path)
			}
			return err
		}

		s, err := store.Open(path)
		if err != nil {
			return err
		}
		defer s.Close()

		return inspectCorpus(cmd.OutOrStdout(), s, inspectJSON, inspectCases)
	},
}

func inspectCorpus(w io.Writer, s *store.CorpusStore, asJSON bool, cases int) error {
	meta, err := s.Meta()
	if err != nil {
		return err
	}

	if asJSON {
		data, err := storage.JSON.Marshal(meta)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", data)
	} else {
		writeMeta(w, meta)
	}

	if cases <= 0 {
		return nil
	}
	errEnough := errors.New("enough")
	err = s.ForEachCase(func(seq uint64, c []byte) error {
		if seq > uint64(cases) {
			return errEnough
		}
		fmt.Fprintf(w, "%s\n", c)
		return nil
	})
	if errors.Is(err, errEnough) {
		return nil
	}
	return err
}

func writeMeta(w io.Writer, m store.Meta) {
	row := func(label, format string, a ...any) {
		labelColor.Fprintf(w, "%-10s ", label)
		fmt.Fprintf(w, format+"\n", a...)
	}
	row("run", "%s", m.RunID)
	row("format", "%s", m.FormatVersion)
	row("created", "%s (%s)", m.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(m.CreatedAt))
	row("grammar", "%s", m.Grammar)
	row("limits", "max depth %d, max repeat %d", m.Limits.MaxDepth, m.Limits.MaxRepeat)
	if m.Seed != 0 {
		row("seed", "%d (%d workers)", m.Seed, m.Workers)
	} else {
		row("seed", "clock (%d workers)", m.Workers)
	}
	row("cases", "%s (%s)", humanize.Comma(int64(m.Count)), humanize.Bytes(m.Bytes))
	if m.Generated > 0 {
		row("generated", "%s (%s duplicates)", humanize.Comma(int64(m.Generated)), humanize.Comma(int64(m.Duplicates)))
	}
}
