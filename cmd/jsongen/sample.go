package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"pkg.jsn.cam/jsongen/pkg/grammar"
	"pkg.jsn.cam/jsongen/pkg/rng"
)

var (
	sampleCount     int
	sampleSeed      uint64
	sampleGrammar   string
	sampleMaxDepth  uint64
	sampleMaxRepeat uint64
)

func init() {
	sampleCmd.Flags().IntVarP(&sampleCount, "count", "n", 10, "number of cases to print")
	sampleCmd.Flags().Uint64Var(&sampleSeed, "seed", 0, "seed (0 seeds from the clock)")
	sampleCmd.Flags().StringVar(&sampleGrammar, "grammar", grammar.DefaultGrammar, "grammar to expand")
	sampleCmd.Flags().Uint64Var(&sampleMaxDepth, "max-depth", 0, "symbol budget per case (default 256)")
	sampleCmd.Flags().Uint64Var(&sampleMaxRepeat, "max-repeat", 0, "exclusive bound on repetitions (default 4)")
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print raw cases from a single generator, without deduplication",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gr, err := grammar.Get(sampleGrammar)
		if err != nil {
			return err
		}
		lim := grammar.Limits{MaxDepth: sampleMaxDepth, MaxRepeat: sampleMaxRepeat}.WithDefaults()
		if err := lim.Validate(); err != nil {
			return err
		}
		if sampleCount < 0 {
			return fmt.Errorf("--count must not be negative, got %d", sampleCount)
		}

		r := rng.New()
		if sampleSeed != 0 {
			r = rng.NewSeeded(sampleSeed)
		}
		return writeSamples(cmd.OutOrStdout(), grammar.NewGenerator(r, lim), gr, sampleCount)
	},
}

func writeSamples(w io.Writer, gen *grammar.Generator, gr grammar.Grammar, n int) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 1024)
	for range n {
		buf = gr.Generate(gen, buf[:0])
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
