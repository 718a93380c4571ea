package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"pkg.jsn.cam/jsongen/internal/pipeline"
	"pkg.jsn.cam/jsongen/internal/store"
)

var genOpts generateOptions

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genOpts.configPath, "config", "", "TOML config file; flags override it")
	f.IntVar(&genOpts.workers, "workers", 0, "number of generating goroutines (default: number of CPUs)")
	f.IntVar(&genOpts.target, "target", defaultTarget, "distinct cases to collect")
	f.Uint64Var(&genOpts.maxDepth, "max-depth", 0, "symbol budget per case (default 256)")
	f.Uint64Var(&genOpts.maxRepeat, "max-repeat", 0, "exclusive bound on repetitions (default 4)")
	f.StringVar(&genOpts.grammar, "grammar", "", "grammar to expand (see 'jsongen grammars')")
	f.Uint64Var(&genOpts.seed, "seed", 0, "base seed for reproducible runs (0 seeds from the clock)")
	f.IntVar(&genOpts.buffer, "buffer", 0, "results channel capacity (default: 2 x workers)")
	f.StringVarP(&genOpts.out, "out", "o", "", "output path ('-' or empty for stdout; bolt defaults to corpus.db)")
	f.StringVar(&genOpts.format, "format", formatLines, "output format (lines|msgpack|bolt)")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a corpus of distinct test cases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rc, err := genOpts.resolve(cmd.Flags().Changed)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		h, err := pipeline.Start(ctx, rc.Pipeline)
		if err != nil {
			return err
		}

		rep := reporter{
			w:           cmd.ErrOrStderr(),
			quiet:       isQuiet(cmd),
			interactive: isTerminal(os.Stderr),
			interval:    progressInterval,
		}
		set, runErr := rep.track(h)

		// An interrupted run still keeps what it collected.
		if runErr != nil && !errors.Is(runErr, pipeline.ErrTargetNotReached) {
			return runErr
		}

		p := h.Progress()
		meta := store.Meta{
			Grammar:    rc.Pipeline.Grammar,
			Limits:     rc.Pipeline.Limits,
			Seed:       rc.Pipeline.Seed,
			Workers:    rc.Pipeline.Workers,
			Generated:  p.Generated,
			Duplicates: p.Duplicates,
		}
		meta, err = writeCorpus(rc.Output, meta, set, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		if !rep.quiet {
			printSummary(cmd.ErrOrStderr(), p, set.Size(), rc.Output, meta)
		}
		return runErr
	},
}
