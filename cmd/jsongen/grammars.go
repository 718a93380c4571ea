package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"pkg.jsn.cam/jsongen/pkg/grammar"
)

var grammarsCmd = &cobra.Command{
	Use:   "grammars",
	Short: "List the registered grammars",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeGrammars(cmd.OutOrStdout())
	},
}

func writeGrammars(w io.Writer) error {
	name := color.New(color.FgCyan, color.Bold)

	for _, n := range grammar.List() {
		gr, err := grammar.Get(n)
		if err != nil {
			return err
		}
		name.Fprintf(w, "%-12s", gr.Name())
		fmt.Fprintf(w, " %s", gr.Description())
		if n == grammar.DefaultGrammar {
			fmt.Fprint(w, " (default)")
		}
		fmt.Fprintln(w)
	}
	return nil
}
