package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "jsongen",
	Short: "Random JSON test case generator",
	Long: `jsongen expands a JSON grammar with a fast PRNG across many workers
and collects a corpus of distinct test cases.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupOutput,
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(grammarsCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress logs and progress output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupOutput applies the global color and quiet flags.
func setupOutput(cmd *cobra.Command, _ []string) error {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(colorFlag)) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	if isQuiet(cmd) {
		log.SetOutput(io.Discard)
	}
	return nil
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return quiet
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
