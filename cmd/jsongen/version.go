package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"pkg.jsn.cam/jsongen/internal/store"
)

// version can be overridden at build time via -ldflags.
var version = "v0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		color.New(color.FgYellow, color.Bold).Fprint(w, "jsongen ")
		fmt.Fprintln(w, version)
		fmt.Fprintf(w, "corpus format %s, %s %s/%s\n", store.FormatVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
