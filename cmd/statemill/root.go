package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "statemill",
	Short: "statemill works with declarative state machine definitions",
	Long:  `statemill validates YAML state machine definitions and renders them as Mermaid or Graphviz diagrams.`,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
