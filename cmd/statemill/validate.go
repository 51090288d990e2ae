package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statemill/statemill/def"
)

var validateCmd = &cobra.Command{
	Use:   "validate <definition.yaml>",
	Short: "Validate a machine definition",
	Long:  `Parses a YAML machine definition and checks its structural consistency: state references, parent hierarchy, and reachability.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := def.LoadFile(args[0])
		if err != nil {
			return err
		}
		if _, err := d.Build(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d states)\n", d.ID, len(d.States))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
