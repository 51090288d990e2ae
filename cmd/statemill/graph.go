package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statemill/statemill/def"
	"github.com/statemill/statemill/graph"
)

var graphFormat string

var graphCmd = &cobra.Command{
	Use:   "graph <definition.yaml>",
	Short: "Render a machine definition as a diagram",
	Long:  `Builds the machine described by a YAML definition and prints a Mermaid state diagram or a Graphviz DOT digraph.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := def.LoadFile(args[0])
		if err != nil {
			return err
		}
		m, err := d.Build()
		if err != nil {
			return err
		}

		info := m.Info()
		switch graphFormat {
		case "mermaid":
			fmt.Fprint(cmd.OutOrStdout(), graph.Mermaid(info))
		case "dot":
			fmt.Fprint(cmd.OutOrStdout(), graph.Dot(info))
		default:
			return fmt.Errorf("unknown format %q (want mermaid or dot)", graphFormat)
		}
		return nil
	},
}

func init() {
	graphCmd.Flags().StringVar(&graphFormat, "format", "mermaid", "Output format: mermaid or dot")
	rootCmd.AddCommand(graphCmd)
}
