package main

import (
	"fmt"

	"github.com/aretw0/dataflow/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <name>",
	Short: "Export the port layout of a module as a Mermaid diagram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, _, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		desc, err := rt.Describe(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(desc))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
