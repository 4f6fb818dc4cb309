package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the module names the factory can build",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, _, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		for _, name := range rt.Modules() {
			desc, err := rt.Describe(name)
			if err != nil {
				return err
			}
			marker := " "
			if desc.HasMaker() {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-28s %d in / %d out\n", marker, name, len(desc.InputPorts), len(desc.OutputPorts))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
