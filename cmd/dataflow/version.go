package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/dataflow"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dataflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dataflow version %s\n", strings.TrimSpace(dataflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
