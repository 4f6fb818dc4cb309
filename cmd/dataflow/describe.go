package main

import (
	"fmt"
	"os"

	"github.com/aretw0/dataflow/internal/cli"
	"github.com/aretw0/dataflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <name>",
	Short: "Show the ports of a module",
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
		render := tui.NewRenderer(cli.IsInteractive(os.Stdout))
		out, err := render(tui.DescribeMarkdown(desc))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
