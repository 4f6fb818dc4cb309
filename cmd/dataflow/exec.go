package main

import (
	"os"

	"github.com/aretw0/dataflow/internal/cli"
	"github.com/aretw0/dataflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <name>",
	Short: "Build a module, apply state and run one execution cycle",
	Long: `Builds the named module, applies every --set key=value to its state,
runs one supervised cycle and prints the outcome with the resulting state.
A failed cycle exits with status 2.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, _ := cmd.Flags().GetStringArray("set")
		asJSON, _ := cmd.Flags().GetBool("json")

		values, err := cli.ParseAssignments(sets)
		if err != nil {
			return err
		}

		rt, _, _, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		res, err := cli.Exec(sc, rt, args[0], values)
		if err != nil {
			return err
		}

		render := tui.NewRenderer(cli.IsInteractive(os.Stdout))
		if err := cli.PrintExecResult(cmd.OutOrStdout(), res, render, asJSON); err != nil {
			return err
		}
		if res.Outcome.Failed() {
			rt.Close()
			os.Exit(2)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().StringArray("set", nil, "State assignment key=value (repeatable)")
	execCmd.Flags().Bool("json", false, "Print the result as JSON")
}
