package main

import (
	"os"
	"strings"

	"github.com/aretw0/dataflow"
	"github.com/aretw0/dataflow/internal/cli"
	"github.com/aretw0/dataflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP configuration server",
	Long:  `Exposes module descriptions, instances, state and execution over a JSON API, plus /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, cfg, logger, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		if cli.IsInteractive(os.Stdout) {
			tui.PrintBanner(cmd.OutOrStdout(), strings.TrimSpace(dataflow.Version))
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		if err := cli.Serve(sc, rt, addr, logger); err != nil {
			return err
		}
		if sig := sc.Signal(); sig != nil {
			logger.Info("Server stopped", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on; overrides server.addr")
}
