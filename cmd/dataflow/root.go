package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/dataflow/internal/cli"
	"github.com/aretw0/dataflow/internal/config"
	"github.com/aretw0/dataflow/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dataflow",
	Short: "dataflow runs and configures dataflow modules",
	Long: `dataflow builds modules by name, configures their state and runs
supervised execution cycles, either once from the command line or behind
an HTTP API.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
}

// loadConfig reads --config and applies --log-level on top.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, logging.New(logging.ParseLevel(cfg.LogLevel)), nil
}

// newRuntime is loadConfig followed by cli.NewRuntime.
func newRuntime(cmd *cobra.Command) (*cli.Runtime, config.Config, *slog.Logger, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, nil, err
	}
	rt, err := cli.NewRuntime(cfg, logger)
	if err != nil {
		return nil, cfg, nil, err
	}
	return rt, cfg, logger, nil
}
