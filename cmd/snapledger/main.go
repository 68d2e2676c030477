// Package main provides the snapledger CLI entry point.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "snapledger",
		Short:         "Consolidate collector snapshots into an append-only content ledger",
		Long:          "snapledger reads the latest raw snapshot of every configured source, normalizes each record and stores the ones it has not seen before.",
		Version:       Version,
		SilenceUsage:  true,
	}
	rootCmd.SetVersionTemplate("snapledger version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file providing the source registry (overrides SNAPLEDGER_CONFIG)")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newSourcesCmd(opts))
	rootCmd.AddCommand(newMigrateCmd(opts))
	return rootCmd
}
