package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fr0stylo/snapledger/internal/db"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(opts, os.Stderr)
			if err != nil {
				return err
			}
			database, err := db.Open(cmd.Context(), cfg.DatabaseOptions())
			if err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			defer func() {
				if err := database.Close(); err != nil {
					log.Error("Failed to close database", "error", err)
				}
			}()

			if err := database.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", database.Dialect())
			return nil
		},
	}
}
