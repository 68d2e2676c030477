package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSourcesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configured sources with their stored item counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(opts, os.Stderr)
			if err != nil {
				return err
			}
			app, err := newApplication(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer app.close()

			stats, err := app.store.ListSources(cmd.Context())
			if err != nil {
				return fmt.Errorf("list sources: %w", err)
			}
			counts := make(map[string]int64, len(stats))
			for _, stat := range stats {
				counts[stat.Name] = stat.ItemCount
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SOURCE\tSHAPE\tKIND\tKEYS\tITEMS")
			for _, name := range app.registry.Sources() {
				rule, err := app.registry.Rule(name)
				if err != nil {
					return err
				}
				keys := strings.Join(rule.Keys, ",")
				if keys == "" {
					keys = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", name, rule.Shape, rule.Kind, keys, counts[name])
			}
			return w.Flush()
		},
	}
}
