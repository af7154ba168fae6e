package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/notice-analyzer/internal/repository"
)

var dbhealthCmd = &cobra.Command{
	Use:   "dbhealth",
	Short: "Check the configured result store is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := repository.Open(ctx, cfg.Store, logger)
		if err != nil {
			return fmt.Errorf("DB health: FAIL (%w)", err)
		}
		defer store.Close()

		if pg, ok := store.(*repository.PostgresStore); ok {
			if err := pg.HealthCheck(ctx, time.Second); err != nil {
				return fmt.Errorf("DB health: FAIL (%w)", err)
			}
		}
		runs, err := store.List(ctx, repository.ListFilter{Limit: 5})
		if err != nil {
			return fmt.Errorf("DB health: FAIL (%w)", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "DB health: OK (driver %s)\n", cfg.Store.Driver)
		fmt.Fprintf(out, "latest runs: %d\n", len(runs))
		for _, r := range runs {
			fmt.Fprintf(out, "- %s %-9s %s\n", r.CreatedAt.Format(time.RFC3339), r.Status, r.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbhealthCmd)
}
