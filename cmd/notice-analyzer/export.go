package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/repository"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored analysis results as XLSX, JSON or YAML",
	Long: `Export reads runs from the configured store (sqlite or postgres), newest
first, and writes them to --out or stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")
		status, _ := cmd.Flags().GetString("status")
		sinceStr, _ := cmd.Flags().GetString("since")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := repository.ListFilter{Limit: limit}
		if status != "" {
			filter.Status = constants.RunStatus(strings.ToUpper(status))
		}
		if sinceStr != "" {
			since, err := time.Parse("2006-01-02", sinceStr)
			if err != nil {
				return fmt.Errorf("--since must be YYYY-MM-DD: %w", err)
			}
			filter.Since = &since
		}

		store, err := repository.Open(ctx, cfg.Store, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, ok := store.(repository.NopStore); ok {
			return fmt.Errorf("export needs a store: set store.driver to sqlite or postgres")
		}

		runs, err := store.List(ctx, filter)
		if err != nil {
			return err
		}
		logger.Info("exporting runs", "count", len(runs), "format", format, "out", out)
		return writeRows(out, format, rowsFromRuns(runs))
	},
}

func init() {
	exportCmd.Flags().String("out", "", "output file (default stdout)")
	exportCmd.Flags().String("format", "", "xlsx, json or yaml (default from --out extension, else json)")
	exportCmd.Flags().String("status", "", "only runs with this status: ok, no_text, not_found, failed")
	exportCmd.Flags().String("since", "", "only runs stored on or after this date (YYYY-MM-DD)")
	exportCmd.Flags().Int("limit", 0, "maximum number of runs (0 = all)")

	rootCmd.AddCommand(exportCmd)
}
