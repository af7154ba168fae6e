package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/notice-analyzer/internal/batch"
	"github.com/joseph-ayodele/notice-analyzer/internal/ingest"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir|file>...",
	Short: "Analyze every supported document under the given paths",
	Long: `Batch walks each directory argument (files are taken as-is), analyses the
documents concurrently, stores each run in the configured store and prints a
summary. With --out the results are also exported as XLSX, JSON or YAML.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		workers, _ := cmd.Flags().GetInt("workers")
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")
		dedupe, _ := cmd.Flags().GetBool("dedupe")

		paths, err := collectPaths(ctx, args, dedupe)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "no supported documents found")
			return nil
		}

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close()

		r := batch.NewRunner(a.analyzer, logger,
			batch.WithConcurrency(workers),
			batch.WithItemHandler(func(ctx context.Context, it batch.Item) { a.save(ctx, it.Outcome) }),
		)
		items, sum := r.Run(ctx, paths)

		fmt.Fprintf(cmd.ErrOrStderr(), "processed %d documents: %d ok, %d no text, %d not found, %d failed (%s)\n",
			sum.Total, sum.Processed, sum.NoText, sum.NotFound, sum.Failed, sum.Elapsed.Round(time.Millisecond))

		if out != "" || format != "" {
			return writeRows(out, format, rowsFromItems(items))
		}
		return nil
	},
}

// collectPaths expands directories into their supported documents and keeps
// explicit file arguments as given.
func collectPaths(ctx context.Context, args []string, dedupe bool) ([]string, error) {
	var paths []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil || !st.IsDir() {
			// missing paths flow through and are reported as NOT_FOUND
			paths = append(paths, arg)
			continue
		}
		docs, walkErrs, stats, err := ingest.Discover(ctx, arg, ingest.DiscoverOptions{SkipHidden: true, Dedupe: dedupe})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", arg, err)
		}
		for _, we := range walkErrs {
			logger.Warn("skipped unreadable path", "path", we.Path, "error", we.Err)
		}
		logger.Info("directory scanned", "root", arg, "scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped)
		paths = append(paths, ingest.Paths(docs)...)
	}
	return paths, nil
}

func init() {
	batchCmd.Flags().Int("workers", 4, "documents analysed concurrently")
	batchCmd.Flags().String("out", "", "export results to this file (format from extension unless --format)")
	batchCmd.Flags().String("format", "", "export format: xlsx, json or yaml")
	batchCmd.Flags().Bool("dedupe", true, "skip files whose content was already seen in the walk")

	rootCmd.AddCommand(batchCmd)
}
