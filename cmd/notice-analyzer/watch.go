package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/notice-analyzer/internal/core"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/async"
	"github.com/joseph-ayodele/notice-analyzer/internal/ingest"
	"github.com/joseph-ayodele/notice-analyzer/internal/server"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir...]",
	Short: "Watch inbox directories and analyse documents as they arrive",
	Long: `Watch monitors the given directories (or watch.dirs from the config)
recursively. New or changed documents are queued to a bounded worker pool and
each run is written to the configured store. A gRPC health endpoint reports
SERVING while the watcher is running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dirs := args
		if len(dirs) == 0 {
			dirs = cfg.Watch.Dirs
		}
		initial, _ := cmd.Flags().GetBool("initial-scan")

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close()

		q := async.NewProcessorQueue(a.analyzer, logger,
			async.WithWorkers(cfg.Watch.Workers),
			async.WithQueueSize(cfg.Watch.QueueSize),
			async.WithProcessTimeout(cfg.Pipeline.Timeout),
			async.WithResultHandler(a.save),
		)

		paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       dirs,
			InitialScan: initial,
			Debounce:    cfg.Watch.Debounce,
			SkipHidden:  true,
			Logger:      logger,
		})
		if err != nil {
			q.Shutdown(context.Background())
			return err
		}

		health := server.NewHealth(logger)
		if cfg.Watch.HealthAddr != "" {
			go func() {
				if err := health.ListenAndServe(ctx, cfg.Watch.HealthAddr); err != nil {
					logger.Error("health endpoint stopped", "error", err)
				}
			}()
		}
		health.SetServing(true)
		logger.Info("watching for notices", "dirs", dirs, "workers", cfg.Watch.Workers)

	loop:
		for {
			select {
			case p, ok := <-paths:
				if !ok {
					break loop
				}
				job := async.Job{Path: p, SubmittedAt: time.Now()}
				if sum, err := ingest.HashFile(p); err == nil {
					job.HashHex = sum
				}
				if err := q.Enqueue(ctx, job); err != nil {
					logger.Warn("failed to queue document", "path", p, "error", err)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("watcher error", "error", err)
			case <-ctx.Done():
				break loop
			}
		}

		health.SetServing(false)
		logger.Info("shutting down watcher")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		q.Shutdown(shutdownCtx)
		return nil
	},
}

// compile-time check that the analyzer satisfies the queue's processor
var _ async.Processor = (*core.Analyzer)(nil)

func init() {
	watchCmd.Flags().Bool("initial-scan", true, "process documents already present in the directories")

	rootCmd.AddCommand(watchCmd)
}
