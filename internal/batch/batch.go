// Package batch analyses many documents concurrently and summarises the run.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/core"
	"github.com/joseph-ayodele/notice-analyzer/internal/entity"
)

// Processor is the part of core.Analyzer a batch needs.
type Processor interface {
	Process(ctx context.Context, path string) core.Outcome
}

// Item is the outcome for one input path, kept in input order.
type Item struct {
	core.Outcome
}

// Summary counts items by status.
type Summary struct {
	Total     int
	Processed int
	NoText    int
	NotFound  int
	Failed    int
	Elapsed   time.Duration
}

func (s *Summary) add(status constants.RunStatus) {
	s.Total++
	switch status {
	case constants.RunStatusOK:
		s.Processed++
	case constants.RunStatusNoText:
		s.NoText++
	case constants.RunStatusNotFound:
		s.NotFound++
	default:
		s.Failed++
	}
}

type Runner struct {
	proc        Processor
	concurrency int
	onItem      func(ctx context.Context, it Item)
	logger      *slog.Logger
}

type Option func(*Runner)

// WithConcurrency bounds the number of documents in flight.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithItemHandler is called once per finished item, from the worker goroutine.
func WithItemHandler(fn func(ctx context.Context, it Item)) Option {
	return func(r *Runner) { r.onItem = fn }
}

func NewRunner(proc Processor, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{proc: proc, concurrency: runtime.NumCPU(), logger: logger}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run processes every path. Cancelling ctx stops scheduling new documents;
// unscheduled paths are reported as FAILED with the context error and a minimal record.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Item, Summary) {
	start := time.Now()
	items := make([]Item, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)

	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			items[i] = Item{core.Outcome{
				Path:   p,
				Status: constants.RunStatusFailed,
				Err:    err,
				Result: entity.Minimal(fmt.Sprintf(entity.TextErrorFmt, err.Error())),
			}}
			continue
		}
		g.Go(func() error {
			out := r.proc.Process(ctx, p)
			items[i] = Item{out}
			if r.onItem != nil {
				r.onItem(ctx, items[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	var sum Summary
	for _, it := range items {
		sum.add(it.Status)
	}
	sum.Elapsed = time.Since(start)

	r.logger.Info("batch complete",
		"total", sum.Total,
		"processed", sum.Processed,
		"no_text", sum.NoText,
		"not_found", sum.NotFound,
		"failed", sum.Failed,
		"elapsed_ms", sum.Elapsed.Milliseconds(),
	)
	return items, sum
}
