package nlp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

var ErrClosed = errors.New("nlp: resource closed")

// Factory builds an Annotator; it is where model loading happens.
type Factory func(ctx context.Context) (Annotator, error)

// Resource is a process-scoped, lazily initialised annotator. It is created
// once at startup, injected into the pipeline and closed at shutdown.
// A failed initialisation is not cached; the next Get retries.
type Resource struct {
	factory Factory
	logger  *slog.Logger

	mu     sync.Mutex
	ann    Annotator
	closed bool
}

func NewResource(f Factory, logger *slog.Logger) *Resource {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resource{factory: f, logger: logger}
}

// Get returns the annotator, initialising it on first use.
func (r *Resource) Get(ctx context.Context) (Annotator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if r.ann != nil {
		return r.ann, nil
	}
	r.logger.Info("initialising nlp annotator")
	ann, err := r.factory(ctx)
	if err != nil {
		r.logger.Error("nlp annotator init failed", "error", err)
		return nil, err
	}
	r.ann = ann
	return ann, nil
}

// Annotate makes Resource itself usable as an Annotator.
func (r *Resource) Annotate(ctx context.Context, text string) (Annotation, error) {
	ann, err := r.Get(ctx)
	if err != nil {
		return Annotation{}, err
	}
	return ann.Annotate(ctx, text)
}

// Close tears the annotator down. Safe to call more than once.
func (r *Resource) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if c, ok := r.ann.(io.Closer); ok {
		r.logger.Info("closing nlp annotator")
		return c.Close()
	}
	return nil
}
