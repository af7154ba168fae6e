package nlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/notice-analyzer/internal/core/runner"
)

// CommandConfig describes an annotator sidecar: the text goes in on stdin,
// annotation JSON comes out on stdout.
type CommandConfig struct {
	Command []string
	Timeout time.Duration
}

// CommandAnnotator shells out to an external NLP tool.
type CommandAnnotator struct {
	cfg    CommandConfig
	runner runner.Runner
	logger *slog.Logger
}

func NewCommandAnnotator(cfg CommandConfig, r runner.Runner, logger *slog.Logger) *CommandAnnotator {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = runner.Exec{Logger: logger}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &CommandAnnotator{cfg: cfg, runner: r, logger: logger}
}

func (c *CommandAnnotator) Annotate(ctx context.Context, text string) (Annotation, error) {
	if len(c.cfg.Command) == 0 {
		return Annotation{}, errors.New("nlp: no annotator command configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	out, errb, err := c.runner.Run(ctx, strings.NewReader(text), c.cfg.Command[0], c.cfg.Command[1:]...)
	if err != nil {
		return Annotation{}, fmt.Errorf("nlp annotator: %w: %s", err, runner.Truncate(string(errb), 512))
	}
	a, err := DecodeAnnotation(out)
	if err != nil {
		return Annotation{}, err
	}
	c.logger.Debug("annotated text", "sentences", len(a.Sentences), "entities", len(a.Entities))
	return a, nil
}

// CommandFactory returns a Factory that checks the annotator binary exists
// before handing out a CommandAnnotator.
func CommandFactory(cfg CommandConfig, r runner.Runner, logger *slog.Logger) Factory {
	return func(ctx context.Context) (Annotator, error) {
		if len(cfg.Command) == 0 {
			return nil, errors.New("nlp: no annotator command configured")
		}
		if r == nil && !runner.Available(cfg.Command[0]) {
			return nil, fmt.Errorf("nlp: annotator %q not found on PATH", cfg.Command[0])
		}
		return NewCommandAnnotator(cfg, r, logger), nil
	}
}
