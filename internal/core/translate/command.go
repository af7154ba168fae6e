package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/notice-analyzer/internal/core/runner"
)

// Command translates through an external tool. The argv template may use
// {src} and {dst}; the chunk is written to stdin and the translation read
// from stdout.
type Command struct {
	Argv   []string
	Runner runner.Runner
	Logger *slog.Logger
}

func NewCommand(argv []string, r runner.Runner, logger *slog.Logger) *Command {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = runner.Exec{Logger: logger}
	}
	return &Command{Argv: argv, Runner: r, Logger: logger}
}

func (c *Command) Translate(ctx context.Context, chunk, src string) (string, error) {
	if len(c.Argv) == 0 {
		return "", errors.New("translate: no command configured")
	}
	argv := runner.Expand(c.Argv, map[string]string{"src": src, "dst": Target})
	out, errb, err := c.Runner.Run(ctx, strings.NewReader(chunk), argv[0], argv[1:]...)
	if err != nil {
		return "", fmt.Errorf("translate %s->%s: %w: %s", src, Target, err, runner.Truncate(string(errb), 512))
	}
	res := strings.TrimSpace(string(out))
	if res == "" {
		return "", errors.New("translate: empty output")
	}
	return res, nil
}
