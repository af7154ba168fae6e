// Package translate renders non-English notice text into English by
// chunking it through an external Translator.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultChunkSize is the per-request limit in runes.
	DefaultChunkSize = 5000
	DefaultTimeout   = 30 * time.Second
	Target           = "en"
)

// Translator converts one chunk from src into English.
type Translator interface {
	Translate(ctx context.Context, chunk, src string) (string, error)
}

// Identity returns the text unchanged. Used when no translation backend is configured.
type Identity struct{}

func (Identity) Translate(_ context.Context, chunk, _ string) (string, error) {
	return chunk, nil
}

// Config controls chunking and per-chunk deadlines.
type Config struct {
	ChunkSize int
	Timeout   time.Duration
}

// Chunked splits text into ChunkSize-rune pieces, translates each in order
// and joins the results with a single space. A chunk that fails or times
// out keeps its original text. It never returns an error.
type Chunked struct {
	backend Translator
	cfg     Config
	logger  *slog.Logger
}

func NewChunked(backend Translator, cfg Config, logger *slog.Logger) *Chunked {
	if logger == nil {
		logger = slog.Default()
	}
	if backend == nil {
		backend = Identity{}
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Chunked{backend: backend, cfg: cfg, logger: logger}
}

func (c *Chunked) Translate(ctx context.Context, text, src string) string {
	if src == Target || strings.TrimSpace(text) == "" {
		return text
	}
	chunks := Split(text, c.cfg.ChunkSize)
	out := make([]string, len(chunks))
	failed := 0
	for i, chunk := range chunks {
		tr, err := c.translateOne(ctx, chunk, src)
		if err != nil {
			failed++
			c.logger.Warn("chunk translation failed; keeping original",
				"chunk", i, "of", len(chunks), "src", src, "error", err)
			out[i] = chunk
			continue
		}
		out[i] = tr
	}
	if failed > 0 {
		c.logger.Info("translation finished with fallbacks", "chunks", len(chunks), "failed", failed)
	}
	return strings.Join(out, " ")
}

func (c *Chunked) translateOne(ctx context.Context, chunk, src string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	type result struct {
		s   string
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("translator panic: %v", r)}
			}
		}()
		s, err := c.backend.Translate(ctx, chunk, src)
		done <- result{s: s, err: err}
	}()

	select {
	case r := <-done:
		return r.s, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Split cuts s into consecutive pieces of at most n runes. Concatenating
// the pieces gives back s.
func Split(s string, n int) []string {
	if n <= 0 {
		n = DefaultChunkSize
	}
	if s == "" {
		return []string{""}
	}
	var chunks []string
	for len(s) > 0 {
		if utf8.RuneCountInString(s) <= n {
			chunks = append(chunks, s)
			break
		}
		i, count := 0, 0
		for i < len(s) && count < n {
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			count++
		}
		chunks = append(chunks, s[:i])
		s = s[i:]
	}
	return chunks
}
