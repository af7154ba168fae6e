// Package langid classifies the dominant language of recognised text into
// the buckets used for translation routing.
package langid

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/textnorm"
)

const DefaultTimeout = 2 * time.Second

type Config struct {
	SampleSize    int           // runes fed to the detector; default 500
	Timeout       time.Duration // detection budget; default 2s
	MinConfidence float64       // default detector floor; 0 uses 0.5, negative disables
}

// Identifier runs a Detector on a bounded sample and canonicalises the result.
type Identifier struct {
	detector Detector
	cfg      Config
	logger   *slog.Logger
}

// NewIdentifier wires a detector; nil uses WhatlangDetector.
func NewIdentifier(d Detector, cfg Config, logger *slog.Logger) *Identifier {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = textnorm.DefaultSampleSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MinConfidence == 0 {
		cfg.MinConfidence = DefaultMinConfidence
	}
	if d == nil {
		d = WhatlangDetector{MinConfidence: cfg.MinConfidence}
	}
	return &Identifier{detector: d, cfg: cfg, logger: logger}
}

type detection struct {
	code string
	err  error
}

// Identify returns the canonical language code for text. It never fails:
// a detector error, panic or timeout yields "en".
func (i *Identifier) Identify(ctx context.Context, text string) string {
	sample := textnorm.Sample(text, i.cfg.SampleSize)

	ctx, cancel := context.WithTimeout(ctx, i.cfg.Timeout)
	defer cancel()

	ch := make(chan detection, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- detection{err: fmt.Errorf("langid: detector panic: %v", r)}
			}
		}()
		code, err := i.detector.Detect(sample)
		ch <- detection{code: code, err: err}
	}()

	select {
	case <-ctx.Done():
		i.logger.Warn("language detection timed out, defaulting", "lang", constants.LangEnglish, "timeout", i.cfg.Timeout)
		return constants.LangEnglish
	case d := <-ch:
		if d.err != nil || d.code == "" {
			i.logger.Debug("language detection failed, defaulting", "lang", constants.LangEnglish, "error", d.err)
			return constants.LangEnglish
		}
		lang := Canonicalize(d.code)
		i.logger.Debug("language detected", "detected", d.code, "lang", lang)
		return lang
	}
}

// Canonicalize collapses southern-script codes to "te" and northern-script codes to "hi".
func Canonicalize(code string) string {
	return constants.CanonicalLanguage(code)
}

// NeedsTranslation reports whether text in lang must go through the translator.
func NeedsTranslation(lang string) bool {
	return lang != constants.LangEnglish && lang != constants.LangUnknown
}
