// Package core assembles the notice-analysis pipeline: text acquisition,
// normalisation, language identification, translation and field
// extraction.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/common"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/acquire"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/extract"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/langid"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/textnorm"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/translate"
	"github.com/joseph-ayodele/notice-analyzer/internal/entity"
)

// DefaultConfidence is the fixed trust score of a successful run.
const DefaultConfidence = 0.9

// TextSource turns a document path into recognised text.
type TextSource interface {
	Extract(ctx context.Context, path string) (acquire.Result, error)
}

// LanguageIdentifier returns a canonical language code and never fails.
type LanguageIdentifier interface {
	Identify(ctx context.Context, text string) string
}

// TextTranslator renders text into English and never fails.
type TextTranslator interface {
	Translate(ctx context.Context, text, src string) string
}

// Outcome is one document run with the bookkeeping batch and watch modes need.
type Outcome struct {
	ID       uuid.UUID
	Path     string
	Status   constants.RunStatus
	Result   entity.AnalysisResult
	Source   acquire.Result
	Err      error
	Duration time.Duration
}

// Analyzer is the top-level entry point. It holds no per-document state
// and is safe for concurrent use when its collaborators are.
type Analyzer struct {
	logger     *slog.Logger
	source     TextSource
	identifier LanguageIdentifier
	translator TextTranslator
	strategy   extract.Strategy
	confidence float64
	timeout    time.Duration
}

// NewAnalyzer wires the pipeline. Nil collaborators get defaults: whatlang
// detection, no translation and the pattern strategy. source may be nil
// when only AnalyzeText is used.
func NewAnalyzer(
	logger *slog.Logger,
	source TextSource,
	identifier LanguageIdentifier,
	translator TextTranslator,
	strategy extract.Strategy,
	confidence float64,
	timeout time.Duration,
) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if identifier == nil {
		identifier = langid.NewIdentifier(nil, langid.Config{}, logger)
	}
	if translator == nil {
		translator = translate.NewChunked(translate.Identity{}, translate.Config{}, logger)
	}
	if strategy == nil {
		strategy = extract.NewPatternStrategy(logger)
	}
	if confidence <= 0 || confidence > 1 {
		confidence = DefaultConfidence
	}
	return &Analyzer{
		logger:     logger,
		source:     source,
		identifier: identifier,
		translator: translator,
		strategy:   strategy,
		confidence: confidence,
		timeout:    timeout,
	}
}

// AnalyzeText runs the pipeline on already-recognised text. Blank text
// yields the "no text" minimal record. It never panics.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (res entity.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("analysis panicked", "panic", r)
			res = entity.Minimal(fmt.Sprintf(entity.TextErrorFmt, fmt.Sprint(r)))
		}
	}()
	return a.analyze(ctx, text)
}

func (a *Analyzer) analyze(ctx context.Context, text string) entity.AnalysisResult {
	normalized := textnorm.Normalize(text)
	if textnorm.IsBlank(normalized) {
		return entity.Minimal(entity.TextNoText)
	}

	lang := a.identifier.Identify(ctx, normalized)
	translated := normalized
	if langid.NeedsTranslation(lang) {
		start := time.Now()
		translated = a.translator.Translate(ctx, normalized, lang)
		a.logger.Debug("text translated", "lang", lang, "chars", len(normalized), "duration_ms", time.Since(start).Milliseconds())
	}

	fields := a.strategy.Extract(ctx, translated)

	res := entity.AnalysisResult{
		Metadata:       entity.Metadata{OriginalLanguage: lang, ConfidenceScore: a.confidence},
		Text:           entity.Ptr(text),
		TranslatedText: entity.Ptr(translated),
	}
	fields.Apply(&res)
	return res
}

// ProcessDocument acquires text from path and analyses it. It always
// returns a record: a missing path, an unreadable document or an
// unexpected failure produce the minimal record.
func (a *Analyzer) ProcessDocument(ctx context.Context, path string) entity.AnalysisResult {
	return a.Process(ctx, path).Result
}

// Process is ProcessDocument plus run status and timings.
func (a *Analyzer) Process(ctx context.Context, path string) (out Outcome) {
	start := time.Now()
	ctx, id := common.EnsureDocumentID(ctx)
	out = Outcome{ID: id, Path: path}
	logger := a.logger.With("doc_id", id, "path", path)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("document processing panicked", "panic", r)
			out.Status = constants.RunStatusFailed
			out.Err = fmt.Errorf("%w: panic: %v", common.ErrInternal, r)
			out.Result = entity.Minimal(fmt.Sprintf(entity.TextErrorFmt, fmt.Sprint(r)))
		}
		out.Duration = time.Since(start)
		logger.Info("document processed",
			"status", out.Status,
			"lang", out.Result.Metadata.OriginalLanguage,
			"duration_ms", out.Duration.Milliseconds(),
		)
	}()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	if a.source == nil {
		out.Status = constants.RunStatusFailed
		out.Err = common.NewAppError("NO_SOURCE", "no text source configured", common.ErrInternal)
		out.Result = entity.Minimal(fmt.Sprintf(entity.TextErrorFmt, out.Err.Error()))
		return out
	}

	src, err := a.source.Extract(ctx, path)
	out.Source = src
	switch {
	case errors.Is(err, common.ErrNotFound):
		logger.Warn("document not found")
		out.Status = constants.RunStatusNotFound
		out.Err = err
		out.Result = entity.Minimal(entity.TextNotFound)
		return out
	case err != nil:
		// acquisition failures degrade to "no text", like an empty OCR result
		logger.Error("text acquisition failed", "error", err, "code", common.CodeOf(err), "warnings", src.Warnings)
		out.Err = err
		src.Text = ""
	}

	out.Result = a.analyze(ctx, src.Text)
	switch {
	case out.Err != nil:
		out.Status = constants.RunStatusFailed
	case out.Result.Processed():
		out.Status = constants.RunStatusOK
	default:
		out.Status = constants.RunStatusNoText
	}
	return out
}
