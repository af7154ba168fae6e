package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/notice-analyzer/internal/batch"
	"github.com/joseph-ayodele/notice-analyzer/internal/common"
	"github.com/joseph-ayodele/notice-analyzer/internal/core"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/acquire"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/extract"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/langid"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/nlp"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/runner"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/translate"
	"github.com/joseph-ayodele/notice-analyzer/internal/export"
	"github.com/joseph-ayodele/notice-analyzer/internal/repository"
)

// app holds the process-scoped collaborators shared by every subcommand.
type app struct {
	source   *acquire.Extractor
	analyzer *core.Analyzer
	nlp      *nlp.Resource
	store    repository.Store
}

func newApp(ctx context.Context, cfg *common.Config) (*app, error) {
	run := runner.Exec{Logger: logger}

	source := acquire.NewExtractor(acquire.Config{
		Pdftoppm:         cfg.OCR.Pdftoppm,
		Tesseract:        cfg.OCR.Tesseract,
		Languages:        cfg.OCR.Languages,
		FallbackLanguage: cfg.OCR.FallbackLanguage,
		MinChars:         cfg.OCR.MinChars,
		DPI:              cfg.OCR.DPI,
		MaxPages:         cfg.OCR.MaxPages,
		TessdataDir:      cfg.OCR.TessdataDir,
		PSM:              cfg.OCR.PSM,
		SkipTextLayer:    cfg.OCR.SkipTextLayer,
	}, run, logger)

	identifier := langid.NewIdentifier(nil, langid.Config{
		SampleSize:    cfg.Language.SampleSize,
		Timeout:       cfg.Language.Timeout,
		MinConfidence: cfg.Language.MinConfidence,
	}, logger)

	var backend translate.Translator = translate.Identity{}
	if len(cfg.Translation.Command) > 0 {
		backend = translate.NewCommand(cfg.Translation.Command, run, logger)
	} else {
		logger.Debug("no translation command configured, text stays in its original language")
	}
	translator := translate.NewChunked(backend, translate.Config{
		ChunkSize: cfg.Translation.ChunkSize,
		Timeout:   cfg.Translation.Timeout,
	}, logger)

	a := &app{source: source}
	var annotator nlp.Annotator
	if strings.EqualFold(cfg.Pipeline.Strategy, extract.StrategyEntity) {
		a.nlp = nlp.NewResource(nlp.CommandFactory(nlp.CommandConfig{
			Command: cfg.NLP.Command,
			Timeout: cfg.NLP.Timeout,
		}, nil, logger), logger)
		annotator = a.nlp
	}
	strategy, err := extract.NewStrategy(cfg.Pipeline.Strategy, annotator, logger)
	if err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "extraction strategy", errors.Join(common.ErrConfig, err))
	}

	a.analyzer = core.NewAnalyzer(logger, source, identifier, translator, strategy, cfg.Pipeline.Confidence, cfg.Pipeline.Timeout)

	store, err := repository.Open(ctx, cfg.Store, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = store
	return a, nil
}

// save persists one run; store failures are logged, never fatal.
func (a *app) save(ctx context.Context, out core.Outcome) {
	if err := a.store.Save(ctx, repository.NewRun(out)); err != nil {
		logger.Error("failed to store run", "path", out.Path, "error", err)
	}
}

func (a *app) close() {
	if a.nlp != nil {
		if err := a.nlp.Close(); err != nil {
			logger.Warn("failed to close nlp resource", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}
}

func rowsFromItems(items []batch.Item) []export.Row {
	rows := make([]export.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, export.Row{Path: it.Path, Status: it.Status, Result: it.Result})
	}
	return rows
}

func rowsFromRuns(runs []repository.Run) []export.Row {
	rows := make([]export.Row, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, export.Row{Path: r.Path, Status: r.Status, ProcessedAt: r.CreatedAt, Result: r.Result})
	}
	return rows
}

// writeRows writes to path, or stdout when path is empty or "-". The format
// defaults to the file extension, then JSON.
func writeRows(path, format string, rows []export.Row) error {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if format == "" {
			format = export.FormatJSON
		}
	}
	if path == "" || path == "-" {
		if format == export.FormatXLSX {
			return errors.New("xlsx output needs --out <file>")
		}
		return export.Write(os.Stdout, format, rows)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Write(f, format, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
