// Package acquire turns a notice file on disk into raw text: plain text is
// read as-is, PDFs use their text layer when it has one and are rasterised
// and OCR'd otherwise, images go straight to OCR.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/common"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/runner"
)

const (
	DefaultLanguages        = "eng+hin+tel"
	DefaultFallbackLanguage = "eng"
	// DefaultMinChars is the shortest multi-language OCR result accepted
	// before retrying with the fallback language.
	DefaultMinChars = 20
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Languages        string // default "eng+hin+tel"
	FallbackLanguage string // default "eng"
	MinChars         int    // default 20
	DPI              int    // rasterization DPI for scanned PDFs, default 300
	MaxPages         int    // 0 = no limit
	TessdataDir      string
	PSM              int

	// SkipTextLayer forces OCR for PDFs even when they carry text.
	SkipTextLayer bool
}

type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE | constants.TXT
	Method     string // "text" | "pdf-text" | "pdf-ocr" | "image-ocr"
	Language   string // OCR language string actually used
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

type Extractor struct {
	cfg    Config
	runner runner.Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, r runner.Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = runner.Exec{Logger: logger}
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Languages == "" {
		cfg.Languages = DefaultLanguages
	}
	if cfg.FallbackLanguage == "" {
		cfg.FallbackLanguage = DefaultFallbackLanguage
	}
	if cfg.MinChars <= 0 {
		cfg.MinChars = DefaultMinChars
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: r, logger: logger}
}

// Extract picks a strategy based on file extension. A missing file yields
// an error wrapping common.ErrNotFound; an unknown extension one wrapping
// common.ErrInvalidInput.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, common.NewAppError("NOT_FOUND", path, common.ErrNotFound)
		}
		return Result{}, common.NewAppError("UNREADABLE", path, errors.Join(common.ErrUnreadable, err))
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text acquisition", "path", path, "ext", ext)

	var (
		res Result
		err error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.TXT:
		res, err = e.readText(path)
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, path)
	default:
		e.logger.Error("unsupported extension", "extension", ext)
		return Result{}, common.NewAppError("UNSUPPORTED", fmt.Sprintf("unsupported extension: %q", ext), common.ErrInvalidInput)
	}
	res.Duration = time.Since(start)
	if err != nil {
		if common.CodeOf(err) == "" {
			err = common.NewAppError("OCR_FAILED", path, errors.Join(common.ErrUnreadable, err))
		}
		return res, err
	}
	res.Confidence = heuristicConfidence(res.Text)
	e.logger.Debug("text acquired",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) readText(path string) (Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Result{SourceType: constants.TXT}, common.NewAppError("UNREADABLE", path, errors.Join(common.ErrUnreadable, err))
	}
	return Result{Text: string(b), Pages: 1, SourceType: constants.TXT, Method: "text"}, nil
}
