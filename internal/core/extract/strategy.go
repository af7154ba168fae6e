package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/notice-analyzer/internal/core/nlp"
	"github.com/joseph-ayodele/notice-analyzer/internal/entity"
)

// Strategy names accepted by NewStrategy.
const (
	StrategyPattern = "pattern"
	StrategyEntity  = "entity"
)

// Fields is what a strategy found in one text. Nil means not found.
type Fields struct {
	ClientName         *string
	PANNumber          *string
	GSTIN              *string
	NoticeType         *string
	NoticeDate         *time.Time
	ComplianceDeadline *time.Time
	PenaltyAmount      *entity.MonetaryAmount
	LegalSections      []entity.LegalSection
	IssuingOfficer     *string
	IssuingOffice      *string
}

// Apply copies the fields onto r.
func (f Fields) Apply(r *entity.AnalysisResult) {
	r.ClientName = f.ClientName
	r.PANNumber = f.PANNumber
	r.GSTIN = f.GSTIN
	r.NoticeType = f.NoticeType
	r.NoticeDate = f.NoticeDate
	r.ComplianceDeadline = f.ComplianceDeadline
	r.PenaltyAmount = f.PenaltyAmount
	r.LegalSections = f.LegalSections
	if r.LegalSections == nil {
		r.LegalSections = []entity.LegalSection{}
	}
	r.IssuingOfficer = f.IssuingOfficer
	r.IssuingOffice = f.IssuingOffice
}

// Strategy runs a set of extractors over (translated) notice text.
// Extract never fails; a broken extractor leaves its field nil.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, text string) Fields
}

// NewStrategy returns the named strategy. The entity strategy needs an
// annotator; an empty name selects the pattern strategy.
func NewStrategy(name string, annotator nlp.Annotator, logger *slog.Logger) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyPattern:
		return NewPatternStrategy(logger), nil
	case StrategyEntity:
		if annotator == nil {
			return nil, fmt.Errorf("strategy %q needs an nlp annotator", StrategyEntity)
		}
		return NewEntityStrategy(annotator, logger), nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy %q", name)
	}
}

// PatternStrategy uses regular expressions and keyword tables only.
type PatternStrategy struct {
	logger *slog.Logger
}

func NewPatternStrategy(logger *slog.Logger) *PatternStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &PatternStrategy{logger: logger}
}

func (s *PatternStrategy) Name() string { return StrategyPattern }

func (s *PatternStrategy) Extract(_ context.Context, text string) Fields {
	f := patternFields(s.logger, text)
	f.NoticeType = optional(s.logger, "notice_type", func() (string, bool) { return NoticeType(text) })
	f.IssuingOffice = optional(s.logger, "issuing_office", func() (string, bool) { return IssuingOffice(text) })
	return f
}

// patternFields runs the extractors both strategies share.
func patternFields(logger *slog.Logger, text string) Fields {
	var f Fields
	f.PANNumber = optional(logger, "pan", func() (string, bool) { return PAN(text) })
	f.GSTIN = optional(logger, "gstin", func() (string, bool) { return GSTIN(text) })
	f.PenaltyAmount = optional(logger, "penalty_amount", func() (entity.MonetaryAmount, bool) { return Amount(text) })

	dates, _ := guard(logger, "dates", func() ([]time.Time, bool) { return Dates(text), true })
	f.NoticeDate, f.ComplianceDeadline = NoticeDates(dates)

	f.LegalSections, _ = guard(logger, "legal_sections", func() ([]entity.LegalSection, bool) { return Sections(text), true })
	if f.LegalSections == nil {
		f.LegalSections = []entity.LegalSection{}
	}
	return f
}

// guard runs one extractor, turning a panic into "not found".
func guard[T any](logger *slog.Logger, field string, fn func() (T, bool)) (v T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("extractor failed", "field", field, "panic", r)
			var zero T
			v, ok = zero, false
		}
	}()
	return fn()
}

func optional[T any](logger *slog.Logger, field string, fn func() (T, bool)) *T {
	v, ok := guard(logger, field, fn)
	if !ok {
		return nil
	}
	return &v
}
