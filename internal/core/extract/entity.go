package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/nlp"
)

// EntityStrategy fills names, office and notice type from named-entity
// annotations and the remaining fields from the pattern extractors.
type EntityStrategy struct {
	annotator nlp.Annotator
	logger    *slog.Logger
}

func NewEntityStrategy(annotator nlp.Annotator, logger *slog.Logger) *EntityStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &EntityStrategy{annotator: annotator, logger: logger}
}

func (s *EntityStrategy) Name() string { return StrategyEntity }

func (s *EntityStrategy) Extract(ctx context.Context, text string) Fields {
	f := patternFields(s.logger, text)

	ann, ok := guard(s.logger, "annotate", func() (nlp.Annotation, bool) {
		a, err := s.annotator.Annotate(ctx, text)
		if err != nil {
			s.logger.Warn("nlp annotation failed; entity fields left empty", "error", err)
			return nlp.Annotation{}, false
		}
		return a, true
	})
	if ok {
		f.ClientName = optional(s.logger, "client_name", func() (string, bool) { return ClientName(ann) })
		f.IssuingOfficer = optional(s.logger, "issuing_officer", func() (string, bool) { return IssuingOfficer(ann) })
		f.IssuingOffice = optional(s.logger, "issuing_office", func() (string, bool) { return EntityOffice(ann) })
		f.NoticeType = optional(s.logger, "notice_type", func() (string, bool) { return NoticeSentence(ann) })
	}
	if f.IssuingOffice == nil {
		f.IssuingOffice = optional(s.logger, "issuing_office", func() (string, bool) { return IssuingOffice(text) })
	}
	return f
}

// ClientName is the first PERSON entity. It may also be the officer.
func ClientName(a nlp.Annotation) (string, bool) {
	for _, e := range a.ByLabel(nlp.Person) {
		if name := strings.TrimSpace(e.Text); name != "" {
			return name, true
		}
	}
	return "", false
}

// IssuingOfficer is the first PERSON whose sentence mentions an officer.
func IssuingOfficer(a nlp.Annotation) (string, bool) {
	for _, e := range a.ByLabel(nlp.Person) {
		sent, ok := a.SentenceOf(e)
		if !ok {
			continue
		}
		if name := strings.TrimSpace(e.Text); name != "" && strings.Contains(strings.ToLower(sent.Text), constants.OfficerKeyword) {
			return name, true
		}
	}
	return "", false
}

// EntityOffice is the first ORGANIZATION whose sentence mentions an
// office, department or authority.
func EntityOffice(a nlp.Annotation) (string, bool) {
	for _, e := range a.ByLabel(nlp.Organization) {
		sent, ok := a.SentenceOf(e)
		if !ok {
			continue
		}
		if name := strings.TrimSpace(e.Text); name != "" && containsAny(strings.ToLower(sent.Text), constants.OfficeKeywords) {
			return name, true
		}
	}
	return "", false
}

// NoticeSentence returns the first sentence that reads like the notice's
// subject line.
func NoticeSentence(a nlp.Annotation) (string, bool) {
	for _, s := range a.Sentences {
		if containsAny(strings.ToLower(s.Text), constants.SentenceKeywords) {
			return strings.TrimSpace(s.Text), true
		}
	}
	return "", false
}

func containsAny(s string, kws []string) bool {
	for _, kw := range kws {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
