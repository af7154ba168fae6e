package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/notice-analyzer/constants"
)

// MonetaryAmount is a parsed amount in a currency.
type MonetaryAmount struct {
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Currency string          `json:"currency" yaml:"currency"`
}

// NewMonetaryAmount builds an amount, defaulting the currency to the local tax currency.
func NewMonetaryAmount(amount decimal.Decimal, currency string) MonetaryAmount {
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	return MonetaryAmount{Amount: amount, Currency: currency}
}

// LegalSection is a statute citation such as "142(1)".
type LegalSection struct {
	SectionNumber string  `json:"section_number" yaml:"section_number"`
	Description   *string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Metadata describes how much the pipeline trusts a result.
type Metadata struct {
	OriginalLanguage string  `json:"original_language" yaml:"original_language"`
	ConfidenceScore  float64 `json:"confidence_score" yaml:"confidence_score"`
}

// AnalysisResult is the structured summary of one notice.
// Nil pointers mean "not found"; they are never replaced by zero values.
type AnalysisResult struct {
	Metadata           Metadata        `json:"metadata" yaml:"metadata"`
	Text               *string         `json:"text,omitempty" yaml:"text,omitempty"`
	TranslatedText     *string         `json:"translated_text,omitempty" yaml:"translated_text,omitempty"`
	ClientName         *string         `json:"client_name,omitempty" yaml:"client_name,omitempty"`
	PANNumber          *string         `json:"pan_number,omitempty" yaml:"pan_number,omitempty"`
	GSTIN              *string         `json:"gstin,omitempty" yaml:"gstin,omitempty"`
	NoticeType         *string         `json:"notice_type,omitempty" yaml:"notice_type,omitempty"`
	NoticeDate         *time.Time      `json:"notice_date,omitempty" yaml:"notice_date,omitempty"`
	PenaltyAmount      *MonetaryAmount `json:"penalty_amount,omitempty" yaml:"penalty_amount,omitempty"`
	LegalSections      []LegalSection  `json:"legal_sections" yaml:"legal_sections"`
	ComplianceDeadline *time.Time      `json:"compliance_deadline,omitempty" yaml:"compliance_deadline,omitempty"`
	IssuingOfficer     *string         `json:"issuing_officer,omitempty" yaml:"issuing_officer,omitempty"`
	IssuingOffice      *string         `json:"issuing_office,omitempty" yaml:"issuing_office,omitempty"`
}

// Placeholder texts carried by minimal records.
const (
	TextNotFound   = "Document not found"
	TextNoText     = "No text extracted from document"
	TextErrorFmt   = "Error processing document: %s"
	LanguageFailed = constants.LangUnknown
)

// Minimal is the universal "could not process" record.
func Minimal(text string) AnalysisResult {
	return AnalysisResult{
		Metadata:      Metadata{OriginalLanguage: LanguageFailed, ConfidenceScore: 0.0},
		Text:          &text,
		LegalSections: []LegalSection{},
	}
}

// Processed reports whether the record came from a successful pipeline run.
func (r AnalysisResult) Processed() bool {
	return r.Metadata.OriginalLanguage != LanguageFailed
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}
