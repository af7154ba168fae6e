package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/common"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/acquire"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/extract"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/langid"
	"github.com/joseph-ayodele/notice-analyzer/internal/core/translate"
	"github.com/joseph-ayodele/notice-analyzer/internal/entity"
)

type fixedLang string

func (f fixedLang) Identify(context.Context, string) string { return string(f) }

type countingTranslator struct {
	calls int
	out   string
}

func (c *countingTranslator) Translate(_ context.Context, text, _ string) string {
	c.calls++
	if c.out != "" {
		return c.out
	}
	return text
}

type fakeSource struct {
	res   acquire.Result
	err   error
	panic bool
}

func (f fakeSource) Extract(context.Context, string) (acquire.Result, error) {
	if f.panic {
		panic("pdf decoder exploded")
	}
	return f.res, f.err
}

const syntheticNotice = `Notice under Section 271(1)(c) and Section 274
PAN: ABCDE1234F
GSTIN: 27ABCDE1234F1Z5
Date of notice: 05/03/2024
A penalty of Rs. 10,000.00 is levied.`

func TestAnalyzeTextEndToEnd(t *testing.T) {
	tr := &countingTranslator{}
	a := NewAnalyzer(nil, nil, fixedLang("en"), tr, nil, 0, 0)
	res := a.AnalyzeText(context.Background(), syntheticNotice)

	assert.Equal(t, "en", res.Metadata.OriginalLanguage)
	assert.InDelta(t, 0.9, res.Metadata.ConfidenceScore, 1e-9)
	assert.Equal(t, 0, tr.calls)

	require.NotNil(t, res.PANNumber)
	assert.Equal(t, "ABCDE1234F", *res.PANNumber)
	require.NotNil(t, res.GSTIN)
	assert.Equal(t, "27ABCDE1234F1Z5", *res.GSTIN)
	require.NotNil(t, res.NoticeDate)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *res.NoticeDate)
	assert.Nil(t, res.ComplianceDeadline)
	require.NotNil(t, res.PenaltyAmount)
	assert.True(t, decimal.RequireFromString("10000").Equal(res.PenaltyAmount.Amount))
	assert.Equal(t, "INR", res.PenaltyAmount.Currency)
	require.Len(t, res.LegalSections, 2)
	require.NotNil(t, res.NoticeType)
	assert.Equal(t, "Penalty Notice", *res.NoticeType)

	require.NotNil(t, res.Text)
	assert.Equal(t, syntheticNotice, *res.Text)
	require.NotNil(t, res.TranslatedText)
}

func TestAnalyzeTextWithoutLanguageMarkersSkipsTranslation(t *testing.T) {
	tr := &countingTranslator{}
	a := NewAnalyzer(nil, nil, langid.NewIdentifier(nil, langid.Config{}, nil), tr, nil, 0, 0)
	res := a.AnalyzeText(context.Background(), "12345 67890 2024")
	assert.Equal(t, "en", res.Metadata.OriginalLanguage)
	assert.Equal(t, 0, tr.calls)
}

func TestAnalyzeTextTranslatesNonEnglish(t *testing.T) {
	tr := &countingTranslator{out: "Demand notice for PAN ABCDE1234F"}
	a := NewAnalyzer(nil, nil, fixedLang("hi"), tr, nil, 0, 0)
	res := a.AnalyzeText(context.Background(), "मांग सूचना ABCDE1234F")

	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, "hi", res.Metadata.OriginalLanguage)
	require.NotNil(t, res.TranslatedText)
	assert.Equal(t, "Demand notice for PAN ABCDE1234F", *res.TranslatedText)
	require.NotNil(t, res.NoticeType)
	assert.Equal(t, "Demand Notice", *res.NoticeType)
	assert.Equal(t, "मांग सूचना ABCDE1234F", *res.Text)
}

func TestAnalyzeTextTranslationFallbackKeepsPipelineRunning(t *testing.T) {
	chunked := translate.NewChunked(failingTranslator{}, translate.Config{}, nil)
	a := NewAnalyzer(nil, nil, fixedLang("te"), chunked, nil, 0, 0)
	res := a.AnalyzeText(context.Background(), "PAN ABCDE1234F")
	require.NotNil(t, res.PANNumber)
	assert.Equal(t, "te", res.Metadata.OriginalLanguage)
}

type failingTranslator struct{}

func (failingTranslator) Translate(context.Context, string, string) (string, error) {
	return "", errors.New("service unavailable")
}

func TestAnalyzeTextBlank(t *testing.T) {
	a := NewAnalyzer(nil, nil, fixedLang("en"), nil, nil, 0, 0)
	for _, in := range []string{"", "   \n\t", "\u200b"} {
		res := a.AnalyzeText(context.Background(), in)
		assert.Equal(t, "unknown", res.Metadata.OriginalLanguage)
		assert.Zero(t, res.Metadata.ConfidenceScore)
		require.NotNil(t, res.Text)
		assert.Equal(t, entity.TextNoText, *res.Text)
		assert.Nil(t, res.TranslatedText)
	}
}

func TestProcessDocumentNonexistentPath(t *testing.T) {
	src := acquire.NewExtractor(acquire.Config{}, nil, nil)
	a := NewAnalyzer(nil, src, fixedLang("en"), nil, nil, 0, 0)

	var res entity.AnalysisResult
	require.NotPanics(t, func() {
		res = a.ProcessDocument(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	})
	assert.Equal(t, "unknown", res.Metadata.OriginalLanguage)
	assert.Equal(t, 0.0, res.Metadata.ConfidenceScore)
	require.NotNil(t, res.Text)
	assert.Equal(t, entity.TextNotFound, *res.Text)
}

func TestProcessTextFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "notice.txt")
	require.NoError(t, os.WriteFile(p, []byte(syntheticNotice), 0o644))

	a := NewAnalyzer(nil, acquire.NewExtractor(acquire.Config{}, nil, nil), fixedLang("en"), nil, nil, 0, 0)
	out := a.Process(context.Background(), p)
	assert.Equal(t, constants.RunStatusOK, out.Status)
	assert.NoError(t, out.Err)
	assert.Equal(t, p, out.Path)
	assert.NotEqual(t, "", out.ID.String())
	assert.Equal(t, constants.TXT, out.Source.SourceType)
	require.NotNil(t, out.Result.PANNumber)
}

func TestProcessStatuses(t *testing.T) {
	tests := []struct {
		name   string
		src    fakeSource
		status constants.RunStatus
		text   string
	}{
		{"not found", fakeSource{err: common.NewAppError("NOT_FOUND", "x", common.ErrNotFound)}, constants.RunStatusNotFound, entity.TextNotFound},
		{"blank ocr", fakeSource{res: acquire.Result{Text: "  \n"}}, constants.RunStatusNoText, entity.TextNoText},
		{"ocr failed", fakeSource{err: errors.New("tesseract: exit status 1")}, constants.RunStatusFailed, entity.TextNoText},
		{"panic", fakeSource{panic: true}, constants.RunStatusFailed, "Error processing document: pdf decoder exploded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(nil, tt.src, fixedLang("en"), nil, nil, 0, 0)
			out := a.Process(context.Background(), "/in/notice.pdf")
			assert.Equal(t, tt.status, out.Status)
			assert.Equal(t, "unknown", out.Result.Metadata.OriginalLanguage)
			assert.Zero(t, out.Result.Metadata.ConfidenceScore)
			require.NotNil(t, out.Result.Text)
			assert.Equal(t, tt.text, *out.Result.Text)
			assert.NotNil(t, out.Result.LegalSections)
		})
	}
}

type panickyStrategy struct{}

func (panickyStrategy) Name() string { return "panicky" }
func (panickyStrategy) Extract(context.Context, string) extract.Fields {
	panic("index out of range")
}

func TestAnalyzeTextRecoversStrategyPanic(t *testing.T) {
	a := NewAnalyzer(nil, nil, fixedLang("en"), nil, panickyStrategy{}, 0, 0)
	res := a.AnalyzeText(context.Background(), "some text")
	require.NotNil(t, res.Text)
	assert.True(t, strings.HasPrefix(*res.Text, "Error processing document: "))
	assert.Equal(t, "unknown", res.Metadata.OriginalLanguage)
}

func TestConfidenceIsConfigurable(t *testing.T) {
	a := NewAnalyzer(nil, nil, fixedLang("en"), nil, nil, 0.75, 0)
	res := a.AnalyzeText(context.Background(), "PAN ABCDE1234F")
	assert.InDelta(t, 0.75, res.Metadata.ConfidenceScore, 1e-9)
}
