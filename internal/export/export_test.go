package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/entity"
)

func sampleRows() []Row {
	notice := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	return []Row{
		{
			Path:        "inbox/notice.pdf",
			Status:      constants.RunStatusOK,
			ProcessedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			Result: entity.AnalysisResult{
				Metadata:           entity.Metadata{OriginalLanguage: "hi", ConfidenceScore: 0.9},
				PANNumber:          entity.Ptr("ABCDE1234F"),
				NoticeType:         entity.Ptr("Demand Notice"),
				NoticeDate:         &notice,
				ComplianceDeadline: &deadline,
				PenaltyAmount:      entity.Ptr(entity.NewMonetaryAmount(decimal.RequireFromString("125000"), "")),
				LegalSections:      []entity.LegalSection{{SectionNumber: "156"}, {SectionNumber: "271(1)(c)"}},
				IssuingOffice:      entity.Ptr("Income Tax Office, Ward 2(1), Mumbai"),
			},
		},
		{
			Path:   "inbox/missing.pdf",
			Status: constants.RunStatusNotFound,
			Result: entity.Minimal(entity.TextNotFound),
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheet}, f.GetSheetList())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])

	first := rows[1]
	assert.Equal(t, "inbox/notice.pdf", first[0])
	assert.Equal(t, "OK", first[1])
	assert.Equal(t, "hi", first[2])
	assert.Equal(t, "Demand Notice", first[3])
	assert.Equal(t, "2024-03-01", first[4])
	assert.Equal(t, "2024-03-31", first[5])
	assert.Equal(t, "ABCDE1234F", first[6])
	assert.Equal(t, "", first[7])
	assert.Equal(t, "125000", first[8])
	assert.Equal(t, "INR", first[9])
	assert.Equal(t, "156, 271(1)(c)", first[10])
	assert.Equal(t, "Income Tax Office, Ward 2(1), Mumbai", first[11])

	second := rows[2]
	assert.Equal(t, "NOT_FOUND", second[1])
	assert.Equal(t, "unknown", second[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRows()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	res := got[0]["result"].(map[string]any)
	assert.Equal(t, "ABCDE1234F", res["pan_number"])
	assert.NotContains(t, res, "gstin")
	missing := got[1]["result"].(map[string]any)
	assert.Equal(t, "Document not found", missing["text"])
	assert.Equal(t, []any{}, missing["legal_sections"])
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleRows()))

	var got []struct {
		Path   string `yaml:"path"`
		Status string `yaml:"status"`
		Result struct {
			PenaltyAmount struct {
				Amount   string `yaml:"amount"`
				Currency string `yaml:"currency"`
			} `yaml:"penalty_amount"`
			LegalSections []struct {
				SectionNumber string `yaml:"section_number"`
			} `yaml:"legal_sections"`
		} `yaml:"result"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "inbox/notice.pdf", got[0].Path)
	assert.Equal(t, "125000", got[0].Result.PenaltyAmount.Amount)
	assert.Len(t, got[0].Result.LegalSections, 2)
	assert.Equal(t, "NOT_FOUND", got[1].Status)
}

func TestWriteEmptyAndUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, nil))
	assert.JSONEq(t, "[]", buf.String())

	assert.Error(t, Write(&buf, "csv", nil))
}
