package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheet = "Notices"

var headers = []string{
	"File",
	"Status",
	"Language",
	"Notice Type",
	"Notice Date",
	"Compliance Deadline",
	"PAN",
	"GSTIN",
	"Penalty Amount",
	"Currency",
	"Legal Sections",
	"Issuing Office",
	"Confidence",
}

// WriteXLSX writes one row per document to a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		res := r.Result

		write(1, r.Path)
		write(2, string(r.Status))
		write(3, res.Metadata.OriginalLanguage)
		write(4, deref(res.NoticeType))
		if res.NoticeDate != nil {
			write(5, res.NoticeDate.Format("2006-01-02"))
		}
		if res.ComplianceDeadline != nil {
			write(6, res.ComplianceDeadline.Format("2006-01-02"))
		}
		write(7, deref(res.PANNumber))
		write(8, deref(res.GSTIN))
		if res.PenaltyAmount != nil {
			write(9, res.PenaltyAmount.Amount.InexactFloat64())
			write(10, res.PenaltyAmount.Currency)
		}
		sections := make([]string, 0, len(res.LegalSections))
		for _, s := range res.LegalSections {
			sections = append(sections, s.SectionNumber)
		}
		write(11, strings.Join(sections, ", "))
		write(12, deref(res.IssuingOffice))
		write(13, res.Metadata.ConfidenceScore)
	}

	_ = f.SetColWidth(sheet, "A", "A", 48) // path
	_ = f.SetColWidth(sheet, "B", "C", 12)
	_ = f.SetColWidth(sheet, "D", "D", 26)
	_ = f.SetColWidth(sheet, "E", "F", 16) // dates
	_ = f.SetColWidth(sheet, "G", "H", 18)
	_ = f.SetColWidth(sheet, "I", "J", 14) // amount
	_ = f.SetColWidth(sheet, "K", "K", 24)
	_ = f.SetColWidth(sheet, "L", "L", 40)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
