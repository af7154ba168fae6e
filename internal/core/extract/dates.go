package extract

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Scanned in this order and unioned. A hit that touches another digit is
// rejected, so DD/MM/YY never matches the first eight characters of a
// DD/MM/YYYY date, while letters and punctuation around a date are fine
// ("Dated05/03/2024", "2024-03-05T10:00").
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`), // DD/MM/YYYY
	regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`), // DD-MM-YYYY
	regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`), // YYYY-MM-DD
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2}`), // DD/MM/YY
}

// findDigitBounded returns the non-overlapping matches of re that are not
// directly preceded or followed by a digit. After a rejected hit the scan
// resumes one byte later so a shorter candidate inside it is still seen.
func findDigitBounded(re *regexp.Regexp, text string) []string {
	var out []string
	for pos := 0; pos < len(text); {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if (start > 0 && isDigit(text[start-1])) || (end < len(text) && isDigit(text[end])) {
			pos = start + 1
			continue
		}
		out = append(out, text[start:end])
		pos = end
	}
	return out
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// layoutFor picks the parse layout from the separator and field widths.
// Two-digit years follow time.Parse: 69-99 are 19xx, 00-68 are 20xx.
func layoutFor(s string) string {
	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts[len(parts)-1]) == 2 {
			return "2/1/06"
		}
		return "2/1/2006"
	}
	if i := strings.Index(s, "-"); i == 4 {
		return "2006-1-2"
	}
	return "2-1-2006"
}

// Dates returns every valid calendar date found in text, in pattern order
// then reading order. Candidates that are not real dates (31/02/2024) are
// dropped. The same date written twice appears twice.
func Dates(text string) []time.Time {
	var out []time.Time
	for _, re := range datePatterns {
		for _, m := range findDigitBounded(re, text) {
			d, err := time.Parse(layoutFor(m), m)
			if err != nil {
				continue
			}
			out = append(out, d)
		}
	}
	return out
}

// NoticeDates picks the notice date and compliance deadline from a set of
// extracted dates. The notice date is the latest date found. The deadline
// is the same latest date, set only when at least two distinct dates were
// found.
func NoticeDates(dates []time.Time) (notice, deadline *time.Time) {
	if len(dates) == 0 {
		return nil, nil
	}
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	latest := sorted[len(sorted)-1]
	notice = &latest
	if !sorted[0].Equal(latest) {
		d := latest
		deadline = &d
	}
	return notice, deadline
}
