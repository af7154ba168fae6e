package extract

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/notice-analyzer/constants"
)

// Tried in order. The last one is case-sensitive: it looks for a run of
// capitalised words right before "Income Tax Office" and returns the
// whole phrase.
var officePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Issuing Office:[ \t]*(.+)`),
	regexp.MustCompile(`(?i)Office\s*of\s*the[ \t]*(.+)`),
	regexp.MustCompile(`([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*[ \t]*Income Tax Office)`),
}

// IssuingOffice returns the issuing office named in text.
func IssuingOffice(text string) (string, bool) {
	for _, re := range officePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if s := strings.TrimSpace(m[1]); s != "" {
			return s, true
		}
	}
	return "", false
}

// NoticeType classifies text by the first category whose keywords appear
// anywhere in it, ignoring case.
func NoticeType(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, nk := range constants.NoticeTable() {
		for _, kw := range nk.Keywords {
			if strings.Contains(lower, kw) {
				return string(nk.Type), true
			}
		}
	}
	return "", false
}
