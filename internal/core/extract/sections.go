package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/notice-analyzer/internal/entity"
)

// "Section 143(2)", "section 80C", "Section 271 (1)(c)", "Sections 148"
var sectionRe = regexp.MustCompile(`(?i)\bsections?\s*(\d+[A-Za-z]*(?:\s*\(\s*[0-9A-Za-z]{1,5}\s*\))*)`)

// Sections returns one entry per citation in reading order. Repeated
// citations are kept. Descriptions are never filled.
func Sections(text string) []entity.LegalSection {
	matches := sectionRe.FindAllStringSubmatch(text, -1)
	out := make([]entity.LegalSection, 0, len(matches))
	for _, m := range matches {
		out = append(out, entity.LegalSection{SectionNumber: compact(m[1])})
	}
	return out
}

func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
