// Package textnorm prepares recognised text for language detection and field extraction.
package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^[ \t]*[_\-=]{3,}[ \t]*$`)
)

// invisible runes OCR engines leave behind (zero-width space, BOM, soft hyphen).
var invisible = strings.NewReplacer("\u200b", "", "\ufeff", "", "\u00ad", "")

// DefaultSampleSize is the detection window, in runes.
const DefaultSampleSize = 500

// Normalize collapses noisy whitespace, drops ruler lines and composes
// Unicode to NFC so Devanagari/Telugu matras compare consistently.
// Line breaks are kept; more than two newlines collapse into one blank line.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = invisible.Replace(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\f", "\n")
	s = reBoxNoise.ReplaceAllString(s, "")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Sample returns at most n runes from the start of s, never splitting a rune.
// n <= 0 uses DefaultSampleSize.
func Sample(s string, n int) string {
	if n <= 0 {
		n = DefaultSampleSize
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// IsBlank reports whether s has no visible content.
func IsBlank(s string) bool {
	return strings.TrimSpace(invisible.Replace(s)) == ""
}
