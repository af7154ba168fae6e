// Package extract holds the stateless field extractors that turn notice
// text into structured values, and the strategies that combine them.
//
// Every extractor returns value-or-absent; none of them returns an error.
package extract

import "regexp"

var (
	// 5 letters, 4 digits, 1 letter
	panRe = regexp.MustCompile(`[A-Z]{5}[0-9]{4}[A-Z]`)
	// state code, PAN, entity code, literal Z, check character
	gstinRe = regexp.MustCompile(`\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]`)
)

// PAN returns the first permanent account number in reading order.
func PAN(text string) (string, bool) {
	m := panRe.FindString(text)
	return m, m != ""
}

// GSTIN returns the first GST identification number in reading order.
func GSTIN(text string) (string, bool) {
	m := gstinRe.FindString(text)
	return m, m != ""
}
