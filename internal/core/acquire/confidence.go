package acquire

import (
	"regexp"
	"strings"
)

var (
	reDate   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d{4}-\d{1,2}-\d{1,2}\b`)
	reCurr   = regexp.MustCompile(`\b(rs|inr)\b|₹`)
	reAmount = regexp.MustCompile(`\b\d{1,3}(,\d{2,3})+(\.\d{2})?\b|\b\d+\.\d{2}\b`)
	rePAN    = regexp.MustCompile(`\b[a-z]{5}\d{4}[a-z]\b`)
)

// heuristicConfidence scores how much acquired text looks like a tax notice.
// It is logged and stored alongside runs, never used to reject text.
func heuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2)
	if reDate.MatchString(txtL) {
		score += 0.2
	}
	if reCurr.MatchString(txtL) {
		score += 0.15
	}
	if reAmount.MatchString(txtL) {
		score += 0.15
	}
	if rePAN.MatchString(txtL) {
		score += 0.2
	}
	if len(txt) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
