package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/notice-analyzer/constants"
	"github.com/joseph-ayodele/notice-analyzer/internal/entity"
)

// amountNum accepts western (10,000) and Indian (1,00,000) grouping as well
// as plain digits, with up to two decimal places.
const amountNum = `(\d{1,3}(?:,\d{2,3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`

// Tried in order; the first pattern with a parseable match wins.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:\bRs\.?|₹)\s*` + amountNum),
	regexp.MustCompile(`(?i)\bINR\s*` + amountNum),
	regexp.MustCompile(`(?i)penalty.*?` + amountNum),
}

// Amount returns the first monetary amount found, always in the local
// tax currency.
func Amount(text string) (entity.MonetaryAmount, bool) {
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		return entity.NewMonetaryAmount(d, constants.DefaultCurrency), true
	}
	return entity.MonetaryAmount{}, false
}
