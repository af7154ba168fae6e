package constants

import (
	"strings"
)

type NoticeType string

const (
	ScrutinyNotice NoticeType = "Scrutiny Notice"
	DemandNotice   NoticeType = "Demand Notice"
	PenaltyNotice  NoticeType = "Penalty Notice"
	Intimation     NoticeType = "Intimation"
)

// NoticeKeywords is a category and the lowercase keywords that select it.
type NoticeKeywords struct {
	Type     NoticeType
	Keywords []string
}

// noticeTable is evaluated in declaration order; first hit wins.
var noticeTable = []NoticeKeywords{
	{ScrutinyNotice, []string{"scrutiny", "examination", "verification"}},
	{DemandNotice, []string{"demand", "payable", "outstanding"}},
	{PenaltyNotice, []string{"penalty", "fine", "punishment"}},
	{Intimation, []string{"intimation", "information", "communication"}},
}

// NoticeTable returns a copy of the ordered category table.
func NoticeTable() []NoticeKeywords {
	out := make([]NoticeKeywords, len(noticeTable))
	copy(out, noticeTable)
	return out
}

// SentenceKeywords are the triggers for the sentence-level notice type used by the entity pipeline.
var SentenceKeywords = []string{"notice", "assessment", "demand", "summons", "order"}

// OfficerKeyword marks a sentence that names the issuing officer.
const OfficerKeyword = "officer"

// OfficeKeywords mark a sentence that names the issuing office.
var OfficeKeywords = []string{"office", "department", "authority"}

// DefaultCurrency is the local tax currency.
const DefaultCurrency = "INR"

// Canonicalize maps a free-form label (any case) to a known notice type.
func Canonicalize(input string) (NoticeType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}
	for _, nk := range noticeTable {
		if normalized == strings.ToLower(string(nk.Type)) {
			return nk.Type, true
		}
	}
	return "", false
}
