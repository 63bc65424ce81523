package domain

import (
	"strings"
)

// Canonical status tokens. A record's status is either a single exclusive
// token (off-site, absent) or a combination of late/early-leave/holiday
// joined with StatusDelimiter, or "normal" when nothing applies.
const (
	StatusNormal     = "normal"
	StatusLate       = "late"
	StatusEarlyLeave = "early-leave"
	StatusOffSite    = "off-site"
	StatusHoliday    = "holiday"
	StatusAbsent     = "absent"
)

// StatusDelimiter joins combined canonical tokens.
const StatusDelimiter = ","

// LabelDelimiter joins combined presentation labels.
const LabelDelimiter = "、"

// statusCanonical folds every known rendering of a status token, including
// the traditional and simplified script variants that coexist in source
// data, into its canonical token. The table is explicit so the mapping stays
// auditable; nothing is inferred at runtime.
var statusCanonical = map[string]string{
	"normal":      StatusNormal,
	"正常":          StatusNormal,
	"late":        StatusLate,
	"遲到":          StatusLate,
	"迟到":          StatusLate,
	"early-leave": StatusEarlyLeave,
	"早退":          StatusEarlyLeave,
	"off-site":    StatusOffSite,
	"外出":          StatusOffSite,
	"holiday":     StatusHoliday,
	"假日":          StatusHoliday,
	"absent":      StatusAbsent,
	"未進公司":        StatusAbsent,
	"未进公司":        StatusAbsent,
}

// statusLabels maps canonical tokens to their traditional presentation
// labels used in the workbook and the UI.
var statusLabels = map[string]string{
	StatusNormal:     "正常",
	StatusLate:       "遲到",
	StatusEarlyLeave: "早退",
	StatusOffSite:    "外出",
	StatusHoliday:    "假日",
	StatusAbsent:     "未進公司",
}

// JoinStatus combines canonical tokens into a single status string.
func JoinStatus(tokens []string) string {
	return strings.Join(tokens, StatusDelimiter)
}

// SplitStatus breaks a status string into its tokens. Both the canonical
// and the presentation delimiter are accepted.
func SplitStatus(status string) []string {
	if status == "" {
		return nil
	}
	status = strings.ReplaceAll(status, LabelDelimiter, StatusDelimiter)
	parts := strings.Split(status, StatusDelimiter)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// CanonicalStatus normalizes a status string, token by token, through the
// canonicalization table. Unknown tokens pass through unchanged so they stay
// visible in statistics rather than being silently merged.
func CanonicalStatus(status string) string {
	tokens := SplitStatus(status)
	for i, tok := range tokens {
		if canonical, ok := statusCanonical[tok]; ok {
			tokens[i] = canonical
		}
	}
	return JoinStatus(tokens)
}

// StatusContains reports whether the canonical form of status includes the
// given canonical token.
func StatusContains(status, token string) bool {
	for _, tok := range SplitStatus(CanonicalStatus(status)) {
		if tok == token {
			return true
		}
	}
	return false
}

// StatusLabel renders a canonical status string with localized labels for
// presentation, preserving token order.
func StatusLabel(status string) string {
	tokens := SplitStatus(CanonicalStatus(status))
	labels := make([]string, len(tokens))
	for i, tok := range tokens {
		if label, ok := statusLabels[tok]; ok {
			labels[i] = label
		} else {
			labels[i] = tok
		}
	}
	return strings.Join(labels, LabelDelimiter)
}
