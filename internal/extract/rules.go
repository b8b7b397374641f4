package extract

import (
	"regexp"
	"strings"
)

// scanMode controls how a field's rule list is applied to the input lines.
type scanMode int

const (
	// scanLineMajor walks lines top-to-bottom and tries every rule on each
	// line; the first line any rule matches wins.
	scanLineMajor scanMode = iota
	// scanRuleMajor walks rules in priority order and tries each rule
	// against every line before moving to the next rule. Used for totals so
	// a labeled amount anywhere in the receipt beats the bare trailing-number
	// catch-all on an earlier line.
	scanRuleMajor
)

// rule is one recognizer in a field's priority-ordered list. If the pattern
// has a capture group the first group is the extracted value, otherwise the
// whole match is.
type rule struct {
	pattern *regexp.Regexp
}

func (r rule) apply(line string) (string, bool) {
	m := r.pattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return m[0], true
}

// ruleSet binds a field's rules to its scan order.
type ruleSet struct {
	rules []rule
	mode  scanMode
}

// extract runs the rule set over the lines and returns the first winning
// value, or "" when nothing matched.
func (rs ruleSet) extract(lines []string) string {
	switch rs.mode {
	case scanRuleMajor:
		for _, r := range rs.rules {
			for _, line := range lines {
				if v, ok := r.apply(line); ok {
					return v
				}
			}
		}
	default:
		for _, line := range lines {
			for _, r := range rs.rules {
				if v, ok := r.apply(line); ok {
					return v
				}
			}
		}
	}
	return ""
}

// dateRules recognize the common receipt date syntaxes. Slash, dash and dot
// separated forms are tried per line, scanning top-to-bottom.
var dateRules = ruleSet{
	mode: scanLineMajor,
	rules: []rule{
		{regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)},
		{regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{2,4}`)},
		{regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{2,4}`)},
	},
}

// totalRules recognize the receipt total. Label-prefixed rules run before the
// bare end-of-line catch-all, across all lines, so "Subtotal 10.00" never
// shadows a later "Total 12.50".
var totalRules = ruleSet{
	mode: scanRuleMajor,
	rules: []rule{
		{regexp.MustCompile(`(?i)\btotal\b.*?(\d+\.\d{2})`)},
		{regexp.MustCompile(`(?i)\bamount\b.*?(\d+\.\d{2})`)},
		{regexp.MustCompile(`(?i)\bbalance\b.*?(\d+\.\d{2})`)},
		{regexp.MustCompile(`(?i)(\d+\.\d{2})\s*(?:total|amount|balance)`)},
		{regexp.MustCompile(`^.*?(\d+\.\d{2})\s*$`)},
	},
}

var amountToken = regexp.MustCompile(`\d+\.\d{2}`)

// summaryKeywords disqualify a line from being treated as a purchased item.
// Substring match, so "Subtotal" is caught by "total".
var summaryKeywords = []string{"total", "tax", "subtotal", "amount"}

// isItemLine reports whether a line looks like a purchased line item: it
// carries a two-decimal price and is not a summary line.
func isItemLine(line string) bool {
	if !amountToken.MatchString(line) {
		return false
	}
	lower := strings.ToLower(line)
	for _, kw := range summaryKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}
