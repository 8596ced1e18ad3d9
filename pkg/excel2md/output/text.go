// Package output renders conversion results as Markdown, Mermaid and CSV.
package output

import (
	"regexp"
	"strconv"
	"strings"
)

var mdReserved = regexp.MustCompile(`\\|\||\*|_|~|\[|\]|` + "`")

var numericPattern = regexp.MustCompile(
	`^\s*(\()?([+-])?([¥$€£₩])?(\d{1,3}(?:[,，]\d{3})*|\d+)(?:[.．](\d+))?(?:[eE][+-]?\d+)?(\))?\s*(%)?\s*$`)

var currencyPrefix = regexp.MustCompile(`^\s*[¥$€£₩]\s*`)

// EscapeLevel controls how aggressively Markdown metacharacters are escaped.
type EscapeLevel string

const (
	// EscapeSafe escapes the usual Markdown metacharacters.
	EscapeSafe EscapeLevel = "safe"
	// EscapeMinimal escapes only pipes and newlines.
	EscapeMinimal EscapeLevel = "minimal"
	// EscapeAggressive escapes every character.
	EscapeAggressive EscapeLevel = "aggressive"
)

// MDEscape escapes a cell value for use inside a Markdown table. Newlines
// become <br> before escaping; pipes are always escaped. The aggressive
// level backslash-escapes every character, the <br> markers included.
func MDEscape(s string, level EscapeLevel) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\n", "<br>")
	switch level {
	case EscapeAggressive:
		var b strings.Builder
		for _, ch := range s {
			b.WriteByte('\\')
			b.WriteRune(ch)
		}
		return b.String()
	case EscapeMinimal:
		return strings.ReplaceAll(s, "|", `\|`)
	default:
		return mdReserved.ReplaceAllString(s, `\$0`)
	}
}

// NumericLike reports whether s looks like a number, optionally with sign,
// currency symbol, thousand separators, percent suffix, or accounting
// parentheses (which must be balanced).
func NumericLike(s string) bool {
	m := numericPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	openParen, closeParen := m[1], m[6]
	if (openParen == "") != (closeParen == "") {
		return false
	}
	return true
}

// NumericOptions control how numeric-like cell text is normalized.
type NumericOptions struct {
	// StripCurrency removes a leading currency symbol.
	StripCurrency bool
	// RemoveThousandSep removes grouping commas.
	RemoveThousandSep bool
	// PercentAsNumber strips the percent sign.
	PercentAsNumber bool
	// PercentDivide100 additionally divides by 100 (with PercentAsNumber).
	PercentDivide100 bool
}

// NormalizeNumeric applies the configured numeric output rules to a
// numeric-like string; non-numeric text passes through unchanged.
func NormalizeNumeric(s string, opts NumericOptions) string {
	if !NumericLike(s) {
		return s
	}
	raw := s
	if opts.StripCurrency {
		raw = currencyPrefix.ReplaceAllString(raw, "")
	}
	if opts.RemoveThousandSep {
		raw = strings.ReplaceAll(raw, ",", "")
		raw = strings.ReplaceAll(raw, "，", "")
	}
	if opts.PercentAsNumber {
		hadPct := strings.HasSuffix(strings.TrimSpace(raw), "%")
		raw = strings.ReplaceAll(raw, "%", "")
		if hadPct && opts.PercentDivide100 {
			if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				raw = strconv.FormatFloat(f/100.0, 'g', -1, 64)
			}
		}
	}
	return raw
}
