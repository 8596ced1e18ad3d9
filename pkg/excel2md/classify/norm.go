package classify

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var underscoreRun = regexp.MustCompile(`_+`)

// normalizeHeaderName folds a header cell for role matching: NFKC, case
// fold, whitespace collapse.
func normalizeHeaderName(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeNodeID converts a display name into a Mermaid-safe identifier:
// NFKC-normalize, keep only ASCII alphanumerics and underscore, prefix with
// an underscore when starting with a digit, collapse repeated underscores.
func SanitizeNodeID(name string) string {
	s := norm.NFKC.String(name)
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_' {
			b.WriteRune(ch)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		out = "_"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return underscoreRun.ReplaceAllString(out, "_")
}

// nfkcLen is the rune length of the NFKC-normalized string, used for the
// label-length median heuristic.
func nfkcLen(s string) int {
	return len([]rune(norm.NFKC.String(s)))
}

// median returns the statistical median of values; the mean of the two
// middle values for even counts.
func median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]int(nil), values...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}
