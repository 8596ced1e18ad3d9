package output

import "strings"

// TableOptions control Markdown grid rendering.
type TableOptions struct {
	// HeaderDetection treats the first non-blank row as a header row.
	HeaderDetection bool
	// AlignDetection right-aligns columns that are mostly numeric.
	AlignDetection bool
	// AlignThreshold is the numeric ratio above which a column is
	// right-aligned.
	AlignThreshold float64
}

// DefaultTableOptions returns the standard grid rendering options.
func DefaultTableOptions() TableOptions {
	return TableOptions{HeaderDetection: true, AlignDetection: true, AlignThreshold: 0.8}
}

// detectRightAlign reports whether a column's non-empty values are numeric
// at or above the threshold.
func detectRightAlign(vals []string, threshold float64) bool {
	var nonEmpty, numeric int
	for _, v := range vals {
		if strings.TrimSpace(v) == "" {
			continue
		}
		nonEmpty++
		if NumericLike(v) {
			numeric++
		}
	}
	if nonEmpty == 0 {
		return false
	}
	return float64(numeric)/float64(nonEmpty) >= threshold
}

// MakeTable renders rows as a Markdown pipe table. Completely empty columns
// are dropped first; an all-empty result renders as "".
func MakeTable(rows [][]string, opts TableOptions) string {
	if len(rows) == 0 {
		return ""
	}

	cols := len(rows[0])
	var keep []int
	for c := 0; c < cols; c++ {
		for _, row := range rows {
			if c < len(row) && strings.TrimSpace(row[c]) != "" {
				keep = append(keep, c)
				break
			}
		}
	}
	if len(keep) == 0 {
		return ""
	}

	trimmed := make([][]string, len(rows))
	for i, row := range rows {
		out := make([]string, len(keep))
		for j, c := range keep {
			if c < len(row) {
				out[j] = row[c]
			}
		}
		trimmed[i] = out
	}

	var header []string
	data := trimmed
	if opts.HeaderDetection {
		for _, cell := range trimmed[0] {
			if strings.TrimSpace(cell) != "" {
				header = trimmed[0]
				data = trimmed[1:]
				break
			}
		}
	}

	width := len(keep)
	aligns := make([]string, width)
	for c := range aligns {
		aligns[c] = "---"
	}
	if opts.AlignDetection {
		for c := 0; c < width; c++ {
			var vals []string
			for _, row := range data {
				if c < len(row) {
					vals = append(vals, row[c])
				}
			}
			if detectRightAlign(vals, opts.AlignThreshold) {
				aligns[c] = "---:"
			}
		}
	}

	var lines []string
	if header != nil {
		lines = append(lines, "| "+strings.Join(header, " | ")+" |")
		lines = append(lines, "| "+strings.Join(aligns, " | ")+" |")
	}
	body := data
	if header == nil {
		body = trimmed
	}
	for _, row := range body {
		padded := row
		if len(padded) < width {
			padded = append(append([]string(nil), row...), make([]string, width-len(row))...)
		}
		lines = append(lines, "| "+strings.Join(padded, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

// chooseHeaderRow picks a header row index among the first rows: the first
// row at least half non-empty and less numeric than the row after it, else
// the first non-empty row, else -1.
func chooseHeaderRow(rows [][]string) int {
	if len(rows) == 0 {
		return -1
	}
	numericRatio := func(row []string) float64 {
		var vals, nums int
		for _, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			vals++
			if NumericLike(v) {
				nums++
			}
		}
		if vals == 0 {
			return 0
		}
		return float64(nums) / float64(vals)
	}

	firstNonEmpty := -1
	limit := min(3, len(rows))
	for i := 0; i < limit; i++ {
		row := rows[i]
		nonEmpty := 0
		for _, v := range row {
			if strings.TrimSpace(v) != "" {
				nonEmpty++
			}
		}
		if firstNonEmpty < 0 && nonEmpty > 0 {
			firstNonEmpty = i
		}
		if nonEmpty >= max(1, len(row)/2) {
			next := 1.0
			if i+1 < len(rows) {
				next = numericRatio(rows[i+1])
			}
			if numericRatio(row) < next {
				return i
			}
		}
	}
	return firstNonEmpty
}
