package classify

import "strings"

// CellStyle reports style information for the extracted rows, addressed by
// local (0-based) row and column index within the rows slice. A nil CellStyle
// is treated as fully borderless.
type CellStyle interface {
	// BorderSides returns how many of the four border sides are set.
	BorderSides(row, col int) int
}

func borderSides(style CellStyle, row, col int) int {
	if style == nil {
		return 0
	}
	return style.BorderSides(row, col)
}

// detectText checks the single free-text line format: the first row has
// exactly one non-empty cell, that cell has fewer than 2 border sides, and
// every other first-row cell is both empty and borderless. Returns the raw
// value, unescaped at this layer.
func detectText(rows [][]string, style CellStyle) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}
	first := rows[0]
	var nonEmpty []int
	for i, val := range first {
		if strings.TrimSpace(val) != "" {
			nonEmpty = append(nonEmpty, i)
		}
	}
	if len(nonEmpty) != 1 {
		return "", false
	}
	valueCol := nonEmpty[0]
	if borderSides(style, 0, valueCol) >= 2 {
		return "", false
	}
	for i := range first {
		if i == valueCol {
			continue
		}
		if borderSides(style, 0, i) >= 2 {
			return "", false
		}
	}
	return first[valueCol], true
}

// detectNested renders rows as an indented outline when every row is either
// blank or has its non-empty cells in a contiguous run of columns. A row with
// a single value at column k indents by k; a multi-value row qualifies only
// when its run starts past column 0 (a full-width run is ordinary table
// data). Any violating row abandons the nested format entirely.
func detectNested(rows [][]string) (string, bool) {
	var lines []string
	for _, row := range rows {
		var nonEmpty []int
		for i, val := range row {
			if strings.TrimSpace(val) != "" {
				nonEmpty = append(nonEmpty, i)
			}
		}
		switch {
		case len(nonEmpty) == 0:
			lines = append(lines, "")
		case len(nonEmpty) == 1:
			k := nonEmpty[0]
			lines = append(lines, strings.Repeat("  ", k)+row[k])
		default:
			k := nonEmpty[0]
			contiguous := true
			for i, idx := range nonEmpty {
				if idx != k+i {
					contiguous = false
					break
				}
			}
			if k == 0 || !contiguous {
				return "", false
			}
			lines = append(lines, strings.Repeat("  ", k)+row[k])
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}
