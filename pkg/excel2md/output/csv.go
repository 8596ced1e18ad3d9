package output

import (
	"encoding/csv"
	"strings"
)

// RenderCSV renders a raw grid of cell values as CSV text. Rows are padded
// to the widest row so every record has the same field count.
func RenderCSV(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	for _, row := range rows {
		record := row
		if len(record) < width {
			record = append(append([]string(nil), row...), make([]string, width-len(row))...)
		}
		// strings.Builder writes never fail.
		_ = w.Write(record)
	}
	w.Flush()
	return b.String()
}
