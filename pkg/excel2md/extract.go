package excel2md

import (
	"strconv"
	"strings"

	"github.com/excel2md/excel2md-go/pkg/excel2md/detect"
	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
	"github.com/excel2md/excel2md-go/pkg/excel2md/output"
)

// sheetCells is the cell surface value extraction needs: the detection
// predicates plus hyperlinks and border styling.
type sheetCells interface {
	detect.CellAccessor
	Hyperlink(row, col int) (string, bool)
	BorderSides(row, col int) int
}

// ExtractedTable is the materialized content of one detected table.
type ExtractedTable struct {
	// Title is the heading text taken from a wide merged cell, if any.
	Title string
	// Rows holds the rendered cell text, dense over used rows and columns.
	Rows [][]string
	// RowMap maps each local row index to its sheet row.
	RowMap []int
	// Cols maps each local column index to its sheet column.
	Cols []int
	// Truncated is set when the cell cap cut the table short.
	Truncated bool
}

// footnoteState numbers hyperlink footnotes. Every occurrence gets a fresh
// index, even when targets repeat.
type footnoteState struct {
	next  int
	notes []models.Footnote
}

func newFootnoteState() *footnoteState {
	return &footnoteState{next: 1}
}

func (f *footnoteState) index(target string) int {
	idx := f.next
	f.next++
	f.notes = append(f.notes, models.Footnote{Index: idx, Target: target})
	return idx
}

// ExtractTable materializes the display text of one table: a dense row/column
// grid over the cells the mask actually uses, with merge policy, numeric
// normalization, hyperlink rendering and the cell cap applied. The title's
// merged columns are excluded from the body; the title row itself then drops
// out as empty.
func ExtractTable(cells sheetCells, table models.Table, lookup detect.MergedLookup, fn *footnoteState, opts Options) ExtractedTable {
	result := ExtractedTable{}
	titleCols := map[int]bool{}
	result.Title, titleCols = detectTableTitle(cells, table)

	// value resolves one cell under the merge policy.
	value := func(row, col int) (string, int, int) {
		if anchor, ok := lookup[models.CellRef{Row: row, Col: col}]; ok {
			if anchor.Row != row || anchor.Col != col {
				if opts.MergePolicy == MergeExpand {
					return cells.DisplayText(anchor.Row, anchor.Col), anchor.Row, anchor.Col
				}
				return "", row, col
			}
		}
		return cells.DisplayText(row, col), row, col
	}

	// Used columns: those where at least one covered cell carries text.
	for col := table.BBox.Left; col <= table.BBox.Right; col++ {
		if titleCols[col] {
			continue
		}
		used := false
		for row := table.BBox.Top; row <= table.BBox.Bottom; row++ {
			if !table.Covers(row, col) {
				continue
			}
			if v, _, _ := value(row, col); strings.TrimSpace(v) != "" {
				used = true
				break
			}
		}
		if used {
			result.Cols = append(result.Cols, col)
		}
	}
	if len(result.Cols) == 0 {
		return result
	}

	cellCount := 0
	for row := table.BBox.Top; row <= table.BBox.Bottom; row++ {
		if opts.MaxCellsPerTable > 0 && cellCount+len(result.Cols) > opts.MaxCellsPerTable {
			result.Truncated = true
			break
		}
		line := make([]string, len(result.Cols))
		blank := true
		for i, col := range result.Cols {
			if !table.Covers(row, col) {
				continue
			}
			raw, srcRow, srcCol := value(row, col)
			if strings.TrimSpace(raw) == "" {
				continue
			}
			blank = false
			line[i] = renderCellValue(cells, raw, srcRow, srcCol, fn, opts)
		}
		if blank {
			continue
		}
		cellCount += len(result.Cols)
		result.Rows = append(result.Rows, line)
		result.RowMap = append(result.RowMap, row)
	}
	return result
}

// renderCellValue applies numeric normalization, Markdown escaping and the
// hyperlink mode to one cell's text.
func renderCellValue(cells sheetCells, raw string, row, col int, fn *footnoteState, opts Options) string {
	text := output.NormalizeNumeric(raw, opts.Numeric)
	escaped := output.MDEscape(text, opts.EscapeLevel)

	target, ok := cells.Hyperlink(row, col)
	if !ok {
		return escaped
	}
	switch opts.HyperlinkMode {
	case LinkInlinePlain:
		return escaped + " (" + target + ")"
	case LinkFootnote:
		return escaped + "[^" + strconv.Itoa(fn.index(target)) + "]"
	case LinkBoth:
		return "[" + escaped + "](" + target + ")[^" + strconv.Itoa(fn.index(target)) + "]"
	default:
		return "[" + escaped + "](" + target + ")"
	}
}

// detectTableTitle finds a heading candidate: a merged block spanning at
// least three columns whose top-left sits within the first three rows and
// first ten columns of the table, carrying non-empty text. The merged
// block's columns are excluded from the table body.
func detectTableTitle(cells sheetCells, table models.Table) (string, map[int]bool) {
	titleCols := make(map[int]bool)
	for _, mr := range cells.MergedRanges() {
		if mr.Cols() < 3 {
			continue
		}
		if mr.MinRow < table.BBox.Top || mr.MinRow > table.BBox.Top+2 {
			continue
		}
		if mr.MinCol < table.BBox.Left || mr.MinCol > table.BBox.Left+9 {
			continue
		}
		if !table.Covers(mr.MinRow, mr.MinCol) {
			continue
		}
		text := strings.TrimSpace(cells.DisplayText(mr.MinRow, mr.MinCol))
		if text == "" {
			continue
		}
		for col := mr.MinCol; col <= mr.MaxCol; col++ {
			titleCols[col] = true
		}
		return text, titleCols
	}
	return "", titleCols
}

// tableStyle adapts sheet border styling to the local coordinates of an
// extracted table.
type tableStyle struct {
	cells sheetCells
	table ExtractedTable
}

func (s tableStyle) BorderSides(row, col int) int {
	if row < 0 || row >= len(s.table.RowMap) || col < 0 || col >= len(s.table.Cols) {
		return 0
	}
	return s.cells.BorderSides(s.table.RowMap[row], s.table.Cols[col])
}
