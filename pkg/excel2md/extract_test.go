package excel2md

import (
	"strings"
	"testing"

	"github.com/excel2md/excel2md-go/pkg/excel2md/detect"
	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
)

// fakeSheet is an in-memory sheetCells for extraction tests.
type fakeSheet struct {
	text    map[models.CellRef]string
	fill    map[models.CellRef]bool
	links   map[models.CellRef]string
	borders map[models.CellRef]int
	merged  []models.Area
}

func newFakeSheet() *fakeSheet {
	return &fakeSheet{
		text:    make(map[models.CellRef]string),
		fill:    make(map[models.CellRef]bool),
		links:   make(map[models.CellRef]string),
		borders: make(map[models.CellRef]int),
	}
}

func (f *fakeSheet) set(row, col int, text string) {
	f.text[models.CellRef{Row: row, Col: col}] = text
}

func (f *fakeSheet) DisplayText(row, col int) string {
	return f.text[models.CellRef{Row: row, Col: col}]
}

func (f *fakeSheet) HasFill(row, col int) bool {
	return f.fill[models.CellRef{Row: row, Col: col}]
}

func (f *fakeSheet) IsEmpty(row, col int) bool {
	return f.DisplayText(row, col) == "" && !f.HasFill(row, col)
}

func (f *fakeSheet) HiddenRow(int) bool { return false }
func (f *fakeSheet) HiddenCol(int) bool { return false }

func (f *fakeSheet) MergedRanges() []models.Area { return f.merged }

func (f *fakeSheet) Hyperlink(row, col int) (string, bool) {
	link, ok := f.links[models.CellRef{Row: row, Col: col}]
	return link, ok
}

func (f *fakeSheet) BorderSides(row, col int) int {
	return f.borders[models.CellRef{Row: row, Col: col}]
}

// tableOver builds a rectangular table covering the given sheet range.
func tableOver(top, left, bottom, right int) models.Table {
	mask := make(map[models.CellRef]struct{})
	for r := top; r <= bottom; r++ {
		for c := left; c <= right; c++ {
			mask[models.CellRef{Row: r, Col: c}] = struct{}{}
		}
	}
	bbox := models.Rect{Top: top, Left: left, Bottom: bottom, Right: right}
	return models.Table{Rects: []models.Rect{bbox}, BBox: bbox, Mask: mask}
}

func TestExtractTableBasic(t *testing.T) {
	sheet := newFakeSheet()
	sheet.set(1, 1, "Name")
	sheet.set(1, 2, "Amount")
	sheet.set(2, 1, "Alice")
	sheet.set(2, 2, "100")

	table := tableOver(1, 1, 2, 2)
	got := ExtractTable(sheet, table, nil, newFootnoteState(), DefaultOptions())

	if len(got.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(got.Rows))
	}
	if got.Rows[0][0] != "Name" || got.Rows[1][1] != "100" {
		t.Errorf("unexpected rows: %v", got.Rows)
	}
	if len(got.Cols) != 2 || got.Cols[0] != 1 || got.Cols[1] != 2 {
		t.Errorf("unexpected cols: %v", got.Cols)
	}
	if got.RowMap[1] != 2 {
		t.Errorf("unexpected row map: %v", got.RowMap)
	}
}

func TestExtractTableSkipsUnusedColumnsAndBlankRows(t *testing.T) {
	sheet := newFakeSheet()
	sheet.set(1, 1, "a")
	sheet.set(1, 3, "b")
	sheet.set(3, 1, "c")
	// Row 2 and column 2 carry nothing.
	table := tableOver(1, 1, 3, 3)
	got := ExtractTable(sheet, table, nil, newFootnoteState(), DefaultOptions())

	if len(got.Cols) != 2 {
		t.Errorf("Expected unused column dropped, got %v", got.Cols)
	}
	if len(got.Rows) != 2 {
		t.Errorf("Expected blank row skipped, got %v", got.Rows)
	}
}

func TestExtractTableMergePolicy(t *testing.T) {
	sheet := newFakeSheet()
	sheet.set(1, 1, "wide")
	sheet.set(2, 1, "x")
	sheet.set(2, 2, "y")
	sheet.merged = []models.Area{{MinRow: 1, MinCol: 1, MaxRow: 1, MaxCol: 2}}
	area := models.Area{MinRow: 1, MinCol: 1, MaxRow: 2, MaxCol: 2}
	lookup := detect.BuildMergedLookup(sheet.merged, area)
	table := tableOver(1, 1, 2, 2)

	opts := DefaultOptions()
	got := ExtractTable(sheet, table, lookup, newFootnoteState(), opts)
	if got.Rows[0][1] != "" {
		t.Errorf("top_left_only should blank merge members, got %q", got.Rows[0][1])
	}

	opts.MergePolicy = MergeExpand
	got = ExtractTable(sheet, table, lookup, newFootnoteState(), opts)
	if got.Rows[0][1] != "wide" {
		t.Errorf("expand should repeat the value, got %q", got.Rows[0][1])
	}
}

func TestExtractTableHyperlinkModes(t *testing.T) {
	newSheet := func() *fakeSheet {
		sheet := newFakeSheet()
		sheet.set(1, 1, "docs")
		sheet.links[models.CellRef{Row: 1, Col: 1}] = "https://example.com"
		return sheet
	}
	table := tableOver(1, 1, 1, 1)

	tests := []struct {
		mode HyperlinkMode
		want string
	}{
		{LinkInline, "[docs](https://example.com)"},
		{LinkInlinePlain, "docs (https://example.com)"},
		{LinkFootnote, "docs[^1]"},
		{LinkBoth, "[docs](https://example.com)[^1]"},
	}
	for _, tt := range tests {
		opts := DefaultOptions()
		opts.HyperlinkMode = tt.mode
		fn := newFootnoteState()
		got := ExtractTable(newSheet(), table, nil, fn, opts)
		if got.Rows[0][0] != tt.want {
			t.Errorf("mode %s: got %q, want %q", tt.mode, got.Rows[0][0], tt.want)
		}
	}
}

func TestExtractTableFootnotesPerOccurrence(t *testing.T) {
	sheet := newFakeSheet()
	sheet.set(1, 1, "a")
	sheet.set(2, 1, "b")
	target := "https://example.com"
	sheet.links[models.CellRef{Row: 1, Col: 1}] = target
	sheet.links[models.CellRef{Row: 2, Col: 1}] = target

	opts := DefaultOptions()
	opts.HyperlinkMode = LinkFootnote
	fn := newFootnoteState()
	got := ExtractTable(sheet, tableOver(1, 1, 2, 1), nil, fn, opts)

	if got.Rows[0][0] != "a[^1]" || got.Rows[1][0] != "b[^2]" {
		t.Errorf("each occurrence should get its own footnote: %v", got.Rows)
	}
	if len(fn.notes) != 2 {
		t.Errorf("Expected 2 footnotes, got %v", fn.notes)
	}
	if fn.notes[0].Target != target || fn.notes[1].Target != target {
		t.Errorf("both footnotes should carry the target: %v", fn.notes)
	}
}

func TestExtractTableTruncation(t *testing.T) {
	sheet := newFakeSheet()
	for r := 1; r <= 10; r++ {
		sheet.set(r, 1, "v")
	}
	opts := DefaultOptions()
	opts.MaxCellsPerTable = 5
	got := ExtractTable(sheet, tableOver(1, 1, 10, 1), nil, newFootnoteState(), opts)

	if !got.Truncated {
		t.Error("Expected truncation flag")
	}
	if len(got.Rows) != 5 {
		t.Errorf("Expected 5 rows, got %d", len(got.Rows))
	}
}

func TestExtractTableTitle(t *testing.T) {
	sheet := newFakeSheet()
	sheet.set(1, 3, "Quarterly Report")
	sheet.set(2, 1, "Name")
	sheet.set(2, 2, "Value")
	sheet.set(3, 1, "a")
	sheet.set(3, 2, "1")
	sheet.merged = []models.Area{{MinRow: 1, MinCol: 3, MaxRow: 1, MaxCol: 5}}

	got := ExtractTable(sheet, tableOver(1, 1, 3, 5), nil, newFootnoteState(), DefaultOptions())
	if got.Title != "Quarterly Report" {
		t.Errorf("Expected title, got %q", got.Title)
	}
	if len(got.Rows) != 2 {
		t.Errorf("body should keep the data rows: %v", got.Rows)
	}
	if got.Rows[0][0] != "Name" {
		t.Errorf("unexpected first body row: %v", got.Rows[0])
	}
	for _, row := range got.Rows {
		for _, cell := range row {
			if cell == "Quarterly Report" {
				t.Errorf("title columns should be excluded from body: %v", got.Rows)
			}
		}
	}
}

func TestExtractTableTitleColumnsExcluded(t *testing.T) {
	sheet := newFakeSheet()
	sheet.set(1, 1, "Quarterly Report")
	sheet.set(2, 1, "Name")
	sheet.set(2, 2, "Value")
	sheet.set(3, 1, "a")
	sheet.set(3, 2, "1")
	sheet.merged = []models.Area{{MinRow: 1, MinCol: 1, MaxRow: 1, MaxCol: 3}}

	got := ExtractTable(sheet, tableOver(1, 1, 3, 3), nil, newFootnoteState(), DefaultOptions())
	if got.Title != "Quarterly Report" {
		t.Errorf("Expected title, got %q", got.Title)
	}
	if len(got.Rows) != 0 {
		t.Errorf("title spanning every data column leaves an empty body, got %v", got.Rows)
	}
}

func TestExtractTableNarrowMergeIsNotTitle(t *testing.T) {
	sheet := newFakeSheet()
	sheet.set(1, 1, "Not a title")
	sheet.set(2, 1, "x")
	sheet.merged = []models.Area{{MinRow: 1, MinCol: 1, MaxRow: 1, MaxCol: 2}}

	got := ExtractTable(sheet, tableOver(1, 1, 2, 2), nil, newFootnoteState(), DefaultOptions())
	if got.Title != "" {
		t.Errorf("two-column merge should not be a title, got %q", got.Title)
	}
}

func TestExtractTableEscaping(t *testing.T) {
	sheet := newFakeSheet()
	sheet.set(1, 1, "a|b")
	got := ExtractTable(sheet, tableOver(1, 1, 1, 1), nil, newFootnoteState(), DefaultOptions())
	if !strings.Contains(got.Rows[0][0], `\|`) {
		t.Errorf("pipe not escaped: %q", got.Rows[0][0])
	}
}

func TestExtractTableNumericNormalization(t *testing.T) {
	sheet := newFakeSheet()
	sheet.set(1, 1, "1,234")
	opts := DefaultOptions()
	opts.Numeric.RemoveThousandSep = true
	got := ExtractTable(sheet, tableOver(1, 1, 1, 1), nil, newFootnoteState(), opts)
	if got.Rows[0][0] != "1234" {
		t.Errorf("Expected normalized number, got %q", got.Rows[0][0])
	}
}
