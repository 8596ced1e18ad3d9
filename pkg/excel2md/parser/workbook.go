// Package parser reads workbook content through excelize and adapts it to
// the narrow cell predicates the detection core consumes.
package parser

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
)

// CellOptions configure how cell display text is produced.
type CellOptions struct {
	// StripWhitespace trims surrounding whitespace from display text.
	StripWhitespace bool
}

// Workbook wraps an open xlsx file.
type Workbook struct {
	File *excelize.File
	path string
}

// OpenWorkbook opens an xlsx file for reading.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{File: f, path: path}, nil
}

// Close releases the underlying file.
func (wb *Workbook) Close() error {
	return wb.File.Close()
}

// Path returns the workbook file path.
func (wb *Workbook) Path() string {
	return wb.path
}

// SheetNames returns sheet names in workbook order.
func (wb *Workbook) SheetNames() []string {
	return wb.File.GetSheetList()
}

// Sheet returns an accessor for one sheet. The accessor caches display text
// and style lookups; it is valid for the lifetime of the workbook.
func (wb *Workbook) Sheet(name string, opts CellOptions) *Sheet {
	return &Sheet{
		file:       wb.File,
		name:       name,
		opts:       opts,
		textCache:  make(map[models.CellRef]string),
		hiddenRows: make(map[int]bool),
		hiddenCols: make(map[int]bool),
	}
}

// Sheet is a read-only view of one worksheet implementing the cell
// predicates of the detection core.
type Sheet struct {
	file *excelize.File
	name string
	opts CellOptions

	textCache  map[models.CellRef]string
	merged     []models.Area
	mergedInit bool
	hiddenRows map[int]bool
	hiddenCols map[int]bool
}

// Name returns the sheet name.
func (s *Sheet) Name() string {
	return s.name
}

// DisplayText returns the formatted, NFC-normalized display text of a cell
// with control characters removed.
func (s *Sheet) DisplayText(row, col int) string {
	ref := models.CellRef{Row: row, Col: col}
	if text, ok := s.textCache[ref]; ok {
		return text
	}
	text := ""
	if axis, err := excelize.CoordinatesToCellName(col, row); err == nil {
		raw, err := s.file.GetCellValue(s.name, axis)
		if err == nil {
			text = cleanDisplayText(raw, s.opts)
		}
	}
	s.textCache[ref] = text
	return text
}

// IsEmpty reports whether the cell shows no content: blank or
// whitespace-only text and default fill.
func (s *Sheet) IsEmpty(row, col int) bool {
	text := s.DisplayText(row, col)
	if text != "" && !isWhitespaceOnly(text) {
		return false
	}
	return !s.HasFill(row, col)
}

// HiddenRow reports whether the row is flagged hidden.
func (s *Sheet) HiddenRow(row int) bool {
	if hidden, ok := s.hiddenRows[row]; ok {
		return hidden
	}
	visible, err := s.file.GetRowVisible(s.name, row)
	hidden := err == nil && !visible
	s.hiddenRows[row] = hidden
	return hidden
}

// HiddenCol reports whether the column is flagged hidden.
func (s *Sheet) HiddenCol(col int) bool {
	if hidden, ok := s.hiddenCols[col]; ok {
		return hidden
	}
	hidden := false
	if name, err := excelize.ColumnNumberToName(col); err == nil {
		visible, err := s.file.GetColVisible(s.name, name)
		hidden = err == nil && !visible
	}
	s.hiddenCols[col] = hidden
	return hidden
}

// MergedRanges returns all merge blocks on the sheet.
func (s *Sheet) MergedRanges() []models.Area {
	if s.mergedInit {
		return s.merged
	}
	s.mergedInit = true
	cells, err := s.file.GetMergeCells(s.name)
	if err != nil {
		log.Warnf("sheet %q: reading merged cells failed: %v", s.name, err)
		return nil
	}
	for _, mc := range cells {
		startCol, startRow, err1 := excelize.CellNameToCoordinates(mc.GetStartAxis())
		endCol, endRow, err2 := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err1 != nil || err2 != nil {
			continue
		}
		s.merged = append(s.merged, models.Area{
			MinRow: startRow, MinCol: startCol, MaxRow: endRow, MaxCol: endCol,
		})
	}
	return s.merged
}

// UsedRange returns the sheet's used range. The dimension reference is
// trusted when it names a full range; a missing or single-cell dimension is
// common in files from producers that do not maintain it, so the bounds are
// then derived by scanning actual cell content. An empty sheet yields the
// single cell A1.
func (s *Sheet) UsedRange() models.Area {
	if area, ok := s.dimensionRange(); ok {
		return area
	}
	if area, ok := s.scanDataBounds(); ok {
		return area
	}
	return models.Area{MinRow: 1, MinCol: 1, MaxRow: 1, MaxCol: 1}
}

func (s *Sheet) dimensionRange() (models.Area, bool) {
	dim, err := s.file.GetSheetDimension(s.name)
	if err != nil || !strings.Contains(dim, ":") {
		return models.Area{}, false
	}
	parts := strings.SplitN(dim, ":", 2)
	startCol, startRow, err1 := excelize.CellNameToCoordinates(parts[0])
	endCol, endRow, err2 := excelize.CellNameToCoordinates(parts[1])
	if err1 != nil || err2 != nil {
		return models.Area{}, false
	}
	return models.Area{MinRow: startRow, MinCol: startCol, MaxRow: endRow, MaxCol: endCol}, true
}

// scanDataBounds finds the bounding box of non-empty cells.
func (s *Sheet) scanDataBounds() (models.Area, bool) {
	rows, err := s.file.GetRows(s.name)
	if err != nil {
		return models.Area{}, false
	}
	minRow, maxRow := -1, -1
	minCol, maxCol := -1, -1
	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}
	if minRow < 0 {
		return models.Area{}, false
	}
	return models.Area{MinRow: minRow + 1, MinCol: minCol + 1, MaxRow: maxRow + 1, MaxCol: maxCol + 1}, true
}

// Hyperlink returns the cell's hyperlink target, if any.
func (s *Sheet) Hyperlink(row, col int) (string, bool) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", false
	}
	has, target, err := s.file.GetCellHyperLink(s.name, axis)
	if err != nil || !has || target == "" {
		return "", false
	}
	return target, true
}
