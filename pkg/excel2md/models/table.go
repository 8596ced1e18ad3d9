package models

// CellRef identifies a single sheet cell by 1-based row and column.
type CellRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Table is one logical, contiguous data region within a unioned area.
// Mask is the exact set of sheet-absolute cells belonging to the table's
// connected component; BBox is the minimal bounding rectangle of Mask;
// Rects is a rectangle cover of Mask used for layout hints.
type Table struct {
	Rects []Rect                `json:"rects"`
	BBox  Rect                  `json:"bbox"`
	Mask  map[CellRef]struct{}  `json:"-"`
}

// Covers reports whether the sheet cell (row, col) belongs to the table.
func (t Table) Covers(row, col int) bool {
	_, ok := t.Mask[CellRef{Row: row, Col: col}]
	return ok
}
