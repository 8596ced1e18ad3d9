// Package models defines data structures for spreadsheet conversion.
package models

// Area is a rectangular cell range in 1-based inclusive sheet coordinates.
type Area struct {
	// MinRow is the first row (1-based).
	MinRow int `json:"min_row"`
	// MinCol is the first column (1-based).
	MinCol int `json:"min_col"`
	// MaxRow is the last row (1-based, inclusive).
	MaxRow int `json:"max_row"`
	// MaxCol is the last column (1-based, inclusive).
	MaxCol int `json:"max_col"`
}

// Rows returns the number of rows covered by the area.
func (a Area) Rows() int {
	return a.MaxRow - a.MinRow + 1
}

// Cols returns the number of columns covered by the area.
func (a Area) Cols() int {
	return a.MaxCol - a.MinCol + 1
}

// Contains reports whether the sheet cell (row, col) lies within the area.
func (a Area) Contains(row, col int) bool {
	return row >= a.MinRow && row <= a.MaxRow && col >= a.MinCol && col <= a.MaxCol
}

// Intersects reports whether the two areas share at least one cell.
func (a Area) Intersects(b Area) bool {
	return a.MinRow <= b.MaxRow && b.MinRow <= a.MaxRow &&
		a.MinCol <= b.MaxCol && b.MinCol <= a.MaxCol
}

// Clip returns the intersection of a and b. The result is only meaningful
// when Intersects(b) holds.
func (a Area) Clip(b Area) Area {
	return Area{
		MinRow: max(a.MinRow, b.MinRow),
		MinCol: max(a.MinCol, b.MinCol),
		MaxRow: min(a.MaxRow, b.MaxRow),
		MaxCol: min(a.MaxCol, b.MaxCol),
	}
}
