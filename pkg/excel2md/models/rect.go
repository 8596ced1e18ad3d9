package models

// Rect is an axis-aligned rectangle of cells, inclusive on all sides.
// Coordinates are either local (0-based, relative to a grid origin) or
// sheet-absolute (1-based), depending on which stage produced the rectangle.
type Rect struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Bottom int `json:"bottom"`
	Right  int `json:"right"`
}

// Area returns the number of cells covered by the rectangle.
func (r Rect) Area() int {
	return (r.Bottom - r.Top + 1) * (r.Right - r.Left + 1)
}

// Translate shifts the rectangle by dr rows and dc columns.
func (r Rect) Translate(dr, dc int) Rect {
	return Rect{Top: r.Top + dr, Left: r.Left + dc, Bottom: r.Bottom + dr, Right: r.Right + dc}
}

// Contains reports whether the cell (row, col) lies within the rectangle.
func (r Rect) Contains(row, col int) bool {
	return row >= r.Top && row <= r.Bottom && col >= r.Left && col <= r.Right
}
