// Package detect implements the grid decomposition core: non-emptiness grid
// construction, maximal rectangle carving, rectangle union, and splitting of
// unioned areas into logical tables.
//
// All functions are pure over in-memory arrays and deterministic: identical
// inputs always produce identical rectangle sets and component splits.
package detect

import (
	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
)

// HiddenPolicy controls how hidden rows and columns participate in grid
// building.
type HiddenPolicy string

const (
	// HiddenIgnore leaves hidden rows and columns in the grid.
	HiddenIgnore HiddenPolicy = "ignore"
	// HiddenInclude is an alias of HiddenIgnore kept for CLI compatibility.
	HiddenInclude HiddenPolicy = "include"
	// HiddenExclude treats cells on hidden rows or columns as empty.
	HiddenExclude HiddenPolicy = "exclude"
)

// CellAccessor is the narrow view of one sheet the geometry core consumes.
// Row and column arguments are 1-based sheet coordinates. Implementations
// must be side-effect free; the core never exposes underlying cell objects.
type CellAccessor interface {
	// IsEmpty reports whether the cell has no visible content: empty or
	// whitespace-only display text and default (no/white) fill.
	IsEmpty(row, col int) bool
	// DisplayText returns the cell's formatted display text.
	DisplayText(row, col int) string
	// HasFill reports whether the cell carries a non-default, non-white fill.
	HasFill(row, col int) bool
	// HiddenRow reports whether the row is flagged hidden.
	HiddenRow(row int) bool
	// HiddenCol reports whether the column is flagged hidden.
	HiddenCol(col int) bool
	// MergedRanges returns all merge blocks on the sheet.
	MergedRanges() []models.Area
}

// Grid is a boolean non-emptiness matrix aligned to an area's local
// (0-based) coordinate space; grid[r][c] == 1 iff the corresponding sheet
// cell, or any cell in its merge block, is non-empty.
type Grid [][]int

// NewGrid returns an all-zero grid with the given extent.
func NewGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]int, cols)
	}
	return g
}

func (g Grid) anyOnes() bool {
	for _, row := range g {
		for _, v := range row {
			if v == 1 {
				return true
			}
		}
	}
	return false
}

func (g Grid) zero(rect models.Rect) {
	for r := rect.Top; r <= rect.Bottom; r++ {
		for c := rect.Left; c <= rect.Right; c++ {
			g[r][c] = 0
		}
	}
}

// BuildGrid materializes the non-emptiness grid for area. Cells on hidden
// rows or columns stay empty under HiddenExclude. A merge block with any
// non-empty member marks its whole (area-clipped) span as non-empty; blocks
// whose top-left cell lies outside area are ignored entirely.
func BuildGrid(cells CellAccessor, area models.Area, policy HiddenPolicy) Grid {
	grid := NewGrid(area.Rows(), area.Cols())

	// Merge blocks clipped to the area. A block whose top-left is outside
	// the area carries no data signal here.
	var merged []models.Area
	for _, rng := range cells.MergedRanges() {
		if !rng.Intersects(area) {
			continue
		}
		if rng.MinRow < area.MinRow || rng.MinCol < area.MinCol {
			continue
		}
		merged = append(merged, rng.Clip(area))
	}

	for rr := 0; rr < area.Rows(); rr++ {
		for cc := 0; cc < area.Cols(); cc++ {
			row := area.MinRow + rr
			col := area.MinCol + cc
			if policy == HiddenExclude && (cells.HiddenRow(row) || cells.HiddenCol(col)) {
				continue
			}
			if !cells.IsEmpty(row, col) {
				grid[rr][cc] = 1
			}
		}
	}

	// Merged influence: a value in any member cell is visually present
	// across the whole span.
	for _, blk := range merged {
		found := false
		for row := blk.MinRow; row <= blk.MaxRow && !found; row++ {
			for col := blk.MinCol; col <= blk.MaxCol; col++ {
				if !cells.IsEmpty(row, col) {
					found = true
					break
				}
			}
		}
		if !found {
			continue
		}
		for row := blk.MinRow; row <= blk.MaxRow; row++ {
			for col := blk.MinCol; col <= blk.MaxCol; col++ {
				grid[row-area.MinRow][col-area.MinCol] = 1
			}
		}
	}

	return grid
}

// MergedLookup maps every cell inside a merge block (restricted to one area)
// to that block's top-left cell. Only blocks whose top-left lies within the
// area are included; the lookup is rebuilt per area and never shared.
type MergedLookup map[models.CellRef]models.CellRef

// BuildMergedLookup builds the merged-cell lookup for area.
func BuildMergedLookup(ranges []models.Area, area models.Area) MergedLookup {
	lookup := make(MergedLookup)
	for _, rng := range ranges {
		if !rng.Intersects(area) {
			continue
		}
		if rng.MinRow < area.MinRow || rng.MinCol < area.MinCol {
			continue
		}
		topLeft := models.CellRef{Row: rng.MinRow, Col: rng.MinCol}
		for row := rng.MinRow; row <= rng.MaxRow; row++ {
			for col := rng.MinCol; col <= rng.MaxCol; col++ {
				if !area.Contains(row, col) {
					continue
				}
				lookup[models.CellRef{Row: row, Col: col}] = topLeft
			}
		}
	}
	return lookup
}
