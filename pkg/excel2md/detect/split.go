package detect

import (
	"sort"
	"strings"

	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
)

// localCell is a grid-local (0-based) cell position used during splitting.
type localCell struct{ r, c int }

// emptyLines finds fully empty rows and columns within area by scanning
// actual cells, not the merge-expanded grid: merge expansion must not stop a
// row of structural whitespace from acting as a table separator. For merged
// ranges only the top-left member is consulted; a row or column is empty iff
// every consulted cell has blank display text and default fill.
func emptyLines(cells CellAccessor, area models.Area, lookup MergedLookup) (rows, cols map[int]struct{}) {
	rows = make(map[int]struct{})
	cols = make(map[int]struct{})

	cellBlank := func(row, col int) bool {
		ref := models.CellRef{Row: row, Col: col}
		if tl, ok := lookup[ref]; ok {
			if ref != tl {
				return true // non-top-left members never carry data
			}
			row, col = tl.Row, tl.Col
		}
		if strings.TrimSpace(cells.DisplayText(row, col)) != "" {
			return false
		}
		return !cells.HasFill(row, col)
	}

	for r := 0; r < area.Rows(); r++ {
		empty := true
		for c := 0; c < area.Cols(); c++ {
			if !cellBlank(area.MinRow+r, area.MinCol+c) {
				empty = false
				break
			}
		}
		if empty {
			rows[r] = struct{}{}
		}
	}
	for c := 0; c < area.Cols(); c++ {
		empty := true
		for r := 0; r < area.Rows(); r++ {
			if !cellBlank(area.MinRow+r, area.MinCol+c) {
				empty = false
				break
			}
		}
		if empty {
			cols[c] = struct{}{}
		}
	}
	return rows, cols
}

// GridToTables partitions one unioned area into logical tables. Empty rows
// and columns act as hard boundaries for an 8-connected flood fill; each
// resulting component is re-carved into a rectangle cover and translated to
// sheet-absolute coordinates. Output is in reading order (bbox top, left).
func GridToTables(cells CellAccessor, area models.Area, policy HiddenPolicy) []models.Table {
	grid := BuildGrid(cells, area, policy)
	lookup := BuildMergedLookup(cells.MergedRanges(), area)
	emptyRows, emptyCols := emptyLines(cells, area, lookup)

	rows, cols := area.Rows(), area.Cols()
	if rows == 0 || cols == 0 {
		return nil
	}

	inEmptyRow := func(r int) bool { _, ok := emptyRows[r]; return ok }
	inEmptyCol := func(c int) bool { _, ok := emptyCols[c]; return ok }

	// connected reports whether an edge between two adjacent cells may be
	// traversed. Diagonal neighbors stay connected when either the
	// horizontal-then-vertical or vertical-then-horizontal detour is
	// unblocked; a true empty row+column corner blocks both.
	connected := func(r1, c1, r2, c2 int) bool {
		switch {
		case r1 == r2:
			return !inEmptyCol(min(c1, c2)) && !inEmptyCol(max(c1, c2))
		case c1 == c2:
			return !inEmptyRow(min(r1, r2)) && !inEmptyRow(max(r1, r2))
		}
		dr, dc := r2-r1, c2-c1
		if dr < 0 {
			dr = -dr
		}
		if dc < 0 {
			dc = -dc
		}
		if dr == 1 && dc == 1 {
			hPath := !inEmptyCol(c1) && !inEmptyCol(c2) && !inEmptyRow(r1)
			vPath := !inEmptyRow(r1) && !inEmptyRow(r2) && !inEmptyCol(c1)
			return hPath || vPath
		}
		return false
	}

	neighbors := [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	seen := make([][]bool, rows)
	for r := range seen {
		seen[r] = make([]bool, cols)
	}

	var components [][]localCell
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if grid[r][c] != 1 || seen[r][c] {
				continue
			}
			queue := []localCell{{r, c}}
			seen[r][c] = true
			comp := []localCell{{r, c}}
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				for _, d := range neighbors {
					nr, nc := cur.r+d[0], cur.c+d[1]
					if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
						continue
					}
					if grid[nr][nc] != 1 || seen[nr][nc] {
						continue
					}
					if !connected(cur.r, cur.c, nr, nc) {
						continue
					}
					seen[nr][nc] = true
					queue = append(queue, localCell{nr, nc})
					comp = append(comp, localCell{nr, nc})
				}
			}
			components = append(components, comp)
		}
	}

	tables := make([]models.Table, 0, len(components))
	for _, comp := range components {
		compGrid := NewGrid(rows, cols)
		minR, maxR := comp[0].r, comp[0].r
		minC, maxC := comp[0].c, comp[0].c
		for _, cell := range comp {
			compGrid[cell.r][cell.c] = 1
			minR = min(minR, cell.r)
			maxR = max(maxR, cell.r)
			minC = min(minC, cell.c)
			maxC = max(maxC, cell.c)
		}

		local := CarveRects(compGrid)
		rects := make([]models.Rect, len(local))
		for i, lr := range local {
			rects[i] = lr.Translate(area.MinRow, area.MinCol)
		}

		mask := make(map[models.CellRef]struct{}, len(comp))
		for _, cell := range comp {
			ref := models.CellRef{Row: area.MinRow + cell.r, Col: area.MinCol + cell.c}
			if area.Contains(ref.Row, ref.Col) {
				mask[ref] = struct{}{}
			}
		}

		bbox := models.Rect{
			Top:    max(area.MinRow+minR, area.MinRow),
			Left:   max(area.MinCol+minC, area.MinCol),
			Bottom: min(area.MinRow+maxR, area.MaxRow),
			Right:  min(area.MinCol+maxC, area.MaxCol),
		}
		tables = append(tables, models.Table{Rects: rects, BBox: bbox, Mask: mask})
	}

	sort.Slice(tables, func(i, j int) bool {
		if tables[i].BBox.Top != tables[j].BBox.Top {
			return tables[i].BBox.Top < tables[j].BBox.Top
		}
		return tables[i].BBox.Left < tables[j].BBox.Left
	})
	return tables
}
