package detect

import (
	"sort"

	"github.com/tiendc/go-deepcopy"

	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
)

// EnumerateHistogramRects enumerates, for each row top to bottom, all maximal
// rectangles whose bottom edge is that row, via a monotonic-stack scan over a
// column histogram of consecutive non-empty cells. Rectangles are in local
// grid coordinates.
func EnumerateHistogramRects(g Grid) []models.Rect {
	if len(g) == 0 || len(g[0]) == 0 {
		return nil
	}
	rows, cols := len(g), len(g[0])
	hist := make([]int, cols)
	var rects []models.Rect

	type bar struct{ start, height int }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if g[r][c] == 1 {
				hist[c]++
			} else {
				hist[c] = 0
			}
		}
		var stack []bar
		for c := 0; c <= cols; c++ {
			h := 0
			if c < cols {
				h = hist[c]
			}
			last := c
			for len(stack) > 0 && stack[len(stack)-1].height > h {
				b := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if b.height > 0 && c > b.start {
					rects = append(rects, models.Rect{
						Top:    r - b.height + 1,
						Left:   b.start,
						Bottom: r,
						Right:  c - 1,
					})
				}
				last = b.start
			}
			if len(stack) == 0 || stack[len(stack)-1].height < h {
				stack = append(stack, bar{start: last, height: h})
			}
		}
	}
	return rects
}

// CarveRects greedily covers all non-empty cells of g with rectangles:
// repeatedly take the largest histogram rectangle (ties broken by enumeration
// order, a top-left bias), zero its cells out, and repeat until the grid is
// exhausted. The cover is a visually sensible heuristic, not a minimum
// tiling. Output is sorted by (top, left, area) ascending.
//
// The input grid is never mutated; carving works on an owned copy.
func CarveRects(g Grid) []models.Rect {
	var work Grid
	_ = deepcopy.Copy(&work, g)

	var out []models.Rect
	for work.anyOnes() {
		candidates := EnumerateHistogramRects(work)
		if len(candidates) == 0 {
			break
		}
		best := candidates[0]
		for _, r := range candidates[1:] {
			if r.Area() > best.Area() {
				best = r
			}
		}
		out = append(out, best)
		work.zero(best)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Top != b.Top {
			return a.Top < b.Top
		}
		if a.Left != b.Left {
			return a.Left < b.Left
		}
		return a.Area() < b.Area()
	})
	return out
}
