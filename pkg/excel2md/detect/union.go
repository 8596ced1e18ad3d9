package detect

import (
	"sort"

	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
)

type span struct{ start, end int }

// mergeSpans merges overlapping or touching column intervals. Touching
// intervals (shared boundary column) merge too, which avoids spurious thin
// splits between adjacent print areas.
func mergeSpans(spans []span) []span {
	if len(spans) == 0 {
		return nil
	}
	sorted := append([]span(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].end < sorted[j].end
	})
	out := []span{sorted[0]}
	for _, s := range sorted[1:] {
		last := &out[len(out)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
		} else {
			out = append(out, s)
		}
	}
	return out
}

func spansEqual(a, b []span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// UnionRects merges possibly overlapping rectangles into a minimal set of
// disjoint rectangles whose cell-set union exactly equals the input union.
// The sweep walks rows from the global minimum to one past the global
// maximum, maintaining an active column-interval list; whenever the merged
// interval set changes between consecutive rows, the previous row range is
// closed out with the previous intervals.
func UnionRects(rects []models.Rect) []models.Rect {
	if len(rects) == 0 {
		return nil
	}

	type event struct {
		add bool
		s   span
	}
	events := make(map[int][]event)
	minRow, maxRow := rects[0].Top, rects[0].Bottom
	for _, r := range rects {
		if r.Top < minRow {
			minRow = r.Top
		}
		if r.Bottom > maxRow {
			maxRow = r.Bottom
		}
		events[r.Top] = append(events[r.Top], event{add: true, s: span{r.Left, r.Right}})
		events[r.Bottom+1] = append(events[r.Bottom+1], event{add: false, s: span{r.Left, r.Right}})
	}

	var active []span
	var out []models.Rect
	var prevSpans []span
	prevRow := 0
	started := false

	for row := minRow; row <= maxRow+1; row++ {
		for _, ev := range events[row] {
			if ev.add {
				active = append(active, ev.s)
				continue
			}
			for i, s := range active {
				if s == ev.s {
					active = append(active[:i], active[i+1:]...)
					break
				}
			}
		}
		spans := mergeSpans(active)
		if !started {
			started = true
			prevRow = row
			prevSpans = spans
			continue
		}
		if !spansEqual(spans, prevSpans) {
			for _, s := range prevSpans {
				out = append(out, models.Rect{Top: prevRow, Left: s.start, Bottom: row - 1, Right: s.end})
			}
			prevRow = row
			prevSpans = spans
		}
	}
	return out
}

// UnionAreas is UnionRects over sheet areas.
func UnionAreas(areas []models.Area) []models.Area {
	rects := make([]models.Rect, len(areas))
	for i, a := range areas {
		rects[i] = models.Rect{Top: a.MinRow, Left: a.MinCol, Bottom: a.MaxRow, Right: a.MaxCol}
	}
	merged := UnionRects(rects)
	out := make([]models.Area, len(merged))
	for i, r := range merged {
		out[i] = models.Area{MinRow: r.Top, MinCol: r.Left, MaxRow: r.Bottom, MaxCol: r.Right}
	}
	return out
}
