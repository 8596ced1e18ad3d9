package detect

import (
	"reflect"
	"testing"

	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
)

func rectCells(rects []models.Rect) map[[2]int]bool {
	cover := make(map[[2]int]bool)
	for _, rect := range rects {
		for r := rect.Top; r <= rect.Bottom; r++ {
			for c := rect.Left; c <= rect.Right; c++ {
				cover[[2]int{r, c}] = true
			}
		}
	}
	return cover
}

// checkDisjoint fails when any two output rects share a cell.
func checkDisjoint(t *testing.T, rects []models.Rect) {
	t.Helper()
	seen := make(map[[2]int]bool)
	for _, rect := range rects {
		for r := rect.Top; r <= rect.Bottom; r++ {
			for c := rect.Left; c <= rect.Right; c++ {
				if seen[[2]int{r, c}] {
					t.Fatalf("cell (%d,%d) covered twice in %v", r, c, rects)
				}
				seen[[2]int{r, c}] = true
			}
		}
	}
}

func TestUnionRectsDisjoint(t *testing.T) {
	in := []models.Rect{
		{Top: 1, Left: 1, Bottom: 2, Right: 2},
		{Top: 5, Left: 5, Bottom: 6, Right: 6},
	}
	out := UnionRects(in)
	if !reflect.DeepEqual(out, in) {
		t.Errorf("Expected disjoint rects unchanged, got %v", out)
	}
}

func TestUnionRectsOverlap(t *testing.T) {
	in := []models.Rect{
		{Top: 1, Left: 1, Bottom: 3, Right: 3},
		{Top: 2, Left: 2, Bottom: 4, Right: 4},
	}
	out := UnionRects(in)
	checkDisjoint(t, out)
	if !reflect.DeepEqual(rectCells(out), rectCells(in)) {
		t.Errorf("union cell set differs from input cell set: %v", out)
	}
}

func TestUnionRectsSharedColumn(t *testing.T) {
	// Spans sharing a boundary column merge into one interval.
	in := []models.Rect{
		{Top: 1, Left: 1, Bottom: 2, Right: 2},
		{Top: 1, Left: 2, Bottom: 2, Right: 4},
	}
	out := UnionRects(in)
	want := []models.Rect{{Top: 1, Left: 1, Bottom: 2, Right: 4}}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Expected %v, got %v", want, out)
	}
}

func TestUnionRectsStaircase(t *testing.T) {
	in := []models.Rect{
		{Top: 1, Left: 1, Bottom: 2, Right: 4},
		{Top: 3, Left: 3, Bottom: 5, Right: 6},
	}
	out := UnionRects(in)
	checkDisjoint(t, out)
	if !reflect.DeepEqual(rectCells(out), rectCells(in)) {
		t.Errorf("union cell set differs from input cell set: %v", out)
	}
}

func TestUnionRectsDuplicates(t *testing.T) {
	in := []models.Rect{
		{Top: 1, Left: 1, Bottom: 3, Right: 3},
		{Top: 1, Left: 1, Bottom: 3, Right: 3},
		{Top: 1, Left: 1, Bottom: 3, Right: 3},
	}
	out := UnionRects(in)
	want := []models.Rect{{Top: 1, Left: 1, Bottom: 3, Right: 3}}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Expected %v, got %v", want, out)
	}
}

func TestUnionRectsEmpty(t *testing.T) {
	if out := UnionRects(nil); out != nil {
		t.Errorf("Expected nil for empty input, got %v", out)
	}
}

func TestUnionRectsDeterministic(t *testing.T) {
	in := []models.Rect{
		{Top: 1, Left: 1, Bottom: 4, Right: 4},
		{Top: 2, Left: 3, Bottom: 6, Right: 8},
		{Top: 5, Left: 1, Bottom: 7, Right: 2},
	}
	first := UnionRects(in)
	for i := 0; i < 10; i++ {
		if got := UnionRects(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("non-deterministic union: %v vs %v", got, first)
		}
	}
}

func TestUnionAreas(t *testing.T) {
	in := []models.Area{
		{MinRow: 1, MinCol: 1, MaxRow: 3, MaxCol: 3},
		{MinRow: 10, MinCol: 1, MaxRow: 12, MaxCol: 3},
	}
	out := UnionAreas(in)
	if !reflect.DeepEqual(out, in) {
		t.Errorf("Expected disjoint areas unchanged, got %v", out)
	}
}
