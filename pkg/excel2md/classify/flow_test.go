package classify

import (
	"testing"
)

func headerCfg() Config {
	cfg := DefaultConfig()
	cfg.MermaidEnabled = true
	cfg.DetectMode = DetectColumnHeaders
	return cfg
}

func heuristicCfg() Config {
	cfg := DefaultConfig()
	cfg.MermaidEnabled = true
	cfg.DetectMode = DetectHeuristic
	return cfg
}

func TestDetectFlowTableColumnHeaders(t *testing.T) {
	rows := [][]string{
		{"From", "To", "Label"},
		{"Start", "Check", "begin"},
		{"Check", "End", "done"},
	}
	roles, ok := detectFlowTable(rows, headerCfg())
	if !ok {
		t.Fatal("Expected flow table match")
	}
	if roles.From != 0 || roles.To != 1 || roles.Label != 2 {
		t.Errorf("unexpected roles: %+v", roles)
	}
}

func TestDetectFlowTableHeaderNormalization(t *testing.T) {
	// NFKC + case folding: full-width and upper-case headers still match.
	rows := [][]string{
		{"  FROM ", "ｔｏ"},
		{"a", "b"},
	}
	roles, ok := detectFlowTable(rows, headerCfg())
	if !ok {
		t.Fatal("Expected normalized headers to match")
	}
	if roles.From != 0 || roles.To != 1 {
		t.Errorf("unexpected roles: %+v", roles)
	}
}

func TestDetectFlowTableMissingTo(t *testing.T) {
	rows := [][]string{
		{"From", "Target"},
		{"a", "b"},
	}
	if _, ok := detectFlowTable(rows, headerCfg()); ok {
		t.Error("Expected no match without a To column")
	}
}

func TestDetectFlowTableDuplicateHeaderKeepsFirst(t *testing.T) {
	rows := [][]string{
		{"From", "To", "From"},
		{"a", "b", "c"},
	}
	roles, ok := detectFlowTable(rows, headerCfg())
	if !ok {
		t.Fatal("Expected match with duplicate headers")
	}
	if roles.From != 0 {
		t.Errorf("Expected first From column kept, got %d", roles.From)
	}
}

func TestDetectFlowTableHeuristic(t *testing.T) {
	rows := [][]string{
		{"Step", "Next"},
		{"Start", "Válidate ->"},
		{"Validate", "Persist ->"},
		{"Persist", "End ->"},
	}
	roles, ok := detectFlowTable(rows, heuristicCfg())
	if !ok {
		t.Fatal("Expected heuristic match")
	}
	if roles.From != 0 || roles.To != 1 {
		t.Errorf("unexpected roles: %+v", roles)
	}
}

func TestDetectFlowTableHeuristicTooFewRows(t *testing.T) {
	rows := [][]string{
		{"Step", "Next"},
		{"Start", "End ->"},
	}
	if _, ok := detectFlowTable(rows, heuristicCfg()); ok {
		t.Error("Expected no match below min rows")
	}
}

func TestDetectFlowTableHeuristicNoArrows(t *testing.T) {
	rows := [][]string{
		{"Name", "Dept"},
		{"Alice", "Sales"},
		{"Bob", "Legal"},
		{"Carol", "Ops"},
	}
	if _, ok := detectFlowTable(rows, heuristicCfg()); ok {
		t.Error("Expected no match without arrow tokens")
	}
}

func TestDetectFlowTableHeuristicLengthImbalance(t *testing.T) {
	rows := [][]string{
		{"A", "B"},
		{"x", "an extremely long description cell that is not a node ->"},
		{"y", "another extremely long description cell, also not a node ->"},
		{"z", "yet another extremely long description cell here as well ->"},
	}
	if _, ok := detectFlowTable(rows, heuristicCfg()); ok {
		t.Error("Expected no match with unbalanced median lengths")
	}
}

func TestBuildFlowGraph(t *testing.T) {
	rows := [][]string{
		{"From", "To", "Label", "Group"},
		{"Start", "Check", "", "phase1"},
		{"Check", "End", "ok", "phase1"},
		{"Check", "End", "ok", "phase1"}, // duplicate edge
	}
	roles := ColumnRoles{From: 0, To: 1, Label: 2, Group: 3, Note: -1}
	graph := BuildFlowGraph(rows, headerCfg(), roles)

	if len(graph.Nodes) != 3 {
		t.Errorf("Expected 3 nodes, got %d", len(graph.Nodes))
	}
	if len(graph.Edges) != 2 {
		t.Errorf("Expected duplicate edge dropped, got %d edges", len(graph.Edges))
	}
	if graph.Edges[1].Label != "ok" {
		t.Errorf("Expected edge label, got %q", graph.Edges[1].Label)
	}
	if len(graph.Groups["phase1"]) != 3 {
		t.Errorf("Expected 3 grouped nodes, got %v", graph.Groups)
	}
}

func TestBuildFlowGraphIDCollision(t *testing.T) {
	// Distinct display names sanitizing to the same id get a suffix.
	rows := [][]string{
		{"From", "To"},
		{"A B", "A-B"},
	}
	roles := ColumnRoles{From: 0, To: 1, Label: -1, Group: -1, Note: -1}
	graph := BuildFlowGraph(rows, headerCfg(), roles)
	if len(graph.Nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(graph.Nodes))
	}
	if graph.Nodes[0].ID == graph.Nodes[1].ID {
		t.Errorf("node ids collide: %q", graph.Nodes[0].ID)
	}
}

func TestBuildFlowGraphSkipsIncompleteRows(t *testing.T) {
	rows := [][]string{
		{"From", "To"},
		{"Start", ""},
		{"", "End"},
		{"Start", "End"},
	}
	roles := ColumnRoles{From: 0, To: 1, Label: -1, Group: -1, Note: -1}
	graph := BuildFlowGraph(rows, headerCfg(), roles)
	if len(graph.Edges) != 1 {
		t.Errorf("Expected 1 edge, got %d", len(graph.Edges))
	}
}

func TestSanitizeNodeID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Start", "Start"},
		{"A B", "A_B"},
		{"123go", "_123go"},
		{"a--b", "a_b"},
		{"", "_"},
		{"日本語", "_"},
	}
	for _, tt := range tests {
		if got := SanitizeNodeID(tt.input); got != tt.want {
			t.Errorf("SanitizeNodeID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMedian(t *testing.T) {
	if got := median([]int{3, 1, 2}); got != 2 {
		t.Errorf("median odd = %v, want 2", got)
	}
	if got := median([]int{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("median even = %v, want 2.5", got)
	}
	if got := median(nil); got != 0 {
		t.Errorf("median empty = %v, want 0", got)
	}
}
