// Package classify decides the rendering format of one extracted table:
// source-code block, flow diagram, single-line text, nested outline, plain
// grid, or empty. Each table is classified independently; the six outcomes
// are mutually exclusive and collectively exhaustive.
package classify

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
)

// Kind is a classification outcome.
type Kind string

const (
	KindEmpty   Kind = "empty"
	KindCode    Kind = "code"
	KindDiagram Kind = "diagram"
	KindText    Kind = "text"
	KindNested  Kind = "nested"
	KindTable   Kind = "table"
)

// DetectMode selects the diagram-detection strategy.
type DetectMode string

const (
	// DetectNone disables diagram detection.
	DetectNone DetectMode = "none"
	// DetectColumnHeaders matches configured from/to header names.
	DetectColumnHeaders DetectMode = "column_headers"
	// DetectHeuristic uses arrow-token and label-length heuristics.
	DetectHeuristic DetectMode = "heuristic"
	// DetectShapes builds diagrams from drawing shapes; handled at the
	// sheet level, never by table dispatch.
	DetectShapes DetectMode = "shapes"
)

// NodeIDPolicy selects how diagram node identifiers are generated.
type NodeIDPolicy string

const (
	NodeIDAuto     NodeIDPolicy = "auto"
	NodeIDShapeID  NodeIDPolicy = "shape_id"
	NodeIDExplicit NodeIDPolicy = "explicit"
)

// GroupBehavior selects what a non-empty group column produces.
type GroupBehavior string

const (
	GroupSubgraph GroupBehavior = "subgraph"
	GroupIgnore   GroupBehavior = "ignore"
)

// Config holds the deterministic, overridable thresholds of the classifier.
type Config struct {
	// MermaidEnabled gates diagram detection as a whole.
	MermaidEnabled bool
	// DetectMode selects the diagram-detection strategy.
	DetectMode DetectMode
	// HeaderDetection enables header-row handling for column-headers mode.
	HeaderDetection bool
	// Columns maps diagram roles (from, to, label, group, note) to header
	// names for column-headers mode.
	Columns map[string]string
	// HeuristicMinRows is the minimum number of data rows with both of the
	// first two columns non-empty.
	HeuristicMinRows int
	// HeuristicArrowRatio is the minimum fraction of data rows containing
	// an arrow-like token.
	HeuristicArrowRatio float64
	// HeuristicLenRatioMin and HeuristicLenRatioMax bound the ratio of the
	// median NFKC length of column 0 to column 1.
	HeuristicLenRatioMin float64
	HeuristicLenRatioMax float64
	// NodeIDPolicy selects node identifier generation.
	NodeIDPolicy NodeIDPolicy
	// DedupeEdges drops duplicate (from, to, label) edges.
	DedupeEdges bool
	// GroupBehavior selects subgraph grouping or ignoring group columns.
	GroupBehavior GroupBehavior
	// SkipCodeAndMermaidOnFallback also skips diagram detection when code
	// detection fails internally, avoiding compounded misclassification.
	SkipCodeAndMermaidOnFallback bool
}

// DefaultConfig returns the classifier defaults.
func DefaultConfig() Config {
	return Config{
		MermaidEnabled:  false,
		DetectMode:      DetectNone,
		HeaderDetection: true,
		Columns: map[string]string{
			"from": "From", "to": "To", "label": "Label",
		},
		HeuristicMinRows:             3,
		HeuristicArrowRatio:          0.3,
		HeuristicLenRatioMin:         0.4,
		HeuristicLenRatioMax:         2.5,
		NodeIDPolicy:                 NodeIDAuto,
		DedupeEdges:                  true,
		GroupBehavior:                GroupSubgraph,
		SkipCodeAndMermaidOnFallback: true,
	}
}

// Result is the outcome of classifying one table.
type Result struct {
	Kind Kind
	// Payload is the fenced code block, text line, or nested outline.
	// Empty for table and diagram outcomes.
	Payload string
	// Graph is set for diagram outcomes.
	Graph *models.Graph
}

// Dispatch classifies one table's rows of display text in priority order:
// empty, code, diagram, text, nested, table. A detector that fails
// internally is demoted, never propagated: the table falls through to the
// next priority, and when SkipCodeAndMermaidOnFallback is set a code failure
// also skips diagram detection.
func Dispatch(rows [][]string, style CellStyle, cfg Config) Result {
	if isEmptyRows(rows) {
		return Result{Kind: KindEmpty}
	}

	codeFailed := false
	if block, ok := tryDetectCode(rows); ok {
		if block != "" {
			return Result{Kind: KindCode, Payload: block}
		}
	} else {
		codeFailed = true
	}

	diagramAllowed := cfg.MermaidEnabled &&
		(cfg.DetectMode == DetectColumnHeaders || cfg.DetectMode == DetectHeuristic) &&
		!(codeFailed && cfg.SkipCodeAndMermaidOnFallback)
	if diagramAllowed {
		if graph, ok := tryDetectDiagram(rows, cfg); ok && graph != nil {
			return Result{Kind: KindDiagram, Graph: graph}
		}
	}

	if text, ok := detectText(rows, style); ok {
		return Result{Kind: KindText, Payload: text}
	}
	if outline, ok := detectNested(rows); ok {
		return Result{Kind: KindNested, Payload: outline}
	}
	return Result{Kind: KindTable}
}

// isEmptyRows reports whether rows carry no data at all: no rows, or no
// non-blank cell in any row.
func isEmptyRows(rows [][]string) bool {
	for _, row := range rows {
		for _, val := range row {
			if strings.TrimSpace(val) != "" {
				return false
			}
		}
	}
	return true
}

// tryDetectCode runs code detection with an internal-failure boundary. The
// second return is false only when the detector panicked.
func tryDetectCode(rows [][]string) (block string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("code detection failed: %v", r)
			block = ""
			ok = false
		}
	}()
	return BuildCodeBlock(rows), true
}

// tryDetectDiagram runs diagram detection with an internal-failure boundary.
func tryDetectDiagram(rows [][]string, cfg Config) (graph *models.Graph, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("diagram detection failed: %v", r)
			graph = nil
			ok = false
		}
	}()
	roles, matched := detectFlowTable(rows, cfg)
	if !matched {
		return nil, true
	}
	return BuildFlowGraph(rows, cfg, roles), true
}
