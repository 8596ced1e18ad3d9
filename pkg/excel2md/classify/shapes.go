package classify

import (
	"math"
	"sort"
	"strconv"

	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
)

// ShapeNode is a drawing shape offered as a diagram node candidate. Row and
// Col are the anchor center in cell units; HasAnchor is false when the
// drawing carried no usable anchor.
type ShapeNode struct {
	// ShapeID is the drawing-level identifier ("s" + the OOXML shape id).
	ShapeID   string
	Display   string
	Kind      string
	Row       float64
	Col       float64
	HasAnchor bool
}

// ShapeEdge is an explicit connector between two shapes, by ShapeID.
type ShapeEdge struct {
	From string
	To   string
}

// inferShapeEdges adds edges by vertical proximity: each node connects to up
// to two nearest nodes at or below it, skipping pairs that already exist.
func inferShapeEdges(nodes []ShapeNode, existing []ShapeEdge) []ShapeEdge {
	const maxOut = 2
	const vBias = 1.0

	seen := make(map[[2]string]struct{}, len(existing))
	for _, e := range existing {
		seen[[2]string{e.From, e.To}] = struct{}{}
	}

	var inferred []ShapeEdge
	for _, n := range nodes {
		if !n.HasAnchor {
			continue
		}
		type cand struct {
			dist float64
			id   string
		}
		var cands []cand
		for _, m := range nodes {
			if m.ShapeID == n.ShapeID || !m.HasAnchor {
				continue
			}
			dr := m.Row - n.Row
			if dr < 0 {
				continue // prefer downward flow
			}
			cands = append(cands, cand{dist: dr*vBias + math.Abs(m.Col-n.Col), id: m.ShapeID})
		}
		sort.Slice(cands, func(i, j int) bool {
			if cands[i].dist != cands[j].dist {
				return cands[i].dist < cands[j].dist
			}
			return cands[i].id < cands[j].id
		})
		out := 0
		for _, c := range cands {
			if out >= maxOut {
				break
			}
			pair := [2]string{n.ShapeID, c.id}
			if _, dup := seen[pair]; dup {
				continue
			}
			seen[pair] = struct{}{}
			inferred = append(inferred, ShapeEdge{From: n.ShapeID, To: c.id})
			out++
		}
	}
	return inferred
}

// BuildShapeGraph converts drawing shapes and connectors into a diagram
// graph. When fewer than max(2, 0.3*nodes) explicit connector edges exist,
// edges are supplemented by vertical-proximity inference and marked as such.
// Returns nil when there are no nodes.
func BuildShapeGraph(nodes []ShapeNode, edges []ShapeEdge, cfg Config) *models.Graph {
	if len(nodes) == 0 {
		return nil
	}

	valid := make([]ShapeEdge, 0, len(edges))
	for _, e := range edges {
		if e.From != "" && e.To != "" {
			valid = append(valid, e)
		}
	}
	var inferred []ShapeEdge
	if len(valid) < max(2, int(0.3*float64(len(nodes)))) {
		inferred = inferShapeEdges(nodes, valid)
	}

	graph := &models.Graph{}
	idOf := make(map[string]string, len(nodes)) // ShapeID -> emitted id
	usedIDs := make(map[string]struct{}, len(nodes))

	for _, n := range nodes {
		display := n.Display
		if display == "" {
			display = n.ShapeID
		}
		var id string
		switch cfg.NodeIDPolicy {
		case NodeIDShapeID, NodeIDExplicit:
			id = n.ShapeID
		default:
			id = SanitizeNodeID(display)
			base := id
			for i := 2; ; i++ {
				if _, taken := usedIDs[id]; !taken {
					break
				}
				id = base + "_" + strconv.Itoa(i)
			}
		}
		usedIDs[id] = struct{}{}
		idOf[n.ShapeID] = id
		graph.Nodes = append(graph.Nodes, models.Node{ID: id, Display: display, Shape: n.Kind})
	}

	appendEdges := func(list []ShapeEdge, isInferred bool) {
		for _, e := range list {
			from, okF := idOf[e.From]
			to, okT := idOf[e.To]
			if !okF || !okT {
				continue
			}
			graph.Edges = append(graph.Edges, models.Edge{From: from, To: to, Inferred: isInferred})
		}
	}
	appendEdges(valid, false)
	appendEdges(inferred, true)

	return graph
}
