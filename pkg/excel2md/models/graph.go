package models

// Node is one vertex of a detected flow diagram.
type Node struct {
	// ID is the sanitized Mermaid identifier.
	ID string `json:"id"`
	// Display is the original display name.
	Display string `json:"display"`
	// Shape is the node shape kind (process, decision, terminator, io,
	// prep, manual, document, connector).
	Shape string `json:"shape,omitempty"`
}

// Edge is one directed edge of a detected flow diagram.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	// Label is an optional edge label.
	Label string `json:"label,omitempty"`
	// Inferred marks edges added by proximity inference rather than
	// explicit connectors or table rows.
	Inferred bool `json:"inferred,omitempty"`
}

// Graph is the directed-graph representation of a diagram table or a set of
// drawing shapes. Nodes and Edges preserve first-seen order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	// Groups maps a cluster name to the IDs of its member nodes.
	Groups map[string][]string `json:"groups,omitempty"`
}

// NodeByID returns the node with the given ID, or nil.
func (g *Graph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}
