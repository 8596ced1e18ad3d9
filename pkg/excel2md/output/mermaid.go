package output

import (
	"sort"
	"strings"

	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
)

var mermaidEntities = strings.NewReplacer(
	"[", "&#91;",
	"]", "&#93;",
	"{", "&#123;",
	"}", "&#125;",
	"|", "&#124;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeMermaid converts Mermaid-reserved characters in a display name to
// HTML entities.
func escapeMermaid(s string) string {
	return mermaidEntities.Replace(s)
}

// formatNode renders one node declaration in the shape syntax matching its
// kind.
func formatNode(indent, id, display, kind string) string {
	d := escapeMermaid(display)
	switch kind {
	case "decision":
		return indent + id + `{"` + d + `"}`
	case "terminator":
		return indent + id + `(["` + d + `"])`
	case "io", "manual", "document":
		return indent + id + `[("` + d + `")]`
	case "prep":
		return indent + id + `[{"` + d + `"}]`
	default: // process, connector and anything else
		return indent + id + `["` + d + `"]`
	}
}

// RenderMermaid renders a diagram graph as a fenced Mermaid flowchart.
// Groups become subgraphs; grouped nodes are declared inside their subgraph
// only. Node and group order is sorted for deterministic output; edges keep
// build order. Inferred edges render dashed with an "inferred" label.
func RenderMermaid(g *models.Graph, direction string) string {
	if g == nil {
		return ""
	}
	if direction == "" {
		direction = "TD"
	}

	displayOf := make(map[string]string, len(g.Nodes))
	kindOf := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		displayOf[n.ID] = n.Display
		kindOf[n.ID] = n.Shape
	}

	lines := []string{"```mermaid", "flowchart " + direction}

	grouped := make(map[string]struct{})
	groupNames := make([]string, 0, len(g.Groups))
	for name := range g.Groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)
	for _, name := range groupNames {
		lines = append(lines, "  subgraph "+name)
		members := append([]string(nil), g.Groups[name]...)
		sort.Strings(members)
		for _, id := range members {
			grouped[id] = struct{}{}
			lines = append(lines, formatNode("    ", id, displayOf[id], kindOf[id]))
		}
		lines = append(lines, "  end")
	}

	ungrouped := make([]models.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, ok := grouped[n.ID]; !ok {
			ungrouped = append(ungrouped, n)
		}
	}
	sort.Slice(ungrouped, func(i, j int) bool {
		if ungrouped[i].Display != ungrouped[j].Display {
			return ungrouped[i].Display < ungrouped[j].Display
		}
		return ungrouped[i].ID < ungrouped[j].ID
	})
	for _, n := range ungrouped {
		lines = append(lines, formatNode("  ", n.ID, n.Display, n.Shape))
	}

	for _, e := range g.Edges {
		switch {
		case e.Inferred:
			lines = append(lines, "  "+e.From+" -.->|inferred| "+e.To)
		case e.Label != "":
			lines = append(lines, "  "+e.From+" -->|"+escapeMermaid(e.Label)+"| "+e.To)
		default:
			lines = append(lines, "  "+e.From+" --> "+e.To)
		}
	}

	lines = append(lines, "```")
	return strings.Join(lines, "\n")
}
