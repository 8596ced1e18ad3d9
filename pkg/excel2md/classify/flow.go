package classify

import (
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/excel2md/excel2md-go/pkg/excel2md/models"
)

// ColumnRoles maps diagram roles to column indices within the table rows.
// An index of -1 means the role is absent.
type ColumnRoles struct {
	From  int
	To    int
	Label int
	Group int
	Note  int
}

var arrowRe = regexp.MustCompile(`(->|→|⇒)`)

// resolveColumnsByName matches the header row against the configured
// role-to-name mapping using normalized names. Duplicate matches keep the
// first occurrence and log a warning. Both "from" and "to" must resolve.
func resolveColumnsByName(header []string, mapping map[string]string) (ColumnRoles, bool) {
	roles := ColumnRoles{From: -1, To: -1, Label: -1, Group: -1, Note: -1}
	targets := make(map[string]string)
	for role, name := range mapping {
		if name != "" {
			targets[role] = normalizeHeaderName(name)
		}
	}

	index := make(map[string]int)
	var dups []string
	for i, name := range header {
		key := normalizeHeaderName(name)
		for _, role := range []string{"from", "to", "label", "group", "note"} {
			want, ok := targets[role]
			if !ok || key != want {
				continue
			}
			if _, seen := index[role]; seen {
				dups = append(dups, role)
			} else {
				index[role] = i
			}
		}
	}
	if len(dups) > 0 {
		log.Warnf("duplicate header names detected for %v: first occurrence will be used", dups)
	}

	fromIdx, okFrom := index["from"]
	toIdx, okTo := index["to"]
	if !okFrom || !okTo {
		return roles, false
	}
	roles.From, roles.To = fromIdx, toIdx
	if i, ok := index["label"]; ok {
		roles.Label = i
	}
	if i, ok := index["group"]; ok {
		roles.Group = i
	}
	if i, ok := index["note"]; ok {
		roles.Note = i
	}
	return roles, true
}

// detectFlowTable decides whether rows encode a directed-graph flow table
// and, if so, which columns carry which roles.
func detectFlowTable(rows [][]string, cfg Config) (ColumnRoles, bool) {
	none := ColumnRoles{From: -1, To: -1, Label: -1, Group: -1, Note: -1}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return none, false
	}

	if cfg.DetectMode == DetectColumnHeaders {
		if !cfg.HeaderDetection {
			return none, false
		}
		header := rows[0]
		allEmpty := true
		for _, cell := range header {
			if strings.TrimSpace(cell) != "" {
				allEmpty = false
				break
			}
		}
		if allEmpty {
			return none, false
		}
		return resolveColumnsByName(header, cfg.Columns)
	}

	// Heuristic mode. Tables already matching the code heuristic at a
	// lower threshold never count as diagrams.
	if collectCodeLines(rows) != nil {
		return none, false
	}
	if len(rows[0]) < 2 {
		return none, false
	}
	data := rows[1:]

	bothFilled := 0
	for _, r := range data {
		if len(r) >= 2 && strings.TrimSpace(r[0]) != "" && strings.TrimSpace(r[1]) != "" {
			bothFilled++
		}
	}
	if bothFilled < cfg.HeuristicMinRows {
		return none, false
	}

	arrowLines := 0
	for _, r := range data {
		for _, cell := range r {
			if arrowRe.MatchString(cell) {
				arrowLines++
				break
			}
		}
	}
	if len(data) == 0 || float64(arrowLines)/float64(len(data)) < cfg.HeuristicArrowRatio {
		return none, false
	}

	var len0, len1 []int
	for _, r := range data {
		if len(r) >= 1 {
			len0 = append(len0, nfkcLen(r[0]))
		}
		if len(r) >= 2 {
			len1 = append(len1, nfkcLen(r[1]))
		}
	}
	if len(len0) == 0 || len(len1) == 0 {
		return none, false
	}
	med0 := median(len0)
	med1 := median(len1)
	if med1 < 1 {
		med1 = 1
	}
	ratio := med0 / med1
	if ratio < cfg.HeuristicLenRatioMin || ratio > cfg.HeuristicLenRatioMax {
		return none, false
	}

	roles := ColumnRoles{From: 0, To: 1, Label: -1, Group: -1, Note: -1}
	if len(rows[0]) > 2 {
		roles.Label = 2
	}
	if len(rows[0]) > 3 {
		roles.Group = 3
	}
	if len(rows[0]) > 4 {
		roles.Note = 4
	}
	return roles, true
}

func roleVal(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// BuildFlowGraph builds the directed-graph representation of a flow table:
// one node per unique normalized display name, one edge per row, deduplicated
// by (from, to, label) when configured, with optional subgraph grouping.
func BuildFlowGraph(rows [][]string, cfg Config, roles ColumnRoles) *models.Graph {
	graph := &models.Graph{}
	nodeID := make(map[string]string) // display -> id
	usedIDs := make(map[string]struct{})
	edgeSeen := make(map[[3]string]struct{})
	groups := make(map[string][]string)
	grouped := make(map[string]map[string]struct{})

	intern := func(display string) string {
		if id, ok := nodeID[display]; ok {
			return id
		}
		id := SanitizeNodeID(display)
		base := id
		for i := 2; ; i++ {
			if _, taken := usedIDs[id]; !taken {
				break
			}
			id = base + "_" + strconv.Itoa(i)
		}
		usedIDs[id] = struct{}{}
		nodeID[display] = id
		graph.Nodes = append(graph.Nodes, models.Node{ID: id, Display: display})
		return id
	}

	var data [][]string
	if len(rows) > 1 {
		data = rows[1:]
	}
	for _, row := range data {
		from := strings.TrimSpace(roleVal(row, roles.From))
		to := strings.TrimSpace(roleVal(row, roles.To))
		if from == "" || to == "" {
			continue
		}
		fromID := intern(from)
		toID := intern(to)
		label := strings.TrimSpace(roleVal(row, roles.Label))

		key := [3]string{fromID, toID, label}
		if cfg.DedupeEdges {
			if _, dup := edgeSeen[key]; dup {
				continue
			}
		}
		edgeSeen[key] = struct{}{}
		graph.Edges = append(graph.Edges, models.Edge{From: fromID, To: toID, Label: label})

		if group := strings.TrimSpace(roleVal(row, roles.Group)); group != "" && cfg.GroupBehavior == GroupSubgraph {
			if grouped[group] == nil {
				grouped[group] = make(map[string]struct{})
			}
			for _, id := range []string{fromID, toID} {
				if _, ok := grouped[group][id]; !ok {
					grouped[group][id] = struct{}{}
					groups[group] = append(groups[group], id)
				}
			}
		}
	}

	if len(groups) > 0 {
		graph.Groups = groups
	}
	return graph
}
