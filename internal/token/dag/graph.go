package dag

import (
	"fmt"
	"slices"
	"strings"

	"quilt/internal/diag"
)

type Graph struct {
	Edges   [][]TokenID // Edges[from] = tokens that `from` reads
	Indeg   []int       // incoming degrees for Kahn (present tokens only)
	Present []bool      // token is actually registered, not just referenced
}

// Slot carries per-token bookkeeping alongside the graph.
type Slot struct {
	Name    string
	Origin  diag.Origin
	Present bool
}

// BuildGraph wires token nodes into a dependency graph. Unknown and
// self-referencing dependencies are reported and skipped; duplicate edges
// collapse to one.
func BuildGraph(idx Index, nodes []Node, origins map[string]diag.Origin, rep diag.Reporter) (Graph, []Slot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]TokenID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]Slot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Name = name
	}

	for _, node := range nodes {
		if node.Name == "" {
			continue
		}
		id, ok := idx.Lookup(node.Name)
		if !ok {
			// cannot happen, the index is built from the same nodes
			continue
		}
		slot := &slots[int(id)]
		slot.Present = true
		if origins != nil {
			slot.Origin = origins[strings.ToLower(node.Name)]
		}
		g.Present[int(id)] = true
	}

	for _, node := range nodes {
		from, ok := idx.Lookup(node.Name)
		if !ok || len(node.Uses) == 0 {
			continue
		}
		origin := slots[int(from)].Origin
		seen := make(map[TokenID]struct{}, len(node.Uses))
		for _, dep := range node.Uses {
			if dep == "" {
				continue
			}
			toID, ok := idx.Lookup(dep)
			if !ok {
				continue
			}
			if from == toID {
				diag.ReportError(rep, diag.TokSelfDependency, origin,
					fmt.Sprintf("token %q depends on itself", node.Name))
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}

			g.Edges[int(from)] = append(g.Edges[int(from)], toID)
			if g.Present[int(toID)] {
				g.Indeg[int(toID)]++
			} else {
				diag.ReportError(rep, diag.TokUnknownDependency, origin,
					fmt.Sprintf("token %q depends on unknown token %q", node.Name, dep))
			}
		}
		if len(g.Edges[int(from)]) > 1 {
			slices.Sort(g.Edges[int(from)])
		}
	}

	return g, slots
}

// ReportCycles emits one diagnostic per token stuck in a dependency cycle.
func ReportCycles(idx Index, slots []Slot, topo *Topo, rep diag.Reporter) {
	if topo == nil || !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present {
			continue
		}
		msg := fmt.Sprintf("token %q participates in a dependency cycle: %s", slot.Name, summary)
		diag.ReportError(rep, diag.TokDependencyCycle, slot.Origin, msg)
	}
}
