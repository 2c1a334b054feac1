package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type Topo struct {
	Order   []TokenID   // linear order, dependents before their dependencies
	Batches [][]TokenID // waves of mutually independent tokens
	Cyclic  bool
	Cycles  []TokenID // nodes left inside a cycle
}

// UpdateOrder returns the order context updates should run in: every
// token after the tokens it reads.
func (t *Topo) UpdateOrder() []TokenID {
	out := make([]TokenID, len(t.Order))
	for i, id := range t.Order {
		out[len(t.Order)-1-i] = id
	}
	return out
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]TokenID, 0, nodeCount),
		Batches: make([][]TokenID, 0),
	}

	active := 0
	for i := range nodeCount {
		if g.Present[i] {
			active++
		}
	}

	current := make([]TokenID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		if indeg[i] == 0 {
			tID, err := safecast.Conv[TokenID](i)
			if err != nil {
				panic(fmt.Errorf("token id overflow: %w", err))
			}
			current = append(current, tID)
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]TokenID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]TokenID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if !g.Present[i] {
				continue
			}
			if indeg[i] > 0 {
				tID, err := safecast.Conv[TokenID](i)
				if err != nil {
					panic(fmt.Errorf("token id overflow: %w", err))
				}
				topo.Cycles = append(topo.Cycles, tID)
			}
		}
		slices.Sort(topo.Cycles)
	}

	return topo
}
