package dag

import (
	"testing"

	"quilt/internal/diag"
)

func positions(t *testing.T, idx Index, order []TokenID) map[string]int {
	t.Helper()
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[idx.IDToName[int(id)]] = i
	}
	return pos
}

func TestToposort_UpdateOrderRespectsDependencies(t *testing.T) {
	nodes := []Node{
		{Name: "Season"},
		{Name: "Mood", Uses: []string{"Season"}},
		{Name: "Greeting", Uses: []string{"Mood", "Season"}},
	}

	idx := BuildIndex(nodes)
	bag := diag.NewBag(10)
	g, _ := BuildGraph(idx, nodes, nil, diag.BagReporter{Bag: bag})
	topo := ToposortKahn(g)

	if topo.Cyclic {
		t.Fatalf("unexpected cycle")
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	pos := positions(t, idx, topo.UpdateOrder())
	if pos["Season"] > pos["Mood"] || pos["Mood"] > pos["Greeting"] {
		t.Errorf("update order must run dependencies first, got %v", pos)
	}
}

func TestToposort_BatchesAreDeterministic(t *testing.T) {
	nodes := []Node{
		{Name: "B"},
		{Name: "A"},
		{Name: "C", Uses: []string{"A", "B"}},
	}
	idx := BuildIndex(nodes)
	g, _ := BuildGraph(idx, nodes, nil, diag.NopReporter{})
	topo := ToposortKahn(g)

	if len(topo.Batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(topo.Batches))
	}
	// First batch is the dependents wave; IDs inside a batch are sorted.
	first := topo.Batches[0]
	for i := 1; i < len(first); i++ {
		if first[i-1] > first[i] {
			t.Errorf("batch not sorted: %v", first)
		}
	}
}

func TestBuildGraph_ReportsUnknownDependency(t *testing.T) {
	nodes := []Node{
		{Name: "Mood", Uses: []string{"Season"}},
	}
	idx := BuildIndex(nodes)
	bag := diag.NewBag(10)
	BuildGraph(idx, nodes, nil, diag.BagReporter{Bag: bag})

	if !bag.HasErrors() {
		t.Fatalf("unknown dependency should be reported")
	}
	if bag.Items()[0].Code != diag.TokUnknownDependency {
		t.Errorf("code = %v, want TokUnknownDependency", bag.Items()[0].Code)
	}
}

func TestBuildGraph_ReportsSelfDependency(t *testing.T) {
	nodes := []Node{
		{Name: "Echo", Uses: []string{"echo"}},
	}
	idx := BuildIndex(nodes)
	bag := diag.NewBag(10)
	BuildGraph(idx, nodes, nil, diag.BagReporter{Bag: bag})

	if bag.Len() != 1 || bag.Items()[0].Code != diag.TokSelfDependency {
		t.Fatalf("want a single TokSelfDependency, got %v", bag.Items())
	}
}

func TestToposort_ReportsCycle(t *testing.T) {
	nodes := []Node{
		{Name: "A", Uses: []string{"B"}},
		{Name: "B", Uses: []string{"A"}},
		{Name: "C"},
	}
	idx := BuildIndex(nodes)
	bag := diag.NewBag(10)
	g, slots := BuildGraph(idx, nodes, nil, diag.BagReporter{Bag: bag})
	topo := ToposortKahn(g)

	if !topo.Cyclic {
		t.Fatalf("cycle not detected")
	}
	if len(topo.Cycles) != 2 {
		t.Errorf("cycle members = %d, want 2", len(topo.Cycles))
	}

	ReportCycles(idx, slots, topo, diag.BagReporter{Bag: bag})
	found := 0
	for _, d := range bag.Items() {
		if d.Code == diag.TokDependencyCycle {
			found++
		}
	}
	if found != 2 {
		t.Errorf("cycle diagnostics = %d, want 2", found)
	}

	// C stays sortable even with a cycle elsewhere.
	pos := positions(t, idx, topo.Order)
	if _, ok := pos["C"]; !ok {
		t.Errorf("acyclic token missing from order")
	}
}

func TestIndex_CaseInsensitiveLookup(t *testing.T) {
	idx := BuildIndex([]Node{{Name: "acme.pack/Season"}})
	if _, ok := idx.Lookup("ACME.PACK/season"); !ok {
		t.Errorf("lookup should ignore case")
	}
	if _, ok := idx.Lookup("weather"); ok {
		t.Errorf("lookup of unknown name should fail")
	}
}
