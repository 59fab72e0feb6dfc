package depgraph

import (
	"testing"

	"github.com/importspy/importspy/pkg/pymodule"
)

func internal(path string) *pymodule.Module {
	return pymodule.NewInternal(path, "")
}

func TestMergeEdge_Multiplicity(t *testing.T) {
	g := New()
	g.AddModule(internal("a"))
	g.AddModule(internal("b"))

	g.MergeEdge("a", "b", 1, false)
	g.MergeEdge("a", "b", 1, false)
	g.MergeEdge("a", "b", 2, false)

	e, ok := g.Edge("a", "b")
	if !ok {
		t.Fatal("edge a→b missing")
	}
	if e.Count != 4 {
		t.Errorf("Count = %d, want 4", e.Count)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestMergeEdge_UnknownEndpointIgnored(t *testing.T) {
	g := New()
	g.AddModule(internal("a"))

	g.MergeEdge("a", "ghost", 1, false)
	g.MergeEdge("ghost", "a", 1, false)

	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestMergeEdge_SummarizedSticky(t *testing.T) {
	g := New()
	g.AddModule(internal("a"))
	g.AddModule(internal("b"))

	g.MergeEdge("a", "b", 1, true)
	g.MergeEdge("a", "b", 1, false)

	e, _ := g.Edge("a", "b")
	if !e.Summarized {
		t.Error("Summarized flag was cleared by a later merge")
	}
}

func TestRemoveNode_DropsIncidentEdges(t *testing.T) {
	g := New()
	for _, p := range []string{"a", "b", "c"} {
		g.AddModule(internal(p))
	}
	g.MergeEdge("a", "b", 1, false)
	g.MergeEdge("b", "c", 1, false)
	g.MergeEdge("a", "c", 1, false)

	g.RemoveNode("b")

	if _, ok := g.Node("b"); ok {
		t.Error("node b still present")
	}
	if g.HasEdge("a", "b") || g.HasEdge("b", "c") {
		t.Error("edges touching b survived")
	}
	if !g.HasEdge("a", "c") {
		t.Error("unrelated edge a→c was removed")
	}
}

func TestAddModule_FirstInstanceWins(t *testing.T) {
	g := New()
	first := internal("a")
	g.AddModule(first)
	g.AddModule(pymodule.New("a", pymodule.OriginThirdParty))

	m, _ := g.Node("a")
	if m != first {
		t.Error("AddModule replaced an existing node")
	}
}

func TestEdges_SortedOrder(t *testing.T) {
	g := New()
	for _, p := range []string{"c", "a", "b"} {
		g.AddModule(internal(p))
	}
	g.MergeEdge("c", "a", 1, false)
	g.MergeEdge("a", "c", 1, false)
	g.MergeEdge("a", "b", 1, false)

	edges := g.Edges()
	want := []Edge{
		{From: "a", To: "b", Count: 1},
		{From: "a", To: "c", Count: 1},
		{From: "c", To: "a", Count: 1},
	}
	if len(edges) != len(want) {
		t.Fatalf("got %d edges, want %d", len(edges), len(want))
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edges[%d] = %+v, want %+v", i, edges[i], want[i])
		}
	}
}

func TestSuccessorsPredecessors(t *testing.T) {
	g := New()
	for _, p := range []string{"a", "b", "c"} {
		g.AddModule(internal(p))
	}
	g.MergeEdge("a", "c", 1, false)
	g.MergeEdge("a", "b", 1, false)
	g.MergeEdge("b", "c", 1, false)

	succs := g.Successors("a")
	if len(succs) != 2 || succs[0] != "b" || succs[1] != "c" {
		t.Errorf("Successors(a) = %v, want [b c]", succs)
	}
	preds := g.Predecessors("c")
	if len(preds) != 2 || preds[0] != "a" || preds[1] != "b" {
		t.Errorf("Predecessors(c) = %v, want [a b]", preds)
	}
}
