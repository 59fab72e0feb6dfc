package transform

import (
	"testing"

	"github.com/importspy/importspy/pkg/depgraph"
)

func edgeSet(g *depgraph.Graph) map[[2]string]bool {
	out := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		out[[2]string{e.From, e.To}] = true
	}
	return out
}

// reachable computes the full reachability relation of a graph.
func reachable(g *depgraph.Graph) map[[2]string]bool {
	out := make(map[[2]string]bool)
	for _, start := range g.Nodes() {
		stack := []string{start.Path()}
		seen := map[string]bool{}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range g.Successors(n) {
				if !seen[next] {
					seen[next] = true
					out[[2]string{start.Path(), next}] = true
					stack = append(stack, next)
				}
			}
		}
	}
	return out
}

func TestPrune_RemovesTransitiveShortcut(t *testing.T) {
	g := graphOf("a", "b", "c")
	g.MergeEdge("a", "b", 1, false)
	g.MergeEdge("b", "c", 1, false)
	g.MergeEdge("a", "c", 1, false)

	Prune(g, nil)

	if g.HasEdge("a", "c") {
		t.Error("shortcut a→c survived")
	}
	if !g.HasEdge("a", "b") || !g.HasEdge("b", "c") {
		t.Error("path edges were removed")
	}
}

func TestPrune_PreservesReachability(t *testing.T) {
	g := graphOf("a", "b", "c", "d", "e")
	for _, e := range [][2]string{
		{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "c"}, {"a", "d"}, {"b", "d"}, {"a", "e"},
	} {
		g.MergeEdge(e[0], e[1], 1, false)
	}
	before := reachable(g)

	Prune(g, nil)

	after := reachable(g)
	if len(before) != len(after) {
		t.Fatalf("reachability changed: %d pairs before, %d after", len(before), len(after))
	}
	for pair := range before {
		if !after[pair] {
			t.Errorf("pair %v no longer reachable", pair)
		}
	}
}

func TestPrune_Idempotent(t *testing.T) {
	g := graphOf("a", "b", "c", "d")
	for _, e := range [][2]string{
		{"a", "b"}, {"b", "c"}, {"a", "c"}, {"c", "d"}, {"a", "d"},
	} {
		g.MergeEdge(e[0], e[1], 1, false)
	}

	Prune(g, nil)
	first := edgeSet(g)
	Prune(g, nil)
	second := edgeSet(g)

	if len(first) != len(second) {
		t.Fatalf("second prune changed the graph: %v vs %v", first, second)
	}
	for e := range first {
		if !second[e] {
			t.Errorf("edge %v disappeared on second prune", e)
		}
	}
}

func TestPrune_CycleEdgesSurvive(t *testing.T) {
	g := graphOf("a", "b", "c")
	g.MergeEdge("a", "b", 1, false)
	g.MergeEdge("b", "c", 1, false)
	g.MergeEdge("c", "a", 1, false)

	Prune(g, nil)

	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3 (cycle must survive)", g.EdgeCount())
	}
}

func TestPrune_TwoCycleWithShortcut(t *testing.T) {
	// a↔b plus a→c and b→c: each shortcut has a length-2 witness in
	// the original edge set (a→b→c and b→a→c), so both are judged
	// redundant regardless of processing order. The cycle itself
	// survives.
	g := graphOf("a", "b", "c")
	g.MergeEdge("a", "b", 1, false)
	g.MergeEdge("b", "a", 1, false)
	g.MergeEdge("a", "c", 1, false)
	g.MergeEdge("b", "c", 1, false)

	Prune(g, nil)

	if !g.HasEdge("a", "b") || !g.HasEdge("b", "a") {
		t.Error("cycle edge removed")
	}
	if g.HasEdge("a", "c") || g.HasEdge("b", "c") {
		t.Error("shortcut with an original-set witness survived")
	}
}

func TestPrune_ClusterShortcutsKeepSmallestEdge(t *testing.T) {
	g := graphOf("a.x", "a.y", "b.x", "b.y")
	g.MergeEdge("a.x", "b.x", 1, false)
	g.MergeEdge("a.y", "b.y", 1, false)

	tree := BuildClusters(g, ClusterOptions{UseClusters: true, MinClusterSize: 1})
	Prune(g, tree)

	if !g.HasEdge("a.x", "b.x") {
		t.Error("lexicographically smallest inter-cluster edge removed")
	}
	if g.HasEdge("a.y", "b.y") {
		t.Error("duplicate inter-cluster edge survived")
	}
}

func TestPrune_IntraClusterEdgesUntouched(t *testing.T) {
	g := graphOf("a.x", "a.y", "a.z")
	g.MergeEdge("a.x", "a.y", 1, false)
	g.MergeEdge("a.x", "a.z", 1, false)

	tree := BuildClusters(g, ClusterOptions{UseClusters: true, MinClusterSize: 1})
	Prune(g, tree)

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2 (intra-cluster edges kept)", g.EdgeCount())
	}
}
