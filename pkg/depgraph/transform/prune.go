package transform

import "github.com/importspy/importspy/pkg/depgraph"

// Prune removes edges that add no reachability information.
//
// An edge A→C is transitively redundant if C stays reachable from A
// through a path of length >= 2 once that single edge is taken out of
// the original edge set. Redundancy is judged for every edge against
// the same original set and the removals happen in one pass afterwards,
// so the result is deterministic, independent of edge order, and a
// second Prune is a no-op. Edges that are the only route around a cycle
// survive: only true shortcuts go.
//
// When clustering is active, surviving inter-cluster edges that state a
// cluster-to-cluster relationship already stated by another surviving
// edge between the same two clusters are removed as well; the
// lexicographically smallest (From, To) edge of each cluster pair is
// kept. Intra-cluster edges are never touched by this rule.
func Prune(g *depgraph.Graph, tree *ClusterTree) *depgraph.Graph {
	pruneTransitive(g)
	if tree != nil && tree.Count() > 0 {
		pruneClusterShortcuts(g, tree)
	}
	return g
}

func pruneTransitive(g *depgraph.Graph) {
	succs := make(map[string][]string)
	for _, e := range g.Edges() {
		succs[e.From] = append(succs[e.From], e.To)
	}

	var redundant []depgraph.Edge
	for _, e := range g.Edges() {
		if reachableWithout(succs, e.From, e.To) {
			redundant = append(redundant, e)
		}
	}
	for _, e := range redundant {
		g.RemoveEdge(e.From, e.To)
	}
}

// reachableWithout reports whether to is reachable from from in the
// graph with the single edge from→to removed.
func reachableWithout(succs map[string][]string, from, to string) bool {
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range succs[n] {
			if n == from && next == to {
				continue // the edge under test
			}
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

func pruneClusterShortcuts(g *depgraph.Graph, tree *ClusterTree) {
	type pair struct{ from, to *Cluster }
	kept := make(map[pair]bool)

	// Edges() is sorted by (From, To), so the first edge seen for a
	// cluster pair is the lexicographically smallest.
	for _, e := range g.Edges() {
		cf, ct := tree.ClusterOf(e.From), tree.ClusterOf(e.To)
		if cf == ct {
			continue
		}
		p := pair{cf, ct}
		if kept[p] {
			g.RemoveEdge(e.From, e.To)
			continue
		}
		kept[p] = true
	}
}
