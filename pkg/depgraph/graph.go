// Package depgraph implements the module dependency graph: nodes are
// canonical Python modules, edges are deduplicated import relations
// with multiplicity counts.
//
// The graph is handed from pipeline stage to pipeline stage as a value
// object; each stage owns the instance it received exclusively until it
// passes it on, so transforms may mutate in place. Import cycles are
// legal and preserved; self-loops are dropped at build time.
package depgraph

import (
	"sort"

	"github.com/importspy/importspy/pkg/pymodule"
)

// Edge is a directed import relation between two modules, identified by
// their canonical paths. Multiple import statements between the same
// pair collapse into one edge with Count > 1.
type Edge struct {
	From string // importer canonical path
	To   string // imported canonical path
	// Count is the number of distinct import statements that produced
	// this edge.
	Count int
	// Summarized marks edges synthesized by external summarization.
	Summarized bool
}

type edgeKey struct{ from, to string }

// Graph is a set of modules plus a set of deduplicated import edges.
// Every edge's endpoints exist in the node set. The zero value is not
// usable; use New.
type Graph struct {
	nodes map[string]*pymodule.Module
	edges map[edgeKey]*Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*pymodule.Module),
		edges: make(map[edgeKey]*Edge),
	}
}

// AddModule inserts a module node. Adding the same canonical path twice
// is a no-op; the first instance wins.
func (g *Graph) AddModule(m *pymodule.Module) {
	if _, ok := g.nodes[m.Path()]; !ok {
		g.nodes[m.Path()] = m
	}
}

// MergeEdge inserts an edge or, if the (from, to) pair already exists,
// adds count to its multiplicity. Both endpoints must already be nodes;
// unknown endpoints are ignored to keep the endpoint invariant intact.
// The summarized flag is sticky: once an edge is marked it stays marked.
func (g *Graph) MergeEdge(from, to string, count int, summarized bool) {
	if _, ok := g.nodes[from]; !ok {
		return
	}
	if _, ok := g.nodes[to]; !ok {
		return
	}
	key := edgeKey{from, to}
	if e, ok := g.edges[key]; ok {
		e.Count += count
		e.Summarized = e.Summarized || summarized
		return
	}
	g.edges[key] = &Edge{From: from, To: to, Count: count, Summarized: summarized}
}

// RemoveNode deletes a node and every edge touching it.
func (g *Graph) RemoveNode(path string) {
	if _, ok := g.nodes[path]; !ok {
		return
	}
	delete(g.nodes, path)
	for key := range g.edges {
		if key.from == path || key.to == path {
			delete(g.edges, key)
		}
	}
}

// RemoveEdge deletes the edge from→to if present.
func (g *Graph) RemoveEdge(from, to string) {
	delete(g.edges, edgeKey{from, to})
}

// Node returns the module with the given canonical path.
func (g *Graph) Node(path string) (*pymodule.Module, bool) {
	m, ok := g.nodes[path]
	return m, ok
}

// HasEdge reports whether the edge from→to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[edgeKey{from, to}]
	return ok
}

// Edge returns the edge from→to, if present.
func (g *Graph) Edge(from, to string) (Edge, bool) {
	if e, ok := g.edges[edgeKey{from, to}]; ok {
		return *e, true
	}
	return Edge{}, false
}

// Nodes returns all modules sorted by canonical path.
func (g *Graph) Nodes() []*pymodule.Module {
	nodes := make([]*pymodule.Module, 0, len(g.nodes))
	for _, m := range g.nodes {
		nodes = append(nodes, m)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path() < nodes[j].Path() })
	return nodes
}

// Edges returns copies of all edges sorted by (From, To).
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, *e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// Successors returns the sorted canonical paths this node imports.
func (g *Graph) Successors(path string) []string {
	var out []string
	for key := range g.edges {
		if key.from == path {
			out = append(out, key.to)
		}
	}
	sort.Strings(out)
	return out
}

// Predecessors returns the sorted canonical paths importing this node.
func (g *Graph) Predecessors(path string) []string {
	var out []string
	for key := range g.edges {
		if key.to == path {
			out = append(out, key.from)
		}
	}
	sort.Strings(out)
	return out
}

// NodeCount returns the number of module nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of deduplicated edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
