package depgraph

import "github.com/importspy/importspy/pkg/pymodule"

// Builder accumulates resolved (importer, target) pairs into a Graph.
// Input order does not matter: accumulation is commutative, so the
// finalized graph is identical under any permutation of AddImport
// calls.
type Builder struct {
	g *Graph
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{g: New()}
}

// AddModule registers a node without edges. Modules that never import
// and are never imported still appear in the graph.
func (b *Builder) AddModule(m *pymodule.Module) {
	b.g.AddModule(m)
}

// AddImport records one import statement from importer to target,
// creating the edge or incrementing its multiplicity.
func (b *Builder) AddImport(importer, target *pymodule.Module) {
	b.g.AddModule(importer)
	b.g.AddModule(target)
	b.g.MergeEdge(importer.Path(), target.Path(), 1, false)
}

// Finalize drops self-loop edges (a module importing itself via
// relative-import quirks) and returns the graph. The builder must not
// be used after Finalize.
func (b *Builder) Finalize() *Graph {
	g := b.g
	b.g = nil
	for _, e := range g.Edges() {
		if e.From == e.To {
			g.RemoveEdge(e.From, e.To)
		}
	}
	return g
}
