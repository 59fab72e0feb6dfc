// Package transform implements the graph transformation stages that sit
// between the raw dependency graph and the render adapter: origin and
// pattern filtering, external summarization, package clustering, and
// transitive pruning.
//
// Each stage receives a graph it owns exclusively and may mutate it in
// place before handing it to the next stage.
package transform

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/importspy/importspy/pkg/depgraph"
	"github.com/importspy/importspy/pkg/errors"
	"github.com/importspy/importspy/pkg/pymodule"
)

// FilterOptions controls node visibility.
type FilterOptions struct {
	// ShowThirdParty keeps third-party modules (default true).
	ShowThirdParty bool
	// ShowBuiltin keeps stdlib/builtin modules (default true).
	ShowBuiltin bool
	// SummarizeExternal collapses non-internal modules sharing a
	// top-level package into one representative node.
	SummarizeExternal bool
	// Ignore removes matching modules and their edges outright.
	Ignore []string
	// Hide removes matching modules but bridges their edges, so
	// A→hidden→B connectivity survives as A→B.
	Hide []string
}

// ValidatePatterns checks glob patterns for well-formedness. Dots in
// module paths are treated as path separators, so "pkg.*" matches
// direct children of pkg and "pkg.**" matches all descendants.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(globPattern(p)) {
			return errors.New(errors.ErrCodeInvalidPattern, "malformed pattern %q", p)
		}
	}
	return nil
}

// Filter applies the visibility configuration to g in place. Stage
// order is fixed: ignore, then origin filters, then hide (with
// bridging), then external summarization. Patterns must have passed
// ValidatePatterns; a malformed pattern here is returned as a fatal
// INVALID_PATTERN error.
func Filter(g *depgraph.Graph, opts FilterOptions) (*depgraph.Graph, error) {
	if err := ValidatePatterns(opts.Ignore); err != nil {
		return nil, err
	}
	if err := ValidatePatterns(opts.Hide); err != nil {
		return nil, err
	}

	for _, m := range g.Nodes() {
		if matchAny(opts.Ignore, m.Path()) {
			g.RemoveNode(m.Path())
		}
	}

	for _, m := range g.Nodes() {
		switch m.Origin() {
		case pymodule.OriginThirdParty:
			if !opts.ShowThirdParty {
				g.RemoveNode(m.Path())
			}
		case pymodule.OriginBuiltin:
			if !opts.ShowBuiltin {
				g.RemoveNode(m.Path())
			}
		}
	}

	for _, m := range g.Nodes() {
		if matchAny(opts.Hide, m.Path()) {
			hideAndBridge(g, m.Path())
		}
	}

	if opts.SummarizeExternal {
		summarizeExternal(g)
	}
	return g, nil
}

// hideAndBridge removes the node and synthesizes A→B for every pair of
// edges A→node→B so reachability through the hidden node survives. A
// bridge that would form a self-loop (the hidden node sits on a
// two-cycle A→H→A) is suppressed, matching the graph-wide no-self-loop
// invariant. Bridge multiplicity carries the incoming edge's count.
func hideAndBridge(g *depgraph.Graph, path string) {
	preds := g.Predecessors(path)
	succs := g.Successors(path)
	for _, a := range preds {
		in, _ := g.Edge(a, path)
		for _, b := range succs {
			if a == b {
				continue
			}
			g.MergeEdge(a, b, in.Count, false)
		}
	}
	g.RemoveNode(path)
}

// summarizeExternal collapses every retained non-internal module that
// shares a top-level package into a single representative named after
// that package. Redirected edges are deduplicated with multiplicity
// sums and flagged Summarized.
func summarizeExternal(g *depgraph.Graph) {
	for _, m := range g.Nodes() {
		if m.IsInternal() || m.Depth() == 0 {
			continue
		}
		root := m.Root()
		if _, ok := g.Node(root); !ok {
			g.AddModule(pymodule.New(root, m.Origin()))
		}
		for _, a := range g.Predecessors(m.Path()) {
			e, _ := g.Edge(a, m.Path())
			g.MergeEdge(a, root, e.Count, true)
		}
		for _, b := range g.Successors(m.Path()) {
			e, _ := g.Edge(m.Path(), b)
			g.MergeEdge(root, b, e.Count, true)
		}
		g.RemoveNode(m.Path())
	}

	// Edges between members of the same package collapse onto the
	// representative; drop the resulting self-loops.
	for _, e := range g.Edges() {
		if e.From == e.To {
			g.RemoveEdge(e.From, e.To)
		}
	}
}

func matchAny(patterns []string, path string) bool {
	name := strings.ReplaceAll(path, ".", "/")
	for _, p := range patterns {
		if ok, err := doublestar.Match(globPattern(p), name); err == nil && ok {
			return true
		}
	}
	return false
}

// globPattern translates a dotted module pattern into doublestar's
// slash-separated form.
func globPattern(p string) string {
	return strings.ReplaceAll(p, ".", "/")
}
