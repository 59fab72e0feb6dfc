// Package render turns the final dependency graph into artifacts: a
// Graphviz DOT description, rendered images, and a JSON export of the
// node/edge/cluster structure.
//
// The Spec type is the hand-off contract between the core pipeline and
// any graph-description serializer: a flat node list (name, origin,
// cluster membership), an edge list (source, target, multiplicity) and
// the cluster tree (name, parent, member names).
package render

import (
	"encoding/json"

	"github.com/importspy/importspy/pkg/depgraph"
	"github.com/importspy/importspy/pkg/depgraph/transform"
)

// Node is one module in the final graph.
type Node struct {
	Name    string `json:"name"`
	Origin  string `json:"origin"`
	Cluster string `json:"cluster,omitempty"`
}

// Edge is one deduplicated import relation.
type Edge struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Count      int    `json:"count"`
	Summarized bool   `json:"summarized,omitempty"`
}

// Cluster is one named grouping in the cluster tree. Parent is "" for
// clusters attached directly to the implicit root.
type Cluster struct {
	Name    string   `json:"name"`
	Parent  string   `json:"parent,omitempty"`
	Members []string `json:"members"`
}

// Spec is the complete renderable description of a dependency graph.
type Spec struct {
	Name     string    `json:"name"`
	Comment  string    `json:"comment,omitempty"`
	Nodes    []Node    `json:"nodes"`
	Edges    []Edge    `json:"edges"`
	Clusters []Cluster `json:"clusters,omitempty"`
}

// Build assembles a Spec from the final graph and cluster tree.
// Nodes, edges and clusters come out in deterministic sorted order so
// identical graphs serialize identically.
func Build(g *depgraph.Graph, tree *transform.ClusterTree, name, comment string) *Spec {
	s := &Spec{Name: name, Comment: comment}

	for _, m := range g.Nodes() {
		n := Node{Name: m.Path(), Origin: m.Origin().String()}
		if tree != nil {
			if c := tree.ClusterOf(m.Path()); !c.IsRoot() {
				n.Cluster = c.Name
			}
		}
		s.Nodes = append(s.Nodes, n)
	}

	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, Edge{From: e.From, To: e.To, Count: e.Count, Summarized: e.Summarized})
	}

	if tree != nil {
		for _, c := range tree.Clusters() {
			spec := Cluster{Name: c.Name, Members: c.Members}
			if !c.Parent.IsRoot() {
				spec.Parent = c.Parent.Name
			}
			s.Clusters = append(s.Clusters, spec)
		}
	}
	return s
}

// JSON serializes the spec with stable field order and indentation.
func (s *Spec) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
