package render

import (
	"bytes"
	"fmt"
	"strings"
)

// Node style by origin. Internal modules are grey boxes, stdlib modules
// light blue, third-party modules black with white text.
func nodeStyle(origin string) string {
	switch origin {
	case "internal":
		return `shape=rect, style=filled, fillcolor="#e0e0e0"`
	case "builtin":
		return `shape=rect, style=filled, fillcolor=lightblue`
	default:
		return `shape=rect, style=filled, fillcolor=black, fontcolor=white`
	}
}

// DOT serializes the spec to Graphviz DOT. Clusters become nested
// subgraphs whose names carry the required "cluster" prefix. Output is
// deterministic: identical specs produce byte-identical DOT, which is
// what the if-changed render mode hashes.
func (s *Spec) DOT() string {
	var buf bytes.Buffer

	if s.Comment != "" {
		for _, line := range strings.Split(s.Comment, "\n") {
			fmt.Fprintf(&buf, "// %s\n", line)
		}
	}
	fmt.Fprintf(&buf, "strict digraph %q {\n", s.Name)
	buf.WriteString("  compound=true;\n\n")

	children := make(map[string][]Cluster)
	for _, c := range s.Clusters {
		children[c.Parent] = append(children[c.Parent], c)
	}
	nodesIn := make(map[string][]Node)
	for _, n := range s.Nodes {
		nodesIn[n.Cluster] = append(nodesIn[n.Cluster], n)
	}

	writeNode := func(indent string, n Node) {
		label := n.Name
		if i := strings.LastIndexByte(label, '.'); i >= 0 {
			label = label[i+1:]
		}
		fmt.Fprintf(&buf, "%s%q [label=%q, %s];\n", indent, n.Name, label, nodeStyle(n.Origin))
	}

	var writeCluster func(indent string, c Cluster)
	writeCluster = func(indent string, c Cluster) {
		fmt.Fprintf(&buf, "%ssubgraph %q {\n", indent, "cluster["+c.Name+"]")
		fmt.Fprintf(&buf, "%s  label=%q;\n", indent, c.Name)
		fmt.Fprintf(&buf, "%s  style=filled;\n", indent)
		fmt.Fprintf(&buf, "%s  fillcolor=\"#f0f0f0\";\n", indent)
		for _, n := range nodesIn[c.Name] {
			writeNode(indent+"  ", n)
		}
		for _, child := range children[c.Name] {
			writeCluster(indent+"  ", child)
		}
		fmt.Fprintf(&buf, "%s}\n", indent)
	}

	for _, n := range nodesIn[""] {
		writeNode("  ", n)
	}
	for _, c := range children[""] {
		writeCluster("  ", c)
	}

	if len(s.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range s.Edges {
		attrs := []string{`color="#404040"`, "penwidth=1"}
		if e.Count > 1 {
			attrs = append(attrs, fmt.Sprintf("label=%q", fmt.Sprintf("%d", e.Count)))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}
