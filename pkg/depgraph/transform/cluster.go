package transform

import (
	"sort"
	"strings"

	"github.com/importspy/importspy/pkg/depgraph"
)

// ClusterOptions controls how modules are grouped into package clusters.
type ClusterOptions struct {
	// UseClusters enables grouping; when false the tree is a single
	// root holding every module as a direct leaf.
	UseClusters bool
	// UseNested builds the full prefix chain as a multi-level tree;
	// when false only the first-level package prefix groups modules.
	UseNested bool
	// MinClusterSize is the minimum descendant-module count for a
	// cluster to be materialized; undersized clusters dissolve into
	// their parent.
	MinClusterSize int
}

// Cluster is a named group of modules and child clusters. The tree is
// rooted at an implicit top-level cluster whose Name is "".
type Cluster struct {
	Name     string     // dotted package prefix; "" for the root
	Parent   *Cluster   // nil for the root
	Children []*Cluster // sorted by name
	Members  []string   // directly attached module paths, sorted
}

// IsRoot reports whether this is the implicit top-level cluster.
func (c *Cluster) IsRoot() bool { return c.Parent == nil }

// ClusterTree assigns every module of a graph to exactly one cluster.
type ClusterTree struct {
	Root     *Cluster
	byModule map[string]*Cluster
}

// ClusterOf returns the cluster a module is directly attached to.
// Unknown modules map to the root.
func (t *ClusterTree) ClusterOf(path string) *Cluster {
	if c, ok := t.byModule[path]; ok {
		return c
	}
	return t.Root
}

// Clusters returns all named clusters in pre-order (the implicit root
// is excluded).
func (t *ClusterTree) Clusters() []*Cluster {
	var out []*Cluster
	var walk func(c *Cluster)
	walk = func(c *Cluster) {
		if !c.IsRoot() {
			out = append(out, c)
		}
		for _, child := range c.Children {
			walk(child)
		}
	}
	walk(t.Root)
	return out
}

// Count returns the number of named clusters.
func (t *ClusterTree) Count() int { return len(t.Clusters()) }

// arenaCluster is the mutable build-time representation. The collapse
// pass works on parent indices instead of a shared mutable tree so the
// fold order is deterministic.
type arenaCluster struct {
	name    string
	parent  int // index into the arena; -1 for the root
	members []string
	removed bool
}

// BuildClusters groups the graph's modules into a cluster tree.
// Grouping key is the module's package-path prefix. After the raw tree
// is built, clusters whose descendant-module count falls below
// MinClusterSize dissolve bottom-up into their parent until stable; a
// chain of undersized clusters collapses to the nearest ancestor that
// meets the threshold, or to the root. A cluster holding exactly one
// child cluster and no direct members is still retained.
func BuildClusters(g *depgraph.Graph, opts ClusterOptions) *ClusterTree {
	arena := []arenaCluster{{name: "", parent: -1}}
	index := map[string]int{"": 0}

	for _, m := range g.Nodes() {
		target := 0
		if opts.UseClusters && m.Depth() > 0 {
			key := m.Root()
			if opts.UseNested {
				key = m.Prefix()
			}
			target = intern(&arena, index, key)
		}
		arena[target].members = append(arena[target].members, m.Path())
	}

	collapse(arena, opts.MinClusterSize)
	return assemble(arena)
}

// intern creates the cluster for a dotted prefix, including its full
// ancestor chain, and returns its arena index. Recursion depth is
// bounded by the package depth. Flat (non-nested) keys carry no dots
// and attach directly under the root.
func intern(arena *[]arenaCluster, index map[string]int, name string) int {
	if i, ok := index[name]; ok {
		return i
	}
	parent := 0
	if j := strings.LastIndexByte(name, '.'); j >= 0 {
		parent = intern(arena, index, name[:j])
	}
	*arena = append(*arena, arenaCluster{name: name, parent: parent})
	index[name] = len(*arena) - 1
	return len(*arena) - 1
}

// collapse dissolves undersized clusters bottom-up. Descendant counts
// are fixed by the raw tree (dissolving a child reattaches its members
// one level up without changing any ancestor's total), so one
// deepest-first pass reaches the fixed point.
func collapse(arena []arenaCluster, minSize int) {
	descendants := make([]int, len(arena))
	for i := range arena {
		n := len(arena[i].members)
		for j := i; j != -1; j = arena[j].parent {
			descendants[j] += n
			if j == 0 {
				break
			}
		}
	}

	order := make([]int, 0, len(arena)-1)
	for i := 1; i < len(arena); i++ {
		order = append(order, i)
	}
	sort.Slice(order, func(a, b int) bool {
		da, db := clusterDepth(arena[order[a]].name), clusterDepth(arena[order[b]].name)
		if da != db {
			return da > db // deepest first
		}
		return arena[order[a]].name < arena[order[b]].name
	})

	for _, i := range order {
		if descendants[i] >= minSize {
			continue
		}
		parent := liveAncestor(arena, arena[i].parent)
		arena[parent].members = append(arena[parent].members, arena[i].members...)
		arena[i].members = nil
		arena[i].removed = true
	}
}

// liveAncestor walks up past removed clusters to the nearest survivor.
func liveAncestor(arena []arenaCluster, i int) int {
	for i != 0 && arena[i].removed {
		i = arena[i].parent
	}
	return i
}

func clusterDepth(name string) int {
	if name == "" {
		return 0
	}
	return strings.Count(name, ".") + 1
}

// assemble converts the surviving arena into the exported tree.
func assemble(arena []arenaCluster) *ClusterTree {
	clusters := make([]*Cluster, len(arena))
	for i := range arena {
		if arena[i].removed {
			continue
		}
		members := append([]string(nil), arena[i].members...)
		sort.Strings(members)
		clusters[i] = &Cluster{Name: arena[i].name, Members: members}
	}
	for i := range arena {
		if arena[i].removed || i == 0 {
			continue
		}
		parent := clusters[liveAncestor(arena, arena[i].parent)]
		clusters[i].Parent = parent
		parent.Children = append(parent.Children, clusters[i])
	}

	byModule := make(map[string]*Cluster)
	for _, c := range clusters {
		if c == nil {
			continue
		}
		sort.Slice(c.Children, func(a, b int) bool { return c.Children[a].Name < c.Children[b].Name })
		for _, m := range c.Members {
			byModule[m] = c
		}
	}
	return &ClusterTree{Root: clusters[0], byModule: byModule}
}
