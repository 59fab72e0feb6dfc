package transform

import (
	"testing"

	"github.com/importspy/importspy/pkg/depgraph"
	"github.com/importspy/importspy/pkg/errors"
	"github.com/importspy/importspy/pkg/pymodule"
)

func buildGraph(t *testing.T, nodes map[string]pymodule.Origin, edges [][2]string) *depgraph.Graph {
	t.Helper()
	g := depgraph.New()
	for path, origin := range nodes {
		g.AddModule(pymodule.New(path, origin))
	}
	for _, e := range edges {
		g.MergeEdge(e[0], e[1], 1, false)
	}
	return g
}

func defaultFilter() FilterOptions {
	return FilterOptions{ShowThirdParty: true, ShowBuiltin: true}
}

func TestValidatePatterns(t *testing.T) {
	if err := ValidatePatterns([]string{"pkg.*", "pkg.**", "exact"}); err != nil {
		t.Errorf("valid patterns rejected: %v", err)
	}

	err := ValidatePatterns([]string{"pkg.[unclosed"})
	if err == nil {
		t.Fatal("malformed pattern accepted")
	}
	if !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("error code = %v, want INVALID_PATTERN", errors.GetCode(err))
	}
}

func TestFilter_PatternSemantics(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		match   bool
	}{
		{"pkg.*", "pkg.a", true},
		{"pkg.*", "pkg.a.b", false},
		{"pkg.**", "pkg.a", true},
		{"pkg.**", "pkg.a.b", true},
		{"pkg.**", "other", false},
		{"pkg", "pkg", true},
		{"pkg", "pkg.a", false},
	}

	for _, tt := range tests {
		if got := matchAny([]string{tt.pattern}, tt.path); got != tt.match {
			t.Errorf("matchAny(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.match)
		}
	}
}

func TestFilter_OriginFilters(t *testing.T) {
	nodes := map[string]pymodule.Origin{
		"app":      pymodule.OriginInternal,
		"os":       pymodule.OriginBuiltin,
		"requests": pymodule.OriginThirdParty,
	}
	edges := [][2]string{{"app", "os"}, {"app", "requests"}}

	g, err := Filter(buildGraph(t, nodes, edges), FilterOptions{ShowThirdParty: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := g.Node("os"); ok {
		t.Error("builtin survived ShowBuiltin=false")
	}
	if _, ok := g.Node("requests"); !ok {
		t.Error("third-party dropped despite ShowThirdParty=true")
	}

	g, err = Filter(buildGraph(t, nodes, edges), FilterOptions{ShowBuiltin: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := g.Node("requests"); ok {
		t.Error("third-party survived ShowThirdParty=false")
	}
	if _, ok := g.Node("os"); !ok {
		t.Error("builtin dropped despite ShowBuiltin=true")
	}
}

func TestFilter_IgnoreRemovesWithoutBridging(t *testing.T) {
	nodes := map[string]pymodule.Origin{
		"a": pymodule.OriginInternal,
		"h": pymodule.OriginInternal,
		"b": pymodule.OriginInternal,
	}
	edges := [][2]string{{"a", "h"}, {"h", "b"}}

	opts := defaultFilter()
	opts.Ignore = []string{"h"}
	g, err := Filter(buildGraph(t, nodes, edges), opts)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := g.Node("h"); ok {
		t.Error("ignored node survived")
	}
	if g.HasEdge("a", "b") {
		t.Error("ignore must not bridge edges")
	}
}

func TestFilter_HideBridges(t *testing.T) {
	nodes := map[string]pymodule.Origin{
		"a": pymodule.OriginInternal,
		"h": pymodule.OriginInternal,
		"b": pymodule.OriginInternal,
	}
	edges := [][2]string{{"a", "h"}, {"h", "b"}}

	opts := defaultFilter()
	opts.Hide = []string{"h"}
	g, err := Filter(buildGraph(t, nodes, edges), opts)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := g.Node("h"); ok {
		t.Error("hidden node survived")
	}
	if !g.HasEdge("a", "b") {
		t.Error("hide must bridge a→h→b into a→b")
	}
}

func TestFilter_HideBridgeSelfLoopSuppressed(t *testing.T) {
	// a→h→a would bridge into a self-loop; it is dropped instead.
	nodes := map[string]pymodule.Origin{
		"a": pymodule.OriginInternal,
		"h": pymodule.OriginInternal,
	}
	edges := [][2]string{{"a", "h"}, {"h", "a"}}

	opts := defaultFilter()
	opts.Hide = []string{"h"}
	g, err := Filter(buildGraph(t, nodes, edges), opts)
	if err != nil {
		t.Fatal(err)
	}

	if g.HasEdge("a", "a") {
		t.Error("bridging created a self-loop")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestFilter_SummarizeExternal(t *testing.T) {
	nodes := map[string]pymodule.Origin{
		"app":               pymodule.OriginInternal,
		"requests.adapters": pymodule.OriginThirdParty,
		"requests.models":   pymodule.OriginThirdParty,
		"os.path":           pymodule.OriginBuiltin,
	}
	edges := [][2]string{
		{"app", "requests.adapters"},
		{"app", "requests.models"},
		{"app", "os.path"},
	}

	opts := defaultFilter()
	opts.SummarizeExternal = true
	g, err := Filter(buildGraph(t, nodes, edges), opts)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := g.Node("requests.adapters"); ok {
		t.Error("member node survived summarization")
	}
	e, ok := g.Edge("app", "requests")
	if !ok {
		t.Fatal("representative edge app→requests missing")
	}
	if e.Count != 2 {
		t.Errorf("Count = %d, want 2 (sum of member edges)", e.Count)
	}
	if !e.Summarized {
		t.Error("redirected edge not flagged Summarized")
	}
	if !g.HasEdge("app", "os") {
		t.Error("builtin submodule not collapsed to os")
	}

	rep, ok := g.Node("requests")
	if !ok {
		t.Fatal("representative node missing")
	}
	if rep.Origin() != pymodule.OriginThirdParty {
		t.Errorf("representative origin = %v, want third_party", rep.Origin())
	}
}

func TestFilter_SummarizeKeepsInternalSubmodules(t *testing.T) {
	nodes := map[string]pymodule.Origin{
		"pkg.a": pymodule.OriginInternal,
		"pkg.b": pymodule.OriginInternal,
	}
	edges := [][2]string{{"pkg.a", "pkg.b"}}

	opts := defaultFilter()
	opts.SummarizeExternal = true
	g, err := Filter(buildGraph(t, nodes, edges), opts)
	if err != nil {
		t.Fatal(err)
	}

	if !g.HasEdge("pkg.a", "pkg.b") {
		t.Error("internal modules were summarized")
	}
}

func TestFilter_MalformedPatternFatal(t *testing.T) {
	g := buildGraph(t, map[string]pymodule.Origin{"a": pymodule.OriginInternal}, nil)

	opts := defaultFilter()
	opts.Hide = []string{"[bad"}
	if _, err := Filter(g, opts); !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("err = %v, want INVALID_PATTERN", err)
	}
}
