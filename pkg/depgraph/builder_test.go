package depgraph

import (
	"math/rand"
	"testing"

	"github.com/importspy/importspy/pkg/pymodule"
)

func TestBuilder_MultiplicityCountsStatements(t *testing.T) {
	a := internal("a")
	b := internal("b")

	builder := NewBuilder()
	builder.AddImport(a, b)
	builder.AddImport(a, b)
	builder.AddImport(a, b)
	g := builder.Finalize()

	e, ok := g.Edge("a", "b")
	if !ok {
		t.Fatal("edge a→b missing")
	}
	if e.Count != 3 {
		t.Errorf("Count = %d, want 3", e.Count)
	}
}

func TestBuilder_SelfLoopDropped(t *testing.T) {
	a := internal("a")
	b := internal("b")

	builder := NewBuilder()
	builder.AddImport(a, a)
	builder.AddImport(a, b)
	g := builder.Finalize()

	if g.HasEdge("a", "a") {
		t.Error("self-loop survived Finalize")
	}
	if !g.HasEdge("a", "b") {
		t.Error("regular edge was dropped")
	}
	if _, ok := g.Node("a"); !ok {
		t.Error("self-loop removal dropped the node itself")
	}
}

func TestBuilder_CyclePreserved(t *testing.T) {
	a := internal("a")
	b := internal("b")

	builder := NewBuilder()
	builder.AddImport(a, b)
	builder.AddImport(b, a)
	g := builder.Finalize()

	if !g.HasEdge("a", "b") || !g.HasEdge("b", "a") {
		t.Error("two-cycle was not preserved")
	}
}

func TestBuilder_OrderIndependent(t *testing.T) {
	mods := []*pymodule.Module{
		internal("a"), internal("b"), internal("c"), internal("d"),
	}
	type pair struct{ from, to int }
	pairs := []pair{
		{0, 1}, {0, 1}, {1, 2}, {2, 0}, {2, 3}, {0, 3}, {0, 3}, {0, 3},
	}

	build := func(order []int) *Graph {
		builder := NewBuilder()
		for _, i := range order {
			builder.AddImport(mods[pairs[i].from], mods[pairs[i].to])
		}
		return builder.Finalize()
	}

	base := make([]int, len(pairs))
	for i := range base {
		base[i] = i
	}
	want := build(base).Edges()

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		order := append([]int(nil), base...)
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		got := build(order).Edges()
		if len(got) != len(want) {
			t.Fatalf("trial %d: got %d edges, want %d", trial, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("trial %d: edges[%d] = %+v, want %+v", trial, i, got[i], want[i])
			}
		}
	}
}

func TestBuilder_IsolatedModuleKept(t *testing.T) {
	builder := NewBuilder()
	builder.AddModule(internal("lonely"))
	g := builder.Finalize()

	if _, ok := g.Node("lonely"); !ok {
		t.Error("module without edges missing from graph")
	}
}
