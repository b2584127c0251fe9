package transform

import (
	"testing"

	"github.com/tomhaller/depview/pkg/dag"
)

func chain(t *testing.T, ids ...string) *dag.Graph {
	t.Helper()
	g := dag.New()
	for _, id := range ids {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i+1 < len(ids); i++ {
		if err := g.AddEdge(dag.Edge{From: ids[i], To: ids[i+1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestBreakCyclesAcyclic(t *testing.T) {
	g := chain(t, "a", "b", "c")
	if got := BreakCycles(g); got != 0 {
		t.Errorf("BreakCycles() = %d, want 0", got)
	}
}

func TestBreakCyclesSimpleCycle(t *testing.T) {
	g := chain(t, "a", "b")
	g.AddEdge(dag.Edge{From: "b", To: "a"})

	if got := BreakCycles(g); got != 1 {
		t.Errorf("BreakCycles() = %d, want 1", got)
	}
	// The edge survives as a reversed edge; nothing is lost.
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	reversed := 0
	for _, e := range g.Edges() {
		if e.Reversed {
			reversed++
		}
	}
	if reversed != 1 {
		t.Errorf("reversed edges = %d, want 1", reversed)
	}
}

func TestAssignRanksChain(t *testing.T) {
	g := chain(t, "a", "b", "c")
	AssignRanks(g)

	want := map[string]int{"a": 0, "b": 1, "c": 2}
	for id, rank := range want {
		n, _ := g.Node(id)
		if n.Rank != rank {
			t.Errorf("rank(%s) = %d, want %d", id, n.Rank, rank)
		}
	}
}

func TestAssignRanksLongestPath(t *testing.T) {
	// a → b → d and a → d: d must sit below b, not directly below a.
	g := chain(t, "a", "b", "d")
	g.AddEdge(dag.Edge{From: "a", To: "d"})
	AssignRanks(g)

	d, _ := g.Node("d")
	if d.Rank != 2 {
		t.Errorf("rank(d) = %d, want 2", d.Rank)
	}
}

func TestSubdivide(t *testing.T) {
	g := chain(t, "a", "b", "d")
	g.AddEdge(dag.Edge{From: "a", To: "d"})
	AssignRanks(g)
	Subdivide(g)

	// a→d spans ranks 0..2, so one virtual node appears at rank 1.
	var virtual []*dag.Node
	for _, n := range g.Nodes() {
		if n.IsVirtual() {
			virtual = append(virtual, n)
		}
	}
	if len(virtual) != 1 {
		t.Fatalf("virtual nodes = %d, want 1", len(virtual))
	}
	if virtual[0].Rank != 1 || virtual[0].EdgeID != "a→d" {
		t.Errorf("virtual node = %+v", virtual[0])
	}

	// Every remaining edge connects consecutive ranks.
	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		if dst.Rank != src.Rank+1 {
			t.Errorf("edge %s→%s spans ranks %d→%d", e.From, e.To, src.Rank, dst.Rank)
		}
	}
}
