package layout

import (
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/tomhaller/depview/pkg/task"
)

func records(ids ...string) []task.Record {
	out := make([]task.Record, len(ids))
	for i, id := range ids {
		out[i] = task.Record{ID: id, Title: "task " + id, Status: task.StatusNotStarted, Type: task.TypeFeature}
	}
	return out
}

func nodeIDs(g ComputedGraph) []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	slices.Sort(ids)
	return ids
}

func TestComputeDeterminism(t *testing.T) {
	graph := task.DependencyGraph{
		DependsOn: map[string][]string{"b": {"a"}, "c": {"a", "b"}, "e": {"d"}},
		Blocks:    map[string][]string{"a": {"d"}},
	}
	tasks := records("a", "b", "c", "d", "e")

	first := Compute(graph, tasks, Options{})
	for i := 0; i < 5; i++ {
		got := Compute(graph, tasks, Options{})
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}

func TestNodeSetFiltering(t *testing.T) {
	graph := task.DependencyGraph{DependsOn: map[string][]string{"b": {"a"}}}
	tasks := records("a", "b", "c")

	got := Compute(graph, tasks, Options{IncludeIsolated: false})
	if want := []string{"a", "b"}; !slices.Equal(nodeIDs(got), want) {
		t.Errorf("nodes = %v, want %v", nodeIDs(got), want)
	}

	got = Compute(graph, tasks, Options{IncludeIsolated: true})
	if want := []string{"a", "b", "c"}; !slices.Equal(nodeIDs(got), want) {
		t.Errorf("nodes with isolated = %v, want %v", nodeIDs(got), want)
	}
}

func TestFocusNeighborhood(t *testing.T) {
	// Chain a <- b <- c plus unrelated d.
	graph := task.DependencyGraph{DependsOn: map[string][]string{"b": {"a"}, "c": {"b"}}}
	tasks := records("a", "b", "c", "d")

	got := Compute(graph, tasks, Options{FocusID: "b"})
	if want := []string{"a", "b", "c"}; !slices.Equal(nodeIDs(got), want) {
		t.Errorf("focus nodes = %v, want %v", nodeIDs(got), want)
	}
}

func TestDanglingIDTolerance(t *testing.T) {
	graph := task.DependencyGraph{DependsOn: map[string][]string{"a": {"ZZZ"}}}
	tasks := records("a")

	got := Compute(graph, tasks, Options{})
	if slices.Contains(nodeIDs(got), "ZZZ") {
		t.Error("dangling ID leaked into output")
	}
	for _, e := range got.Edges {
		if e.From == "ZZZ" || e.To == "ZZZ" {
			t.Errorf("stray edge %s→%s", e.From, e.To)
		}
	}
}

func TestEdgelessGridFallback(t *testing.T) {
	tasks := records("a", "b", "c", "d", "e")
	got := Compute(task.DependencyGraph{}, tasks, Options{IncludeIsolated: true})

	if len(got.Edges) != 0 {
		t.Errorf("edges = %d, want 0", len(got.Edges))
	}
	if len(got.Nodes) != 5 {
		t.Fatalf("nodes = %d, want 5", len(got.Nodes))
	}

	// ceil(sqrt(5)) = 3 columns: three distinct X positions.
	xs := make(map[float64]bool)
	for _, n := range got.Nodes {
		xs[n.X] = true
	}
	if len(xs) != 3 {
		t.Errorf("distinct columns = %d, want 3", len(xs))
	}

	// No two node centers coincide.
	seen := make(map[[2]float64]string)
	for _, n := range got.Nodes {
		key := [2]float64{n.X, n.Y}
		if other, dup := seen[key]; dup {
			t.Errorf("nodes %s and %s overlap at (%v, %v)", other, n.ID, n.X, n.Y)
		}
		seen[key] = n.ID
	}
}

func TestEdgeDedupAcrossMappings(t *testing.T) {
	// b depends on a, and a blocks b: same relationship, same direction.
	graph := task.DependencyGraph{
		DependsOn: map[string][]string{"b": {"a"}},
		Blocks:    map[string][]string{"a": {"b"}},
	}
	got := Compute(graph, records("a", "b"), Options{})

	if len(got.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(got.Edges))
	}
	if e := got.Edges[0]; e.From != "a" || e.To != "b" {
		t.Errorf("edge = %s→%s, want a→b", e.From, e.To)
	}
}

func TestDependsOnArrowDirection(t *testing.T) {
	// "b depends on a" draws the arrow from a toward b, the task that
	// becomes unblocked.
	graph := task.DependencyGraph{DependsOn: map[string][]string{"b": {"a"}}}
	got := Compute(graph, records("a", "b"), Options{})

	if len(got.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(got.Edges))
	}
	if e := got.Edges[0]; e.From != "a" || e.To != "b" {
		t.Errorf("edge = %s→%s, want a→b", e.From, e.To)
	}
}

func TestEmptyInput(t *testing.T) {
	got := Compute(task.DependencyGraph{}, nil, Options{})
	if len(got.Nodes) != 0 || len(got.Edges) != 0 {
		t.Errorf("empty input produced %d nodes, %d edges", len(got.Nodes), len(got.Edges))
	}
	if got.Width != EmptyCanvasWidth || got.Height != EmptyCanvasHeight {
		t.Errorf("placeholder bounds = %vx%v", got.Width, got.Height)
	}
}

func TestCyclicDataDoesNotPanic(t *testing.T) {
	graph := task.DependencyGraph{
		DependsOn: map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"a"}},
	}
	got := Compute(graph, records("a", "b", "c"), Options{})

	if len(got.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(got.Nodes))
	}
	// All three cycle edges survive, each in its semantic direction.
	if len(got.Edges) != 3 {
		t.Errorf("edges = %d, want 3", len(got.Edges))
	}
	for _, e := range got.Edges {
		if len(e.Points) < 2 {
			t.Errorf("edge %s→%s has %d points", e.From, e.To, len(e.Points))
		}
	}
}

func TestRanksSeparateVertically(t *testing.T) {
	graph := task.DependencyGraph{DependsOn: map[string][]string{"b": {"a"}, "c": {"b"}}}
	got := Compute(graph, records("a", "b", "c"), Options{})

	byID := make(map[string]PositionedNode)
	for _, n := range got.Nodes {
		byID[n.ID] = n
	}
	// a unblocks b unblocks c, so a sits on top.
	if !(byID["a"].Y < byID["b"].Y && byID["b"].Y < byID["c"].Y) {
		t.Errorf("Y order wrong: a=%v b=%v c=%v", byID["a"].Y, byID["b"].Y, byID["c"].Y)
	}
	if gap := byID["b"].Y - byID["a"].Y; math.Abs(gap-(NodeHeight+RankSpacing)) > 1e-9 {
		t.Errorf("rank gap = %v, want %v", gap, NodeHeight+RankSpacing)
	}
}

func TestEdgeWaypointsSpanRanks(t *testing.T) {
	// a→c spans two ranks (a→b→c forces c to rank 2), so the long edge gets
	// a routed waypoint in the intermediate rank.
	graph := task.DependencyGraph{DependsOn: map[string][]string{"b": {"a"}, "c": {"b", "a"}}}
	got := Compute(graph, records("a", "b", "c"), Options{})

	var long *RoutedEdge
	for i, e := range got.Edges {
		if e.From == "a" && e.To == "c" {
			long = &got.Edges[i]
		}
	}
	if long == nil {
		t.Fatal("edge a→c missing")
	}
	if len(long.Points) != 3 {
		t.Errorf("a→c waypoints = %d, want 3 (source, corridor, target)", len(long.Points))
	}
}

func TestCanvasBoundsContainNodes(t *testing.T) {
	graph := task.DependencyGraph{DependsOn: map[string][]string{"b": {"a"}, "c": {"a"}, "d": {"b", "c"}}}
	got := Compute(graph, records("a", "b", "c", "d"), Options{})

	for _, n := range got.Nodes {
		if n.X-n.Width/2 < 0 || n.X+n.Width/2 > got.Width ||
			n.Y-n.Height/2 < 0 || n.Y+n.Height/2 > got.Height {
			t.Errorf("node %s at (%v,%v) escapes canvas %vx%v", n.ID, n.X, n.Y, got.Width, got.Height)
		}
	}
}

func TestMemoReusesResults(t *testing.T) {
	graph := task.DependencyGraph{DependsOn: map[string][]string{"b": {"a"}}}
	tasks := records("a", "b")

	m := NewMemo()
	first := m.Compute(graph, tasks, Options{})
	second := m.Compute(graph, tasks, Options{})
	if !reflect.DeepEqual(first, second) {
		t.Error("memoized result differs")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}

	// Different options are a different cache entry.
	m.Compute(graph, tasks, Options{FocusID: "a"})
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}
