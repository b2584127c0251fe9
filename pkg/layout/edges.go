package layout

import (
	"maps"
	"slices"

	"github.com/tomhaller/depview/pkg/task"
)

// graphEdge is a directed edge between selected nodes, pre-layout.
type graphEdge struct {
	from, to string
}

// buildEdges derives the directed edge list from both mappings.
//
// A depends-on entry (dependent, dependency) draws the arrow from the
// dependency to the dependent - toward the task that becomes unblocked. A
// blocks entry (blocker, blocked) draws from blocker to blocked, which is the
// same orientation, so a relationship expressed in both mappings collapses to
// one edge under a directed key. If the mappings disagree about direction for
// the same pair, both directed edges are kept; that is a data-quality
// condition the engine tolerates without reconciling.
//
// Edges with an endpoint outside the selected node set are discarded.
func buildEdges(graph task.DependencyGraph, selected []task.Record) []graphEdge {
	inSet := make(map[string]bool, len(selected))
	for _, t := range selected {
		inSet[t.ID] = true
	}

	seen := make(map[graphEdge]struct{})
	var edges []graphEdge
	add := func(from, to string) {
		if !inSet[from] || !inSet[to] || from == to {
			return
		}
		e := graphEdge{from: from, to: to}
		if _, dup := seen[e]; dup {
			return
		}
		seen[e] = struct{}{}
		edges = append(edges, e)
	}

	for _, dependent := range slices.Sorted(maps.Keys(graph.DependsOn)) {
		for _, dependency := range graph.DependsOn[dependent] {
			add(dependency, dependent)
		}
	}
	for _, blocker := range slices.Sorted(maps.Keys(graph.Blocks)) {
		for _, blocked := range graph.Blocks[blocker] {
			add(blocker, blocked)
		}
	}
	return edges
}
