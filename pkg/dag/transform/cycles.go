// Package transform prepares a graph for layered layout: cycle breaking by
// edge reversal, longest-path rank assignment, and subdivision of multi-rank
// edges into virtual node chains.
package transform

import "github.com/tomhaller/depview/pkg/dag"

// BreakCycles makes the graph acyclic by reversing back edges found during a
// depth-first traversal. Edges are reversed rather than removed because every
// relationship must still be rendered - the layout simply treats the flipped
// edge as pointing downward, and routing restores the original direction.
//
// Returns the number of edges reversed.
func BreakCycles(g *dag.Graph) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var backEdges [][2]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, [2]string{node, child})
			}
		}
		color[node] = black
	}

	// Start from sources so natural roots keep their rank-0 position.
	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		g.ReverseEdge(e[0], e[1])
	}
	return len(backEdges)
}
