package transform

import "github.com/tomhaller/depview/pkg/dag"

// AssignRanks assigns nodes to ranks using longest-path layering via
// topological sort (Kahn's algorithm). Each node lands at one plus the
// maximum rank of its parents, so sources sit at rank 0 and every parent is
// strictly above its children. Existing rank assignments are overwritten.
//
// AssignRanks assumes the graph is acyclic; run [BreakCycles] first. Nodes
// still caught in a cycle would never reach zero in-degree and would remain
// at rank 0.
//
// O(V + E) time, O(V) space.
func AssignRanks(g *dag.Graph) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	ranks := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if r := ranks[curr] + 1; r > ranks[child] {
				ranks[child] = r
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRanks(ranks)
}
