package transform

import (
	"fmt"

	"github.com/tomhaller/depview/pkg/dag"
)

// Subdivide breaks edges spanning multiple ranks into chains of single-rank
// edges connected by virtual nodes, so that edge routing can thread a
// waypoint through every intermediate rank:
//
//	Before: a (rank 0) → d (rank 3)
//	After:  a → a→d#1 → a→d#2 → d
//
// Each virtual node carries the EdgeID "from→to" of the edge it routes, which
// coordinate assignment uses to collect waypoints in order. Edges already
// connecting consecutive ranks are left untouched.
func Subdivide(g *dag.Graph) {
	used := make(map[string]struct{}, g.NodeCount())
	for _, n := range g.Nodes() {
		used[n.ID] = struct{}{}
	}

	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Rank <= src.Rank+1 {
			continue
		}

		edgeID := e.From + "→" + e.To
		g.RemoveEdge(e.From, e.To)

		prevID := src.ID
		for rank := src.Rank + 1; rank < dst.Rank; rank++ {
			id := nextVirtualID(used, edgeID, rank)
			if err := g.AddNode(dag.Node{
				ID:     id,
				Rank:   rank,
				Kind:   dag.NodeKindVirtual,
				EdgeID: edgeID,
			}); err != nil {
				panic(err)
			}
			if err := g.AddEdge(dag.Edge{From: prevID, To: id, Reversed: e.Reversed}); err != nil {
				panic(err)
			}
			prevID = id
		}
		if err := g.AddEdge(dag.Edge{From: prevID, To: dst.ID, Reversed: e.Reversed}); err != nil {
			panic(err)
		}
	}
}

func nextVirtualID(used map[string]struct{}, edgeID string, rank int) string {
	id := fmt.Sprintf("%s#%d", edgeID, rank)
	for i := 1; ; i++ {
		if _, exists := used[id]; !exists {
			used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s#%d.%d", edgeID, rank, i)
	}
}
