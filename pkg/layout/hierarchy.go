package layout

import (
	"math"
	"slices"

	"github.com/tomhaller/depview/pkg/dag"
	"github.com/tomhaller/depview/pkg/dag/transform"
	"github.com/tomhaller/depview/pkg/geom"
	"github.com/tomhaller/depview/pkg/task"
)

// orderingSweeps is the number of barycenter down/up passes. Small graphs
// converge in two or three sweeps; more sweeps only reshuffle ties.
const orderingSweeps = 4

// hierarchicalLayout performs a Sugiyama-style layered layout: cycle breaking
// by edge reversal, longest-path ranking, virtual-node subdivision,
// barycenter crossing reduction, and center-aligned coordinate assignment.
func hierarchicalLayout(selected []task.Record, edges []graphEdge) ComputedGraph {
	g := dag.New()
	for _, t := range selected {
		// selectNodes returns records sorted by ID, so insertion order - and
		// with it every later traversal - is deterministic.
		if err := g.AddNode(dag.Node{ID: t.ID}); err != nil {
			continue
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e.from, To: e.to}); err != nil {
			continue
		}
	}

	transform.BreakCycles(g)
	transform.AssignRanks(g)
	transform.Subdivide(g)

	orders := orderRanks(g)
	centers, maxRankWidth := assignCoordinates(g, orders)

	byID := make(map[string]task.Record, len(selected))
	for _, t := range selected {
		byID[t.ID] = t
	}

	nodes := make([]PositionedNode, 0, len(selected))
	for _, t := range selected {
		c, ok := centers[t.ID]
		if !ok {
			continue
		}
		nodes = append(nodes, PositionedNode{
			ID:     t.ID,
			Task:   t,
			X:      c.X,
			Y:      c.Y,
			Width:  NodeWidth,
			Height: NodeHeight,
		})
	}

	maxRank := g.MaxRank()
	return ComputedGraph{
		Nodes:  nodes,
		Edges:  routeEdges(g, centers),
		Width:  maxRankWidth + 2*Margin,
		Height: float64(maxRank+1)*NodeHeight + float64(maxRank)*RankSpacing + 2*Margin,
	}
}

// orderRanks computes a horizontal ordering per rank that reduces edge
// crossings. Each rank starts sorted by ID, then alternating downward and
// upward barycenter sweeps reorder nodes by the mean position of their
// neighbors in the adjacent rank. The lowest-crossing ordering seen wins.
func orderRanks(g *dag.Graph) map[int][]string {
	rankIDs := g.RankIDs()
	orders := make(map[int][]string, len(rankIDs))
	for _, r := range rankIDs {
		ids := dag.NodeIDs(g.NodesInRank(r))
		slices.Sort(ids)
		orders[r] = ids
	}
	if len(rankIDs) < 2 {
		return orders
	}

	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, orders)

	for sweep := 0; sweep < orderingSweeps && bestCrossings > 0; sweep++ {
		for i := 1; i < len(rankIDs); i++ {
			barycenterSort(orders[rankIDs[i]], orders[rankIDs[i-1]], g.Parents)
		}
		for i := len(rankIDs) - 2; i >= 0; i-- {
			barycenterSort(orders[rankIDs[i]], orders[rankIDs[i+1]], g.Children)
		}

		if crossings := dag.CountCrossings(g, orders); crossings < bestCrossings {
			bestCrossings = crossings
			best = cloneOrders(orders)
		}
	}
	return best
}

// barycenterSort stably reorders row in place by the mean position of each
// node's neighbors in the adjacent rank. Nodes without neighbors keep their
// relative position by inheriting their own current index as barycenter.
func barycenterSort(row, adjacent []string, neighbors func(string) []string) {
	adjPos := dag.PosMap(adjacent)
	weights := make(map[string]float64, len(row))
	for i, id := range row {
		sum, count := 0.0, 0
		for _, n := range neighbors(id) {
			if p, ok := adjPos[n]; ok {
				sum += float64(p)
				count++
			}
		}
		if count > 0 {
			weights[id] = sum / float64(count)
		} else {
			weights[id] = float64(i)
		}
	}
	slices.SortStableFunc(row, func(a, b string) int {
		switch {
		case weights[a] < weights[b]:
			return -1
		case weights[a] > weights[b]:
			return 1
		default:
			return 0
		}
	})
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = slices.Clone(ids)
	}
	return out
}

// assignCoordinates places every node (regular and virtual) at its center
// point. Ranks are stacked top to bottom with RankSpacing between them and
// centered horizontally against the widest rank. Virtual nodes occupy zero
// width but still claim NodeSpacing, reserving a corridor for the edge they
// route.
func assignCoordinates(g *dag.Graph, orders map[int][]string) (map[string]geom.Point, float64) {
	nodeWidth := func(id string) float64 {
		if n, ok := g.Node(id); ok && n.IsVirtual() {
			return 0
		}
		return NodeWidth
	}
	rankWidth := func(ids []string) float64 {
		if len(ids) == 0 {
			return 0
		}
		w := float64(len(ids)-1) * NodeSpacing
		for _, id := range ids {
			w += nodeWidth(id)
		}
		return w
	}

	maxWidth := 0.0
	for _, ids := range orders {
		if w := rankWidth(ids); w > maxWidth {
			maxWidth = w
		}
	}

	centers := make(map[string]geom.Point, g.NodeCount())
	for _, r := range g.RankIDs() {
		ids := orders[r]
		x := Margin + (maxWidth-rankWidth(ids))/2
		y := Margin + float64(r)*(NodeHeight+RankSpacing) + NodeHeight/2
		for _, id := range ids {
			w := nodeWidth(id)
			centers[id] = geom.Point{X: x + w/2, Y: y}
			x += w + NodeSpacing
		}
	}
	return centers, maxWidth
}

// routeEdges reconstructs the logical edges from the subdivided graph. Each
// chain starting at a regular node is followed through its virtual nodes,
// collecting one waypoint per rank. Reversed edges (flipped during cycle
// breaking) are emitted in their original direction with the waypoint order
// restored.
func routeEdges(g *dag.Graph, centers map[string]geom.Point) []RoutedEdge {
	routed := make([]RoutedEdge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		src, ok := g.Node(e.From)
		if !ok || src.IsVirtual() {
			continue
		}

		points := []geom.Point{centers[e.From]}
		curr := e
		for {
			dst, ok := g.Node(curr.To)
			if !ok {
				break
			}
			points = append(points, centers[dst.ID])
			if !dst.IsVirtual() {
				break
			}
			// Virtual nodes have exactly one outgoing edge by construction.
			next := g.Children(dst.ID)
			if len(next) == 0 {
				break
			}
			curr = dag.Edge{From: dst.ID, To: next[0], Reversed: curr.Reversed}
		}

		from, to := e.From, curr.To
		if e.Reversed {
			from, to = to, from
			slices.Reverse(points)
		}
		routed = append(routed, RoutedEdge{From: from, To: to, Points: points})
	}

	slices.SortFunc(routed, func(a, b RoutedEdge) int {
		if a.From != b.From {
			return cmpString(a.From, b.From)
		}
		return cmpString(a.To, b.To)
	})
	return routed
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// gridColumns returns the number of grid columns for n nodes.
func gridColumns(n int) int {
	return int(math.Ceil(math.Sqrt(float64(n))))
}
