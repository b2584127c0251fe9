// Package dag provides a directed graph organized into horizontal ranks
// (layers) for hierarchical layout. Unlike a strict DAG type, cyclic input is
// accepted: cycles are a valid shape for rendering and are handled by the
// transform package, not rejected here.
package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// NodeKind distinguishes original graph nodes from synthetic nodes inserted
// during edge subdivision.
type NodeKind int

const (
	// NodeKindRegular is an original node from task data.
	NodeKindRegular NodeKind = iota
	// NodeKindVirtual is a synthetic node inserted to route a multi-rank edge.
	// Virtual nodes carry an EdgeID linking them to the edge they route.
	NodeKindVirtual
)

// Node is a vertex with an assigned rank (0 = top, increasing downward).
type Node struct {
	ID   string
	Rank int
	Kind NodeKind

	// EdgeID identifies, for virtual nodes, the routed edge this node belongs
	// to. Empty for regular nodes.
	EdgeID string
}

// IsVirtual reports whether the node was inserted to route a long edge.
func (n Node) IsVirtual() bool { return n.Kind == NodeKindVirtual }

// Edge is a directed connection between two nodes.
type Edge struct {
	From string
	To   string

	// Reversed marks edges flipped during cycle breaking. The rendered edge
	// keeps the original direction; only the layout traversal sees the flip.
	Reversed bool
}

// Graph is a directed graph indexed for rank-based layered layout.
// Node iteration follows insertion order so that repeated builds from the
// same input produce identical traversals and therefore identical layouts.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	ranks    map[int][]*Node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		ranks:    make(map[int][]*Node),
	}
}

// AddNode adds a node and indexes it by rank.
// Returns ErrInvalidNodeID or ErrDuplicateNodeID on bad input.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	g.ranks[node.Rank] = append(g.ranks[node.Rank], node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the first edge from→to if it exists. Removing an absent
// edge is a no-op.
func (g *Graph) RemoveEdge(from, to string) {
	idx := slices.IndexFunc(g.edges, func(e Edge) bool { return e.From == from && e.To == to })
	if idx < 0 {
		return
	}
	g.edges = slices.Delete(g.edges, idx, idx+1)
	if i := slices.Index(g.outgoing[from], to); i >= 0 {
		g.outgoing[from] = slices.Delete(g.outgoing[from], i, i+1)
	}
	if i := slices.Index(g.incoming[to], from); i >= 0 {
		g.incoming[to] = slices.Delete(g.incoming[to], i, i+1)
	}
}

// ReverseEdge flips the direction of the edge from→to and marks it reversed.
// Used by cycle breaking so that layout sees an acyclic graph while the
// original direction stays recoverable. Reversing an absent edge is a no-op.
func (g *Graph) ReverseEdge(from, to string) {
	idx := slices.IndexFunc(g.edges, func(e Edge) bool { return e.From == from && e.To == to })
	if idx < 0 {
		return
	}
	reversed := !g.edges[idx].Reversed
	g.RemoveEdge(from, to)
	g.edges = append(g.edges, Edge{From: to, To: from, Reversed: reversed})
	g.outgoing[to] = append(g.outgoing[to], from)
	g.incoming[from] = append(g.incoming[from], to)
}

// SetRanks updates rank assignments and rebuilds the rank index.
// Nodes absent from the map keep their current rank. O(N).
func (g *Graph) SetRanks(ranks map[string]int) {
	g.ranks = make(map[int][]*Node)
	for _, id := range g.order {
		n := g.nodes[id]
		if r, ok := ranks[n.ID]; ok {
			n.Rank = r
		}
		g.ranks[n.Rank] = append(g.ranks[n.Rank], n)
	}
}

// Node returns the node with the given ID, or false if not found.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The returned pointers refer
// to the actual node structs.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the IDs this node has edges to. Read-only view.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the IDs that have edges to this node. Read-only view.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// InDegree returns the number of incoming edges, 0 if the node is absent.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// OutDegree returns the number of outgoing edges, 0 if the node is absent.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// NodesInRank returns the nodes assigned to the given rank, in insertion
// order. Nil if the rank is empty.
func (g *Graph) NodesInRank(rank int) []*Node { return g.ranks[rank] }

// RankIDs returns all rank indices in ascending order.
func (g *Graph) RankIDs() []int {
	return slices.Sorted(maps.Keys(g.ranks))
}

// MaxRank returns the highest rank index, or 0 for an empty graph.
func (g *Graph) MaxRank() int {
	maxRank := 0
	for r := range g.ranks {
		if r > maxRank {
			maxRank = r
		}
	}
	return maxRank
}

// Sources returns nodes with no incoming edges, in insertion order.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, g.nodes[id])
		}
	}
	return sources
}

// PosMap maps each ID in the slice to its index, for fast position lookups
// during crossing calculations.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID from each node, preserving order.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
