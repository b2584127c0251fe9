// Package layout implements the dependency graph layout engine: a pure
// function from an adjacency description plus a task set to a positioned,
// routed node-link graph.
//
// The engine never fails on malformed but well-typed input. Dangling IDs are
// dropped, asymmetric mappings are tolerated, cycles are laid out by edge
// reversal, and an empty selection yields a canonical empty result. Data
// integrity is the caller's problem; the engine's job is purely geometric.
package layout

import (
	"github.com/tomhaller/depview/pkg/geom"
	"github.com/tomhaller/depview/pkg/task"
)

// Geometry constants, in content-space units.
const (
	// NodeWidth and NodeHeight are the fixed dimensions of every node.
	NodeWidth  = 200.0
	NodeHeight = 80.0

	// NodeSpacing is the horizontal separation between nodes in a rank
	// (and between grid columns).
	NodeSpacing = 30.0

	// RankSpacing is the vertical separation between ranks.
	RankSpacing = 50.0

	// GridRowSpacing is the vertical separation between grid rows in the
	// edgeless fallback.
	GridRowSpacing = 30.0

	// Margin pads the canvas on all sides.
	Margin = 20.0
)

// Placeholder canvas bounds returned for an empty node set.
const (
	EmptyCanvasWidth  = 400.0
	EmptyCanvasHeight = 300.0
)

// Options selects and filters the node set.
type Options struct {
	// FocusID, when non-empty, restricts the layout to the focus task and its
	// direct dependency/blocking neighborhood.
	FocusID string

	// IncludeIsolated includes tasks that participate in no relationship.
	// Ignored when FocusID is set.
	IncludeIsolated bool
}

// PositionedNode is a task placed in content space. X/Y are the node center.
type PositionedNode struct {
	ID     string      `json:"id" bson:"id"`
	Task   task.Record `json:"task" bson:"task"`
	X      float64     `json:"x" bson:"x"`
	Y      float64     `json:"y" bson:"y"`
	Width  float64     `json:"width" bson:"width"`
	Height float64     `json:"height" bson:"height"`
}

// Center returns the node's center point.
func (n PositionedNode) Center() geom.Point { return geom.Point{X: n.X, Y: n.Y} }

// RoutedEdge is a polyline from source to target in content space.
// Points always run in the edge's semantic direction (source first), even for
// edges that were reversed internally during cycle breaking.
type RoutedEdge struct {
	From   string       `json:"from" bson:"from"`
	To     string       `json:"to" bson:"to"`
	Points []geom.Point `json:"points" bson:"points"`
}

// ComputedGraph is the aggregate layout result.
type ComputedGraph struct {
	Nodes  []PositionedNode `json:"nodes" bson:"nodes"`
	Edges  []RoutedEdge     `json:"edges" bson:"edges"`
	Width  float64          `json:"width" bson:"width"`
	Height float64          `json:"height" bson:"height"`
}

// Size returns the canvas bounds as a geom.Size.
func (g ComputedGraph) Size() geom.Size { return geom.Size{Width: g.Width, Height: g.Height} }

// Compute lays out the dependency graph described by graph over the given
// tasks. The result is deterministic for identical input.
func Compute(graph task.DependencyGraph, tasks []task.Record, opts Options) ComputedGraph {
	selected := selectNodes(graph, tasks, opts)
	if len(selected) == 0 {
		return ComputedGraph{
			Nodes:  []PositionedNode{},
			Edges:  []RoutedEdge{},
			Width:  EmptyCanvasWidth,
			Height: EmptyCanvasHeight,
		}
	}

	edges := buildEdges(graph, selected)
	if len(edges) == 0 {
		return gridLayout(selected)
	}
	return hierarchicalLayout(selected, edges)
}
