package layout

import "github.com/tomhaller/depview/pkg/task"

// gridLayout arranges an edgeless node set in a row-major grid with
// ceil(sqrt(n)) columns. Without edges there is no ranking signal, so a
// hierarchical layout would be meaningless; the grid gives predictable,
// stable positions instead.
func gridLayout(selected []task.Record) ComputedGraph {
	cols := gridColumns(len(selected))
	rows := (len(selected) + cols - 1) / cols

	nodes := make([]PositionedNode, len(selected))
	for i, t := range selected {
		col := i % cols
		row := i / cols
		nodes[i] = PositionedNode{
			ID:     t.ID,
			Task:   t,
			X:      Margin + float64(col)*(NodeWidth+NodeSpacing) + NodeWidth/2,
			Y:      Margin + float64(row)*(NodeHeight+GridRowSpacing) + NodeHeight/2,
			Width:  NodeWidth,
			Height: NodeHeight,
		}
	}

	return ComputedGraph{
		Nodes:  nodes,
		Edges:  []RoutedEdge{},
		Width:  float64(cols)*NodeWidth + float64(cols-1)*NodeSpacing + 2*Margin,
		Height: float64(rows)*NodeHeight + float64(rows-1)*GridRowSpacing + 2*Margin,
	}
}
