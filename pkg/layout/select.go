package layout

import (
	"slices"

	"github.com/tomhaller/depview/pkg/task"
)

// selectNodes resolves the node set in priority order: focus neighborhood,
// then all tasks, then relationship participants. IDs not present among the
// tasks are dropped silently. The result is sorted by ID for determinism.
func selectNodes(graph task.DependencyGraph, tasks []task.Record, opts Options) []task.Record {
	byID := make(map[string]task.Record, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	var ids []string
	switch {
	case opts.FocusID != "":
		ids = graph.Neighborhood(opts.FocusID)
	case opts.IncludeIsolated:
		ids = make([]string, 0, len(tasks))
		for _, t := range tasks {
			ids = append(ids, t.ID)
		}
		slices.Sort(ids)
	default:
		ids = graph.Participants()
	}

	selected := make([]task.Record, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			selected = append(selected, t)
		}
	}
	return selected
}
