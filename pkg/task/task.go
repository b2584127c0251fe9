// Package task defines the task records and dependency descriptions consumed
// by the layout engine, plus the project file format that carries them.
//
// The two relationship mappings (depends-on and blocks) come from an upstream
// source that does not guarantee they are mutually consistent: one mapping may
// list an edge the other omits, and either may reference task IDs that do not
// exist. Consumers must tolerate both conditions.
package task

import (
	"fmt"
	"slices"
)

// Status is the workflow state of a task.
type Status string

// Task statuses.
const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Type categorizes the kind of work a task represents.
type Type string

// Task types.
const (
	TypeBug         Type = "bug"
	TypeFeature     Type = "feature"
	TypeImprovement Type = "improvement"
	TypePlanning    Type = "planning"
	TypeResearch    Type = "research"
)

// ValidStatuses is the set of recognized task statuses.
var ValidStatuses = map[Status]bool{
	StatusNotStarted: true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// ValidTypes is the set of recognized task types.
var ValidTypes = map[Type]bool{
	TypeBug:         true,
	TypeFeature:     true,
	TypeImprovement: true,
	TypePlanning:    true,
	TypeResearch:    true,
}

// Record is a single task. Only ID, Status and Type affect layout and
// rendering; everything else is opaque passthrough for the host.
type Record struct {
	ID     string         `json:"id" bson:"id"`
	Title  string         `json:"title" bson:"title"`
	Status Status         `json:"status" bson:"status"`
	Type   Type           `json:"type" bson:"type"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Validate checks that the record has an ID and recognized enum values.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("task ID must not be empty")
	}
	if !ValidStatuses[r.Status] {
		return fmt.Errorf("task %s: invalid status %q", r.ID, r.Status)
	}
	if !ValidTypes[r.Type] {
		return fmt.Errorf("task %s: invalid type %q", r.ID, r.Type)
	}
	return nil
}

// DependencyGraph is the adjacency description of task relationships.
// Both mappings are keyed by task ID and map to ordered lists of related IDs.
// The mappings may disagree with each other and may contain dangling IDs.
type DependencyGraph struct {
	// DependsOn maps a task to the tasks it depends on.
	DependsOn map[string][]string `json:"depends_on" bson:"depends_on"`
	// Blocks maps a task to the tasks it blocks.
	Blocks map[string][]string `json:"blocks" bson:"blocks"`
}

// IsEmpty reports whether neither mapping contains any entries.
func (g DependencyGraph) IsEmpty() bool {
	return len(g.DependsOn) == 0 && len(g.Blocks) == 0
}

// Participants returns the sorted set of IDs appearing as a key or value in
// either mapping. Dangling IDs are included - intersect with the task set at
// the call site.
func (g DependencyGraph) Participants() []string {
	seen := make(map[string]struct{})
	collect := func(m map[string][]string) {
		for id, related := range m {
			seen[id] = struct{}{}
			for _, r := range related {
				seen[r] = struct{}{}
			}
		}
	}
	collect(g.DependsOn)
	collect(g.Blocks)

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Neighborhood returns the sorted set of IDs directly related to focusID:
// its dependencies, the tasks that depend on it (reverse scan of DependsOn),
// the tasks it blocks, and the tasks that block it. focusID itself is
// included.
func (g DependencyGraph) Neighborhood(focusID string) []string {
	seen := map[string]struct{}{focusID: {}}

	for _, dep := range g.DependsOn[focusID] {
		seen[dep] = struct{}{}
	}
	for id, deps := range g.DependsOn {
		if slices.Contains(deps, focusID) {
			seen[id] = struct{}{}
		}
	}
	for _, blocked := range g.Blocks[focusID] {
		seen[blocked] = struct{}{}
	}
	for id, blocked := range g.Blocks {
		if slices.Contains(blocked, focusID) {
			seen[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
