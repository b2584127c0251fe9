// Package styles maps task attributes to visual styling for the SVG and DOT
// renderers. All functions are pure lookups with sensible fallbacks, so a
// record with an unknown status or type still renders.
package styles

import "github.com/tomhaller/depview/pkg/task"

// Palette is the fill, border and text color triple for a node, keyed off
// the task's status.
type Palette struct {
	Fill   string
	Border string
	Text   string
}

var statusPalettes = map[task.Status]Palette{
	task.StatusNotStarted: {Fill: "#f4f4f5", Border: "#a1a1aa", Text: "#3f3f46"},
	task.StatusInProgress: {Fill: "#dbeafe", Border: "#3b82f6", Text: "#1e3a8a"},
	task.StatusCompleted:  {Fill: "#dcfce7", Border: "#22c55e", Text: "#14532d"},
}

// fallbackPalette renders like a not-started task.
var fallbackPalette = Palette{Fill: "#f4f4f5", Border: "#a1a1aa", Text: "#3f3f46"}

// PaletteFor returns the color triple for a status. Unknown statuses get the
// neutral fallback rather than an error.
func PaletteFor(s task.Status) Palette {
	if p, ok := statusPalettes[s]; ok {
		return p
	}
	return fallbackPalette
}

var typeAccents = map[task.Type]string{
	task.TypeBug:         "#ef4444",
	task.TypeFeature:     "#3b82f6",
	task.TypeImprovement: "#14b8a6",
	task.TypePlanning:    "#a855f7",
	task.TypeResearch:    "#f59e0b",
}

// AccentFor returns the left-border accent color for a task type, or an
// empty string for unknown types (no accent stripe is drawn).
func AccentFor(t task.Type) string {
	return typeAccents[t]
}
