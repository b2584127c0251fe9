package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/tomhaller/depview/pkg/task"
)

// Memo caches Compute results keyed by a structural hash of the inputs.
// The cache is owned by whoever creates it - there is no global instance and
// no implicit invalidation; discard the Memo to drop its entries.
//
// Memo is safe for concurrent use.
type Memo struct {
	mu      sync.Mutex
	entries map[string]ComputedGraph
}

// NewMemo creates an empty memoization cache.
func NewMemo() *Memo {
	return &Memo{entries: make(map[string]ComputedGraph)}
}

// Compute returns the cached result for structurally identical input, or
// computes, stores and returns a fresh layout.
func (m *Memo) Compute(graph task.DependencyGraph, tasks []task.Record, opts Options) ComputedGraph {
	key := InputHash(graph, tasks, opts)

	m.mu.Lock()
	cached, ok := m.entries[key]
	m.mu.Unlock()
	if ok {
		return cached
	}

	result := Compute(graph, tasks, opts)

	m.mu.Lock()
	m.entries[key] = result
	m.mu.Unlock()
	return result
}

// Len returns the number of cached layouts.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// InputHash returns a sha256 hex digest over the layout inputs. Projects and
// options marshal deterministically (sorted tasks, stable field order), so
// structurally identical inputs hash identically.
func InputHash(graph task.DependencyGraph, tasks []task.Record, opts Options) string {
	data, err := task.MarshalProject(task.Project{Tasks: tasks, Graph: graph})
	if err != nil {
		data = nil
	}
	optData, _ := json.Marshal(opts)

	h := sha256.New()
	h.Write(data)
	h.Write(optData)
	return hex.EncodeToString(h.Sum(nil))
}
