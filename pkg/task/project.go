package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// Project is the canonical file format bundling tasks with their dependency
// description. It is used for project files on disk, API payloads and cache
// entries.
type Project struct {
	Name  string          `json:"name,omitempty" bson:"name,omitempty"`
	Tasks []Record        `json:"tasks" bson:"tasks"`
	Graph DependencyGraph `json:"graph" bson:"graph"`
}

// Validate checks every task record and rejects duplicate IDs.
// Dangling IDs in the graph mappings are allowed - the layout engine drops
// them - so they are deliberately not checked here.
func (p Project) Validate() error {
	seen := make(map[string]struct{}, len(p.Tasks))
	for _, r := range p.Tasks {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate task ID %q", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// TaskByID returns the record with the given ID, or false if absent.
func (p Project) TaskByID(id string) (Record, bool) {
	for _, r := range p.Tasks {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// MarshalProject serializes a project to pretty-printed JSON bytes.
// Tasks are sorted by ID for deterministic output.
func MarshalProject(p Project) ([]byte, error) {
	out := p
	out.Tasks = slices.Clone(p.Tasks)
	slices.SortFunc(out.Tasks, func(a, b Record) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalProject deserializes and validates JSON bytes into a Project.
func UnmarshalProject(data []byte) (Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("decode project: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Project{}, err
	}
	return p, nil
}

// ReadProject decodes a project from an io.Reader.
func ReadProject(r io.Reader) (Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Project{}, fmt.Errorf("read project: %w", err)
	}
	return UnmarshalProject(data)
}

// ReadProjectFile reads and validates a project JSON file.
func ReadProjectFile(path string) (Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return Project{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadProject(f)
}

// WriteProjectFile writes a project to a JSON file with 0644 permissions.
func WriteProjectFile(p Project, path string) error {
	data, err := MarshalProject(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
