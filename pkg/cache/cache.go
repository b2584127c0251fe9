// Package cache provides pluggable byte caching for expensive pipeline
// stages: computed layouts and rendered artifacts.
//
// Three backends are provided. FileCache persists entries under a directory
// and suits the CLI, RedisCache shares entries across server instances, and
// NullCache disables caching entirely. All backends store opaque bytes with
// an optional TTL; key construction is the Keyer's job so backends stay
// format-agnostic.
package cache

import (
	"context"
	"time"
)

// Default TTLs per pipeline stage. Layouts and artifacts are pure functions
// of their inputs, so the TTLs mostly bound disk usage rather than staleness.
const (
	TTLProject  = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the layout parameters that affect the computed result
// and therefore the cache key.
type LayoutKeyOpts struct {
	FocusID         string `json:"focus_id,omitempty"`
	IncludeIsolated bool   `json:"include_isolated"`
}

// ArtifactKeyOpts are the rendering parameters that affect the output bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed"`
	Scale    float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys for the pipeline stages. Implementations must be
// deterministic: identical inputs produce identical keys.
type Keyer interface {
	// ProjectKey keys a loaded project by name and content hash.
	ProjectKey(name, contentHash string) string

	// LayoutKey keys a computed layout by the project hash and the layout
	// options that shaped it.
	LayoutKey(projectHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the layout hash and the
	// rendering options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds namespaced sha256 keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ProjectKey generates a key for loaded project data.
func (k *DefaultKeyer) ProjectKey(name, contentHash string) string {
	return "project:" + name + ":" + contentHash
}

// LayoutKey generates a key for computed layouts.
func (k *DefaultKeyer) LayoutKey(projectHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", projectHash, opts)
}

// ArtifactKey generates a key for rendered artifacts.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
