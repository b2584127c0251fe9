package cache

// ScopedKeyer wraps a Keyer with a prefix so separate projects (or server
// tenants) get isolated namespaces within a shared backend.
//
//	// Keys private to one stored graph
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "graph:"+id+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
// A nil inner falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ProjectKey generates a prefixed project key.
func (k *ScopedKeyer) ProjectKey(name, contentHash string) string {
	return k.prefix + k.inner.ProjectKey(name, contentHash)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(projectHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(projectHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
