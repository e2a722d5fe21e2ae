package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "idef0:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DocumentKey generates a prefixed document key.
func (k *ScopedKeyer) DocumentKey(diagramHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(diagramHash, opts)
}

// PreviewKey generates a prefixed preview key.
func (k *ScopedKeyer) PreviewKey(diagramHash string, opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(diagramHash, opts)
}

// VariantKey generates a prefixed variant key.
func (k *ScopedKeyer) VariantKey(store, variant string) string {
	return k.prefix + k.inner.VariantKey(store, variant)
}
