package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful when several users or deployments share one Redis or Mongo
// backend and need separate cache namespaces.
//
// Example usage:
//
//	// Per-deployment keys on a shared backend
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "prod:")
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

// GraphKey generates a prefixed key for a decoded graph.
func (k *ScopedKeyer) GraphKey(contentHash string) string {
	return k.prefix + k.inner.GraphKey(contentHash)
}

// ScoreKey generates a prefixed key for a centrality result.
func (k *ScopedKeyer) ScoreKey(contentHash string, opts ScoreKeyOpts) string {
	return k.prefix + k.inner.ScoreKey(contentHash, opts)
}

// CommunityKey generates a prefixed key for a community-detection result.
func (k *ScopedKeyer) CommunityKey(contentHash string) string {
	return k.prefix + k.inner.CommunityKey(contentHash)
}

// BetweennessKey generates a prefixed key for a betweenness result.
func (k *ScopedKeyer) BetweennessKey(contentHash string) string {
	return k.prefix + k.inner.BetweennessKey(contentHash)
}
