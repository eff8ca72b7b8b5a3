package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server uses it to
// keep its entries apart from those written by the CLI when both share a
// Redis instance.
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "server:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to a DefaultKeyer when nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}

// DocumentKey returns the prefixed document key.
func (k *ScopedKeyer) DocumentKey(backend, name string) string {
	return k.prefix + k.inner.DocumentKey(backend, name)
}
