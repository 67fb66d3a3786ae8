package cache

// ScopedKeyer prefixes every generated key, isolating cache namespaces
// between render sessions that share one backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps a keyer with a prefix. A nil inner keyer falls
// back to the default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, url string) string {
	return k.prefix + k.inner.HTTPKey(namespace, url)
}

func (k *ScopedKeyer) CoverKey(url string) string {
	return k.prefix + k.inner.CoverKey(url)
}

func (k *ScopedKeyer) CatalogKey(title string) string {
	return k.prefix + k.inner.CatalogKey(title)
}

func (k *ScopedKeyer) ArtifactKey(configHash, format string) string {
	return k.prefix + k.inner.ArtifactKey(configHash, format)
}
