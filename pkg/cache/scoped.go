package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one backend (for example a Redis instance) without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// CardKey generates a prefixed key for a rendered card.
func (k *ScopedKeyer) CardKey(fingerprint string) string {
	return k.prefix + k.inner.CardKey(fingerprint)
}

// SheetKey generates a prefixed key for a sheet part.
func (k *ScopedKeyer) SheetKey(id, part string) string {
	return k.prefix + k.inner.SheetKey(id, part)
}
