package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation, for
// example one namespace per deployment sharing a Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
//	keyer.LayoutKey("acme", "north") // "staging:layout:acme:north"
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

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(org, name string) string {
	return k.prefix + k.inner.LayoutKey(org, name)
}

// LayoutPrefix generates a prefixed layout key prefix.
func (k *ScopedKeyer) LayoutPrefix(org string) string {
	return k.prefix + k.inner.LayoutPrefix(org)
}

// ExportKey generates a prefixed export key.
func (k *ScopedKeyer) ExportKey(revision string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(revision, opts)
}
