package cache

// Keyer derives cache keys.
type Keyer interface {
	// DesignKey is the key of one emission of a layout against a technology
	// into cell/view.
	DesignKey(layoutHash, techDigest, cell, view string) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DesignKey returns "design:<sha256>".
func (DefaultKeyer) DesignKey(layoutHash, techDigest, cell, view string) string {
	return hashKey("design", layoutHash, techDigest, cell, view)
}

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance.
//
// Example usage:
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "serve:")
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

// DesignKey generates a prefixed design key.
func (k *ScopedKeyer) DesignKey(layoutHash, techDigest, cell, view string) string {
	return k.prefix + k.inner.DesignKey(layoutHash, techDigest, cell, view)
}
