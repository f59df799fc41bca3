package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating projects that share
// one backend.
//
// Example usage:
//
//	// Keys for one project on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:release:")
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// SkillKey generates a prefixed key for resolved skills.
func (k *ScopedKeyer) SkillKey(ref string) string {
	return k.prefix + k.inner.SkillKey(ref)
}

// SynthKey generates a prefixed key for synthesized documents.
func (k *ScopedKeyer) SynthKey(prompt string, opts SynthKeyOpts) string {
	return k.prefix + k.inner.SynthKey(prompt, opts)
}

// ArtifactKey generates a prefixed key for rendered diagrams.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
