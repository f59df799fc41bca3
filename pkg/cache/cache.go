// Package cache provides the key-value caches behind skill resolution,
// document synthesis and diagram rendering.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for the HTTP server or teams
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// All backends implement [Cache]. Values are opaque bytes with a TTL; a TTL
// of zero means the entry never expires.
//
// # Keys
//
// A [Keyer] derives keys for each cached concern so that backends never see
// raw references or prompts. [ScopedKeyer] prefixes every key, which lets
// several projects share one Redis instance.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	TTLSkill    = 24 * time.Hour     // Resolved remote skill documents
	TTLHTTP     = 24 * time.Hour     // Raw HTTP responses
	TTLSynth    = 7 * 24 * time.Hour // Synthesized documents, keyed by prompt
	TTLArtifact = 7 * 24 * time.Hour // Rendered diagrams, keyed by layout
)

// Cache stores opaque values by key.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey is the key of a raw HTTP response in namespace.
	HTTPKey(namespace, key string) string
	// SkillKey is the key of a resolved skill reference.
	SkillKey(ref string) string
	// SynthKey is the key of a document synthesized from prompt.
	SynthKey(prompt string, opts SynthKeyOpts) string
	// ArtifactKey is the key of a rendered diagram.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// SynthKeyOpts are the synthesis settings that change the output.
type SynthKeyOpts struct {
	Model     string `json:"model"`
	MaxTokens int64  `json:"max_tokens"`
}

// ArtifactKeyOpts are the render settings that change the output.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// SkillKey returns "skill:<hash(ref)>".
func (DefaultKeyer) SkillKey(ref string) string {
	return hashKey("skill", ref)
}

// SynthKey returns "synth:<hash(prompt, opts)>".
func (DefaultKeyer) SynthKey(prompt string, opts SynthKeyOpts) string {
	return hashKey("synth", prompt, opts)
}

// ArtifactKey returns "artifact:<hash(graph, opts)>".
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
