package compose

import (
	"encoding/json"
	"maps"
	"slices"
)

// Kind identifies the variant of a [Node].
type Kind string

const (
	KindSkill      Kind = "skill"
	KindSequence   Kind = "sequence"
	KindConcurrent Kind = "concurrent"
	KindBranch     Kind = "branch"
	KindHydrated   Kind = "hydrated"
)

// Node is a composition tree node. The set of implementations is closed:
// *Skill, *Sequence, *Concurrent, *Branch and *Hydrated.
type Node interface {
	Kind() Kind
	node()
}

// Metadata stores arbitrary key-value pairs attached to a skill, typically
// the extra frontmatter keys of its source document.
type Metadata map[string]any

// Source records where a skill was loaded from. It is opaque to the tree and
// only carried through to descriptions and diagrams.
type Source struct {
	Kind     string `json:"kind,omitempty"`     // "local", "github", "url", or "inline"
	Location string `json:"location,omitempty"` // Path or URL
	Ref      string `json:"ref,omitempty"`      // Git ref, if any
}

// String returns a compact human-readable form such as "github:acme/skills/lint@v1".
func (s Source) String() string {
	if s.Kind == "" && s.Location == "" {
		return ""
	}
	out := s.Location
	if s.Kind != "" && s.Kind != "local" && s.Kind != "url" {
		out = s.Kind + ":" + out
	}
	if s.Ref != "" {
		out += "@" + s.Ref
	}
	return out
}

// SkillDef is the leaf-shaped record produced by skill resolvers and
// consumed by [Leaf].
type SkillDef struct {
	Name         string
	Description  string
	Instructions string
	Source       Source
	Metadata     Metadata
}

// Skill is a leaf node holding one instruction document.
type Skill struct {
	name         string
	description  string
	instructions string
	source       Source
	metadata     Metadata
}

func (*Skill) Kind() Kind { return KindSkill }
func (*Skill) node() {}

// Name returns the skill name. Names identify skills across the tree.
func (s *Skill) Name() string { return s.name }

// Description returns the optional one-line description.
func (s *Skill) Description() string { return s.description }

// Instructions returns the instruction text.
func (s *Skill) Instructions() string { return s.instructions }

// Source returns the provenance of the skill.
func (s *Skill) Source() Source { return s.source }

// Metadata returns a deep copy of the skill metadata, or nil if there is none.
func (s *Skill) Metadata() Metadata {
	if s.metadata == nil {
		return nil
	}
	return Metadata(cloneMap(s.metadata))
}

// Def returns the record the skill was built from.
func (s *Skill) Def() SkillDef {
	return SkillDef{
		Name:         s.name,
		Description:  s.description,
		Instructions: s.instructions,
		Source:       s.source,
		Metadata:     s.Metadata(),
	}
}

// Sequence runs its children in order.
type Sequence struct {
	children []Node
}

func (*Sequence) Kind() Kind { return KindSequence }
func (*Sequence) node() {}

// Children returns the children in execution order.
func (s *Sequence) Children() []Node { return slices.Clone(s.children) }

// Len returns the number of children.
func (s *Sequence) Len() int { return len(s.children) }

// Concurrent runs its children without ordering constraint. The child order
// is kept for left-to-right layout only.
type Concurrent struct {
	children []Node
}

func (*Concurrent) Kind() Kind { return KindConcurrent }
func (*Concurrent) node() {}

// Children returns the children in authoring order.
func (c *Concurrent) Children() []Node { return slices.Clone(c.children) }

// Len returns the number of children.
func (c *Concurrent) Len() int { return len(c.children) }

// Branch selects Then when its condition holds and Else (if any) otherwise.
// The condition is an opaque expression and is never evaluated here.
type Branch struct {
	when     string
	then     Node
	elseNode Node
}

func (*Branch) Kind() Kind { return KindBranch }
func (*Branch) node() {}

// When returns the condition expression.
func (b *Branch) When() string { return b.when }

// Then returns the required then-subtree.
func (b *Branch) Then() Node { return b.then }

// Else returns the optional else-subtree, or nil.
func (b *Branch) Else() Node { return b.elseNode }

// Hydrated wraps exactly one child with a configuration map. Wrappers may
// nest; the outermost config is the first one applied.
type Hydrated struct {
	child  Node
	config *Config
}

func (*Hydrated) Kind() Kind { return KindHydrated }
func (*Hydrated) node() {}

// Child returns the wrapped subtree.
func (h *Hydrated) Child() Node { return h.child }

// Config returns the attached configuration. The pointer is stable, so
// callers may compare configs by identity.
func (h *Hydrated) Config() *Config { return h.config }

// Config is an immutable, non-empty key-value configuration injected into a
// subtree. Compare configs by pointer to test identity.
type Config struct {
	values map[string]any
}

// Values returns a deep copy of the configuration map.
func (c *Config) Values() map[string]any { return cloneMap(c.values) }

// Get returns a copy of the value for key.
func (c *Config) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return cloneValue(v), ok
}

// Keys returns the configuration keys in sorted order.
func (c *Config) Keys() []string { return slices.Sorted(maps.Keys(c.values)) }

// Len returns the number of entries.
func (c *Config) Len() int { return len(c.values) }

// MarshalJSON encodes the configuration as a plain JSON object.
func (c *Config) MarshalJSON() ([]byte, error) { return json.Marshal(c.values) }
