package compose

import (
	"slices"
	"strings"

	"github.com/matzehuels/skillweave/pkg/errors"
)

// BranchSpec holds the arguments of [NewBranch]. Else is optional.
type BranchSpec struct {
	When string
	Then Node
	Else Node
}

// Leaf creates a skill node. Name and Instructions must be non-blank.
// Metadata is deep-copied.
func Leaf(def SkillDef) (*Skill, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, errors.New(errors.ErrCodeInvalidSkill, "compose.Leaf: skill name is required")
	}
	if strings.TrimSpace(def.Instructions) == "" {
		return nil, errors.New(errors.ErrCodeInvalidSkill, "compose.Leaf: skill %q has no instructions", def.Name)
	}
	s := &Skill{
		name:         def.Name,
		description:  def.Description,
		instructions: def.Instructions,
		source:       def.Source,
	}
	if len(def.Metadata) > 0 {
		s.metadata = Metadata(cloneMap(def.Metadata))
	}
	return s, nil
}

// Sequence creates a node whose children execute in the given order.
// It fails with EMPTY_CHILDREN when called without children.
func NewSequence(children ...Node) (*Sequence, error) {
	if err := checkChildren("compose.NewSequence", children); err != nil {
		return nil, err
	}
	return &Sequence{children: slices.Clone(children)}, nil
}

// Concurrent creates a node whose children execute without ordering
// constraint. It fails with EMPTY_CHILDREN when called without children.
func NewConcurrent(children ...Node) (*Concurrent, error) {
	if err := checkChildren("compose.NewConcurrent", children); err != nil {
		return nil, err
	}
	return &Concurrent{children: slices.Clone(children)}, nil
}

// Branch creates a conditional node. When must be non-blank and Then
// non-nil.
func NewBranch(spec BranchSpec) (*Branch, error) {
	if strings.TrimSpace(spec.When) == "" {
		return nil, errors.New(errors.ErrCodeMissingCondition, "compose.NewBranch: a non-empty condition is required")
	}
	if isNil(spec.Then) {
		return nil, errors.New(errors.ErrCodeMissingThenBranch, "compose.NewBranch: a then branch is required")
	}
	b := &Branch{when: spec.When, then: spec.Then}
	if !isNil(spec.Else) {
		b.elseNode = spec.Else
	}
	return b, nil
}

// NewConfig creates a configuration from values. The map and everything
// nested in it are copied.
// It fails with EMPTY_HYDRATION_CONFIG when values is empty.
func NewConfig(values map[string]any) (*Config, error) {
	if len(values) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyHydrationConfig, "compose.Hydrate: configuration must not be empty")
	}
	return &Config{values: cloneMap(values)}, nil
}

// Hydrate wraps node with a new configuration built from values.
func Hydrate(node Node, values map[string]any) (*Hydrated, error) {
	if isNil(node) {
		return nil, errors.New(errors.ErrCodeNilChild, "compose.Hydrate: node is nil")
	}
	cfg, err := NewConfig(values)
	if err != nil {
		return nil, err
	}
	return &Hydrated{child: node, config: cfg}, nil
}

// HydrateWith wraps node with an existing configuration. Attaching the same
// *Config to several subtrees shares its identity.
func HydrateWith(node Node, cfg *Config) (*Hydrated, error) {
	if isNil(node) {
		return nil, errors.New(errors.ErrCodeNilChild, "compose.Hydrate: node is nil")
	}
	if cfg == nil || len(cfg.values) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyHydrationConfig, "compose.Hydrate: configuration must not be empty")
	}
	return &Hydrated{child: node, config: cfg}, nil
}

func checkChildren(op string, children []Node) error {
	if len(children) == 0 {
		return errors.New(errors.ErrCodeEmptyChildren, "%s: at least one child is required", op)
	}
	for i, c := range children {
		if isNil(c) {
			return errors.New(errors.ErrCodeNilChild, "%s: child %d is nil", op, i)
		}
	}
	return nil
}

// isNil catches both a nil interface and a typed nil pointer.
func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Skill:
		return v == nil
	case *Sequence:
		return v == nil
	case *Concurrent:
		return v == nil
	case *Branch:
		return v == nil
	case *Hydrated:
		return v == nil
	}
	return false
}

// MustLeaf is like [Leaf] but panics on error.
func MustLeaf(def SkillDef) *Skill { return must(Leaf(def)) }

// MustSequence is like [NewSequence] but panics on error.
func MustSequence(children ...Node) *Sequence { return must(NewSequence(children...)) }

// MustConcurrent is like [NewConcurrent] but panics on error.
func MustConcurrent(children ...Node) *Concurrent { return must(NewConcurrent(children...)) }

// MustBranch is like [NewBranch] but panics on error.
func MustBranch(spec BranchSpec) *Branch { return must(NewBranch(spec)) }

// MustHydrate is like [Hydrate] but panics on error.
func MustHydrate(node Node, values map[string]any) *Hydrated { return must(Hydrate(node, values)) }

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
