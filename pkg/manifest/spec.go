package manifest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/matzehuels/skillweave/pkg/compose"
	"github.com/matzehuels/skillweave/pkg/errors"
)

// NodeSpec is one node of a composition document before skills are
// resolved. Kind selects which fields are set.
type NodeSpec struct {
	Kind compose.Kind

	Skill    string      // KindSkill: skill name or reference
	Children []*NodeSpec // KindSequence, KindConcurrent

	When string    // KindBranch
	Then *NodeSpec // KindBranch
	Else *NodeSpec // KindBranch, optional

	Config map[string]any // KindHydrated, inline
	Use    string         // KindHydrated, shared config name
	Node   *NodeSpec      // KindHydrated
}

// nodeKeys maps document keys to node kinds.
var nodeKeys = map[string]compose.Kind{
	"skill":    compose.KindSkill,
	"sequence": compose.KindSequence,
	"parallel": compose.KindConcurrent,
	"branch":   compose.KindBranch,
	"hydrate":  compose.KindHydrated,
}

type branchFields struct {
	When string `mapstructure:"when"`
	Then any    `mapstructure:"then"`
	Else any    `mapstructure:"else"`
}

type hydrateFields struct {
	Config map[string]any `mapstructure:"config"`
	Use    string         `mapstructure:"use"`
	Node   any            `mapstructure:"node"`
}

// decodeNode decodes one node. A bare string is shorthand for a skill node.
func decodeNode(v any, at string) (*NodeSpec, error) {
	if s, ok := v.(string); ok {
		return skillNode(s, at)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid(at, "node must be a mapping or a skill name, got %T", v)
	}

	var keys []string
	for k := range m {
		if _, ok := nodeKeys[k]; !ok {
			return nil, invalid(at, "unknown node key %q", k)
		}
		keys = append(keys, k)
	}
	if len(keys) != 1 {
		slices.Sort(keys)
		return nil, invalid(at, "node needs exactly one of skill, sequence, parallel, branch, hydrate (got %s)", describeKeys(keys))
	}

	key := keys[0]
	val := m[key]
	switch nodeKeys[key] {
	case compose.KindSkill:
		s, ok := val.(string)
		if !ok {
			return nil, invalid(at, "skill must be a string, got %T", val)
		}
		return skillNode(s, at)

	case compose.KindSequence, compose.KindConcurrent:
		list, ok := val.([]any)
		if !ok {
			return nil, invalid(at, "%s must be a list, got %T", key, val)
		}
		spec := &NodeSpec{Kind: nodeKeys[key]}
		for i, item := range list {
			child, err := decodeNode(item, fmt.Sprintf("%s.%s[%d]", at, key, i))
			if err != nil {
				return nil, err
			}
			spec.Children = append(spec.Children, child)
		}
		return spec, nil

	case compose.KindBranch:
		var f branchFields
		if err := decodeFields(val, &f); err != nil {
			return nil, invalid(at+".branch", "%v", err)
		}
		spec := &NodeSpec{Kind: compose.KindBranch, When: f.When}
		var err error
		if f.Then != nil {
			if spec.Then, err = decodeNode(f.Then, at+".branch.then"); err != nil {
				return nil, err
			}
		}
		if f.Else != nil {
			if spec.Else, err = decodeNode(f.Else, at+".branch.else"); err != nil {
				return nil, err
			}
		}
		return spec, nil

	case compose.KindHydrated:
		var f hydrateFields
		if err := decodeFields(val, &f); err != nil {
			return nil, invalid(at+".hydrate", "%v", err)
		}
		if f.Use != "" && f.Config != nil {
			return nil, invalid(at+".hydrate", "use either config or use, not both")
		}
		if f.Node == nil {
			return nil, invalid(at+".hydrate", "missing node")
		}
		node, err := decodeNode(f.Node, at+".hydrate.node")
		if err != nil {
			return nil, err
		}
		return &NodeSpec{Kind: compose.KindHydrated, Config: f.Config, Use: f.Use, Node: node}, nil
	}
	return nil, invalid(at, "unsupported node key %q", key)
}

func skillNode(s, at string) (*NodeSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, invalid(at, "empty skill name")
	}
	return &NodeSpec{Kind: compose.KindSkill, Skill: s}, nil
}

func decodeFields(v any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(v)
}

func describeKeys(keys []string) string {
	if len(keys) == 0 {
		return "none"
	}
	return strings.Join(keys, ", ")
}

func invalid(at, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidManifest, "%s: %s", at, fmt.Sprintf(format, args...))
}

// Walk calls fn for spec and every node below it in pre-order.
func (n *NodeSpec) Walk(fn func(*NodeSpec)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
	n.Then.Walk(fn)
	n.Else.Walk(fn)
	n.Node.Walk(fn)
}
