// Package describe turns a composition tree into the structured text outline
// handed to the text synthesizer.
//
// [Describe] walks the tree depth-first and returns a [Description]: the
// outline, the distinct skills in first-seen order together with the
// hydration configs that reach them, the structural patterns in use, and the
// depth of the tree. The walk is pure; calling it twice on the same tree
// yields equal results.
package describe

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/skillweave/pkg/compose"
)

// Pattern names a structural pattern used by a composition.
type Pattern string

const (
	PatternSequential  Pattern = "sequential"
	PatternParallel    Pattern = "parallel"
	PatternConditional Pattern = "conditional"
	PatternHydrated    Pattern = "hydrated"
)

var patternOrder = []Pattern{PatternSequential, PatternParallel, PatternConditional, PatternHydrated}

// PatternSet is a set of patterns.
type PatternSet map[Pattern]struct{}

// Has reports whether p is in the set.
func (s PatternSet) Has(p Pattern) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of patterns in the set.
func (s PatternSet) Len() int { return len(s) }

// Sorted returns the patterns in the fixed order sequential, parallel,
// conditional, hydrated.
func (s PatternSet) Sorted() []Pattern {
	out := make([]Pattern, 0, len(s))
	for _, p := range patternOrder {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// MarshalJSON encodes the set as a sorted list.
func (s PatternSet) MarshalJSON() ([]byte, error) { return json.Marshal(s.Sorted()) }

// SkillRecord describes one distinct skill of a composition.
type SkillRecord struct {
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Instructions string            `json:"instructions"`
	Source       compose.Source    `json:"source"`
	Hydrations   []*compose.Config `json:"hydrations,omitempty"`
}

// Description is the result of [Describe].
type Description struct {
	Outline  string        `json:"outline"`
	Skills   []SkillRecord `json:"skills"`
	MaxDepth int           `json:"max_depth"`
	Patterns PatternSet    `json:"patterns"`
}

// Skill returns the record for name.
func (d *Description) Skill(name string) (SkillRecord, bool) {
	for _, s := range d.Skills {
		if s.Name == name {
			return s, true
		}
	}
	return SkillRecord{}, false
}

// Describe walks root and returns its description. A nil root yields an
// empty description with depth 0.
func Describe(root compose.Node) *Description {
	d := &describer{index: make(map[string]int), patterns: make(PatternSet)}
	out := &Description{Patterns: d.patterns, Skills: []SkillRecord{}}
	if root == nil {
		return out
	}
	lines, depth := d.walk(root, nil)
	out.Outline = strings.Join(lines, "\n")
	out.MaxDepth = depth
	out.Skills = d.skills
	return out
}

// describer accumulates the per-call results. Active hydrations are not part
// of it; they are passed down the recursion.
type describer struct {
	skills   []SkillRecord
	index    map[string]int
	patterns PatternSet
}

func (d *describer) walk(node compose.Node, active []*compose.Config) ([]string, int) {
	switch n := node.(type) {
	case *compose.Skill:
		d.record(n, active)
		line := "SKILL: " + n.Name()
		if desc := n.Description(); desc != "" {
			line += " - " + desc
		}
		return []string{line}, 1

	case *compose.Sequence:
		d.patterns[PatternSequential] = struct{}{}
		lines := []string{"SEQUENCE (execute in order):"}
		depth := 0
		for i, c := range n.Children() {
			sub, dd := d.walk(c, active)
			lines = append(lines, indent(sub, fmt.Sprintf("%d. ", i+1))...)
			depth = max(depth, dd)
		}
		return lines, depth + 1

	case *compose.Concurrent:
		d.patterns[PatternParallel] = struct{}{}
		lines := []string{"PARALLEL (execute concurrently):"}
		depth := 0
		for _, c := range n.Children() {
			sub, dd := d.walk(c, active)
			lines = append(lines, indent(sub, "- ")...)
			depth = max(depth, dd)
		}
		return lines, depth + 1

	case *compose.Branch:
		d.patterns[PatternConditional] = struct{}{}
		lines := []string{fmt.Sprintf("BRANCH on condition: %q", n.When()), "  THEN:"}
		sub, depth := d.walk(n.Then(), active)
		lines = append(lines, indent(sub, "  ")...)
		if e := n.Else(); e != nil {
			sub, dd := d.walk(e, active)
			lines = append(lines, "  ELSE:")
			lines = append(lines, indent(sub, "  ")...)
			depth = max(depth, dd)
		}
		return lines, depth + 1

	case *compose.Hydrated:
		d.patterns[PatternHydrated] = struct{}{}
		next := make([]*compose.Config, len(active), len(active)+1)
		copy(next, active)
		return d.walk(n.Child(), append(next, n.Config()))
	}
	return nil, 0
}

// record adds a skill the first time its name is seen and merges the active
// configs into an existing record otherwise. Configs are compared by
// identity.
func (d *describer) record(s *compose.Skill, active []*compose.Config) {
	if i, ok := d.index[s.Name()]; ok {
		rec := &d.skills[i]
		for _, cfg := range active {
			if !slices.Contains(rec.Hydrations, cfg) {
				rec.Hydrations = append(rec.Hydrations, cfg)
			}
		}
		return
	}
	d.index[s.Name()] = len(d.skills)
	d.skills = append(d.skills, SkillRecord{
		Name:         s.Name(),
		Description:  s.Description(),
		Instructions: s.Instructions(),
		Source:       s.Source(),
		Hydrations:   slices.Clone(active),
	})
}

// indent nests lines two spaces under their parent. The first line gets
// marker, continuation lines are aligned under the text after it.
func indent(lines []string, marker string) []string {
	out := make([]string, len(lines))
	pad := strings.Repeat(" ", len(marker))
	for i, l := range lines {
		if i == 0 {
			out[i] = "  " + marker + l
		} else {
			out[i] = "  " + pad + l
		}
	}
	return out
}
