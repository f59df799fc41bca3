package layout

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme assigns a "#RRGGBB" color to each node type. Empty fields fall back
// to [DefaultTheme].
type Theme struct {
	Skill    string `json:"skill,omitempty" mapstructure:"skill"`
	Sequence string `json:"sequence,omitempty" mapstructure:"sequence"`
	Parallel string `json:"parallel,omitempty" mapstructure:"parallel"`
	Branch   string `json:"branch,omitempty" mapstructure:"branch"`
}

// DefaultTheme is used for any color a caller leaves unset.
var DefaultTheme = Theme{
	Skill:    "#7DD3FC",
	Sequence: "#A78BFA",
	Parallel: "#34D399",
	Branch:   "#FBBF24",
}

// Color returns the color for a node type.
func (t Theme) Color(nodeType string) string {
	t = t.withDefaults()
	switch nodeType {
	case TypeSequence:
		return t.Sequence
	case TypeParallel:
		return t.Parallel
	case TypeBranch:
		return t.Branch
	default:
		return t.Skill
	}
}

// Validate checks that every set color parses as a hex color.
func (t Theme) Validate() error {
	for name, c := range map[string]string{
		"skill":    t.Skill,
		"sequence": t.Sequence,
		"parallel": t.Parallel,
		"branch":   t.Branch,
	} {
		if c == "" {
			continue
		}
		if _, err := colorful.Hex(c); err != nil || len(c) != 7 {
			return fmt.Errorf("theme color %s: invalid hex color %q", name, c)
		}
	}
	return nil
}

func (t Theme) withDefaults() Theme {
	if t.Skill == "" {
		t.Skill = DefaultTheme.Skill
	}
	if t.Sequence == "" {
		t.Sequence = DefaultTheme.Sequence
	}
	if t.Parallel == "" {
		t.Parallel = DefaultTheme.Parallel
	}
	if t.Branch == "" {
		t.Branch = DefaultTheme.Branch
	}
	return t
}

// Gradient returns n colors linearly interpolated in RGB from one hex color
// to another, as uppercase "#RRGGBB". A single step yields from. Unparseable
// inputs fall back to the other endpoint.
func Gradient(from, to string, n int) []string {
	if n <= 0 {
		return nil
	}
	a, errA := colorful.Hex(from)
	b, errB := colorful.Hex(to)
	switch {
	case errA != nil && errB != nil:
		a, b = colorful.Color{}, colorful.Color{}
	case errA != nil:
		a = b
	case errB != nil:
		b = a
	}

	out := make([]string, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = strings.ToUpper(a.BlendRgb(b, t).Clamped().Hex())
	}
	return out
}
