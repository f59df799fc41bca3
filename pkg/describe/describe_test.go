package describe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/skillweave/pkg/compose"
)

func leaf(name string) *compose.Skill {
	return compose.MustLeaf(compose.SkillDef{Name: name, Instructions: "Do " + name + "."})
}

func TestDescribeLeaf(t *testing.T) {
	d := Describe(leaf("s1"))

	require.Len(t, d.Skills, 1)
	assert.Equal(t, "s1", d.Skills[0].Name)
	assert.Equal(t, "Do s1.", d.Skills[0].Instructions)
	assert.Empty(t, d.Skills[0].Hydrations)
	assert.Equal(t, 0, d.Patterns.Len())
	assert.Equal(t, 1, d.MaxDepth)
	assert.Equal(t, "SKILL: s1", d.Outline)
}

func TestDescribeLeafWithDescription(t *testing.T) {
	s := compose.MustLeaf(compose.SkillDef{Name: "lint", Description: "Run linters", Instructions: "x"})
	assert.Equal(t, "SKILL: lint - Run linters", Describe(s).Outline)
}

func TestDescribeSequence(t *testing.T) {
	d := Describe(compose.MustSequence(leaf("a"), leaf("b")))

	assert.True(t, d.Patterns.Has(PatternSequential))
	assert.Len(t, d.Skills, 2)
	assert.Equal(t, 2, d.MaxDepth)
	assert.Contains(t, d.Outline, "SEQUENCE")

	ia := strings.Index(d.Outline, "1. SKILL: a")
	ib := strings.Index(d.Outline, "2. SKILL: b")
	require.GreaterOrEqual(t, ia, 0)
	require.GreaterOrEqual(t, ib, 0)
	assert.Less(t, ia, ib)

	want := "SEQUENCE (execute in order):\n" +
		"  1. SKILL: a\n" +
		"  2. SKILL: b"
	assert.Equal(t, want, d.Outline)
}

func TestDescribeConcurrent(t *testing.T) {
	d := Describe(compose.MustConcurrent(leaf("a"), leaf("b")))

	assert.True(t, d.Patterns.Has(PatternParallel))
	assert.Contains(t, d.Outline, "PARALLEL")
	assert.Equal(t, "PARALLEL (execute concurrently):\n  - SKILL: a\n  - SKILL: b", d.Outline)
}

func TestDescribeBranch(t *testing.T) {
	d := Describe(compose.MustBranch(compose.BranchSpec{When: "x==1", Then: leaf("t"), Else: leaf("e")}))

	assert.True(t, d.Patterns.Has(PatternConditional))
	assert.Contains(t, d.Outline, "x==1")
	assert.Contains(t, d.Outline, "THEN")
	assert.Contains(t, d.Outline, "ELSE")
	assert.Equal(t, 2, d.MaxDepth)

	want := "BRANCH on condition: \"x==1\"\n" +
		"  THEN:\n" +
		"    SKILL: t\n" +
		"  ELSE:\n" +
		"    SKILL: e"
	assert.Equal(t, want, d.Outline)
}

func TestDescribeBranchWithoutElse(t *testing.T) {
	d := Describe(compose.MustBranch(compose.BranchSpec{When: "ready", Then: leaf("t")}))
	assert.NotContains(t, d.Outline, "ELSE")
	assert.Equal(t, 2, d.MaxDepth)
}

func TestDescribeHydrated(t *testing.T) {
	d := Describe(compose.MustHydrate(leaf("s"), map[string]any{"a": 1}))

	assert.True(t, d.Patterns.Has(PatternHydrated))
	rec, ok := d.Skill("s")
	require.True(t, ok)
	require.Len(t, rec.Hydrations, 1)
	assert.Equal(t, map[string]any{"a": 1}, rec.Hydrations[0].Values())

	assert.Equal(t, 1, d.MaxDepth, "hydration does not add a level")
	assert.Equal(t, "SKILL: s", d.Outline, "hydration is transparent in the outline")
}

func TestDescribeNestedHydrationOrder(t *testing.T) {
	inner := compose.MustHydrate(leaf("s"), map[string]any{"inner": true})
	outer := compose.MustHydrate(inner, map[string]any{"outer": true})

	rec, ok := Describe(outer).Skill("s")
	require.True(t, ok)
	require.Len(t, rec.Hydrations, 2)
	assert.Same(t, outer.Config(), rec.Hydrations[0])
	assert.Same(t, inner.Config(), rec.Hydrations[1])
}

func TestDescribeHydrationScope(t *testing.T) {
	tree := compose.MustSequence(
		compose.MustHydrate(leaf("a"), map[string]any{"k": 1}),
		leaf("b"),
	)
	d := Describe(tree)
	a, _ := d.Skill("a")
	b, _ := d.Skill("b")
	assert.Len(t, a.Hydrations, 1)
	assert.Empty(t, b.Hydrations, "configs only reach their own subtree")
}

func TestDescribeDeduplicatesByIdentity(t *testing.T) {
	shared, err := compose.NewConfig(map[string]any{"env": "prod"})
	require.NoError(t, err)
	h1, _ := compose.HydrateWith(leaf("deploy"), shared)
	h2, _ := compose.HydrateWith(leaf("deploy"), shared)
	h3 := compose.MustHydrate(leaf("deploy"), map[string]any{"env": "prod"})

	d := Describe(compose.MustSequence(h1, h2, h3))

	require.Len(t, d.Skills, 1)
	rec := d.Skills[0]
	require.Len(t, rec.Hydrations, 2, "same object kept once, equal-looking distinct object kept")
	assert.Same(t, shared, rec.Hydrations[0])
	assert.Same(t, h3.Config(), rec.Hydrations[1])
}

func TestDescribeRepeatedSkillKeepsFirstRecord(t *testing.T) {
	first := compose.MustLeaf(compose.SkillDef{Name: "a", Description: "first", Instructions: "one"})
	second := compose.MustLeaf(compose.SkillDef{Name: "a", Description: "second", Instructions: "two"})
	d := Describe(compose.MustConcurrent(first, leaf("b"), second))

	require.Len(t, d.Skills, 2)
	assert.Equal(t, "a", d.Skills[0].Name)
	assert.Equal(t, "first", d.Skills[0].Description)
	assert.Equal(t, "b", d.Skills[1].Name)
}

func TestMaxDepth(t *testing.T) {
	tests := []struct {
		name string
		tree compose.Node
		want int
	}{
		{"leaf", leaf("a"), 1},
		{"sequence of concurrent", compose.MustSequence(compose.MustConcurrent(leaf("a"), leaf("b")), leaf("c")), 3},
		{"branch with deeper else", compose.MustBranch(compose.BranchSpec{
			When: "c",
			Then: leaf("t"),
			Else: compose.MustSequence(leaf("e")),
		}), 3},
		{"hydrated sequence", compose.MustHydrate(compose.MustSequence(leaf("a")), map[string]any{"k": 1}), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.tree).MaxDepth)
		})
	}
}

func TestNestedOutlineIndentation(t *testing.T) {
	tree := compose.MustSequence(compose.MustConcurrent(leaf("a"), leaf("b")), leaf("c"))
	want := "SEQUENCE (execute in order):\n" +
		"  1. PARALLEL (execute concurrently):\n" +
		"       - SKILL: a\n" +
		"       - SKILL: b\n" +
		"  2. SKILL: c"
	assert.Equal(t, want, Describe(tree).Outline)
}

func TestDescribeIsIdempotent(t *testing.T) {
	tree := compose.MustSequence(
		compose.MustConcurrent(leaf("a"), compose.MustHydrate(leaf("b"), map[string]any{"x": 1})),
		compose.MustBranch(compose.BranchSpec{When: "ok", Then: leaf("c")}),
	)
	assert.Equal(t, Describe(tree), Describe(tree))
}

func TestDescribeNil(t *testing.T) {
	d := Describe(nil)
	assert.Empty(t, d.Outline)
	assert.Empty(t, d.Skills)
	assert.Equal(t, 0, d.MaxDepth)
}

func TestPatternSetSorted(t *testing.T) {
	tree := compose.MustBranch(compose.BranchSpec{
		When: "c",
		Then: compose.MustHydrate(compose.MustConcurrent(leaf("a")), map[string]any{"k": 1}),
		Else: compose.MustSequence(leaf("b")),
	})
	d := Describe(tree)
	assert.Equal(t, []Pattern{PatternSequential, PatternParallel, PatternConditional, PatternHydrated}, d.Patterns.Sorted())

	data, err := d.Patterns.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `["sequential","parallel","conditional","hydrated"]`, string(data))
}
