package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/skillweave/pkg/errors"
)

func leaf(name string) *Skill {
	return MustLeaf(SkillDef{Name: name, Instructions: "Do " + name + "."})
}

func TestLeaf(t *testing.T) {
	meta := Metadata{"license": "MIT"}
	s, err := Leaf(SkillDef{
		Name:         "lint",
		Description:  "Run linters",
		Instructions: "Run golangci-lint.",
		Source:       Source{Kind: "local", Location: "./skills/lint"},
		Metadata:     meta,
	})
	require.NoError(t, err)
	assert.Equal(t, KindSkill, s.Kind())
	assert.Equal(t, "lint", s.Name())
	assert.Equal(t, "Run linters", s.Description())
	assert.Equal(t, "Run golangci-lint.", s.Instructions())
	assert.Equal(t, "./skills/lint", s.Source().Location)

	meta["license"] = "changed"
	assert.Equal(t, "MIT", s.Metadata()["license"], "metadata must be copied in")
	s.Metadata()["license"] = "mutated"
	assert.Equal(t, "MIT", s.Metadata()["license"], "metadata must be copied out")
}

func TestLeafValidation(t *testing.T) {
	tests := []struct {
		name string
		def  SkillDef
	}{
		{"missing name", SkillDef{Instructions: "x"}},
		{"blank name", SkillDef{Name: "  ", Instructions: "x"}},
		{"missing instructions", SkillDef{Name: "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Leaf(tt.def)
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidSkill), "got %v", err)
		})
	}
}

func TestSequencePreservesOrder(t *testing.T) {
	a, b, c := leaf("a"), leaf("b"), leaf("c")
	seq, err := NewSequence(a, b, c)
	require.NoError(t, err)
	assert.Equal(t, []Node{a, b, c}, seq.Children())
	assert.Equal(t, 3, seq.Len())
}

func TestConcurrentPreservesOrder(t *testing.T) {
	a, b := leaf("a"), leaf("b")
	con, err := NewConcurrent(b, a)
	require.NoError(t, err)
	assert.Equal(t, []Node{b, a}, con.Children())
}

func TestEmptyChildren(t *testing.T) {
	_, err := NewSequence()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyChildren))
	assert.Equal(t, "EMPTY_CHILDREN: compose.NewSequence: at least one child is required", err.Error())

	_, err = NewConcurrent()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyChildren))
	assert.Contains(t, err.Error(), "compose.NewConcurrent")
}

func TestNilChild(t *testing.T) {
	var typed *Skill
	tests := []struct {
		name string
		fn   func() error
	}{
		{"sequence nil", func() error { _, err := NewSequence(leaf("a"), nil); return err }},
		{"concurrent typed nil", func() error { _, err := NewConcurrent(typed); return err }},
		{"hydrate nil", func() error { _, err := Hydrate(nil, map[string]any{"a": 1}); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.fn(), errors.ErrCodeNilChild))
		})
	}
}

func TestChildrenAreCopied(t *testing.T) {
	children := []Node{leaf("a"), leaf("b")}
	seq := MustSequence(children...)
	children[0] = leaf("z")
	got := seq.Children()
	assert.Equal(t, "a", got[0].(*Skill).Name())

	got[1] = leaf("y")
	assert.Equal(t, "b", seq.Children()[1].(*Skill).Name())
}

func TestBranch(t *testing.T) {
	then, els := leaf("t"), leaf("e")

	b, err := NewBranch(BranchSpec{When: "x==1", Then: then, Else: els})
	require.NoError(t, err)
	assert.Equal(t, "x==1", b.When())
	assert.Same(t, then, b.Then())
	assert.Same(t, els, b.Else())

	b, err = NewBranch(BranchSpec{When: "c", Then: then})
	require.NoError(t, err)
	assert.Nil(t, b.Else())
}

func TestBranchValidation(t *testing.T) {
	_, err := NewBranch(BranchSpec{When: "", Then: leaf("x")})
	assert.True(t, errors.Is(err, errors.ErrCodeMissingCondition))

	_, err = NewBranch(BranchSpec{When: "   ", Then: leaf("x")})
	assert.True(t, errors.Is(err, errors.ErrCodeMissingCondition))

	_, err = NewBranch(BranchSpec{When: "c"})
	assert.True(t, errors.Is(err, errors.ErrCodeMissingThenBranch))

	var typed *Sequence
	_, err = NewBranch(BranchSpec{When: "c", Then: typed})
	assert.True(t, errors.Is(err, errors.ErrCodeMissingThenBranch))
}

func TestHydrate(t *testing.T) {
	values := map[string]any{"a": 1}
	h, err := Hydrate(leaf("s"), values)
	require.NoError(t, err)
	assert.Equal(t, KindHydrated, h.Kind())
	assert.Equal(t, map[string]any{"a": 1}, h.Config().Values())

	values["a"] = 2
	v, ok := h.Config().Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, err = Hydrate(leaf("s"), map[string]any{})
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyHydrationConfig))

	_, err = Hydrate(leaf("s"), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyHydrationConfig))
}

func TestConfigNestedValuesAreIsolated(t *testing.T) {
	nested := map[string]any{"region": "eu"}
	hosts := []any{"a", map[string]any{"name": "b"}}
	cfg, err := NewConfig(map[string]any{"deploy": nested, "hosts": hosts})
	require.NoError(t, err)

	nested["region"] = "us"
	hosts[1].(map[string]any)["name"] = "c"

	out := cfg.Values()
	out["deploy"].(map[string]any)["extra"] = 1
	got, _ := cfg.Get("deploy")
	got.(map[string]any)["region"] = "ap"

	v, ok := cfg.Get("deploy")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"region": "eu"}, v)
	v, _ = cfg.Get("hosts")
	assert.Equal(t, []any{"a", map[string]any{"name": "b"}}, v)
}

func TestLeafNestedMetadataIsIsolated(t *testing.T) {
	owners := map[string]any{"team": "platform"}
	s := MustLeaf(SkillDef{Name: "lint", Instructions: "Lint.", Metadata: Metadata{"owners": owners}})

	owners["team"] = "other"
	s.Metadata()["owners"].(map[string]any)["team"] = "again"

	assert.Equal(t, Metadata{"owners": map[string]any{"team": "platform"}}, s.Metadata())
}

func TestHydrateWithSharesIdentity(t *testing.T) {
	cfg, err := NewConfig(map[string]any{"env": "prod", "region": "eu"})
	require.NoError(t, err)
	assert.Equal(t, []string{"env", "region"}, cfg.Keys())

	h1, err := HydrateWith(leaf("a"), cfg)
	require.NoError(t, err)
	h2, err := HydrateWith(leaf("b"), cfg)
	require.NoError(t, err)
	assert.Same(t, h1.Config(), h2.Config())

	_, err = HydrateWith(leaf("a"), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyHydrationConfig))
}

func TestMustPanics(t *testing.T) {
	assert.Panics(t, func() { MustSequence() })
	assert.Panics(t, func() { MustBranch(BranchSpec{}) })
	assert.Panics(t, func() { MustHydrate(leaf("a"), nil) })
	assert.NotPanics(t, func() { MustConcurrent(leaf("a")) })
}

func TestWalkAndCount(t *testing.T) {
	tree := MustSequence(
		MustConcurrent(leaf("a"), leaf("b")),
		MustBranch(BranchSpec{When: "ok", Then: MustHydrate(leaf("c"), map[string]any{"k": "v"}), Else: leaf("a")}),
	)

	var order []string
	Walk(tree, func(n Node) bool {
		if s, ok := n.(*Skill); ok {
			order = append(order, s.Name())
		} else {
			order = append(order, string(n.Kind()))
		}
		return true
	})
	assert.Equal(t, []string{"sequence", "concurrent", "a", "b", "branch", "hydrated", "c", "a"}, order)

	counts := Count(tree)
	assert.Equal(t, 4, counts[KindSkill])
	assert.Equal(t, 1, counts[KindSequence])
	assert.Equal(t, 1, counts[KindConcurrent])
	assert.Equal(t, 1, counts[KindBranch])
	assert.Equal(t, 1, counts[KindHydrated])

	assert.Len(t, Skills(tree), 4)
}

func TestWalkSkipsSubtree(t *testing.T) {
	tree := MustSequence(MustConcurrent(leaf("a")), leaf("b"))
	var visited int
	Walk(tree, func(n Node) bool {
		visited++
		return n.Kind() != KindConcurrent
	})
	assert.Equal(t, 3, visited)
}

func TestSourceString(t *testing.T) {
	tests := []struct {
		src  Source
		want string
	}{
		{Source{}, ""},
		{Source{Kind: "local", Location: "./skills/lint"}, "./skills/lint"},
		{Source{Kind: "github", Location: "acme/skills/lint", Ref: "v1"}, "github:acme/skills/lint@v1"},
		{Source{Kind: "url", Location: "https://example.com/SKILL.md"}, "https://example.com/SKILL.md"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.src.String())
	}
}
