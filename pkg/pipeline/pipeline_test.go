package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/skillweave/pkg/cache"
	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/layout"
	"github.com/matzehuels/skillweave/pkg/observability"
	"github.com/matzehuels/skillweave/pkg/render/textgrid"
	"github.com/matzehuels/skillweave/pkg/source"
	"github.com/matzehuels/skillweave/pkg/synth"
)

// fakeSynth returns a fenced document and counts calls.
type fakeSynth struct {
	calls int32
	text  string
	err   error
}

func (f *fakeSynth) Synthesize(ctx context.Context, req synth.Request) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return "", f.err
	}
	if f.text != "" {
		return f.text, nil
	}
	return "```markdown\n---\nname: " + req.Name + "\n---\n" + req.Composition.Outline + "\n```", nil
}

func (f *fakeSynth) Model() string { return "fake-model" }

// recordingHooks records the pipeline events it receives.
type recordingHooks struct {
	observability.NoopPipelineHooks
	loads  []string
	errs   []error
	synths int
}

func (h *recordingHooks) OnLoadComplete(_ context.Context, path string, _ int, _ time.Duration, err error) {
	h.loads = append(h.loads, path)
	h.errs = append(h.errs, err)
}

func (h *recordingHooks) OnSynthComplete(context.Context, string, int, time.Duration, error) {
	h.synths++
}

func writeComposition(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"skills/lint/SKILL.md":   "---\ndescription: Run linters\n---\nRun golangci-lint.\n",
		"skills/test/SKILL.md":   "---\ndescription: Run tests\n---\nRun go test ./....\n",
		"skills/deploy/SKILL.md": "Deploy to {{env}}.\n",
		"release.yaml": `name: release
description: Lint, test and deploy
skills:
  lint: ./skills/lint
configs:
  prod: { env: production }
root:
  sequence:
    - lint
    - parallel: [./skills/test, lint]
    - branch:
        when: tests pass
        then: { hydrate: { use: prod, node: ./skills/deploy } }
`,
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return filepath.Join(dir, "release.yaml")
}

func newTestRunner(t *testing.T, s synth.Synthesizer) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	return NewRunner(source.NewResolver(source.Options{}), s, c, nil, nil)
}

func TestLoad(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	path := writeComposition(t)
	r := newTestRunner(t, nil)

	c, err := r.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "release", c.Name())
	assert.Equal(t, 3, c.Stats.SkillCount)
	// sequence, lint, parallel, test, lint, branch, hydrated, deploy
	assert.Equal(t, 8, c.Stats.NodeCount)
	assert.Contains(t, c.Configs, "prod")
	assert.Equal(t, []string{path}, hooks.loads)
	assert.NoError(t, hooks.errs[0])

	_, err = r.Load(context.Background(), filepath.Join(filepath.Dir(path), "missing.yaml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
	require.Len(t, hooks.errs, 2)
	assert.Error(t, hooks.errs[1])
}

func TestLoadExampleComposition(t *testing.T) {
	r := newTestRunner(t, nil)
	c, err := r.Load(context.Background(), filepath.Join("..", "..", "examples", "release", "release.yaml"))
	require.NoError(t, err)

	d := r.Describe(context.Background(), c)
	assert.Len(t, d.Skills, 4)
	assert.Equal(t, 4, d.Patterns.Len())
	deploy, ok := d.Skill("deploy")
	require.True(t, ok)
	assert.Len(t, deploy.Hydrations, 2)
}

func TestLoadWithoutResolver(t *testing.T) {
	r := &Runner{}
	_, err := r.Load(context.Background(), writeComposition(t))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestCompositionName(t *testing.T) {
	c := &Composition{Path: "/tmp/flows/ship-it.toml"}
	assert.Equal(t, "ship-it", c.Name())
}

func TestDescribe(t *testing.T) {
	r := newTestRunner(t, nil)
	c, err := r.Load(context.Background(), writeComposition(t))
	require.NoError(t, err)

	d := r.Describe(context.Background(), c)
	require.Len(t, d.Skills, 3)
	assert.Equal(t, "lint", d.Skills[0].Name)
	deploy, ok := d.Skill("deploy")
	require.True(t, ok)
	require.Len(t, deploy.Hydrations, 1)
	assert.Same(t, c.Configs["prod"], deploy.Hydrations[0])
}

func TestRender(t *testing.T) {
	r := newTestRunner(t, nil)
	ctx := context.Background()
	c, err := r.Load(ctx, writeComposition(t))
	require.NoError(t, err)

	text, err := r.Render(ctx, c, RenderOptions{Format: FormatText, Selected: "n1"})
	require.NoError(t, err)
	g := layout.Compute(c.Root, layout.Options{Selected: "n1"})
	assert.Equal(t, textgrid.Render(g).String()+"\n", string(text))

	data, err := r.Render(ctx, c, RenderOptions{Format: FormatJSON})
	require.NoError(t, err)
	var decoded layout.Graph
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Nodes, len(g.Nodes))

	dot, err := r.Render(ctx, c, RenderOptions{Format: FormatDOT})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(dot), "digraph G {"))

	ansi, err := r.Render(ctx, c, RenderOptions{Format: FormatANSI})
	require.NoError(t, err)
	assert.NotEmpty(t, ansi)

	_, err = r.Render(ctx, c, RenderOptions{Format: "png"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = r.Render(ctx, c, RenderOptions{Format: FormatText, Theme: layout.Theme{Skill: "red"}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestRenderSVGIsCached(t *testing.T) {
	r := newTestRunner(t, nil)
	ctx := context.Background()
	c, err := r.Load(ctx, writeComposition(t))
	require.NoError(t, err)

	svg, err := r.Render(ctx, c, RenderOptions{Format: FormatSVG})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	dot, err := r.Render(ctx, c, RenderOptions{Format: FormatDOT})
	require.NoError(t, err)
	key := r.Keyer.ArtifactKey(cache.Hash(dot), cache.ArtifactKeyOpts{Format: FormatSVG})
	stored, hit, err := r.Cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, svg, stored)
}

func TestBuild(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	s := &fakeSynth{}
	r := newTestRunner(t, s)
	ctx := context.Background()
	c, err := r.Load(ctx, writeComposition(t))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "SKILL.md")
	res, err := r.Build(ctx, c, Options{Output: out})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "release", res.Name)
	assert.False(t, res.Cached)
	assert.True(t, strings.HasPrefix(res.Document, "---\nname: release\n---\nSEQUENCE"), res.Document)
	assert.Contains(t, res.Prompt, "Description: Lint, test and deploy")

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, res.Document+"\n", string(written))

	again, err := r.Build(ctx, c, Options{})
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, res.Document, again.Document)
	assert.Empty(t, again.Output)
	assert.NotEqual(t, res.RunID, again.RunID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&s.calls))

	_, err = r.Build(ctx, c, Options{Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&s.calls))
	assert.Equal(t, 2, hooks.synths)

	named, err := r.Build(ctx, c, Options{Name: "ship", Description: "Ship it"})
	require.NoError(t, err)
	assert.Equal(t, "ship", named.Name)
	assert.Contains(t, named.Prompt, "Name: ship\nDescription: Ship it\n")
	assert.Equal(t, int32(3), atomic.LoadInt32(&s.calls), "a different prompt misses the cache")
}

func TestBuildDryRun(t *testing.T) {
	s := &fakeSynth{}
	r := newTestRunner(t, s)
	ctx := context.Background()
	c, err := r.Load(ctx, writeComposition(t))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "SKILL.md")
	res, err := r.Build(ctx, c, Options{Output: out, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, res.Prompt, res.Document)
	assert.Empty(t, res.Output)
	assert.NoFileExists(t, out)
	assert.Zero(t, atomic.LoadInt32(&s.calls))

	r.Synth = nil
	_, err = r.Build(ctx, c, Options{DryRun: true})
	assert.NoError(t, err)
}

func TestBuildErrors(t *testing.T) {
	ctx := context.Background()
	path := writeComposition(t)

	r := newTestRunner(t, nil)
	c, err := r.Load(ctx, path)
	require.NoError(t, err)
	_, err = r.Build(ctx, c, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	r.Synth = &fakeSynth{err: errors.New(errors.ErrCodeRateLimited, "slow down")}
	_, err = r.Build(ctx, c, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeRateLimited))

	r.Synth = &fakeSynth{text: "```\n\n```"}
	_, err = r.Build(ctx, c, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeSynthFailed))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"ansi", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"SVG", true}, // case-sensitive
		{"png", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}
