package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillweave/pkg/cache"
	"github.com/matzehuels/skillweave/pkg/compose"
	"github.com/matzehuels/skillweave/pkg/describe"
	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/manifest"
	"github.com/matzehuels/skillweave/pkg/observability"
	"github.com/matzehuels/skillweave/pkg/source"
	"github.com/matzehuels/skillweave/pkg/synth"
)

// Runner executes pipeline stages with shared resolution, synthesis and
// caching. Both CLI and server use it.
//
// The Runner is stateless except for its collaborators: it doesn't store
// compositions. Multiple goroutines can safely use the same Runner.
type Runner struct {
	Resolver    source.Resolver
	Synth       synth.Synthesizer
	Cache       cache.Cache
	Keyer       cache.Keyer
	Logger      *log.Logger
	Concurrency int // parallel skill resolution; 0 means manifest.DefaultConcurrency
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The synthesizer may be nil for runners that never Build.
func NewRunner(r source.Resolver, s synth.Synthesizer, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Resolver: r,
		Synth:    s,
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
	}
}

// Load reads the composition document at path, resolves its skills and
// builds the tree.
func (r *Runner) Load(ctx context.Context, path string) (*Composition, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	c, err := r.load(ctx, path)

	skills := 0
	if c != nil {
		skills = c.Stats.SkillCount
	}
	hooks.OnLoadComplete(ctx, path, skills, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	c.Stats.LoadTime = time.Since(start)
	r.logger().Info("loaded composition",
		"path", path,
		"skills", c.Stats.SkillCount,
		"nodes", c.Stats.NodeCount,
		"duration", c.Stats.LoadTime)
	return c, nil
}

func (r *Runner) load(ctx context.Context, path string) (*Composition, error) {
	if r.Resolver == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "pipeline: no skill resolver configured")
	}
	doc, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	b := &manifest.Builder{Resolver: r.Resolver, Logger: r.logger(), Concurrency: r.Concurrency}
	res, err := b.Build(ctx, doc)
	if err != nil {
		return nil, err
	}

	nodes := 0
	for _, n := range compose.Count(res.Root) {
		nodes += n
	}
	return &Composition{
		Path:     path,
		Document: doc,
		Root:     res.Root,
		Configs:  res.Configs,
		Refs:     res.Refs,
		Stats: Stats{
			SkillCount: len(res.Refs),
			NodeCount:  nodes,
		},
	}, nil
}

// Describe returns the description of c.
func (r *Runner) Describe(ctx context.Context, c *Composition) *describe.Description {
	start := time.Now()
	d := describe.Describe(c.Root)
	observability.Pipeline().OnDescribe(ctx, len(d.Skills), d.MaxDepth, time.Since(start))
	return d
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

func (r *Runner) keyer() cache.Keyer {
	if r.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return r.Keyer
}

func (r *Runner) cache() cache.Cache {
	if r.Cache == nil {
		return cache.NewNullCache()
	}
	return r.Cache
}
