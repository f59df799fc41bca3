package manifest

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillweave/pkg/compose"
	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/source"
)

// DefaultConcurrency bounds parallel skill resolution.
const DefaultConcurrency = 8

// Builder turns documents into composition trees.
type Builder struct {
	Resolver    source.Resolver
	Logger      *log.Logger
	Concurrency int
}

// Result is a built composition.
type Result struct {
	Root compose.Node

	// Refs lists the distinct skill references in first-use order.
	Refs []string

	// Configs holds the shared configurations by name. Every use of a
	// name attaches the same object.
	Configs map[string]*compose.Config

	Duration time.Duration
}

// Build resolves doc's skills with r and builds its tree.
func Build(ctx context.Context, doc *Document, r source.Resolver) (*Result, error) {
	return (&Builder{Resolver: r}).Build(ctx, doc)
}

// Build resolves every distinct reference once and builds the tree with
// the compose constructors, whose coded errors are returned unchanged.
func (b *Builder) Build(ctx context.Context, doc *Document) (*Result, error) {
	if doc == nil || doc.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "composition has no root node")
	}
	if b.Resolver == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "manifest.Build: resolver is nil")
	}
	start := time.Now()
	logger := b.Logger
	if logger == nil {
		logger = log.Default()
	}

	refs, order, err := collectRefs(doc)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolving skills", "refs", len(order))

	leaves, err := b.resolve(ctx, refs, order)
	if err != nil {
		return nil, err
	}

	configs := make(map[string]*compose.Config, len(doc.Configs))
	names := make([]string, 0, len(doc.Configs))
	for name := range doc.Configs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cfg, err := compose.NewConfig(doc.Configs[name])
		if err != nil {
			return nil, fmt.Errorf("configs.%s: %w", name, err)
		}
		configs[name] = cfg
	}

	t := &treeBuilder{refs: refs, leaves: leaves, configs: configs}
	root, err := t.build(doc.Root)
	if err != nil {
		return nil, err
	}
	return &Result{
		Root:     root,
		Refs:     order,
		Configs:  configs,
		Duration: time.Since(start),
	}, nil
}

// collectRefs maps every skill name used in doc to its parsed reference.
// Relative local paths are anchored at doc.Dir.
func collectRefs(doc *Document) (map[string]source.Ref, []string, error) {
	byName := make(map[string]source.Ref)
	seen := make(map[string]bool)
	var order []string
	var firstErr error

	doc.Root.Walk(func(n *NodeSpec) {
		if firstErr != nil || n.Kind != compose.KindSkill {
			return
		}
		if _, ok := byName[n.Skill]; ok {
			return
		}
		raw, declared := doc.Skills[n.Skill]
		if !declared {
			raw = n.Skill
		}
		ref, err := source.ParseRef(raw)
		if err != nil {
			if !declared {
				err = errors.Wrap(errors.ErrCodeInvalidRef, err, "skill %q is neither declared in skills nor a reference", n.Skill)
			}
			firstErr = err
			return
		}
		if ref.Kind == source.KindLocal && doc.Dir != "" && !filepath.IsAbs(ref.Path) && !isHome(ref.Path) {
			ref.Path = filepath.Join(doc.Dir, ref.Path)
		}
		byName[n.Skill] = ref
		if key := ref.String(); !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	})
	return byName, order, firstErr
}

func isHome(p string) bool {
	return p == "~" || strings.HasPrefix(p, "~/")
}

// resolve fetches each distinct reference once, in parallel.
func (b *Builder) resolve(ctx context.Context, refs map[string]source.Ref, order []string) (map[string]*compose.Skill, error) {
	byKey := make(map[string]source.Ref, len(order))
	for _, ref := range refs {
		byKey[ref.String()] = ref
	}

	limit := b.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	sem := make(chan struct{}, limit)
	errs := make([]error, len(order))
	skills := make([]*compose.Skill, len(order))

	var wg sync.WaitGroup
	for i, key := range order {
		wg.Add(1)
		go func(i int, ref source.Ref) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}

			def, err := b.Resolver.Resolve(ctx, ref)
			if err != nil {
				errs[i] = err
				return
			}
			skills[i], errs[i] = compose.Leaf(def)
		}(i, byKey[key])
	}
	wg.Wait()

	leaves := make(map[string]*compose.Skill, len(order))
	for i, key := range order {
		if errs[i] != nil {
			return nil, errs[i]
		}
		leaves[key] = skills[i]
	}
	return leaves, nil
}

type treeBuilder struct {
	refs    map[string]source.Ref
	leaves  map[string]*compose.Skill
	configs map[string]*compose.Config
}

func (t *treeBuilder) build(n *NodeSpec) (compose.Node, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case compose.KindSkill:
		return t.leaves[t.refs[n.Skill].String()], nil

	case compose.KindSequence, compose.KindConcurrent:
		children := make([]compose.Node, 0, len(n.Children))
		for _, c := range n.Children {
			child, err := t.build(c)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		if n.Kind == compose.KindSequence {
			return compose.NewSequence(children...)
		}
		return compose.NewConcurrent(children...)

	case compose.KindBranch:
		then, err := t.build(n.Then)
		if err != nil {
			return nil, err
		}
		spec := compose.BranchSpec{When: n.When, Then: then}
		if n.Else != nil {
			if spec.Else, err = t.build(n.Else); err != nil {
				return nil, err
			}
		}
		return compose.NewBranch(spec)

	case compose.KindHydrated:
		child, err := t.build(n.Node)
		if err != nil {
			return nil, err
		}
		if n.Use != "" {
			cfg, ok := t.configs[n.Use]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidManifest, "hydrate: unknown config %q", n.Use)
			}
			return compose.HydrateWith(child, cfg)
		}
		return compose.Hydrate(child, n.Config)
	}
	return nil, errors.New(errors.ErrCodeInvalidManifest, "unsupported node kind %q", n.Kind)
}
