package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillweave/pkg/cache"
	"github.com/matzehuels/skillweave/pkg/compose"
	"github.com/matzehuels/skillweave/pkg/observability"
)

// CachedResolver stores resolved remote skills in a [cache.Cache]. Local
// references always go to the inner resolver so edits show up immediately.
type CachedResolver struct {
	// Refresh skips cache reads; fresh results still overwrite entries.
	Refresh bool

	inner  Resolver
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedResolver wraps inner. A nil keyer uses [cache.NewDefaultKeyer];
// a zero ttl uses [cache.TTLSkill].
func NewCachedResolver(inner Resolver, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *CachedResolver {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl <= 0 {
		ttl = cache.TTLSkill
	}
	return &CachedResolver{inner: inner, cache: c, keyer: keyer, ttl: ttl, logger: logger}
}

type cachedSkill struct {
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Instructions string           `json:"instructions"`
	Source       compose.Source   `json:"source"`
	Metadata     compose.Metadata `json:"metadata,omitempty"`
}

// Resolve implements [Resolver].
func (r *CachedResolver) Resolve(ctx context.Context, ref Ref) (compose.SkillDef, error) {
	if ref.Kind == KindLocal {
		return r.inner.Resolve(ctx, ref)
	}

	key := r.keyer.SkillKey(ref.String())
	hooks := observability.Cache()

	if r.Refresh {
		hooks.OnCacheMiss(ctx, "skill")
		return r.store(ctx, ref, key)
	}

	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		var cs cachedSkill
		if err := json.Unmarshal(data, &cs); err == nil {
			hooks.OnCacheHit(ctx, "skill")
			logger(r.logger).Debug("skill cache hit", "ref", ref.String())
			return compose.SkillDef{
				Name:         cs.Name,
				Description:  cs.Description,
				Instructions: cs.Instructions,
				Source:       cs.Source,
				Metadata:     cs.Metadata,
			}, nil
		}
	} else if err != nil {
		logger(r.logger).Warn("skill cache read failed", "ref", ref.String(), "error", err)
	}
	hooks.OnCacheMiss(ctx, "skill")
	return r.store(ctx, ref, key)
}

func (r *CachedResolver) store(ctx context.Context, ref Ref, key string) (compose.SkillDef, error) {
	def, err := r.inner.Resolve(ctx, ref)
	if err != nil {
		return compose.SkillDef{}, err
	}

	data, err := json.Marshal(cachedSkill{
		Name:         def.Name,
		Description:  def.Description,
		Instructions: def.Instructions,
		Source:       def.Source,
		Metadata:     def.Metadata,
	})
	if err != nil {
		logger(r.logger).Warn("skill not cacheable", "ref", ref.String(), "error", err)
		return def, nil
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		logger(r.logger).Warn("skill cache write failed", "ref", ref.String(), "error", err)
		return def, nil
	}
	observability.Cache().OnCacheSet(ctx, "skill", len(data))
	return def, nil
}
