package httputil

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/skillweave/pkg/cache"
)

// Cache stores JSON-marshalable values in a [cache.Cache] backend.
//
// Keys are derived with the backend's [cache.Keyer] HTTPKey under the
// cache's namespace, so raw keys never collide across data sources. Any
// backend works: files for the CLI, Redis for the server, or the null cache
// to disable caching.
//
// Use [Cache.Namespace] to create scoped views that automatically prefix
// keys:
//
//	gh := c.Namespace("github")
//	web := c.Namespace("url")
//	gh.Set(ctx, "acme/skills/lint@main", doc)
type Cache struct {
	store  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache over store with the given TTL. A nil store
// disables caching; a nil keyer uses [cache.NewDefaultKeyer].
func NewCache(store cache.Cache, keyer cache.Keyer, ttl time.Duration) *Cache {
	if store == nil {
		store = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cache{store: store, keyer: keyer, ttl: ttl}
}

// TTL returns the time-to-live for entries written by Set.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a cached value by key and unmarshals it into v.
//
//   - (true, nil): hit; v holds the value
//   - (false, nil): miss; v is unchanged
//   - (false, err): backend or decoding error
func (c *Cache) Get(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := c.store.Get(ctx, c.key(key))
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set marshals v to JSON and stores it under key with the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.key(key), data, c.ttl)
}

// Namespace returns a view that prefixes all keys with prefix. Calls can be
// chained; the view shares the backend and TTL.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{
		store:  c.store,
		keyer:  c.keyer,
		ttl:    c.ttl,
		prefix: c.prefix + prefix,
	}
}

func (c *Cache) key(key string) string {
	return c.keyer.HTTPKey(c.prefix, key)
}
