// Package httputil provides HTTP utilities for the remote skill resolvers.
//
// # Overview
//
//   - [Cache]: JSON response caching over any [cache.Cache] backend
//   - [Retry]: automatic retry with exponential backoff
//
// # Caching
//
// [Cache] namespaces keys per data source and stores values with a fixed
// TTL:
//
//	c := httputil.NewCache(store, nil, 24*time.Hour).Namespace("github")
//	var doc contentResponse
//	if ok, _ := c.Get(ctx, "acme/skills/lint@main", &doc); !ok {
//	    doc = fetch()
//	    _ = c.Set(ctx, "acme/skills/lint@main", doc)
//	}
//
// # Retry
//
// [Retry] re-runs an operation only when it fails with a [RetryableError].
// HTTP clients wrap transient failures (network errors, 5xx, 429) in it and
// return everything else unwrapped, so a 404 fails immediately.
package httputil
