package source

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillweave/pkg/cache"
	"github.com/matzehuels/skillweave/pkg/httputil"
	"github.com/matzehuels/skillweave/pkg/integrations"
	"github.com/matzehuels/skillweave/pkg/integrations/github"
)

// Options configure [NewResolver].
type Options struct {
	GitHubToken   string
	GitHubBaseURL string // empty for api.github.com

	// Cache stores resolved remote skills; nil disables skill caching.
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration

	// HTTPCache stores raw API responses below the skill cache.
	HTTPCache *httputil.Cache

	// Refresh bypasses both caches for reads; results are still written.
	Refresh bool

	Logger *log.Logger
}

// NewResolver builds the standard resolver: a [Router] over local, GitHub
// and URL resolvers, wrapped in a [CachedResolver] when a cache is set.
func NewResolver(opts Options) Resolver {
	gh := github.NewClient(opts.GitHubToken, opts.HTTPCache)
	if opts.GitHubBaseURL != "" {
		gh.WithBaseURL(opts.GitHubBaseURL)
	}
	ghResolver := NewGitHubResolver(gh, opts.Logger)
	ghResolver.Refresh = opts.Refresh

	router := &Router{
		Local:  &LocalResolver{Logger: opts.Logger},
		GitHub: ghResolver,
		URL:    NewURLResolver(integrations.NewClient(nil, nil), opts.Logger),
	}
	if opts.Cache == nil {
		return router
	}
	cached := NewCachedResolver(router, opts.Cache, opts.Keyer, opts.TTL, opts.Logger)
	cached.Refresh = opts.Refresh
	return cached
}
