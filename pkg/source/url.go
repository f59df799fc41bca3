package source

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillweave/pkg/compose"
	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/httputil"
	"github.com/matzehuels/skillweave/pkg/integrations"
)

// URLResolver downloads skill documents with a plain HTTP GET.
type URLResolver struct {
	Client *integrations.Client
	Logger *log.Logger
}

// NewURLResolver creates a resolver over client. A nil client gets a
// default one without response caching.
func NewURLResolver(client *integrations.Client, logger *log.Logger) *URLResolver {
	if client == nil {
		client = integrations.NewClient(nil, map[string]string{"Accept": "text/markdown, text/plain, */*"})
	}
	return &URLResolver{Client: client, Logger: logger}
}

// Resolve implements [Resolver].
func (r *URLResolver) Resolve(ctx context.Context, ref Ref) (compose.SkillDef, error) {
	if ref.Kind != KindURL {
		return compose.SkillDef{}, errors.New(errors.ErrCodeInvalidRef, "not a URL reference: %q", ref.Raw)
	}
	target := ref.FetchURL()
	start := time.Now()

	var text string
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		text, err = r.Client.GetText(ctx, target)
		return err
	})
	if err != nil {
		return compose.SkillDef{}, remoteError(err, ref)
	}
	logger(r.Logger).Debug("fetched skill", "url", target, "bytes", len(text), "elapsed", time.Since(start))

	fallback := ""
	if u, err := url.Parse(target); err == nil {
		fallback = NameFromPath(u.Path)
	}
	def, err := ParseSkillDocument([]byte(text), fallback)
	if err != nil {
		return compose.SkillDef{}, fmt.Errorf("skill %s: %w", target, err)
	}
	def.Source = compose.Source{Kind: string(KindURL), Location: target}
	return def, nil
}
