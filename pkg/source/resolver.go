package source

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/skillweave/pkg/compose"
	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/integrations"
)

// Resolver turns a reference into a skill definition.
type Resolver interface {
	Resolve(ctx context.Context, ref Ref) (compose.SkillDef, error)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(ctx context.Context, ref Ref) (compose.SkillDef, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, ref Ref) (compose.SkillDef, error) {
	return f(ctx, ref)
}

// Router dispatches references to the resolver for their kind. A nil
// resolver makes that kind unsupported.
type Router struct {
	Local  Resolver
	GitHub Resolver
	URL    Resolver
}

// Resolve implements [Resolver].
func (r *Router) Resolve(ctx context.Context, ref Ref) (compose.SkillDef, error) {
	var next Resolver
	switch ref.Kind {
	case KindLocal:
		next = r.Local
	case KindGitHub:
		next = r.GitHub
	case KindURL:
		next = r.URL
	}
	if next == nil {
		return compose.SkillDef{}, errors.New(errors.ErrCodeUnsupported, "no resolver for %s reference %q", ref.Kind, ref.Raw)
	}
	return next.Resolve(ctx, ref)
}

// ResolveString parses raw and resolves it.
func ResolveString(ctx context.Context, r Resolver, raw string) (compose.SkillDef, error) {
	ref, err := ParseRef(raw)
	if err != nil {
		return compose.SkillDef{}, err
	}
	return r.Resolve(ctx, ref)
}

// remoteError maps transport errors onto error codes.
func remoteError(err error, ref Ref) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) {
		return err
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "fetch %q", ref.String())
	}
	if errors.GetCode(err) != "" {
		return err
	}
	var rl *errors.RateLimitedError
	switch {
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.Wrap(errors.ErrCodeSkillNotFound, err, "skill %q not found", ref.String())
	case stderrors.Is(err, integrations.ErrUnauthorized):
		return errors.Wrap(errors.ErrCodeUnauthorized, err, "access denied for %q", ref.String())
	case stderrors.As(err, &rl):
		return errors.Wrap(errors.ErrCodeRateLimited, err, "fetch %q", ref.String())
	case stderrors.Is(err, integrations.ErrTimeout):
		return errors.Wrap(errors.ErrCodeTimeout, err, "fetch %q", ref.String())
	case stderrors.Is(err, integrations.ErrNetwork):
		return errors.Wrap(errors.ErrCodeNetwork, err, "fetch %q", ref.String())
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "fetch %q", ref.String())
}
