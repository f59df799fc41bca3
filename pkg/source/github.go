package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillweave/pkg/compose"
	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/integrations/github"
)

// GitHubResolver reads skill documents from GitHub repositories.
type GitHubResolver struct {
	Client  *github.Client
	Logger  *log.Logger
	Refresh bool // bypass the HTTP response cache
}

// NewGitHubResolver creates a resolver over client.
func NewGitHubResolver(client *github.Client, logger *log.Logger) *GitHubResolver {
	return &GitHubResolver{Client: client, Logger: logger}
}

// Resolve implements [Resolver]. An empty git ref reads the default branch,
// which is recorded in the skill source.
func (r *GitHubResolver) Resolve(ctx context.Context, ref Ref) (compose.SkillDef, error) {
	if ref.Kind != KindGitHub {
		return compose.SkillDef{}, errors.New(errors.ErrCodeInvalidRef, "not a github reference: %q", ref.Raw)
	}
	start := time.Now()

	gitRef := ref.GitRef
	if gitRef == "" {
		info, err := r.Client.GetRepoInfo(ctx, ref.Owner, ref.Repo)
		if err != nil {
			return compose.SkillDef{}, remoteError(err, ref)
		}
		gitRef = info.DefaultBranch
	}

	fc, err := r.Client.FetchSkill(ctx, ref.Owner, ref.Repo, ref.Path, gitRef, r.Refresh)
	if err != nil {
		return compose.SkillDef{}, remoteError(err, ref)
	}
	logger(r.Logger).Debug("fetched skill", "ref", ref.String(), "path", fc.Path, "sha", fc.SHA, "elapsed", time.Since(start))

	fallback := NameFromPath(fc.Path)
	if fallback == "" {
		fallback = ref.Repo
	}
	def, err := ParseSkillDocument([]byte(fc.Content), fallback)
	if err != nil {
		return compose.SkillDef{}, fmt.Errorf("skill %s: %w", ref.String(), err)
	}
	def.Source = compose.Source{
		Kind:     string(KindGitHub),
		Location: strings.TrimSuffix(ref.Owner+"/"+ref.Repo+"/"+ref.Path, "/"),
		Ref:      gitRef,
	}
	return def, nil
}
