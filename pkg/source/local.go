package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillweave/pkg/compose"
	"github.com/matzehuels/skillweave/pkg/errors"
)

// LocalResolver reads skill documents from the filesystem. Relative paths
// are resolved against Base, usually the directory of the composition
// document; an empty Base means the working directory.
type LocalResolver struct {
	Base   string
	Logger *log.Logger
}

// Resolve implements [Resolver].
func (r *LocalResolver) Resolve(ctx context.Context, ref Ref) (compose.SkillDef, error) {
	if err := ctx.Err(); err != nil {
		return compose.SkillDef{}, err
	}
	p, err := r.path(ref.Path)
	if err != nil {
		return compose.SkillDef{}, err
	}

	info, err := os.Stat(p)
	if err != nil {
		return compose.SkillDef{}, notFound(err, ref, p)
	}
	if info.IsDir() {
		p = filepath.Join(p, SkillFile)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return compose.SkillDef{}, notFound(err, ref, p)
	}
	logger(r.Logger).Debug("read skill", "path", p, "bytes", len(data))

	def, err := ParseSkillDocument(data, NameFromPath(p))
	if err != nil {
		return compose.SkillDef{}, fmt.Errorf("skill %s: %w", p, err)
	}
	def.Source = compose.Source{Kind: string(KindLocal), Location: p}
	return def, nil
}

func (r *LocalResolver) path(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "expand %q", p)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	if !filepath.IsAbs(p) && r.Base != "" {
		p = filepath.Join(r.Base, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %q", p)
	}
	return abs, nil
}

func notFound(err error, ref Ref, p string) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeSkillNotFound, err, "skill %q not found at %s", ref.Raw, p)
	}
	return errors.Wrap(errors.ErrCodeFileNotFound, err, "read skill %q", ref.Raw)
}

func logger(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
