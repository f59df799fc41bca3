package source

import (
	"net/url"
	"strings"

	"github.com/matzehuels/skillweave/pkg/errors"
)

// Kind identifies where a reference points.
type Kind string

const (
	KindLocal  Kind = "local"
	KindGitHub Kind = "github"
	KindURL    Kind = "url"
)

// Ref is a parsed skill reference.
//
//	./skills/lint                    local directory holding SKILL.md
//	~/skills/review.md               local file
//	file:skills/lint                 local, explicit
//	github:acme/skills/lint@v1       GitHub repository path at a ref
//	https://example.com/lint.md      plain URL
//	https://example.com/pack#lint    URL with a path appended
type Ref struct {
	Kind Kind
	Raw  string

	// Path is the local path, the path inside a GitHub repository, or the
	// fragment path of a URL reference.
	Path string

	Owner  string
	Repo   string
	GitRef string

	URL string
}

// ParseRef parses a reference string. It fails with INVALID_REF for empty
// or unrecognized references and malformed GitHub coordinates.
func ParseRef(raw string) (Ref, error) {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return Ref{}, errors.New(errors.ErrCodeInvalidRef, "empty skill reference")
	case strings.HasPrefix(s, "file:"):
		p := strings.TrimPrefix(s, "file:")
		if p == "" {
			return Ref{}, errors.New(errors.ErrCodeInvalidRef, "file reference has no path: %q", raw)
		}
		return Ref{Kind: KindLocal, Raw: raw, Path: p}, nil
	case IsLocalPath(s):
		return Ref{Kind: KindLocal, Raw: raw, Path: s}, nil
	case strings.HasPrefix(s, "github:"):
		return parseGitHub(raw, strings.TrimPrefix(s, "github:"))
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"):
		return parseURL(raw, s)
	default:
		return Ref{}, errors.New(errors.ErrCodeInvalidRef, "unrecognized skill reference: %q", raw)
	}
}

// IsLocalPath reports whether s is written as a filesystem path.
func IsLocalPath(s string) bool {
	switch {
	case s == ".", s == "..", s == "~":
		return true
	case strings.HasPrefix(s, "./"), strings.HasPrefix(s, "../"),
		strings.HasPrefix(s, "/"), strings.HasPrefix(s, "~/"):
		return true
	}
	return false
}

func parseGitHub(raw, s string) (Ref, error) {
	var gitRef string
	if i := strings.LastIndex(s, "@"); i >= 0 {
		s, gitRef = s[:i], s[i+1:]
		if gitRef == "" {
			return Ref{}, errors.New(errors.ErrCodeInvalidRef, "empty git ref in %q", raw)
		}
	}
	parts := strings.SplitN(strings.Trim(s, "/"), "/", 3)
	if len(parts) < 2 {
		return Ref{}, errors.New(errors.ErrCodeInvalidRef, "github reference needs owner/repo: %q", raw)
	}
	if err := errors.ValidateGitHubName("owner", parts[0]); err != nil {
		return Ref{}, err
	}
	if err := errors.ValidateGitHubName("repository", parts[1]); err != nil {
		return Ref{}, err
	}
	r := Ref{Kind: KindGitHub, Raw: raw, Owner: parts[0], Repo: parts[1], GitRef: gitRef}
	if len(parts) == 3 && parts[2] != "" {
		if err := errors.ValidatePath(parts[2]); err != nil {
			return Ref{}, errors.Wrap(errors.ErrCodeInvalidRef, err, "invalid path in %q", raw)
		}
		r.Path = parts[2]
	}
	return r, nil
}

func parseURL(raw, s string) (Ref, error) {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return Ref{}, errors.New(errors.ErrCodeInvalidRef, "invalid URL reference: %q", raw)
	}
	r := Ref{Kind: KindURL, Raw: raw}
	if u.Fragment != "" {
		if err := errors.ValidatePath(u.Fragment); err != nil {
			return Ref{}, errors.Wrap(errors.ErrCodeInvalidRef, err, "invalid path in %q", raw)
		}
		r.Path = u.Fragment
		u.Fragment = ""
	}
	r.URL = u.String()
	return r, nil
}

// String returns the canonical form of the reference. Equal references
// have equal strings.
func (r Ref) String() string {
	switch r.Kind {
	case KindLocal:
		return r.Path
	case KindGitHub:
		s := "github:" + r.Owner + "/" + r.Repo
		if r.Path != "" {
			s += "/" + r.Path
		}
		if r.GitRef != "" {
			s += "@" + r.GitRef
		}
		return s
	case KindURL:
		if r.Path != "" {
			return r.URL + "#" + r.Path
		}
		return r.URL
	}
	return r.Raw
}

// FetchURL returns the address a URL reference is downloaded from: the URL
// itself, or the URL with the fragment path appended.
func (r Ref) FetchURL() string {
	if r.Path == "" {
		return r.URL
	}
	return strings.TrimSuffix(r.URL, "/") + "/" + strings.TrimPrefix(r.Path, "/")
}
