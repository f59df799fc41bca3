package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/skillweave/pkg/cache"
	"github.com/matzehuels/skillweave/pkg/httputil"
	"github.com/matzehuels/skillweave/pkg/integrations"
)

const lintSkill = "---\nname: lint\ndescription: Lint the code\n---\nRun the linter.\n"

func skillServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/repos/acme/skills/contents/lint/SKILL.md":
			if got := r.URL.Query().Get("ref"); got != "v1" {
				t.Errorf("ref = %q, want v1", got)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer secret" {
				t.Errorf("Authorization = %q", got)
			}
			json.NewEncoder(w).Encode(apiContentResponse{
				Name:     "SKILL.md",
				Path:     "lint/SKILL.md",
				SHA:      "abc123",
				Type:     "file",
				Size:     len(lintSkill),
				Content:  base64.StdEncoding.EncodeToString([]byte(lintSkill)),
				Encoding: "base64",
			})
		case "/repos/acme/skills/contents/skills":
			json.NewEncoder(w).Encode([]apiContentResponse{
				{Name: "lint", Path: "skills/lint", Type: "dir"},
				{Name: "README.md", Path: "skills/README.md", Type: "file", Size: 10},
			})
		case "/repos/acme/skills":
			json.NewEncoder(w).Encode(RepoInfo{FullName: "acme/skills", DefaultBranch: "main"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchSkill(t *testing.T) {
	server := skillServer(t, nil)
	c := NewClient("secret", nil).WithBaseURL(server.URL)

	fc, err := c.FetchSkill(context.Background(), "acme", "skills", "lint", "v1", false)
	if err != nil {
		t.Fatalf("FetchSkill() error: %v", err)
	}
	if fc.Content != lintSkill {
		t.Errorf("Content = %q, want %q", fc.Content, lintSkill)
	}
	if fc.Path != "lint/SKILL.md" || fc.Ref != "v1" || fc.SHA != "abc123" {
		t.Errorf("unexpected file metadata: %+v", fc)
	}
}

func TestFetchSkillNotFound(t *testing.T) {
	server := skillServer(t, nil)
	c := NewClient("secret", nil).WithBaseURL(server.URL)

	_, err := c.FetchSkill(context.Background(), "acme", "skills", "missing", "v1", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchSkillUsesCache(t *testing.T) {
	var hits int32
	server := skillServer(t, &hits)

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient("secret", httputil.NewCache(store, nil, time.Hour)).WithBaseURL(server.URL)

	ctx := context.Background()
	for range 3 {
		if _, err := c.FetchSkill(ctx, "acme", "skills", "lint", "v1", false); err != nil {
			t.Fatalf("FetchSkill() error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}

	if _, err := c.FetchSkill(ctx, "acme", "skills", "lint", "v1", true); err != nil {
		t.Fatalf("FetchSkill(refresh) error: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("server hits after refresh = %d, want 2", got)
	}
}

func TestListContents(t *testing.T) {
	server := skillServer(t, nil)
	c := NewClient("", nil).WithBaseURL(server.URL)

	items, err := c.ListContents(context.Background(), "acme", "skills", "skills", "")
	if err != nil {
		t.Fatalf("ListContents() error: %v", err)
	}
	if len(items) != 2 || items[0].Type != "dir" || items[1].Name != "README.md" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestGetRepoInfo(t *testing.T) {
	server := skillServer(t, nil)
	c := NewClient("", nil).WithBaseURL(server.URL)

	info, err := c.GetRepoInfo(context.Background(), "acme", "skills")
	if err != nil {
		t.Fatalf("GetRepoInfo() error: %v", err)
	}
	if info.DefaultBranch != "main" {
		t.Errorf("DefaultBranch = %q, want main", info.DefaultBranch)
	}

	_, err = c.GetRepoInfo(context.Background(), "acme", "nope")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSkillPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"lint", "lint/SKILL.md"},
		{"skills/lint/", "skills/lint/SKILL.md"},
		{"docs/review.md", "docs/review.md"},
		{"README.MD", "README.MD"},
		{"", "SKILL.md"},
	}
	for _, tt := range tests {
		if got := SkillPath(tt.in); got != tt.want {
			t.Errorf("SkillPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContentsURLEscapesSegments(t *testing.T) {
	c := NewClient("", nil).WithBaseURL("https://ghe.example.com/api/v3/")
	got := c.contentsURL("acme", "skills", "my skills/lint", "feature/x")
	want := "https://ghe.example.com/api/v3/repos/acme/skills/contents/my%20skills/lint?ref=feature%2Fx"
	if got != want {
		t.Errorf("contentsURL() = %q, want %q", got, want)
	}
}
