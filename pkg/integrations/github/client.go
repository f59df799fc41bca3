package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/matzehuels/skillweave/pkg/httputil"
	"github.com/matzehuels/skillweave/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// SkillFile is the document looked up when a reference names a directory.
const SkillFile = "SKILL.md"

// Client reads skill documents from GitHub repositories through the contents
// API. It handles caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate
// limits). The cache may be nil to disable caching.
func NewClient(token string, cache *httputil.Cache) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	if cache != nil {
		cache = cache.Namespace("github")
	}
	return &Client{
		Client:  integrations.NewClient(cache, headers),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at another API root, such as GitHub
// Enterprise or a test server.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimSuffix(base, "/")
	return c
}

// FetchFile retrieves and decodes one file at ref. An empty ref reads the
// repository default branch. If refresh is true, cached data is bypassed.
func (c *Client) FetchFile(ctx context.Context, owner, repo, filePath, ref string, refresh bool) (*FileContent, error) {
	key := fmt.Sprintf("file:%s/%s/%s@%s", owner, repo, filePath, ref)

	var fc FileContent
	err := c.Cached(ctx, key, refresh, &fc, func() error {
		return c.fetchFile(ctx, owner, repo, filePath, ref, &fc)
	})
	if err != nil {
		return nil, err
	}
	return &fc, nil
}

// FetchSkill retrieves the skill document at dir. A path ending in ".md" is
// read as is; any other path is treated as a directory holding SKILL.md.
func (c *Client) FetchSkill(ctx context.Context, owner, repo, dir, ref string, refresh bool) (*FileContent, error) {
	filePath := SkillPath(dir)
	fc, err := c.FetchFile(ctx, owner, repo, filePath, ref, refresh)
	if errors.Is(err, integrations.ErrNotFound) {
		return nil, fmt.Errorf("%w: github %s/%s/%s", err, owner, repo, filePath)
	}
	return fc, err
}

// SkillPath maps a reference path to the file holding the skill document.
func SkillPath(dir string) string {
	dir = strings.Trim(dir, "/")
	if strings.EqualFold(path.Ext(dir), ".md") {
		return dir
	}
	if dir == "" {
		return SkillFile
	}
	return dir + "/" + SkillFile
}

// ListContents lists files and directories in a repository path at ref.
func (c *Client) ListContents(ctx context.Context, owner, repo, dir, ref string) ([]ContentItem, error) {
	var items []apiContentResponse
	if err := c.Get(ctx, c.contentsURL(owner, repo, dir, ref), &items); err != nil {
		return nil, err
	}
	result := make([]ContentItem, len(items))
	for i, item := range items {
		result[i] = ContentItem{
			Name: item.Name,
			Path: item.Path,
			Type: item.Type,
			Size: item.Size,
		}
	}
	return result, nil
}

// GetRepoInfo retrieves repository metadata.
func (c *Client) GetRepoInfo(ctx context.Context, owner, repo string) (*RepoInfo, error) {
	key := fmt.Sprintf("repo:%s/%s", owner, repo)

	var info RepoInfo
	err := c.Cached(ctx, key, false, &info, func() error {
		u := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))
		return c.Get(ctx, u, &info)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetchFile(ctx context.Context, owner, repo, filePath, ref string, fc *FileContent) error {
	var data apiContentResponse
	if err := c.Get(ctx, c.contentsURL(owner, repo, filePath, ref), &data); err != nil {
		return err
	}
	if data.Type != "" && data.Type != "file" {
		return fmt.Errorf("%w: %s is a %s", integrations.ErrNotFound, filePath, data.Type)
	}
	if data.Encoding != "" && data.Encoding != "base64" {
		return fmt.Errorf("unsupported content encoding %q", data.Encoding)
	}

	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(data.Content, "\n", ""))
	if err != nil {
		return fmt.Errorf("decode content: %w", err)
	}

	*fc = FileContent{
		Path:    data.Path,
		Ref:     ref,
		SHA:     data.SHA,
		Size:    data.Size,
		Content: string(content),
	}
	return nil
}

func (c *Client) contentsURL(owner, repo, p, ref string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), strings.Join(segments, "/"))
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}
	return u
}
