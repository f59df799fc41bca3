// Package github reads skill documents from GitHub repositories.
//
// # Overview
//
// The client talks to the contents API (https://api.github.com) and returns
// decoded files at a branch, tag or commit. A reference that names a
// directory resolves to the SKILL.md inside it.
//
// # Usage
//
//	client := github.NewClient(token, httpCache)
//
//	doc, err := client.FetchSkill(ctx, "acme", "skills", "release/lint", "v1", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.Content)
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits and to read private repositories. Without a token, the client is
// limited to 60 requests/hour.
//
// # Caching
//
// Responses are cached under the "github" namespace of the [httputil.Cache]
// passed to [NewClient]. Pass refresh=true to bypass the cache.
//
// [httputil.Cache]: github.com/matzehuels/skillweave/pkg/httputil.Cache
package github
