// Package integrations provides HTTP clients for remote skill sources.
//
// # Overview
//
// Skill references may point at GitHub repositories or at plain URLs. The
// GitHub contents API lives in its own subpackage:
//
//   - [github]: skill documents from GitHub repositories at a ref
//
// Plain URLs are fetched directly with [Client.GetText].
//
// # Shared Infrastructure
//
// The [Client] type provides the HTTP plumbing every source uses:
//
//   - Default headers (authentication, accept types)
//   - Response caching through an [httputil.Cache]
//   - Retries with backoff for network errors, 5xx and 429 responses
//   - Request events reported to the registered observability hooks
//
// Status codes map onto sentinel errors: 404 is [ErrNotFound], 401 and 403
// are [ErrUnauthorized], everything else that fails wraps [ErrNetwork].
//
// [github]: github.com/matzehuels/skillweave/pkg/integrations/github
// [httputil.Cache]: github.com/matzehuels/skillweave/pkg/httputil.Cache
package integrations
