// Package source resolves skill references into skill definitions.
//
// # References
//
// A reference names one skill document:
//
//	./skills/lint                 a directory holding SKILL.md
//	~/skills/review.md            a markdown file
//	file:skills/lint              an explicit local path
//	github:acme/skills/lint@v1    a repository path at a branch, tag or commit
//	https://example.com/lint.md   a document served over HTTP
//
// [ParseRef] validates the syntax; a [Resolver] fetches and parses the
// document. [Router] picks the resolver for a reference's kind and
// [CachedResolver] keeps remote results in a [cache.Cache].
//
// # Skill Documents
//
// Skill documents are markdown with YAML frontmatter:
//
//	---
//	name: lint
//	description: Lint the code base
//	tags: [quality]
//	---
//	Run the linter and fix every warning.
//
// The name and description keys become fields, other keys become metadata
// and the body becomes the instructions. Without a name, the directory name
// (for SKILL.md) or the file stem is used.
//
// [cache.Cache]: github.com/matzehuels/skillweave/pkg/cache.Cache
package source
