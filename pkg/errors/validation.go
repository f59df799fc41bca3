package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// skillNameRegex matches skill names: lowercase words joined by '-', '_' or '.',
// optionally namespaced with '/' (e.g. "acme/release-notes").
var skillNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*(/[A-Za-z0-9][A-Za-z0-9._-]*)*$`)

// ValidateSkillName validates a skill name for safety and correctness.
// Names end up in prompts, file names and diagram labels, so the rules are
// conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (..)
//   - Maximum length of 128 characters
func ValidateSkillName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidSkill, "skill name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidSkill, "skill name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSkill, "skill name contains invalid control characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidSkill, "skill name cannot contain %q", "..")
	}

	if !skillNameRegex.MatchString(name) {
		return New(ErrCodeInvalidSkill, "invalid skill name: %q", name)
	}

	return nil
}

// ValidatePath validates a file path within a repository for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// githubNameRegex matches GitHub owner and repository names.
var githubNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateGitHubName validates a GitHub owner or repository name.
func ValidateGitHubName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidRef, "GitHub %s cannot be empty", kind)
	}
	if len(name) > 100 || !githubNameRegex.MatchString(name) || strings.Contains(name, "..") {
		return New(ErrCodeInvalidRef, "invalid GitHub %s: %q", kind, name)
	}
	return nil
}
