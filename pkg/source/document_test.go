package source

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/skillweave/pkg/errors"
)

func TestParseSkillDocument(t *testing.T) {
	doc := `---
name: lint
description: Lint the code base
tags: [quality, ci]
owner:
  team: platform
---

Run the linter.

Fix every warning.
`
	def, err := ParseSkillDocument([]byte(doc), "fallback")
	require.NoError(t, err)

	assert.Equal(t, "lint", def.Name)
	assert.Equal(t, "Lint the code base", def.Description)
	assert.Equal(t, "Run the linter.\n\nFix every warning.", def.Instructions)
	assert.Equal(t, []any{"quality", "ci"}, def.Metadata["tags"])
	assert.Equal(t, map[string]any{"team": "platform"}, def.Metadata["owner"])

	_, err = json.Marshal(def.Metadata)
	assert.NoError(t, err, "metadata must be JSON-encodable")
}

func TestParseSkillDocumentFallbackName(t *testing.T) {
	def, err := ParseSkillDocument([]byte("Just do it.\n"), "deploy")
	require.NoError(t, err)
	assert.Equal(t, "deploy", def.Name)
	assert.Empty(t, def.Description)
	assert.Nil(t, def.Metadata)
	assert.Equal(t, "Just do it.", def.Instructions)

	def, err = ParseSkillDocument([]byte("---\ndescription: Notify the team\n---\nPost to chat.\n"), "notify")
	require.NoError(t, err)
	assert.Equal(t, "notify", def.Name)
	assert.Equal(t, "Notify the team", def.Description)
}

func TestParseSkillDocumentByteOrderMark(t *testing.T) {
	def, err := ParseSkillDocument([]byte("\ufeff---\nname: lint\n---\nRun it.\n"), "x")
	require.NoError(t, err)
	assert.Equal(t, "lint", def.Name)
	assert.Equal(t, "Run it.", def.Instructions)
}

func TestParseSkillDocumentErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		fallback string
	}{
		{"no name", "Do things.\n", ""},
		{"name not a string", "---\nname: [a, b]\n---\nDo things.\n", "x"},
		{"empty body", "---\nname: lint\n---\n\n  \n", "x"},
		{"bad frontmatter", "---\nname: [unclosed\n---\nDo things.\n", "x"},
		{"traversal name", "---\nname: ../etc\n---\nDo things.\n", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSkillDocument([]byte(tt.doc), tt.fallback)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidSkill), "got %v", err)
		})
	}
}

func TestNameFromPath(t *testing.T) {
	tests := map[string]string{
		"/skills/lint/SKILL.md": "lint",
		"lint/skill.md":         "lint",
		"review.md":             "review",
		"/opt/deploy.markdown":  "deploy",
		"SKILL.md":              "",
		"":                      "",
		"/":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NameFromPath(in), in)
	}
}
