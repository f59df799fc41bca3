package source

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/matzehuels/skillweave/pkg/compose"
	"github.com/matzehuels/skillweave/pkg/errors"
)

// SkillFile is the document a directory reference resolves to.
const SkillFile = "SKILL.md"

var markdown = goldmark.New(goldmark.WithExtensions(meta.Meta))

// ParseSkillDocument parses a skill document: markdown with optional YAML
// frontmatter. The name and description keys become fields, the remaining
// keys become metadata and the body becomes the instructions. A missing
// name falls back to fallbackName.
func ParseSkillDocument(content []byte, fallbackName string) (compose.SkillDef, error) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	pctx := parser.NewContext()
	var buf bytes.Buffer
	if err := markdown.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return compose.SkillDef{}, errors.Wrap(errors.ErrCodeInvalidSkill, err, "parse skill document")
	}
	front, err := meta.TryGet(pctx)
	if err != nil {
		return compose.SkillDef{}, errors.Wrap(errors.ErrCodeInvalidSkill, err, "parse frontmatter")
	}

	def := compose.SkillDef{Name: fallbackName}
	for k, v := range front {
		switch k {
		case "name":
			s, ok := v.(string)
			if !ok {
				return compose.SkillDef{}, errors.New(errors.ErrCodeInvalidSkill, "frontmatter name must be a string, got %T", v)
			}
			if s = strings.TrimSpace(s); s != "" {
				def.Name = s
			}
		case "description":
			if v != nil {
				def.Description = strings.TrimSpace(fmt.Sprint(v))
			}
		default:
			if def.Metadata == nil {
				def.Metadata = compose.Metadata{}
			}
			def.Metadata[k] = normalize(v)
		}
	}

	if err := errors.ValidateSkillName(def.Name); err != nil {
		return compose.SkillDef{}, err
	}
	def.Instructions = strings.TrimSpace(body(string(content)))
	if def.Instructions == "" {
		return compose.SkillDef{}, errors.New(errors.ErrCodeInvalidSkill, "skill %q has no instructions", def.Name)
	}
	return def, nil
}

// body strips a leading frontmatter block.
func body(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[i+1:], "\n")
		}
	}
	return content
}

// normalize converts the map[any]any values produced by YAML decoding into
// map[string]any so metadata stays JSON-encodable.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	}
	return v
}

// NameFromPath derives a skill name from a document path: the directory
// name for SKILL.md files, the file stem otherwise.
func NameFromPath(p string) string {
	p = strings.TrimSuffix(strings.ReplaceAll(p, "\\", "/"), "/")
	base := path.Base(p)
	if strings.EqualFold(base, SkillFile) {
		dir := path.Base(path.Dir(p))
		if dir == "." || dir == "/" {
			return ""
		}
		return dir
	}
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
