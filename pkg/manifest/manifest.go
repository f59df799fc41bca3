package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/skillweave/pkg/errors"
)

// Format is a composition document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported composition format %q (want .yaml, .yml, .toml or .json)", filepath.Ext(path))
}

// Document is a decoded composition document.
type Document struct {
	Name        string
	Description string
	Skills      map[string]string         // name -> reference
	Configs     map[string]map[string]any // shared hydration configs
	Root        *NodeSpec

	// Dir is the directory relative local references resolve against.
	// Load sets it to the document's directory.
	Dir string
}

type rawDocument struct {
	Name        string                    `mapstructure:"name"`
	Description string                    `mapstructure:"description"`
	Skills      map[string]string         `mapstructure:"skills"`
	Configs     map[string]map[string]any `mapstructure:"configs"`
	Root        any                       `mapstructure:"root"`
}

// Load reads and parses the composition document at path.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "composition %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read composition %s", path)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	doc.Dir = filepath.Dir(abs)
	return doc, nil
}

// Parse decodes a composition document. The bytes are first decoded into a
// generic map, then into the document with mapstructure.
func Parse(data []byte, format Format) (*Document, error) {
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, err
	}

	var rd rawDocument
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &rd,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create decoder")
	}
	if err := dec.Decode(raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode composition")
	}
	if rd.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "composition has no root node")
	}

	root, err := decodeNode(rd.Root, "root")
	if err != nil {
		return nil, err
	}
	return &Document{
		Name:        rd.Name,
		Description: rd.Description,
		Skills:      rd.Skills,
		Configs:     rd.Configs,
		Root:        root,
	}, nil
}

func decodeRaw(data []byte, format Format) (map[string]any, error) {
	var raw map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse YAML")
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse TOML")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse JSON")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported composition format %q", format)
	}
	if raw == nil {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "empty composition document")
	}
	m, _ := normalize(raw).(map[string]any)
	return m, nil
}

// normalize gives every format the same generic shape: string-keyed maps,
// []any lists, int64 integers and float64 fractions.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case uint64:
		return int64(t)
	case float32:
		return float64(t)
	}
	return v
}
