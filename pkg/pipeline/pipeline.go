// Package pipeline provides the composition pipeline shared by the CLI and
// the HTTP server.
//
// This package implements the load → describe → layout/render → synthesize
// chain so that every entry point behaves the same way.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: read a composition document, resolve its skills, build the tree
//  2. Describe: produce the outline and skill records of the tree
//  3. Layout and Render: position the tree and draw it (text, ANSI, JSON,
//     DOT, SVG)
//  4. Build: synthesize one skill document from the description
//
// Each stage can be run independently. Load is the only stage that touches
// the network; Build is the only one that calls the model.
//
// # Usage
//
// Create a Runner and execute the stages:
//
//	runner := pipeline.NewRunner(resolver, synthesizer, cache, nil, logger)
//	c, err := runner.Load(ctx, "release.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	diagram, err := runner.Render(ctx, c, pipeline.RenderOptions{Format: pipeline.FormatText})
//	res, err := runner.Build(ctx, c, pipeline.Options{Output: "SKILL.md"})
package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/matzehuels/skillweave/pkg/compose"
	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/layout"
	"github.com/matzehuels/skillweave/pkg/manifest"
)

// =============================================================================
// Formats
// =============================================================================

// Format constants for rendered diagrams.
const (
	FormatText = "text"
	FormatANSI = "ansi"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported diagram formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatANSI: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Composition
// =============================================================================

// Composition is a loaded composition document and its built tree.
type Composition struct {
	// Path is the document the composition was loaded from.
	Path string

	// Document is the decoded document.
	Document *manifest.Document

	// Root is the built tree.
	Root compose.Node

	// Configs holds the document's shared configurations by name.
	Configs map[string]*compose.Config

	// Refs lists the distinct skill references that were resolved.
	Refs []string

	// Stats contains load statistics.
	Stats Stats
}

// Name returns the document name, or the file name without extension.
func (c *Composition) Name() string {
	if c.Document != nil && c.Document.Name != "" {
		return c.Document.Name
	}
	base := filepath.Base(c.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Stats contains load statistics.
type Stats struct {
	SkillCount int // distinct skill references resolved
	NodeCount  int // nodes in the tree, wrappers included
	LoadTime   time.Duration
}

// =============================================================================
// Options
// =============================================================================

// Options configures a Build.
type Options struct {
	// Name and Description of the synthesized skill. Empty values fall
	// back to the document's.
	Name        string
	Description string

	// Output is the file the document is written to. Empty means the
	// document is only returned.
	Output string

	// DryRun builds the prompt without calling the synthesizer.
	DryRun bool

	// Refresh bypasses the synthesis cache.
	Refresh bool
}

// Result contains the outputs of a Build.
type Result struct {
	RunID    string
	Name     string
	Prompt   string
	Document string // the synthesized document; the prompt on a dry run
	Output   string // the file written, if any
	Cached   bool   // the document came from the cache
	Duration time.Duration
}

// RenderOptions configures a Render.
type RenderOptions struct {
	Format   string
	Selected string          // node ID to highlight
	Theme    layout.Theme    // zero value means layout.DefaultTheme
	Detailed bool            // DOT and SVG: add node type and ID to labels
	Profile  termenv.Profile // ANSI: color profile
}

// ValidateFormat checks that format is a supported diagram format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be text, ansi, json, dot, or svg)", format)
	}
	return nil
}
