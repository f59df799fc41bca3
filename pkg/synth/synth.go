// Package synth turns a described composition into a single skill document.
//
// A [Synthesizer] receives the [describe.Description] of a composition
// together with the target name and description, and returns the text of
// the composed skill. [AnthropicSynthesizer] asks a Claude model to write
// it; [PromptOnly] returns the prompt itself and is used for dry runs.
//
// The only post-processing applied to model output is [StripFences], which
// removes a single wrapping code fence.
package synth

import (
	"context"
	"strings"

	"github.com/matzehuels/skillweave/pkg/describe"
	"github.com/matzehuels/skillweave/pkg/errors"
)

// Request describes the skill to synthesize.
type Request struct {
	Name        string
	Description string
	Composition *describe.Description
}

func (r Request) validate() error {
	if r.Composition == nil {
		return errors.New(errors.ErrCodeInvalidInput, "synth: request has no composition")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "synth: request has no target name")
	}
	return nil
}

// Synthesizer writes a skill document from a described composition.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (string, error)
}

// PromptOnly is a Synthesizer that returns the prompt it would send.
type PromptOnly struct{}

// Synthesize returns [BuildPrompt] for req.
func (PromptOnly) Synthesize(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := req.validate(); err != nil {
		return "", err
	}
	return BuildPrompt(req), nil
}

// StripFences removes one code fence wrapping the whole text, as models
// sometimes return the document inside ``` or ```markdown. Fences with any
// other language tag, and text that is not fully wrapped, are left alone.
// Surrounding whitespace is always trimmed.
func StripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") || !strings.HasSuffix(t, "```") {
		return t
	}
	nl := strings.IndexByte(t, '\n')
	if nl < 0 || nl > len(t)-3 {
		return t
	}
	switch strings.ToLower(strings.TrimSpace(t[3:nl])) {
	case "", "markdown", "md":
	default:
		return t
	}
	return strings.TrimSpace(t[nl+1 : len(t)-3])
}
