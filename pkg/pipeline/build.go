package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/skillweave/pkg/cache"
	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/observability"
	"github.com/matzehuels/skillweave/pkg/synth"
)

// Build describes c and synthesizes one skill document from it. The
// result is cached by prompt and model unless opts.Refresh is set, and
// written to opts.Output when given. A dry run stops after building the
// prompt and writes nothing.
func (r *Runner) Build(ctx context.Context, c *Composition, opts Options) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := r.logger().With("run", runID[:8])

	req := synth.Request{
		Name:        opts.Name,
		Description: opts.Description,
		Composition: r.Describe(ctx, c),
	}
	if req.Name == "" {
		req.Name = c.Name()
	}
	if req.Description == "" && c.Document != nil {
		req.Description = c.Document.Description
	}

	res := &Result{RunID: runID, Name: req.Name, Prompt: synth.BuildPrompt(req)}
	if opts.DryRun {
		res.Document = res.Prompt
		res.Duration = time.Since(start)
		logger.Info("dry run", "name", req.Name, "prompt_bytes", len(res.Prompt))
		return res, nil
	}
	if r.Synth == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "pipeline: no synthesizer configured")
	}

	doc, cached, err := r.synthesize(ctx, req, res.Prompt, opts.Refresh)
	if err != nil {
		return nil, err
	}
	res.Document, res.Cached = doc, cached

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(doc+"\n"), 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.Output)
		}
		res.Output = opts.Output
	}
	res.Duration = time.Since(start)

	logger.Info("built skill",
		"name", req.Name,
		"bytes", len(doc),
		"cached", cached,
		"output", res.Output,
		"duration", res.Duration)
	return res, nil
}

// synthesize returns the document for req from the cache or the
// synthesizer. Cache failures are logged and otherwise ignored.
func (r *Runner) synthesize(ctx context.Context, req synth.Request, prompt string, refresh bool) (string, bool, error) {
	model, maxTokens := synthIdentity(r.Synth)
	key := r.keyer().SynthKey(prompt, cache.SynthKeyOpts{Model: model, MaxTokens: maxTokens})
	cacheHooks := observability.Cache()

	if !refresh {
		if data, hit, err := r.cache().Get(ctx, key); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, "synth")
			return string(data), true, nil
		}
		cacheHooks.OnCacheMiss(ctx, "synth")
	}

	hooks := observability.Pipeline()
	hooks.OnSynthStart(ctx, model)
	start := time.Now()

	text, err := r.Synth.Synthesize(ctx, req)
	text = synth.StripFences(text)
	if err == nil && text == "" {
		err = errors.New(errors.ErrCodeSynthFailed, "synthesize %s: empty document", req.Name)
	}
	hooks.OnSynthComplete(ctx, model, len(text), time.Since(start), err)
	if err != nil {
		return "", false, err
	}

	if err := r.cache().Set(ctx, key, []byte(text), cache.TTLSynth); err != nil {
		r.logger().Warn("cache write failed", "key", key, "err", err)
	} else {
		cacheHooks.OnCacheSet(ctx, "synth", len(text))
	}
	return text, false, nil
}

// synthIdentity returns the model settings that change a synthesizer's
// output, for cache keys.
func synthIdentity(s synth.Synthesizer) (model string, maxTokens int64) {
	if m, ok := s.(interface{ Model() string }); ok {
		model = m.Model()
	}
	if m, ok := s.(interface{ MaxTokens() int64 }); ok {
		maxTokens = m.MaxTokens()
	}
	if model == "" {
		model = fmt.Sprintf("%T", s)
	}
	return model, maxTokens
}
