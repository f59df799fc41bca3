package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/skillweave/pkg/cache"
	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/layout"
	"github.com/matzehuels/skillweave/pkg/observability"
	"github.com/matzehuels/skillweave/pkg/render/nodelink"
	"github.com/matzehuels/skillweave/pkg/render/textgrid"
)

// Render lays out c and draws it in opts.Format.
func (r *Runner) Render(ctx context.Context, c *Composition, opts RenderOptions) ([]byte, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	if err := opts.Theme.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "render")
	}
	g := r.Layout(ctx, c, layout.Options{Selected: opts.Selected, Theme: opts.Theme})
	return r.RenderGraph(ctx, g, opts)
}

// RenderGraph draws an already positioned graph. Only SVG output is
// cached; it is keyed by the DOT source it is rendered from.
func (r *Runner) RenderGraph(ctx context.Context, g *layout.Graph, opts RenderOptions) ([]byte, error) {
	switch opts.Format {
	case FormatText:
		return []byte(textgrid.Render(g).String() + "\n"), nil

	case FormatANSI:
		var buf bytes.Buffer
		if err := textgrid.Render(g).WriteANSI(&buf, opts.Profile); err != nil {
			return nil, fmt.Errorf("render ansi: %w", err)
		}
		return buf.Bytes(), nil

	case FormatJSON:
		data, err := layout.Marshal(g)
		if err != nil {
			return nil, fmt.Errorf("serialize layout: %w", err)
		}
		return data, nil

	case FormatDOT:
		return []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})), nil

	case FormatSVG:
		return r.renderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed}))
	}
	return nil, ValidateFormat(opts.Format)
}

func (r *Runner) renderSVG(ctx context.Context, dot string) ([]byte, error) {
	key := r.keyer().ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{Format: FormatSVG})
	hooks := observability.Cache()

	if data, hit, err := r.cache().Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, "artifact")
		return data, nil
	}
	hooks.OnCacheMiss(ctx, "artifact")

	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	if err := r.cache().Set(ctx, key, svg, cache.TTLArtifact); err == nil {
		hooks.OnCacheSet(ctx, "artifact", len(svg))
	} else {
		r.logger().Warn("cache write failed", "key", key, "err", err)
	}
	return svg, nil
}
