package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/skillweave/pkg/layout"
	"github.com/matzehuels/skillweave/pkg/observability"
)

// Layout positions the tree of c. Layout never fails.
func (r *Runner) Layout(ctx context.Context, c *Composition, opts layout.Options) *layout.Graph {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, c.Stats.NodeCount)
	start := time.Now()

	g := layout.Compute(c.Root, opts)

	hooks.OnLayoutComplete(ctx, time.Since(start), nil)
	r.logger().Debug("computed layout",
		"boxes", len(g.Nodes),
		"width", g.Width,
		"height", g.Height)
	return g
}
