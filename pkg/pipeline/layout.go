package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/layout"
	"github.com/matzehuels/cssgraph/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout places the nodes of g without caching. When the Graphviz
// radial layout fails the nodes are arranged on a circle instead, so a
// broken Graphviz installation degrades the picture but not the service.
// The graph itself is not moved.
func ComputeLayout(ctx context.Context, g *graph.Graph, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Layout.Algorithm, g.NodeCount())
	start := time.Now()

	l, err := layout.Compute(ctx, g, opts.Layout)
	if err != nil && opts.Layout.Algorithm == layout.AlgRadial && errors.Is(err, errors.ErrCodeLayoutFailed) {
		opts.Logger.Warn("radial layout failed, falling back to circular", "err", err)
		l, err = layout.Circular(g, opts.Layout.NodeSep), nil
	}

	hooks.OnLayoutComplete(ctx, opts.Layout.Algorithm, time.Since(start), err)
	return l, err
}
