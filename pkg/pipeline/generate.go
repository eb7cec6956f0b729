package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/observability"
	"github.com/matzehuels/cssgraph/pkg/randomgraph"
)

// =============================================================================
// Graph Generation
// =============================================================================

// Generate grows the random graph described by opts without caching.
// All nodes start at the origin, sized for their labels.
func Generate(ctx context.Context, opts Options) (*graph.Graph, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Generator.Nodes)
	start := time.Now()

	g, err := randomgraph.Generate(opts.Generator, opts.LabelSize)

	nodes, edges := 0, 0
	if g != nil {
		nodes, edges = g.NodeCount(), g.EdgeCount()
	}
	hooks.OnGenerateComplete(ctx, nodes, edges, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("grew random graph",
		"seed", opts.Generator.Seed,
		"self_loops", countSelfLoops(g))
	return g, nil
}

func countSelfLoops(g *graph.Graph) int {
	n := 0
	for _, e := range g.Edges() {
		if e.IsSelfLoop() {
			n++
		}
	}
	return n
}
