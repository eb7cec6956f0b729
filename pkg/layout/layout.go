package layout

import (
	"context"

	"github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// Algorithm names.
const (
	AlgRadial   = "radial"
	AlgCircular = "circular"
	AlgNone     = "none"
)

// Options configures [Compute].
type Options struct {
	Algorithm string

	// RankSep is the distance between rings of the radial layout.
	RankSep float64

	// NodeSep is the minimum gap between neighbors on a circle.
	NodeSep float64
}

// Layout defaults in canvas units.
const (
	DefaultRankSep = 110.0
	DefaultNodeSep = 20.0
)

// DefaultOptions returns the radial layout used by the demo.
func DefaultOptions() Options {
	return Options{Algorithm: AlgRadial, RankSep: DefaultRankSep, NodeSep: DefaultNodeSep}
}

// WithDefaults fills zero fields with the defaults.
func (o Options) WithDefaults() Options {
	if o.Algorithm == "" {
		o.Algorithm = AlgRadial
	}
	if o.RankSep <= 0 {
		o.RankSep = DefaultRankSep
	}
	if o.NodeSep <= 0 {
		o.NodeSep = DefaultNodeSep
	}
	return o
}

// Compute runs the layout algorithm named in opts on g. The graph itself is
// not modified; use [graph.Layout.Apply].
func Compute(ctx context.Context, g *graph.Graph, opts Options) (graph.Layout, error) {
	opts = opts.WithDefaults()
	if err := errors.ValidateLayout(opts.Algorithm); err != nil {
		return graph.Layout{}, err
	}
	switch opts.Algorithm {
	case AlgRadial:
		l, err := Radial(ctx, g, opts.RankSep)
		if err != nil {
			return graph.Layout{}, errors.Wrap(errors.ErrCodeLayoutFailed, err, "radial layout of %d nodes", g.NodeCount())
		}
		return l, nil
	case AlgCircular:
		return Circular(g, opts.NodeSep), nil
	default:
		return graph.CaptureLayout(g, AlgNone), nil
	}
}
