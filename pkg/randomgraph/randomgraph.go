// Package randomgraph generates random scale-free graphs for the demo.
//
// [BarabasiAlbert] grows a topology by preferential attachment: every new
// node links to existing nodes with probability proportional to their
// degree, which yields a few hubs and many leaves. [Populate] turns such a
// topology into a [graph.Graph] with fake person names as labels and city
// names as sublabels, sizing every node so both texts fit.
//
// All randomness comes from a seeded [gofakeit.Faker], so equal options
// produce equal graphs.
package randomgraph

import (
	"github.com/brianvoe/gofakeit/v7"

	"github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/style"
)

// Generator defaults.
const (
	DefaultNodes   = 50
	DefaultInitial = 2
	DefaultAttach  = 1
)

// Options configures [BarabasiAlbert].
type Options struct {
	// Nodes is the total number of nodes.
	Nodes int

	// Initial is the size of the fully connected seed graph.
	Initial int

	// Attach is the number of edges every later node brings along.
	Attach int

	// SelfLoopProbability is the chance that a new node also links to
	// itself.
	SelfLoopProbability float64

	Seed uint64
}

// DefaultOptions returns the demo graph settings.
func DefaultOptions() Options {
	return Options{Nodes: DefaultNodes, Initial: DefaultInitial, Attach: DefaultAttach}
}

// WithDefaults fills zero fields with the defaults.
func (o Options) WithDefaults() Options {
	if o.Nodes == 0 {
		o.Nodes = DefaultNodes
	}
	if o.Initial == 0 {
		o.Initial = DefaultInitial
	}
	if o.Attach == 0 {
		o.Attach = DefaultAttach
	}
	return o
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	if err := errors.ValidateNodeCount(o.Nodes); err != nil {
		return err
	}
	if err := errors.ValidateProbability("self-loop probability", o.SelfLoopProbability); err != nil {
		return err
	}
	if o.Initial < 1 || o.Initial > o.Nodes {
		return errors.New(errors.ErrCodeInvalidInput, "initial nodes must be within [1, %d], got %d", o.Nodes, o.Initial)
	}
	if o.Attach < 1 || o.Attach > o.Initial {
		return errors.New(errors.ErrCodeInvalidInput, "attach count must be within [1, %d], got %d", o.Initial, o.Attach)
	}
	return nil
}

// Edge is an edge of a raw topology, referring to node indices.
type Edge struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// Topology is a graph without geometry: nodes are the indices 0..Nodes-1.
type Topology struct {
	Nodes int    `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Degree returns the number of edge ends at node i. Self-loops count twice.
func (t *Topology) Degree(i int) int {
	d := 0
	for _, e := range t.Edges {
		if e.Source == i {
			d++
		}
		if e.Target == i {
			d++
		}
	}
	return d
}

// BarabasiAlbert grows a preferential-attachment topology.
func BarabasiAlbert(opts Options) (*Topology, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	f := gofakeit.New(opts.Seed)
	t := &Topology{Nodes: opts.Nodes}

	// ends holds one entry per edge end, so a uniform pick from it is a
	// degree-proportional pick of a node.
	var ends []int
	link := func(a, b int) {
		t.Edges = append(t.Edges, Edge{Source: a, Target: b})
		ends = append(ends, a, b)
	}

	for i := 0; i < opts.Initial; i++ {
		for j := i + 1; j < opts.Initial; j++ {
			link(j, i)
		}
	}

	for i := opts.Initial; i < opts.Nodes; i++ {
		chosen := make(map[int]bool, opts.Attach)
		targets := make([]int, 0, opts.Attach)
		for len(targets) < opts.Attach {
			var c int
			if len(ends) == 0 {
				c = f.IntN(i)
			} else {
				c = ends[f.IntN(len(ends))]
			}
			if !chosen[c] {
				chosen[c] = true
				targets = append(targets, c)
			}
		}
		for _, c := range targets {
			link(i, c)
		}
		if opts.SelfLoopProbability > 0 && f.Float64() < opts.SelfLoopProbability {
			link(i, i)
		}
	}
	return t, nil
}

// Populate builds a graph from t. Node i gets id i, a fake person name as
// label and a fake city as sublabel; its size fits both texts at labelSize.
// All nodes start at the origin.
func Populate(t *Topology, f *gofakeit.Faker, labelSize float64) (*graph.Graph, error) {
	g := graph.New()
	for i := 0; i < t.Nodes; i++ {
		tag := graph.Tag{ID: i, Label: f.Name(), Sublabel: f.City()}
		w, h := style.NodeSize(tag.Label, tag.Sublabel, labelSize)
		if _, err := g.AddNode(tag, geom.R(0, 0, w, h)); err != nil {
			return nil, err
		}
	}
	for _, e := range t.Edges {
		src, dst := g.Node(e.Source), g.Node(e.Target)
		if src == nil || dst == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge %d->%d refers to a missing node", e.Source, e.Target)
		}
		g.AddEdge(src, dst)
	}
	return g, nil
}

// Generate runs [BarabasiAlbert] and [Populate] with the same seed.
func Generate(opts Options, labelSize float64) (*graph.Graph, error) {
	t, err := BarabasiAlbert(opts)
	if err != nil {
		return nil, err
	}
	return Populate(t, gofakeit.New(opts.Seed), labelSize)
}
