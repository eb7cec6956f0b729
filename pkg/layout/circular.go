package layout

import (
	"math"

	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// Circular places the nodes of g on one circle in id order, with at least
// nodeSep between the bounding circles of neighbors. The circle's bounding
// box starts at the origin.
func Circular(g *graph.Graph, nodeSep float64) graph.Layout {
	l := graph.Layout{
		Algorithm: AlgCircular,
		Positions: make(map[int]geom.Point, g.NodeCount()),
		Bends:     make([][]geom.Point, g.EdgeCount()),
	}
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return l
	}

	var circumference, maxDiag float64
	for _, n := range nodes {
		d := math.Hypot(n.Layout.Width, n.Layout.Height)
		circumference += d + nodeSep
		maxDiag = max(maxDiag, d)
	}
	r := circumference / (2 * math.Pi)
	if len(nodes) == 1 {
		r = 0
	}
	off := r + maxDiag/2

	var acc float64
	for _, n := range nodes {
		d := math.Hypot(n.Layout.Width, n.Layout.Height) + nodeSep
		angle := 2*math.Pi*(acc+d/2)/circumference - math.Pi/2
		acc += d
		c := geom.Pt(off+r*math.Cos(angle), off+r*math.Sin(angle))
		l.Positions[n.Tag.ID] = geom.Pt(c.X-n.Layout.Width/2, c.Y-n.Layout.Height/2)
	}
	return l
}
