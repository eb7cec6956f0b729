package layout

import (
	"time"

	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// Morph defaults.
const (
	DefaultMorphDuration = time.Second
	DefaultFrameRate     = 30
)

// FrameCount returns the number of frames for an animation of duration d
// at fps frames per second, at least one.
func FrameCount(d time.Duration, fps int) int {
	return max(1, int(d.Seconds()*float64(fps)))
}

// Ease maps linear progress t in [0, 1] to ease-in-out progress.
func Ease(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	return t * t * (3 - 2*t)
}

// Interpolate returns the layout the fraction t of the way from from to to.
// Nodes missing in from start at their target. Bends are interpolated when
// an edge has the same number of bends in both layouts and otherwise switch
// to the target bends at the end.
func Interpolate(from, to graph.Layout, t float64) graph.Layout {
	out := graph.Layout{
		Algorithm: to.Algorithm,
		Positions: make(map[int]geom.Point, len(to.Positions)),
	}
	for id, b := range to.Positions {
		a, ok := from.Positions[id]
		if !ok {
			a = b
		}
		out.Positions[id] = a.Lerp(b, t)
	}

	if len(from.Bends) != len(to.Bends) {
		if t >= 1 {
			out.Bends = to.Bends
		}
		return out
	}
	out.Bends = make([][]geom.Point, len(to.Bends))
	for i := range to.Bends {
		a, b := from.Bends[i], to.Bends[i]
		switch {
		case len(a) == len(b):
			out.Bends[i] = make([]geom.Point, len(b))
			for j := range b {
				out.Bends[i][j] = a[j].Lerp(b[j], t)
			}
		case t >= 1:
			out.Bends[i] = b
		default:
			out.Bends[i] = a
		}
	}
	return out
}

// Frames returns n eased layouts from from to to. The last frame equals to.
func Frames(from, to graph.Layout, n int) []graph.Layout {
	n = max(1, n)
	out := make([]graph.Layout, n)
	for i := range n {
		out[i] = Interpolate(from, to, Ease(float64(i+1)/float64(n)))
	}
	return out
}
