package canvas

import (
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// NodeStyleBase implements the geometric part of [NodeStyle] for rectangular
// nodes. Embed it and add the visual callbacks.
type NodeStyleBase struct{}

func (NodeStyleBase) Bounds(_ *Context, n *graph.Node) geom.Rect { return n.Layout }

func (NodeStyleBase) IsVisible(_ *Context, clip geom.Rect, n *graph.Node) bool {
	return clip.Intersects(n.Layout)
}

// IsHit accepts points inside the layout grown by the hit radius.
func (NodeStyleBase) IsHit(ctx *Context, p geom.Point, n *graph.Node) bool {
	return n.Layout.Grow(ctx.HitRadius()).Contains(p)
}

func (NodeStyleBase) IsInside(n *graph.Node, p geom.Point) bool { return n.Layout.Contains(p) }

// Outline returns the closed rectangle of the node layout.
func (NodeStyleBase) Outline(n *graph.Node) *geom.Path {
	r := n.Layout
	p := geom.NewPath(5)
	p.MoveTo(geom.Pt(r.X, r.Y))
	p.LineTo(geom.Pt(r.MaxX(), r.Y))
	p.LineTo(geom.Pt(r.MaxX(), r.MaxY()))
	p.LineTo(geom.Pt(r.X, r.MaxY()))
	p.Close()
	return p
}
