package style

import (
	"github.com/matzehuels/cssgraph/pkg/canvas"
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

type nodeRenderData struct {
	x, y          float64
	width, height float64
	cssClass      string
}

// CSSNodeStyle paints nodes as rounded rectangles carrying a CSS class.
// Geometry queries come from the embedded [canvas.NodeStyleBase].
type CSSNodeStyle struct {
	canvas.NodeStyleBase
	CSSClass string

	cache canvas.VisualCache[nodeRenderData]
}

func (s *CSSNodeStyle) CreateVisual(_ *canvas.Context, n *graph.Node) *canvas.Element {
	l := n.Layout
	rect := canvas.NewElement("rect")
	rect.SetAttr("width", geom.Fmt(l.Width))
	rect.SetAttr("height", geom.Fmt(l.Height))
	rect.SetAttr("rx", NodeCornerRadius)
	rect.SetAttr("ry", NodeCornerRadius)
	rect.SetAttr("fill", NodeFill)
	rect.SetAttr("stroke", NodeStroke)
	rect.SetAttr("stroke-width", NodeStrokeWidth)
	if s.CSSClass != "" {
		rect.SetAttr("class", s.CSSClass)
	}
	rect.SetAttr("transform", translate(l.X, l.Y))
	s.cache.Put(rect, nodeRenderData{x: l.X, y: l.Y, width: l.Width, height: l.Height, cssClass: s.CSSClass})
	return rect
}

// UpdateVisual writes only the attributes whose cached value is stale.
func (s *CSSNodeStyle) UpdateVisual(ctx *canvas.Context, old *canvas.Element, n *graph.Node) *canvas.Element {
	c, ok := s.cache.Get(old)
	if old == nil || !ok {
		return s.CreateVisual(ctx, n)
	}
	l := n.Layout
	if c.width != l.Width {
		old.SetAttr("width", geom.Fmt(l.Width))
		c.width = l.Width
	}
	if c.height != l.Height {
		old.SetAttr("height", geom.Fmt(l.Height))
		c.height = l.Height
	}
	if c.x != l.X || c.y != l.Y {
		old.SetAttr("transform", translate(l.X, l.Y))
		c.x, c.y = l.X, l.Y
	}
	if c.cssClass != s.CSSClass {
		if s.CSSClass != "" {
			old.SetAttr("class", s.CSSClass)
		} else {
			old.RemoveAttr("class")
		}
		c.cssClass = s.CSSClass
	}
	s.cache.Put(old, c)
	return old
}

func (s *CSSNodeStyle) DisposeVisual(el *canvas.Element) { s.cache.Delete(el) }

func translate(x, y float64) string {
	return "translate(" + geom.Fmt(x) + " " + geom.Fmt(y) + ")"
}
