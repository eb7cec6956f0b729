package style

import (
	"sync"

	"github.com/matzehuels/cssgraph/pkg/canvas"
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// arrowFigure is the arrow outline in arrow-local coordinates: the tip at the
// origin, pointing along +x.
var arrowFigure = sync.OnceValue(func() string {
	p := geom.NewPath(4)
	p.MoveTo(geom.Pt(-7.5, -2.5))
	p.LineTo(geom.Pt(0, 0))
	p.LineTo(geom.Pt(-7.5, 2.5))
	p.Close()
	return p.SVGData()
})

type arrowRenderData struct {
	anchor    geom.Point
	direction geom.Point
}

// CSSArrow is an arrow painted as an SVG path carrying a CSS class.
//
// Like a flyweight, the arrow is configured with an anchor and a direction by
// VisualCreator or BoundsProvider and then returns itself. It is therefore
// not safe for concurrent use.
type CSSArrow struct {
	CSSClass string

	anchor    geom.Point
	direction geom.Point
	cache     canvas.VisualCache[arrowRenderData]
}

// NewCSSArrow returns an arrow with the default class.
func NewCSSArrow() *CSSArrow {
	return &CSSArrow{CSSClass: DefaultArrowClass, direction: geom.Pt(1, 0)}
}

func (a *CSSArrow) Length() float64     { return ArrowLength }
func (a *CSSArrow) CropLength() float64 { return ArrowCropLength }

func (a *CSSArrow) VisualCreator(_ *graph.Edge, _ bool, anchor, dir geom.Point) canvas.VisualCreator {
	a.anchor, a.direction = anchor, dir
	return a
}

func (a *CSSArrow) BoundsProvider(_ *graph.Edge, _ bool, anchor, dir geom.Point) canvas.BoundsProvider {
	a.anchor, a.direction = anchor, dir
	return a
}

// CreateVisual paints the arrow figure rotated into the configured direction
// with its tip on the anchor.
func (a *CSSArrow) CreateVisual(*canvas.Context) *canvas.Element {
	el := canvas.NewElement("path")
	el.SetAttr("d", arrowFigure())
	el.SetAttr("fill", EdgeColor)
	if a.CSSClass != "" {
		el.SetAttr("class", a.CSSClass)
	}
	el.SetAttr("transform", a.transform())
	a.cache.Put(el, arrowRenderData{anchor: a.anchor, direction: a.direction})
	return el
}

// UpdateVisual rewrites the transform only if anchor or direction moved.
func (a *CSSArrow) UpdateVisual(ctx *canvas.Context, old *canvas.Element) *canvas.Element {
	c, ok := a.cache.Get(old)
	if !ok {
		return a.CreateVisual(ctx)
	}
	if c.anchor != a.anchor || c.direction != a.direction {
		old.SetAttr("transform", a.transform())
		a.cache.Put(old, arrowRenderData{anchor: a.anchor, direction: a.direction})
	}
	return old
}

// Bounds returns a fixed square at the anchor regardless of direction.
func (a *CSSArrow) Bounds(*canvas.Context) geom.Rect {
	return geom.R(a.anchor.X-ArrowBoundsOffset, a.anchor.Y-ArrowBoundsOffset, ArrowBoundsSize, ArrowBoundsSize)
}

func (a *CSSArrow) DisposeVisual(el *canvas.Element) { a.cache.Delete(el) }

func (a *CSSArrow) transform() string {
	d, p := a.direction, a.anchor
	return "matrix(" + geom.Fmt(d.X) + " " + geom.Fmt(d.Y) + " " + geom.Fmt(-d.Y) + " " +
		geom.Fmt(d.X) + " " + geom.Fmt(p.X) + " " + geom.Fmt(p.Y) + ")"
}
