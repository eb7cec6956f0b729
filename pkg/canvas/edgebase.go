package canvas

import (
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// Shared building blocks for edge styles. Styles compose these instead of
// inheriting them, which keeps every override explicit.

// PolylinePath returns the straight path from the source port through all
// bends to the target port.
func PolylinePath(e *graph.Edge) *geom.Path {
	p := geom.NewPath(len(e.Bends) + 2)
	p.MoveTo(e.Source.Location())
	for _, b := range e.Bends {
		p.LineTo(b)
	}
	p.LineTo(e.Target.Location())
	return p
}

// CropPath clips p at the layouts of the source and target nodes and then
// shortens each end by the space its arrow needs.
func CropPath(e *graph.Edge, sourceArrow, targetArrow Arrow, p *geom.Path) *geom.Path {
	src, dst := geom.EmptyRect, geom.EmptyRect
	if e.Source.Owner != nil {
		src = e.Source.Owner.Layout
	}
	if e.Target.Owner != nil {
		dst = e.Target.Owner.Layout
	}
	out := p.ClipToRects(src, dst)
	if d := sourceArrow.Length() + sourceArrow.CropLength(); d > 0 {
		out = out.CropStart(d)
	}
	if d := targetArrow.Length() + targetArrow.CropLength(); d > 0 {
		out = out.CropEnd(d)
	}
	return out
}

// arrowPlacement returns where an arrow sits on p: the tip position and the
// direction it points in.
func arrowPlacement(p *geom.Path, a Arrow, atSource bool) (anchor, dir geom.Point, ok bool) {
	var at geom.Point
	if atSource {
		at, dir, ok = p.StartTangent()
	} else {
		at, dir, ok = p.EndTangent()
	}
	if !ok {
		return geom.Point{}, geom.Point{}, false
	}
	return at.Add(dir.Scale(a.Length())), dir, true
}

// AddArrows creates the arrow visuals for both ends of p and appends them to
// container.
func AddArrows(ctx *Context, container *Element, e *graph.Edge, p *geom.Path, sourceArrow, targetArrow Arrow) {
	for _, end := range []struct {
		arrow    Arrow
		atSource bool
	}{{sourceArrow, true}, {targetArrow, false}} {
		anchor, dir, ok := arrowPlacement(p, end.arrow, end.atSource)
		if !ok {
			continue
		}
		vc := end.arrow.VisualCreator(e, end.atSource, anchor, dir)
		if vc == nil {
			continue
		}
		if v := vc.CreateVisual(ctx); v != nil {
			container.AppendChild(v)
		}
	}
}

// PathBounds returns the bounds of p including the arrows at its ends.
func PathBounds(ctx *Context, e *graph.Edge, p *geom.Path, sourceArrow, targetArrow Arrow) geom.Rect {
	r := p.Bounds()
	for _, end := range []struct {
		arrow    Arrow
		atSource bool
	}{{sourceArrow, true}, {targetArrow, false}} {
		anchor, dir, ok := arrowPlacement(p, end.arrow, end.atSource)
		if !ok {
			continue
		}
		if bp := end.arrow.BoundsProvider(e, end.atSource, anchor, dir); bp != nil {
			r = r.Union(bp.Bounds(ctx))
		}
	}
	return r
}

// PathVisible reports whether p passes through clip. The bounds are
// checked first; the outline is only walked when they overlap.
func PathVisible(clip geom.Rect, p *geom.Path) bool {
	if !p.Bounds().Grow(1).Intersects(clip) {
		return false
	}
	return p.IntersectsRect(clip.Grow(1))
}

// PathHit reports whether pt is within the context's hit radius of p.
func PathHit(ctx *Context, pt geom.Point, p *geom.Path) bool {
	return p.Contains(pt, ctx.HitRadius())
}
