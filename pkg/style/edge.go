package style

import (
	"github.com/matzehuels/cssgraph/pkg/canvas"
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

type edgeRenderData struct {
	path         *geom.Path
	obstacleHash uint64
}

// CSSEdgeStyle paints edges as SVG paths carrying a CSS class.
//
// Self-loops without explicit routing get a rectilinear loop around the top
// left corner of their node, all other edges follow their bends with rounded
// corners. Target arrows are either a shared SVG marker or, for browsers with
// unreliable marker support, explicit [CSSArrow] elements next to the path.
// Create instances with [NewCSSEdgeStyle].
type CSSEdgeStyle struct {
	CSSClass         string
	ShowTargetArrows bool

	// UseMarkerArrows selects marker-end arrows. It only takes effect when
	// BadMarkerSupport is false.
	UseMarkerArrows bool

	// BadMarkerSupport is the browser classification of the session, see
	// package useragent.
	BadMarkerSupport bool

	hiddenArrow   canvas.Arrow
	fallbackArrow *CSSArrow
	markerDefs    *MarkerDefsSupport
	cache         canvas.VisualCache[edgeRenderData]
}

// NewCSSEdgeStyle returns a style that shows target arrows as explicit
// elements.
func NewCSSEdgeStyle() *CSSEdgeStyle {
	return &CSSEdgeStyle{
		ShowTargetArrows: true,
		hiddenArrow:      canvas.InvisibleArrow{Crop: MarkerCropLength},
		fallbackArrow:    NewCSSArrow(),
	}
}

func (s *CSSEdgeStyle) markerArrows() bool {
	return !s.BadMarkerSupport && s.UseMarkerArrows
}

// targetArrow is the arrow whose length the rendered path leaves free.
func (s *CSSEdgeStyle) targetArrow() canvas.Arrow {
	switch {
	case !s.ShowTargetArrows:
		return canvas.NoArrow
	case s.markerArrows():
		return s.hiddenArrow
	default:
		return s.fallbackArrow
	}
}

func (s *CSSEdgeStyle) cropRenderedPath(e *graph.Edge, p *geom.Path) *geom.Path {
	return canvas.CropPath(e, canvas.NoArrow, s.targetArrow(), p)
}

// CreateVisual builds either a path with a marker reference or a group with
// the path and explicit arrows. It returns nil when nothing of the edge
// remains after cropping.
func (s *CSSEdgeStyle) CreateVisual(ctx *canvas.Context, e *graph.Edge) *canvas.Element {
	renderPath := s.cropRenderedPath(e, s.createPath(e))
	if renderPath.IsEmpty() {
		return nil
	}

	gp := s.pathWithBridges(ctx, renderPath)
	path := canvas.NewElement("path")
	path.SetAttr("d", gp.SVGData())
	path.SetAttr("fill", "none")
	path.SetAttr("stroke", EdgeColor)
	if s.CSSClass != "" {
		path.SetAttr("class", s.CSSClass)
		s.fallbackArrow.CSSClass = s.CSSClass + ArrowClassSuffix
	}

	data := edgeRenderData{path: renderPath, obstacleHash: s.obstacleHash(ctx)}
	if s.markerArrows() {
		if s.ShowTargetArrows {
			path.SetAttr("marker-end", "url(#"+ctx.DefsID(s.marker())+")")
		}
		s.cache.Put(path, data)
		return path
	}

	container := canvas.NewElement("g")
	container.AppendChild(path)
	if s.ShowTargetArrows {
		canvas.AddArrows(ctx, container, e, gp, canvas.NoArrow, s.fallbackArrow)
	}
	s.cache.Put(container, data)
	return container
}

// UpdateVisual rewrites the path data only when the cropped path or the
// obstacle hash differ from the cached render data. Without markers the
// arrows are rebuilt alongside the path.
func (s *CSSEdgeStyle) UpdateVisual(ctx *canvas.Context, old *canvas.Element, e *graph.Edge) *canvas.Element {
	if old == nil {
		return s.CreateVisual(ctx, e)
	}
	renderPath := s.createPath(e)
	if renderPath.IsEmpty() {
		return nil
	}
	renderPath = s.cropRenderedPath(e, renderPath)
	hash := s.obstacleHash(ctx)

	c, ok := s.cache.Get(old)
	if !ok || old.Tag() != s.visualTag() {
		return s.CreateVisual(ctx, e)
	}
	if renderPath.Equal(c.path) && c.obstacleHash == hash {
		return old
	}

	s.cache.Put(old, edgeRenderData{path: renderPath, obstacleHash: hash})
	gp := s.pathWithBridges(ctx, renderPath)
	if s.markerArrows() {
		old.SetAttr("d", gp.SVGData())
		if !s.ShowTargetArrows {
			old.RemoveAttr("marker-end")
		} else if ref := "url(#" + ctx.DefsID(s.marker()) + ")"; ref != attrValue(old, "marker-end") {
			old.SetAttr("marker-end", ref)
		}
		return old
	}

	old.FirstChild().SetAttr("d", gp.SVGData())
	for old.ChildCount() > 1 {
		last := old.LastChild()
		old.RemoveChild(last)
		s.fallbackArrow.DisposeVisual(last)
	}
	if s.ShowTargetArrows {
		canvas.AddArrows(ctx, old, e, gp, canvas.NoArrow, s.fallbackArrow)
	}
	return old
}

func attrValue(el *canvas.Element, name string) string {
	v, _ := el.Attr(name)
	return v
}

func (s *CSSEdgeStyle) visualTag() string {
	if s.markerArrows() {
		return "path"
	}
	return "g"
}

// DisposeVisual forgets the render data of a discarded visual and its
// arrows.
func (s *CSSEdgeStyle) DisposeVisual(el *canvas.Element) {
	s.cache.Delete(el)
	for _, c := range el.Children() {
		s.fallbackArrow.DisposeVisual(c)
	}
}

// isPrettySelfLoop reports whether e is drawn as a rectilinear loop.
func isPrettySelfLoop(e *graph.Edge) bool {
	return e.IsSelfLoop() && len(e.Bends) < 2
}

// loopCorner returns the outer corner of a self-loop: the single bend if
// there is one, otherwise a point diagonally off the node's top-left corner.
func loopCorner(e *graph.Edge) geom.Point {
	if len(e.Bends) == 1 {
		return e.Bends[0]
	}
	l := e.Source.Owner.Layout
	return geom.Pt(l.X-SelfLoopDistance, l.Y-SelfLoopDistance)
}

// createPath returns the uncropped edge geometry.
func (s *CSSEdgeStyle) createPath(e *graph.Edge) *geom.Path {
	if !isPrettySelfLoop(e) {
		return canvas.PolylinePath(e).Smoothed(SmoothingLength)
	}
	outer := loopCorner(e)
	src, tgt := e.Source.Location(), e.Target.Location()
	p := geom.NewPath(5)
	p.MoveTo(src)
	p.LineTo(geom.Pt(outer.X, src.Y))
	p.LineTo(outer)
	p.LineTo(geom.Pt(tgt.X, outer.Y))
	p.LineTo(tgt)
	return p
}

// Path returns the edge geometry cropped at the node outlines, without
// room for arrows.
func (s *CSSEdgeStyle) Path(e *graph.Edge) *geom.Path {
	return canvas.CropPath(e, canvas.NoArrow, canvas.NoArrow, s.createPath(e))
}

func (s *CSSEdgeStyle) pathWithBridges(ctx *canvas.Context, p *geom.Path) *geom.Path {
	if ctx == nil || ctx.Bridges == nil {
		return p
	}
	return ctx.Bridges.AddBridges(ctx, p)
}

// obstacleHash identifies the obstacle state, or is a constant when bridges
// are off.
func (s *CSSEdgeStyle) obstacleHash(ctx *canvas.Context) uint64 {
	if ctx == nil || ctx.Bridges == nil {
		return NoBridgesObstacleHash
	}
	return ctx.Bridges.ObstacleHash(ctx)
}

func (s *CSSEdgeStyle) marker() *MarkerDefsSupport {
	if s.markerDefs == nil {
		s.markerDefs = &MarkerDefsSupport{CSSClass: s.CSSClass}
	}
	return s.markerDefs
}

// IsHit tests against the cropped path with a slightly enlarged radius.
func (s *CSSEdgeStyle) IsHit(ctx *canvas.Context, p geom.Point, e *graph.Edge) bool {
	path := s.Path(e)
	if !isPrettySelfLoop(e) && !canvas.PathHit(ctx, p, path) {
		return false
	}
	return path != nil && path.Contains(p, ctx.HitRadius()+HitTestSlack)
}

// IsVisible tests self-loops segment by segment and all other edges by
// their bounds.
func (s *CSSEdgeStyle) IsVisible(ctx *canvas.Context, clip geom.Rect, e *graph.Edge) bool {
	if !isPrettySelfLoop(e) {
		return s.Bounds(ctx, e).Intersects(clip)
	}
	spl, tpl := e.Source.Location(), e.Target.Location()
	if clip.Contains(spl) {
		return true
	}
	outer := loopCorner(e)
	a := geom.Pt(outer.X, spl.Y)
	b := geom.Pt(tpl.X, outer.Y)
	return clip.IntersectsLine(spl, a) ||
		clip.IntersectsLine(a, outer) ||
		clip.IntersectsLine(outer, b) ||
		clip.IntersectsLine(b, tpl)
}

// Bounds covers the rendered path and its target arrow.
func (s *CSSEdgeStyle) Bounds(ctx *canvas.Context, e *graph.Edge) geom.Rect {
	target := s.targetArrow()
	p := s.cropRenderedPath(e, s.createPath(e))
	return canvas.PathBounds(ctx, e, p, canvas.NoArrow, target)
}

// ObstacleProvider exposes the edge path to the bridge manager.
func (s *CSSEdgeStyle) ObstacleProvider(e *graph.Edge) canvas.ObstacleProvider {
	return &BasicEdgeObstacleProvider{Edge: e, Style: s}
}
