package canvas

import (
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// =============================================================================
// Render Context
// =============================================================================

// DefaultHitTestRadius is the hit tolerance used when a context sets none.
const DefaultHitTestRadius = 3

// Context is passed to every style callback of a render or hit-test pass.
// Optional collaborators are nil when not installed.
type Context struct {
	// Bridges adds bridges to edge paths. Nil disables bridging.
	Bridges *BridgeManager

	// Defs manages shared definitions such as markers.
	Defs *DefsManager

	// HitTestRadius is the tolerance for hit tests in canvas units.
	HitTestRadius float64
}

// DefsID returns the id of the definition created by dc, creating it on
// first use.
func (c *Context) DefsID(dc DefsCreator) string {
	return c.Defs.ID(c, dc)
}

// HitRadius returns the hit-test tolerance, falling back to
// [DefaultHitTestRadius].
func (c *Context) HitRadius() float64 {
	if c == nil || c.HitTestRadius <= 0 {
		return DefaultHitTestRadius
	}
	return c.HitTestRadius
}

// =============================================================================
// Capability Interfaces
// =============================================================================

// VisualCreator creates and updates a visual that is already bound to its
// subject.
type VisualCreator interface {
	CreateVisual(ctx *Context) *Element
	UpdateVisual(ctx *Context, old *Element) *Element
}

// BoundsProvider reports the area a visual occupies.
type BoundsProvider interface {
	Bounds(ctx *Context) geom.Rect
}

// ObstacleProvider supplies the geometry other edges bridge over.
type ObstacleProvider interface {
	Obstacles(ctx *Context) *geom.Path
}

// DefsCreator produces a shared element in the document's defs section.
// Accept reports whether el references the definition with the given id; a
// definition nobody accepts is removed after the render pass.
type DefsCreator interface {
	CreateDefsElement(ctx *Context) *Element
	Accept(ctx *Context, el *Element, id string) bool
	UpdateDefsElement(ctx *Context, el *Element)
}

// Arrow decorates an edge end. Length is the part of the edge the arrow
// covers; CropLength is the extra gap between arrow tip and node outline.
type Arrow interface {
	Length() float64
	CropLength() float64
	VisualCreator(e *graph.Edge, atSource bool, anchor, dir geom.Point) VisualCreator
	BoundsProvider(e *graph.Edge, atSource bool, anchor, dir geom.Point) BoundsProvider
}

// NodeStyle renders nodes. Returning nil from a visual callback means the
// node has no visual.
type NodeStyle interface {
	CreateVisual(ctx *Context, n *graph.Node) *Element
	UpdateVisual(ctx *Context, old *Element, n *graph.Node) *Element
	Bounds(ctx *Context, n *graph.Node) geom.Rect
	IsVisible(ctx *Context, clip geom.Rect, n *graph.Node) bool
	IsHit(ctx *Context, p geom.Point, n *graph.Node) bool
	IsInside(n *graph.Node, p geom.Point) bool
	Outline(n *graph.Node) *geom.Path
}

// EdgeStyle renders edges.
type EdgeStyle interface {
	CreateVisual(ctx *Context, e *graph.Edge) *Element
	UpdateVisual(ctx *Context, old *Element, e *graph.Edge) *Element
	IsVisible(ctx *Context, clip geom.Rect, e *graph.Edge) bool
	IsHit(ctx *Context, p geom.Point, e *graph.Edge) bool
	Bounds(ctx *Context, e *graph.Edge) geom.Rect

	// Path returns the edge geometry cropped at the node outlines.
	Path(e *graph.Edge) *geom.Path

	// ObstacleProvider returns the bridge obstacle source for e, or nil.
	ObstacleProvider(e *graph.Edge) ObstacleProvider
}

// LabelStyle renders the text of a node on top of all nodes.
type LabelStyle interface {
	CreateVisual(ctx *Context, n *graph.Node) *Element
	UpdateVisual(ctx *Context, old *Element, n *graph.Node) *Element
}

// Disposer is implemented by styles that keep per-visual state. The canvas
// calls DisposeVisual when it discards a visual the style created.
type Disposer interface {
	DisposeVisual(el *Element)
}

// =============================================================================
// Arrows Without Visuals
// =============================================================================

// NoArrow draws nothing and crops nothing.
var NoArrow Arrow = InvisibleArrow{}

// InvisibleArrow draws nothing but still shortens the edge by Crop, which
// leaves room for an arrow painted by other means such as an SVG marker.
type InvisibleArrow struct {
	Crop float64
}

func (InvisibleArrow) Length() float64       { return 0 }
func (a InvisibleArrow) CropLength() float64 { return a.Crop }

func (InvisibleArrow) VisualCreator(*graph.Edge, bool, geom.Point, geom.Point) VisualCreator {
	return nil
}

func (InvisibleArrow) BoundsProvider(*graph.Edge, bool, geom.Point, geom.Point) BoundsProvider {
	return nil
}

// =============================================================================
// Side Tables
// =============================================================================

// VisualCache is a side table from visuals to the render data that produced
// them. The zero value is ready to use.
type VisualCache[T any] struct {
	m map[*Element]T
}

func (c *VisualCache[T]) Get(el *Element) (T, bool) {
	v, ok := c.m[el]
	return v, ok
}

func (c *VisualCache[T]) Put(el *Element, v T) {
	if c.m == nil {
		c.m = make(map[*Element]T)
	}
	c.m[el] = v
}

func (c *VisualCache[T]) Delete(el *Element) { delete(c.m, el) }
func (c *VisualCache[T]) Len() int           { return len(c.m) }
