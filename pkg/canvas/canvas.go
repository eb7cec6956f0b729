package canvas

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sync"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// DefaultMargin is the space kept around the graph in the view box.
const DefaultMargin = 20

// Options configures a [Canvas].
type Options struct {
	NodeStyle  NodeStyle
	EdgeStyle  EdgeStyle
	LabelStyle LabelStyle // optional

	// Bridges enables edge bridges when non-nil.
	Bridges *BridgeManager

	HitTestRadius float64

	// CSS is embedded as a style element at the top of the document.
	CSS string

	// Margin around the graph bounds; DefaultMargin when zero.
	Margin float64
}

// RenderStats summarizes one render pass.
type RenderStats struct {
	Created  int
	Updated  int
	Replaced int
	Removed  int
	Culled   int
}

// Hit is the result of a hit test. At most one field is set.
type Hit struct {
	Node *graph.Node
	Edge *graph.Edge
}

// Canvas is a retained SVG scene for one graph. Each pass walks every item,
// asks its style to create or update the visual, and keeps the element tree
// in sync. A Canvas serializes its own passes; the styles it calls are
// therefore never invoked concurrently.
type Canvas struct {
	mu    sync.Mutex
	graph *graph.Graph
	opts  Options
	ctx   *Context
	rec   *Recorder

	root       *Element
	defs       *Element
	edgeLayer  *Element
	nodeLayer  *Element
	labelLayer *Element

	edges  map[*graph.Edge]*Element
	nodes  map[*graph.Node]*Element
	labels map[*graph.Node]*Element

	viewport geom.Rect
	viewBox  [4]int
}

// New creates a canvas for g. Nothing is rendered until [Canvas.Render].
func New(g *graph.Graph, opts Options) *Canvas {
	if opts.Margin == 0 {
		opts.Margin = DefaultMargin
	}
	c := &Canvas{
		graph:      g,
		opts:       opts,
		rec:        &Recorder{},
		root:       NewElement("svg"),
		defs:       NewElement("defs"),
		edgeLayer:  NewElement("g"),
		nodeLayer:  NewElement("g"),
		labelLayer: NewElement("g"),
		edges:      make(map[*graph.Edge]*Element),
		nodes:      make(map[*graph.Node]*Element),
		labels:     make(map[*graph.Node]*Element),
		viewport:   geom.EmptyRect,
	}
	c.edgeLayer.SetAttr("class", "cg-edges")
	c.nodeLayer.SetAttr("class", "cg-nodes")
	c.labelLayer.SetAttr("class", "cg-labels")
	for _, layer := range []*Element{c.defs, c.edgeLayer, c.nodeLayer, c.labelLayer} {
		c.root.AppendChild(layer)
	}
	c.rec.attach(c.root)

	c.ctx = &Context{
		Bridges:       opts.Bridges,
		Defs:          NewDefsManager(c.defs, "cg-def-"),
		HitTestRadius: opts.HitTestRadius,
	}
	return c
}

func (c *Canvas) Graph() *graph.Graph { return c.graph }
func (c *Canvas) Context() *Context   { return c.ctx }

// Recorder returns the write recorder of the element tree.
func (c *Canvas) Recorder() *Recorder { return c.rec }

// SetViewport limits rendering to items visible in r. [geom.EmptyRect]
// disables culling.
func (c *Canvas) SetViewport(r geom.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = r
}

// NodeVisual returns the current visual of n, or nil.
func (c *Canvas) NodeVisual(n *graph.Node) *Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nodes[n]
}

// EdgeVisual returns the current visual of e, or nil.
func (c *Canvas) EdgeVisual(e *graph.Edge) *Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.edges[e]
}

// Render brings the element tree up to date with the graph.
func (c *Canvas) Render() RenderStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var st RenderStats
	clip := c.viewport
	if clip.IsEmpty() {
		clip = geom.R(-math.MaxFloat32, -math.MaxFloat32, 2*math.MaxFloat32, 2*math.MaxFloat32)
	}

	if c.ctx.Bridges != nil {
		providers := make([]ObstacleProvider, 0, c.graph.EdgeCount())
		for _, e := range c.graph.Edges() {
			providers = append(providers, c.opts.EdgeStyle.ObstacleProvider(e))
		}
		c.ctx.Bridges.Refresh(c.ctx, providers)
	}

	es := c.opts.EdgeStyle
	for _, e := range c.graph.Edges() {
		reconcile(c.edgeLayer, c.edges, e, &st, es,
			es.IsVisible(c.ctx, clip, e),
			func() *Element { return es.CreateVisual(c.ctx, e) },
			func(old *Element) *Element { return es.UpdateVisual(c.ctx, old, e) })
	}

	ns := c.opts.NodeStyle
	for _, n := range c.graph.Nodes() {
		reconcile(c.nodeLayer, c.nodes, n, &st, ns,
			ns.IsVisible(c.ctx, clip, n),
			func() *Element { return ns.CreateVisual(c.ctx, n) },
			func(old *Element) *Element { return ns.UpdateVisual(c.ctx, old, n) })
	}

	if ls := c.opts.LabelStyle; ls != nil {
		for _, n := range c.graph.Nodes() {
			reconcile(c.labelLayer, c.labels, n, &st, ls,
				ns.IsVisible(c.ctx, clip, n),
				func() *Element { return ls.CreateVisual(c.ctx, n) },
				func(old *Element) *Element { return ls.UpdateVisual(c.ctx, old, n) })
		}
	}

	c.ctx.Defs.Cleanup(c.ctx, c.root)
	c.updateViewBox()
	return st
}

// reconcile applies one item's visual lifecycle to layer.
func reconcile[T comparable](layer *Element, visuals map[T]*Element, item T, st *RenderStats,
	style any, visible bool, create func() *Element, update func(*Element) *Element) {
	old := visuals[item]
	if !visible {
		if old != nil {
			layer.RemoveChild(old)
			dispose(style, old)
			delete(visuals, item)
			st.Removed++
		}
		st.Culled++
		return
	}
	if old == nil {
		if v := create(); v != nil {
			layer.AppendChild(v)
			visuals[item] = v
			st.Created++
		}
		return
	}
	v := update(old)
	switch {
	case v == nil:
		layer.RemoveChild(old)
		dispose(style, old)
		delete(visuals, item)
		st.Removed++
	case v != old:
		layer.ReplaceChild(old, v)
		dispose(style, old)
		visuals[item] = v
		st.Replaced++
	default:
		st.Updated++
	}
}

func dispose(style any, el *Element) {
	if d, ok := style.(Disposer); ok {
		d.DisposeVisual(el)
	}
}

// bounds returns the area covered by all nodes and edges.
func (c *Canvas) bounds() geom.Rect {
	r := geom.EmptyRect
	for _, n := range c.graph.Nodes() {
		r = r.Union(c.opts.NodeStyle.Bounds(c.ctx, n))
	}
	for _, e := range c.graph.Edges() {
		r = r.Union(c.opts.EdgeStyle.Bounds(c.ctx, e))
	}
	return r
}

func (c *Canvas) updateViewBox() {
	b := c.bounds()
	if b.IsEmpty() {
		b = geom.R(0, 0, 0, 0)
	}
	b = b.Grow(c.opts.Margin)
	x, y := int(math.Floor(b.X)), int(math.Floor(b.Y))
	vb := [4]int{x, y, int(math.Ceil(b.MaxX())) - x, int(math.Ceil(b.MaxY())) - y}
	if vb == c.viewBox {
		return
	}
	c.viewBox = vb
	c.rec.record(Mutation{Kind: MutViewBox, Target: c.root.eid, Value: fmt.Sprintf("%d %d %d %d", vb[0], vb[1], vb[2], vb[3])})
}

// ViewBox returns the view box of the last render as x, y, width, height.
func (c *Canvas) ViewBox() [4]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewBox
}

// HitTest returns the topmost item at p. Nodes are above edges.
func (c *Canvas) HitTest(p geom.Point) Hit {
	c.mu.Lock()
	defer c.mu.Unlock()
	nodes := c.graph.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if c.opts.NodeStyle.IsHit(c.ctx, p, nodes[i]) {
			return Hit{Node: nodes[i]}
		}
	}
	edges := c.graph.Edges()
	for i := len(edges) - 1; i >= 0; i-- {
		if c.opts.EdgeStyle.IsHit(c.ctx, p, edges[i]) {
			return Hit{Edge: edges[i]}
		}
	}
	return Hit{}
}

// Mutations drains the changes recorded since the previous call.
func (c *Canvas) Mutations() []Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec.Drain()
}

// WriteSVG serializes the current element tree as a standalone SVG
// document.
func (c *Canvas) WriteSVG(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ew := &errWriter{w: w}
	s := svg.New(ew)
	vb := c.viewBox
	s.Startview(vb[2], vb[3], vb[0], vb[1], vb[2], vb[3])
	if c.opts.CSS != "" {
		s.Style("text/css", c.opts.CSS)
	}
	for _, layer := range c.root.children {
		writeElement(s, layer)
	}
	s.End()
	return ew.err
}

// SVG returns the document produced by [Canvas.WriteSVG].
func (c *Canvas) SVG() string {
	var buf bytes.Buffer
	_ = c.WriteSVG(&buf)
	return buf.String()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, nil
}
