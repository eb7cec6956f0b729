package style

import (
	"math"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/cssgraph/pkg/canvas"
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// pair returns two nodes 80 units apart on the same row, connected by an
// edge, plus a self-loop on the first node.
func pair(t *testing.T) (*graph.Graph, *graph.Edge, *graph.Edge) {
	t.Helper()
	g := graph.New()
	a, err := g.AddNode(graph.Tag{ID: 0, Label: "a"}, geom.R(0, 0, 20, 20))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := g.AddNode(graph.Tag{ID: 1, Label: "b"}, geom.R(100, 0, 20, 20))
	e := g.AddEdge(a, b)
	loop := g.AddEdge(a, a)
	return g, e, loop
}

func newCanvas(g *graph.Graph, es *CSSEdgeStyle, bridges bool) *canvas.Canvas {
	opts := canvas.Options{
		NodeStyle:  &CSSNodeStyle{CSSClass: DefaultNodeClass},
		EdgeStyle:  es,
		LabelStyle: NewLabelStyle(),
	}
	if bridges {
		opts.Bridges = canvas.NewBridgeManager()
	}
	return canvas.New(g, opts)
}

func TestSelfLoopPath(t *testing.T) {
	g := graph.New()
	n, _ := g.AddNode(graph.Tag{ID: 0}, geom.R(0, 0, 40, 20))
	loop := g.AddEdge(n, n)

	pts := NewCSSEdgeStyle().createPath(loop).Points()
	want := []geom.Point{{X: 20, Y: 10}, {X: -20, Y: 10}, {X: -20, Y: -20}, {X: 20, Y: -20}, {X: 20, Y: 10}}
	if len(pts) != len(want) {
		t.Fatalf("points = %v, want 5", pts)
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].X != pts[i-1].X && pts[i].Y != pts[i-1].Y {
			t.Errorf("segment %d is not axis-parallel", i)
		}
	}
}

func TestSelfLoopSingleBend(t *testing.T) {
	g := graph.New()
	n, _ := g.AddNode(graph.Tag{ID: 0}, geom.R(0, 0, 40, 20))
	loop := g.AddEdge(n, n, geom.Pt(60, 40))

	pts := NewCSSEdgeStyle().createPath(loop).Points()
	if len(pts) != 5 || pts[2] != geom.Pt(60, 40) {
		t.Errorf("points = %v, want corner at the bend", pts)
	}

	twoBends := g.AddEdge(n, n, geom.Pt(60, 40), geom.Pt(60, -40))
	if isPrettySelfLoop(twoBends) {
		t.Error("self-loop with two bends must follow its bends")
	}
}

func TestSelfLoopVisibility(t *testing.T) {
	g := graph.New()
	n, _ := g.AddNode(graph.Tag{ID: 0}, geom.R(0, 0, 40, 20))
	loop := g.AddEdge(n, n)
	s := NewCSSEdgeStyle()

	tests := []struct {
		name string
		clip geom.Rect
		want bool
	}{
		{"ContainsSource", geom.R(15, 5, 10, 10), true},
		{"CrossesLeftSegment", geom.R(-25, -10, 10, 5), true},
		{"CrossesTopSegment", geom.R(0, -25, 5, 10), true},
		{"InsideLoopTouchingNothing", geom.R(-15, -15, 5, 5), false},
		{"FarAway", geom.R(100, 100, 10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.IsVisible(nil, tt.clip, loop); got != tt.want {
				t.Errorf("IsVisible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEdgeVisualFallbackArrows(t *testing.T) {
	g, e, _ := pair(t)
	s := NewCSSEdgeStyle()
	s.CSSClass = DefaultEdgeClass
	ctx := newCanvas(g, s, false).Context()

	v := s.CreateVisual(ctx, e)
	if v == nil || v.Tag() != "g" || v.ChildCount() != 2 {
		t.Fatalf("visual = %v", v)
	}
	path, arrow := v.Children()[0], v.Children()[1]
	if got, want := attrValue(path, "d"), "M 20 10 L 93.5 10"; got != want {
		t.Errorf("d = %q, want %q", got, want)
	}
	if attrValue(path, "stroke") != EdgeColor || attrValue(path, "fill") != "none" || attrValue(path, "class") != DefaultEdgeClass {
		t.Errorf("path attrs = %+v", path.Attrs())
	}
	if got, want := attrValue(arrow, "transform"), "matrix(1 0 0 1 99 10)"; got != want {
		t.Errorf("arrow transform = %q, want %q", got, want)
	}
	if got := attrValue(arrow, "class"); got != DefaultEdgeClass+"-arrow" {
		t.Errorf("arrow class = %q", got)
	}
}

func TestEdgeVisualMarker(t *testing.T) {
	g, e, _ := pair(t)
	s := NewCSSEdgeStyle()
	s.CSSClass = DefaultEdgeClass
	s.UseMarkerArrows = true
	c := newCanvas(g, s, false)
	c.Render()

	v := c.EdgeVisual(e)
	if v.Tag() != "path" {
		t.Fatalf("tag = %s, want path", v.Tag())
	}
	if got, want := attrValue(v, "d"), "M 20 10 L 94 10"; got != want {
		t.Errorf("d = %q, want %q", got, want)
	}
	ref := attrValue(v, "marker-end")
	if !strings.HasPrefix(ref, "url(#") {
		t.Fatalf("marker-end = %q", ref)
	}
	svg := c.SVG()
	for _, want := range []string{`<marker`, `viewBox="0 0 15 10"`, `orient="auto"`, `class="css-edge-style-arrow"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("document missing %s", want)
		}
	}
	if c.Context().Defs.Len() != 1 {
		t.Errorf("defs = %d, want one shared marker", c.Context().Defs.Len())
	}
}

func TestBadMarkerSupportForcesArrows(t *testing.T) {
	g, e, _ := pair(t)
	s := NewCSSEdgeStyle()
	s.UseMarkerArrows = true
	s.BadMarkerSupport = true
	c := newCanvas(g, s, false)
	c.Render()

	if v := c.EdgeVisual(e); v.Tag() != "g" || v.ChildCount() != 2 {
		t.Errorf("visual = %s with %d children, want g with arrow", v.Tag(), v.ChildCount())
	}
	if c.Context().Defs.Len() != 0 {
		t.Error("marker created for a bad-marker browser")
	}
}

func TestNoTargetArrows(t *testing.T) {
	g, e, _ := pair(t)
	s := NewCSSEdgeStyle()
	s.ShowTargetArrows = false
	v := s.CreateVisual(newCanvas(g, s, false).Context(), e)
	if v.ChildCount() != 1 {
		t.Errorf("children = %d, want only the path", v.ChildCount())
	}
	if got, want := attrValue(v.FirstChild(), "d"), "M 20 10 L 100 10"; got != want {
		t.Errorf("d = %q, want %q", got, want)
	}
}

func TestEmptyPathHasNoVisual(t *testing.T) {
	g := graph.New()
	a, _ := g.AddNode(graph.Tag{ID: 0}, geom.R(0, 0, 100, 100))
	b, _ := g.AddNode(graph.Tag{ID: 1}, geom.R(40, 40, 10, 10))
	e := g.AddEdge(a, b)
	s := NewCSSEdgeStyle()
	if v := s.CreateVisual(&canvas.Context{}, e); v != nil {
		t.Errorf("visual for fully covered edge: %s", canvas.Markup(v))
	}
}

func TestUpdateVisualNilOld(t *testing.T) {
	g, e, _ := pair(t)
	s := NewCSSEdgeStyle()
	if v := s.UpdateVisual(newCanvas(g, s, false).Context(), nil, e); v == nil {
		t.Error("nil old visual must fall back to create")
	}
}

func TestUnchangedUpdateWritesNothing(t *testing.T) {
	tests := []struct {
		name    string
		markers bool
		bridges bool
	}{
		{"Arrows", false, false},
		{"Markers", true, false},
		{"ArrowsWithBridges", false, true},
		{"MarkersWithBridges", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, _ := pair(t)
			s := NewCSSEdgeStyle()
			s.CSSClass = DefaultEdgeClass
			s.UseMarkerArrows = tt.markers
			c := newCanvas(g, s, tt.bridges)
			c.Render()
			c.Recorder().Reset()

			c.Render()
			if w := c.Recorder().Writes(); w != 0 {
				t.Errorf("writes = %d, mutations %+v", w, c.Mutations())
			}
		})
	}
}

func TestEdgeUpdateAfterMove(t *testing.T) {
	g, e, _ := pair(t)
	s := NewCSSEdgeStyle()
	c := newCanvas(g, s, false)
	c.Render()
	before := c.EdgeVisual(e)
	c.Recorder().Reset()

	g.Node(1).Layout.X = 200
	c.Render()
	after := c.EdgeVisual(e)
	if after != before {
		t.Fatal("visual replaced instead of updated")
	}
	if got, want := attrValue(after.FirstChild(), "d"), "M 20 10 L 193.5 10"; got != want {
		t.Errorf("d = %q, want %q", got, want)
	}
	if after.ChildCount() != 2 {
		t.Errorf("children = %d, want path and one arrow", after.ChildCount())
	}
	if got, want := attrValue(after.Children()[1], "transform"), "matrix(1 0 0 1 199 10)"; got != want {
		t.Errorf("arrow transform = %q, want %q", got, want)
	}
}

func TestObstacleHashChangeRewrites(t *testing.T) {
	g := graph.New()
	a, _ := g.AddNode(graph.Tag{ID: 0}, geom.R(0, 40, 20, 20))
	b, _ := g.AddNode(graph.Tag{ID: 1}, geom.R(100, 40, 20, 20))
	top, _ := g.AddNode(graph.Tag{ID: 2}, geom.R(200, -100, 20, 20))
	bottom, _ := g.AddNode(graph.Tag{ID: 3}, geom.R(200, 200, 20, 20))
	horizontal := g.AddEdge(a, b)
	g.AddEdge(top, bottom)

	s := NewCSSEdgeStyle()
	c := newCanvas(g, s, true)
	c.Render()
	if d := attrValue(c.EdgeVisual(horizontal).FirstChild(), "d"); strings.Count(d, "M") != 1 {
		t.Fatalf("unexpected bridge before crossing: %s", d)
	}

	top.Layout.X, bottom.Layout.X = 50, 50
	c.Render()
	if d := attrValue(c.EdgeVisual(horizontal).FirstChild(), "d"); strings.Count(d, "M") != 2 {
		t.Errorf("expected a gap bridge after the vertical edge moved across: %s", d)
	}
}

func TestEdgeIsHit(t *testing.T) {
	_, e, loop := pair(t)
	s := NewCSSEdgeStyle()
	ctx := &canvas.Context{HitTestRadius: 2}

	tests := []struct {
		name string
		edge *graph.Edge
		p    geom.Point
		want bool
	}{
		{"OnEdge", e, geom.Pt(60, 10), true},
		{"WithinRadius", e, geom.Pt(60, 12), true},
		{"Outside", e, geom.Pt(60, 20), false},
		{"InsideNode", e, geom.Pt(5, 10), false},
		{"OnLoop", loop, geom.Pt(-20, 0), true},
		{"WithinLoopSlack", loop, geom.Pt(-17, 0), true},
		{"OffLoop", loop, geom.Pt(-10, -10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.IsHit(ctx, tt.p, tt.edge); got != tt.want {
				t.Errorf("IsHit(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestObstacleProvider(t *testing.T) {
	_, e, _ := pair(t)
	s := NewCSSEdgeStyle()
	op := s.ObstacleProvider(e)
	if _, ok := op.(*BasicEdgeObstacleProvider); !ok {
		t.Fatalf("provider = %T", op)
	}
	if !op.Obstacles(nil).Equal(s.Path(e)) {
		t.Error("obstacles differ from the cropped path")
	}
}

func TestNodeUpdateWritesChangedAttributes(t *testing.T) {
	g := graph.New()
	n, _ := g.AddNode(graph.Tag{ID: 0}, geom.R(10, 20, 40, 30))
	ns := &CSSNodeStyle{CSSClass: DefaultNodeClass}
	c := canvas.New(g, canvas.Options{NodeStyle: ns, EdgeStyle: NewCSSEdgeStyle()})
	c.Render()
	v := c.NodeVisual(n)
	for name, want := range map[string]string{
		"width": "40", "height": "30", "rx": "2", "ry": "2",
		"fill": NodeFill, "stroke": NodeStroke, "stroke-width": "1px",
		"class": DefaultNodeClass, "transform": "translate(10 20)",
	} {
		if got := attrValue(v, name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	tests := []struct {
		name   string
		change func(s *CSSNodeStyle)
		want   []string
	}{
		{"Move", func(*CSSNodeStyle) { n.Layout.X = 15 }, []string{"transform"}},
		{"Resize", func(*CSSNodeStyle) { n.Layout.Width, n.Layout.Height = 50, 35 }, []string{"width", "height"}},
		{"Unchanged", func(*CSSNodeStyle) {}, nil},
		{"DropClass", func(s *CSSNodeStyle) { s.CSSClass = "" }, []string{"class"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.Mutations()
			tt.change(ns)
			c.Render()
			var got []string
			for _, m := range c.Mutations() {
				if m.Kind == canvas.MutAttr || m.Kind == canvas.MutRemoveAttr {
					got = append(got, m.Name)
				}
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("written = %v, want %v", got, tt.want)
			}
		})
	}
	if _, ok := c.NodeVisual(n).Attr("class"); ok {
		t.Error("class attribute survived an empty class")
	}
}

func TestArrowBounds(t *testing.T) {
	a := NewCSSArrow()
	anchor := geom.Pt(30, -12)
	for _, dir := range []geom.Point{{X: 1}, {Y: 1}, {X: -0.6, Y: 0.8}, {X: -1}} {
		b := a.BoundsProvider(nil, false, anchor, dir).Bounds(nil)
		if want := geom.R(22, -20, 32, 32); b != want {
			t.Errorf("dir %v: bounds = %+v, want %+v", dir, b, want)
		}
	}
}

func TestArrowUpdate(t *testing.T) {
	a := NewCSSArrow()
	el := a.VisualCreator(nil, false, geom.Pt(10, 10), geom.Pt(0, 1)).CreateVisual(nil)

	if got := attrValue(el, "d"); got != "M -7.5 -2.5 L 0 0 L -7.5 2.5 Z" {
		t.Errorf("d = %q", got)
	}
	if got := attrValue(el, "transform"); got != "matrix(0 1 -1 0 10 10)" {
		t.Errorf("transform = %q", got)
	}

	same := a.VisualCreator(nil, false, geom.Pt(10, 10), geom.Pt(0, 1)).UpdateVisual(nil, el)
	if same != el {
		t.Fatal("unchanged arrow replaced")
	}
	moved := a.VisualCreator(nil, false, geom.Pt(12, 10), geom.Pt(0, 1)).UpdateVisual(nil, el)
	if moved != el || attrValue(el, "transform") != "matrix(0 1 -1 0 12 10)" {
		t.Errorf("transform after move = %q", attrValue(el, "transform"))
	}

	a.DisposeVisual(el)
	if fresh := a.UpdateVisual(nil, el); fresh == el {
		t.Error("disposed visual reused")
	}
}

func TestMarkerDefsSupport(t *testing.T) {
	m := &MarkerDefsSupport{CSSClass: "edges"}
	el := m.CreateDefsElement(nil)
	if el.Tag() != "marker" || attrValue(el, "refX") != "2" || attrValue(el, "refY") != "5" ||
		attrValue(el, "markerWidth") != "7" || attrValue(el, "markerHeight") != "7" {
		t.Errorf("marker attrs = %+v", el.Attrs())
	}
	if p := el.FirstChild(); attrValue(p, "d") != MarkerPath || attrValue(p, "class") != "edges-arrow" || attrValue(p, "fill") != EdgeColor {
		t.Errorf("marker path attrs = %+v", p.Attrs())
	}

	path := canvas.NewElement("path")
	path.SetAttr("marker-end", "url(#m1)")
	if !m.Accept(nil, path, "m1") {
		t.Error("reference to m1 not accepted")
	}
	if m.Accept(nil, path, "m2") {
		t.Error("reference to m1 accepted as m2")
	}
}

func TestMarkerCollectedWhenUnused(t *testing.T) {
	g, _, _ := pair(t)
	s := NewCSSEdgeStyle()
	s.UseMarkerArrows = true
	c := newCanvas(g, s, false)
	c.Render()
	if c.Context().Defs.Len() != 1 {
		t.Fatalf("defs = %d, want 1", c.Context().Defs.Len())
	}

	s.ShowTargetArrows = false
	c.Render()
	if c.Context().Defs.Len() != 0 {
		t.Errorf("defs = %d, want marker collected", c.Context().Defs.Len())
	}
}

func TestLabelStyle(t *testing.T) {
	g := graph.New()
	n, _ := g.AddNode(graph.Tag{ID: 0, Label: "Ada <Lovelace>", Sublabel: "London"}, geom.R(0, 0, 100, 50))
	ls := NewLabelStyle()
	v := ls.CreateVisual(nil, n)
	label, sub := v.Children()[0], v.Children()[1]
	if label.Text() != "Ada <Lovelace>" || sub.Text() != "London" {
		t.Errorf("texts = %q, %q", label.Text(), sub.Text())
	}
	if attrValue(label, "x") != "50" || attrValue(label, "y") != "25" || attrValue(sub, "y") != "47" {
		t.Errorf("positions label=(%s,%s) sub y=%s", attrValue(label, "x"), attrValue(label, "y"), attrValue(sub, "y"))
	}
	if attrValue(sub, "fill") != DefaultSublabelColor || attrValue(sub, "font-size") != "10" {
		t.Errorf("sublabel attrs = %+v", sub.Attrs())
	}
	if !strings.Contains(canvas.Markup(v), "Ada &lt;Lovelace&gt;") {
		t.Errorf("label not escaped: %s", canvas.Markup(v))
	}

	n.Tag.Sublabel = "Paris"
	if got := ls.UpdateVisual(nil, v, n); got != v || sub.Text() != "Paris" || label.Text() != "Ada <Lovelace>" {
		t.Errorf("update: same=%v sub=%q", got == v, sub.Text())
	}
}

func TestMeasureText(t *testing.T) {
	w, h := MeasureText("", 15)
	if w != 0 || h <= 15 {
		t.Errorf("empty: %v x %v", w, h)
	}
	narrow, _ := MeasureText("iiii", 15)
	wide, _ := MeasureText("MMMM", 15)
	if narrow >= wide {
		t.Errorf("narrow %v >= wide %v", narrow, wide)
	}
	small, _ := MeasureText("Hello", 10)
	large, _ := MeasureText("Hello", 20)
	if math.Abs(large-2*small) > 1e-9 {
		t.Errorf("width does not scale with size: %v vs %v", small, large)
	}
}

func TestMeasureTextMatchesFace(t *testing.T) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: 14, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		t.Fatal(err)
	}
	defer face.Close()

	for _, text := range []string{"WWWWWWWW", "Jürgen Świątek", "iiiiiiii", "Grace Hopper"} {
		t.Run(text, func(t *testing.T) {
			want := float64(font.MeasureString(face, text)) / 64
			got, _ := MeasureText(text, 14)
			// Rounding to 1/64 px per glyph at 14px.
			if math.Abs(got-want) > 0.5 {
				t.Errorf("MeasureText = %.2f, face = %.2f", got, want)
			}
			if w, _ := NodeSize(text, "", 14); w < want {
				t.Errorf("node width %.2f does not fit text %.2f", w, want)
			}
		})
	}
}

func TestNodeSize(t *testing.T) {
	lw, lh := MeasureText("Grace Hopper", 15)
	sw, _ := MeasureText("Arlington", 15)
	w, h := NodeSize("Grace Hopper", "Arlington", 15)
	if w != max(lw, sw)+NodePaddingX || h != lh+NodePaddingY {
		t.Errorf("NodeSize = %v x %v", w, h)
	}
}
