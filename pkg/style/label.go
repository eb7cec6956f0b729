package style

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/cssgraph/pkg/canvas"
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// Label defaults.
const (
	DefaultFont          = "Roboto, sans-serif"
	DefaultLabelSize     = 15.0
	DefaultSublabelSize  = 10.0
	DefaultLabelColor    = "#FFFFFF"
	DefaultSublabelColor = "rgba(45,83,128,0.98)"

	// Inner padding around the centered label.
	LabelInset = 5.0
	// Bottom padding of the sublabel.
	SublabelBottomInset = 3.0

	// Space added to the measured text when sizing nodes.
	NodePaddingX = 10.0
	NodePaddingY = 30.0
)

type labelRenderData struct {
	x, y, width, height float64
	label, sublabel     string
}

// LabelStyle paints a node's label centered in the node and its sublabel at
// the bottom edge.
type LabelStyle struct {
	CSSClass      string
	Font          string
	LabelSize     float64
	SublabelSize  float64
	LabelColor    string
	SublabelColor string

	cache canvas.VisualCache[labelRenderData]
}

// NewLabelStyle returns the default white-on-node label style.
func NewLabelStyle() *LabelStyle {
	return &LabelStyle{
		CSSClass:      DefaultLabelClass,
		Font:          DefaultFont,
		LabelSize:     DefaultLabelSize,
		SublabelSize:  DefaultSublabelSize,
		LabelColor:    DefaultLabelColor,
		SublabelColor: DefaultSublabelColor,
	}
}

func (s *LabelStyle) CreateVisual(_ *canvas.Context, n *graph.Node) *canvas.Element {
	l := n.Layout
	g := canvas.NewElement("g")
	if s.CSSClass != "" {
		g.SetAttr("class", s.CSSClass)
	}
	g.SetAttr("transform", translate(l.X, l.Y))
	g.SetAttr("font-family", s.Font)
	g.SetAttr("text-anchor", "middle")

	label := canvas.NewElement("text")
	label.SetAttr("class", "label")
	label.SetAttr("x", geom.Fmt(l.Width/2))
	label.SetAttr("y", geom.Fmt(l.Height/2))
	label.SetAttr("dominant-baseline", "central")
	label.SetAttr("font-size", geom.Fmt(s.LabelSize))
	label.SetAttr("fill", s.LabelColor)
	label.SetText(n.Tag.Label)
	g.AppendChild(label)

	sub := canvas.NewElement("text")
	sub.SetAttr("class", "sublabel")
	sub.SetAttr("x", geom.Fmt(l.Width/2))
	sub.SetAttr("y", geom.Fmt(l.Height-SublabelBottomInset))
	sub.SetAttr("dominant-baseline", "text-after-edge")
	sub.SetAttr("font-size", geom.Fmt(s.SublabelSize))
	sub.SetAttr("fill", s.SublabelColor)
	sub.SetText(n.Tag.Sublabel)
	g.AppendChild(sub)

	s.cache.Put(g, labelRenderData{
		x: l.X, y: l.Y, width: l.Width, height: l.Height,
		label: n.Tag.Label, sublabel: n.Tag.Sublabel,
	})
	return g
}

// UpdateVisual moves the group and rewrites only texts and positions that
// changed.
func (s *LabelStyle) UpdateVisual(ctx *canvas.Context, old *canvas.Element, n *graph.Node) *canvas.Element {
	c, ok := s.cache.Get(old)
	if !ok || old.ChildCount() != 2 {
		return s.CreateVisual(ctx, n)
	}
	l := n.Layout
	label, sub := old.Children()[0], old.Children()[1]
	if c.x != l.X || c.y != l.Y {
		old.SetAttr("transform", translate(l.X, l.Y))
		c.x, c.y = l.X, l.Y
	}
	if c.width != l.Width || c.height != l.Height {
		label.SetAttr("x", geom.Fmt(l.Width/2))
		label.SetAttr("y", geom.Fmt(l.Height/2))
		sub.SetAttr("x", geom.Fmt(l.Width/2))
		sub.SetAttr("y", geom.Fmt(l.Height-SublabelBottomInset))
		c.width, c.height = l.Width, l.Height
	}
	if c.label != n.Tag.Label {
		label.SetText(n.Tag.Label)
		c.label = n.Tag.Label
	}
	if c.sublabel != n.Tag.Sublabel {
		sub.SetText(n.Tag.Sublabel)
		c.sublabel = n.Tag.Sublabel
	}
	s.cache.Put(old, c)
	return old
}

func (s *LabelStyle) DisposeVisual(el *canvas.Element) { s.cache.Delete(el) }

// =============================================================================
// Text Metrics
// =============================================================================

// metricsSize is the size of the reference face. Measurements at other sizes
// are scaled linearly, which holds without hinting.
const metricsSize = 64

// textFace is Go Regular at metricsSize. A font.Face is not safe for
// concurrent use, so measuring goes through mu.
type textFace struct {
	mu         sync.Mutex
	face       font.Face
	lineHeight float64 // at metricsSize
}

var referenceFace = sync.OnceValue(func() *textFace {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // embedded font
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    metricsSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		panic(err)
	}
	return &textFace{face: face, lineHeight: fixedToFloat(face.Metrics().Height)}
})

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// MeasureText returns the advance width and line height of s set in Go
// Regular at the given size.
func MeasureText(s string, size float64) (width, height float64) {
	tf := referenceFace()
	scale := size / metricsSize
	if s != "" {
		tf.mu.Lock()
		width = fixedToFloat(font.MeasureString(tf.face, s)) * scale
		tf.mu.Unlock()
	}
	return width, tf.lineHeight * scale
}

// NodeSize returns the node size that fits both texts at the label size.
func NodeSize(label, sublabel string, size float64) (width, height float64) {
	w1, h1 := MeasureText(label, size)
	w2, h2 := MeasureText(sublabel, size)
	return max(w1, w2) + NodePaddingX, max(h1, h2) + NodePaddingY
}
