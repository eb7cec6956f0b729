package canvas

import (
	"fmt"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/cssgraph/pkg/geom"
)

// Bridge defaults in canvas units.
const (
	DefaultBridgeWidth  = 10
	DefaultBridgeHeight = 5
)

// CrossingPolicy decides which of two crossing segments gets the bridge.
type CrossingPolicy int

const (
	// HorizontalOverVertical bridges the more horizontal segment.
	HorizontalOverVertical CrossingPolicy = iota
	// VerticalOverHorizontal bridges the more vertical segment.
	VerticalOverHorizontal
)

// BridgeStyle is the shape drawn where a path crosses an obstacle.
type BridgeStyle int

const (
	GapBridge BridgeStyle = iota
	ArcBridge
	RectangleBridge
)

// ParseCrossingPolicy maps a config name to a policy.
func ParseCrossingPolicy(s string) (CrossingPolicy, error) {
	switch s {
	case "", "horizontal":
		return HorizontalOverVertical, nil
	case "vertical":
		return VerticalOverHorizontal, nil
	}
	return 0, fmt.Errorf("unknown crossing policy %q", s)
}

// ParseBridgeStyle maps a config name to a bridge style.
func ParseBridgeStyle(s string) (BridgeStyle, error) {
	switch s {
	case "", "gap":
		return GapBridge, nil
	case "arc":
		return ArcBridge, nil
	case "rectangle":
		return RectangleBridge, nil
	}
	return 0, fmt.Errorf("unknown bridge style %q", s)
}

type obstacle struct {
	a, b geom.Point
	dir  geom.Point
	box  geom.Rect
}

// BridgeManager collects obstacle geometry once per render pass and inserts
// bridges into edge paths that cross it.
type BridgeManager struct {
	Width  float64
	Height float64
	Policy CrossingPolicy
	Style  BridgeStyle

	obstacles []obstacle
	hash      uint64
}

// NewBridgeManager returns a manager with gap bridges of the default size.
func NewBridgeManager() *BridgeManager {
	return &BridgeManager{Width: DefaultBridgeWidth, Height: DefaultBridgeHeight}
}

// Refresh replaces the obstacle set with the geometry of providers and
// recomputes the obstacle hash.
func (b *BridgeManager) Refresh(ctx *Context, providers []ObstacleProvider) {
	d := xxhash.New()
	fmt.Fprintf(d, "%d/%d/%g/%g;", b.Policy, b.Style, b.Width, b.Height)
	b.obstacles = b.obstacles[:0]
	for _, pr := range providers {
		if pr == nil {
			continue
		}
		p := pr.Obstacles(ctx)
		if p == nil {
			continue
		}
		_, _ = d.WriteString(p.SVGData())
		_, _ = d.WriteString(";")
		for _, line := range p.Polylines() {
			for i := 1; i < len(line); i++ {
				a, c := line[i-1], line[i]
				if a == c {
					continue
				}
				b.obstacles = append(b.obstacles, obstacle{
					a:   a,
					b:   c,
					dir: c.Sub(a).Normalized(),
					box: geom.RectFromPoints(a, c),
				})
			}
		}
	}
	b.hash = d.Sum64()
}

// ObstacleHash identifies the obstacle state of the last refresh. It changes
// whenever any obstacle changes anywhere in the graph.
func (b *BridgeManager) ObstacleHash(*Context) uint64 { return b.hash }

// ObstacleCount returns the number of obstacle segments.
func (b *BridgeManager) ObstacleCount() int { return len(b.obstacles) }

// AddBridges returns p with bridges inserted at every crossing the policy
// assigns to p. Without crossings p itself is returned.
func (b *BridgeManager) AddBridges(_ *Context, p *geom.Path) *geom.Path {
	if len(b.obstacles) == 0 || p.IsEmpty() {
		return p
	}
	out := geom.NewPath(p.Size())
	changed := false
	var cur, start geom.Point
	for _, s := range p.Segments() {
		switch s.Op {
		case geom.MoveTo:
			out.Append(s)
			cur, start = s.Pts[0], s.Pts[0]
			continue
		case geom.Close:
			if cs := b.crossings(cur, start); len(cs) > 0 {
				b.emit(out, cur, start, cs)
				changed = true
			}
			out.Append(s)
			cur = start
			continue
		}

		pts := s.Flatten(cur)
		hits := make([][]float64, len(pts))
		found := false
		for i := 1; i < len(pts); i++ {
			hits[i] = b.crossings(pts[i-1], pts[i])
			found = found || len(hits[i]) > 0
		}
		if !found {
			out.Append(s)
		} else {
			for i := 1; i < len(pts); i++ {
				b.emit(out, pts[i-1], pts[i], hits[i])
			}
			changed = true
		}
		cur = s.End()
	}
	if !changed {
		return p
	}
	return out
}

// crossings returns the distances from a at which a-c crosses an obstacle
// it has to bridge, sorted and at least one bridge width apart.
func (b *BridgeManager) crossings(a, c geom.Point) []float64 {
	d := c.Sub(a)
	l := d.Len()
	if l < b.Width {
		return nil
	}
	dir := d.Scale(1 / l)
	box := geom.RectFromPoints(a, c)
	hw := b.Width / 2

	var out []float64
	for _, o := range b.obstacles {
		if !o.box.Intersects(box) {
			continue
		}
		t, u, ok := geom.SegmentIntersection(a, c, o.a, o.b)
		if !ok || u < 1e-6 || u > 1-1e-6 {
			continue
		}
		pos := t * l
		if pos < hw || pos > l-hw || !b.bridges(dir, o.dir) {
			continue
		}
		out = append(out, pos)
	}
	if len(out) < 2 {
		return out
	}
	slices.Sort(out)
	kept := out[:1]
	for _, pos := range out[1:] {
		if pos-kept[len(kept)-1] >= b.Width {
			kept = append(kept, pos)
		}
	}
	return kept
}

func (b *BridgeManager) bridges(dir, obstacleDir geom.Point) bool {
	h, oh := math.Abs(dir.X), math.Abs(obstacleDir.X)
	if b.Policy == VerticalOverHorizontal {
		return h < oh-1e-9
	}
	return h > oh+1e-9
}

// emit draws the line a-c into out with bridges at the given distances.
func (b *BridgeManager) emit(out *geom.Path, a, c geom.Point, at []float64) {
	dir := c.Sub(a).Normalized()
	up := dir.Perp()
	if up.Y > 0 || (up.Y == 0 && up.X > 0) {
		up = up.Scale(-1)
	}
	hw := b.Width / 2
	for _, pos := range at {
		mid := a.Add(dir.Scale(pos))
		p1, p2 := mid.Sub(dir.Scale(hw)), mid.Add(dir.Scale(hw))
		out.LineTo(p1)
		switch b.Style {
		case ArcBridge:
			k := up.Scale(b.Height * 4 / 3)
			out.CubicTo(p1.Add(k), p2.Add(k), p2)
		case RectangleBridge:
			h := up.Scale(b.Height)
			out.LineTo(p1.Add(h))
			out.LineTo(p2.Add(h))
			out.LineTo(p2)
		default:
			out.MoveTo(p2)
		}
	}
	out.LineTo(c)
}
