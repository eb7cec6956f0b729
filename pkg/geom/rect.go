package geom

import "math"

// Rect is an axis-aligned rectangle given by its top-left corner and size.
// A rectangle with negative width or height is empty.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// EmptyRect is the identity for [Rect.Union].
var EmptyRect = Rect{Width: -1, Height: -1}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

// RectFromPoints returns the smallest rectangle containing a and b.
func RectFromPoints(a, b Point) Rect {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func (r Rect) IsEmpty() bool { return r.Width < 0 || r.Height < 0 }
func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }
func (r Rect) TopLeft() Point { return Point{r.X, r.Y} }
func (r Rect) Center() Point { return Point{r.X + r.Width/2, r.Y + r.Height/2} }
func (r Rect) Size() (w, h float64) { return r.Width, r.Height }

// Contains reports whether p lies inside r or on its border.
func (r Rect) Contains(p Point) bool {
	if r.IsEmpty() {
		return false
	}
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Grow returns r enlarged by d on every side.
func (r Rect) Grow(d float64) Rect {
	if r.IsEmpty() {
		return r
	}
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Intersects reports whether r and o overlap (touching counts).
func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.X <= o.MaxX() && o.X <= r.MaxX() && r.Y <= o.MaxY() && o.Y <= r.MaxY()
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x0, y0 := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	x1, y1 := math.Max(r.MaxX(), o.MaxX()), math.Max(r.MaxY(), o.MaxY())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// AddPoint returns the smallest rectangle containing r and p.
func (r Rect) AddPoint(p Point) Rect {
	return r.Union(Rect{X: p.X, Y: p.Y})
}

// IntersectsLine reports whether the segment p1-p2 touches r.
func (r Rect) IntersectsLine(p1, p2 Point) bool {
	if r.IsEmpty() {
		return false
	}
	if r.Contains(p1) || r.Contains(p2) {
		return true
	}
	if !r.Intersects(RectFromPoints(p1, p2)) {
		return false
	}
	tl, tr := Point{r.X, r.Y}, Point{r.MaxX(), r.Y}
	bl, br := Point{r.X, r.MaxY()}, Point{r.MaxX(), r.MaxY()}
	for _, side := range [4][2]Point{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}} {
		if _, _, ok := SegmentIntersection(p1, p2, side[0], side[1]); ok {
			return true
		}
	}
	return false
}

// exitParam returns the largest t in [0,1] such that a+(b-a)*t is still in r,
// assuming a is inside r. It is used to find where a path leaves a node.
func (r Rect) exitParam(a, b Point) float64 {
	t := 1.0
	d := b.Sub(a)
	if d.X > 0 {
		t = math.Min(t, (r.MaxX()-a.X)/d.X)
	} else if d.X < 0 {
		t = math.Min(t, (r.X-a.X)/d.X)
	}
	if d.Y > 0 {
		t = math.Min(t, (r.MaxY()-a.Y)/d.Y)
	} else if d.Y < 0 {
		t = math.Min(t, (r.Y-a.Y)/d.Y)
	}
	return math.Max(0, t)
}
