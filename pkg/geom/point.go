package geom

import (
	"math"
	"strconv"
)

// Point is a location or a direction vector in canvas coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Normalized returns the unit vector in the direction of p.
// The zero vector normalizes to (1, 0) so arrows always have a direction.
func (p Point) Normalized() Point {
	l := p.Len()
	if l == 0 {
		return Point{1, 0}
	}
	return Point{p.X / l, p.Y / l}
}

// Perp returns p rotated by 90 degrees counter-clockwise.
func (p Point) Perp() Point { return Point{-p.Y, p.X} }

// DistToSegment returns the distance from p to the segment a-b.
func (p Point) DistToSegment(a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Dist(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(a.Add(ab.Scale(t)))
}

// String formats the point as "x y", the form SVG attributes use.
func (p Point) String() string { return Fmt(p.X) + " " + Fmt(p.Y) }

// Fmt formats a coordinate for SVG output: at most three decimals, no
// trailing zeros and no negative zero.
func Fmt(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// SegmentIntersection intersects the segments a1-a2 and b1-b2.
// It returns the parameters along both segments and whether the segments
// intersect. Parallel and collinear segments never intersect.
func SegmentIntersection(a1, a2, b1, b2 Point) (t, u float64, ok bool) {
	r := a2.Sub(a1)
	s := b2.Sub(b1)
	denom := r.Cross(s)
	if math.Abs(denom) < 1e-12 {
		return 0, 0, false
	}
	qp := b1.Sub(a1)
	t = qp.Cross(s) / denom
	u = qp.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, 0, false
	}
	return t, u, true
}
