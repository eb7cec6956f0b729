package geom

import "math"

// curveSteps is the number of chords a curve is flattened into.
const curveSteps = 16

// piece is one chord of a flattened path positioned by arc length.
type piece struct {
	a, b Point
	pos  float64
}

// Flatten returns the chord points of a drawing segment starting at cur.
// Lines yield their two end points, curves a fixed number of chords.
func (s Segment) Flatten(cur Point) []Point {
	switch s.Op {
	case QuadTo:
		out := make([]Point, 0, curveSteps+1)
		for i := 0; i <= curveSteps; i++ {
			out = append(out, quadAt(cur, s.Pts[0], s.Pts[1], float64(i)/curveSteps))
		}
		return out
	case CubicTo:
		out := make([]Point, 0, curveSteps+1)
		for i := 0; i <= curveSteps; i++ {
			out = append(out, cubicAt(cur, s.Pts[0], s.Pts[1], s.Pts[2], float64(i)/curveSteps))
		}
		return out
	default:
		return []Point{cur, s.End()}
	}
}

func chordLength(pts []Point) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += pts[i].Dist(pts[i-1])
	}
	return l
}

// paramAt returns the curve parameter at arc length d along the chords.
func paramAt(pts []Point, d float64) float64 {
	n := len(pts) - 1
	var acc float64
	for i := 1; i <= n; i++ {
		l := pts[i].Dist(pts[i-1])
		if acc+l >= d {
			f := 0.0
			if l > 0 {
				f = (d - acc) / l
			}
			return (float64(i-1) + f) / float64(n)
		}
		acc += l
	}
	return 1
}

// walk calls fn for every drawing segment with its start point. Close
// segments are reported as lines back to the subpath start.
func (p *Path) walk(fn func(s Segment, from Point)) {
	var cur, start Point
	for _, s := range p.Segments() {
		switch s.Op {
		case MoveTo:
			cur, start = s.Pts[0], s.Pts[0]
			continue
		case Close:
			s = Segment{Op: LineTo, Pts: [3]Point{start}}
		}
		fn(s, cur)
		cur = s.End()
	}
}

func (p *Path) pieces() []piece {
	var out []piece
	var pos float64
	p.walk(func(s Segment, from Point) {
		pts := s.Flatten(from)
		for i := 1; i < len(pts); i++ {
			out = append(out, piece{a: pts[i-1], b: pts[i], pos: pos})
			pos += pts[i].Dist(pts[i-1])
		}
	})
	return out
}

// Polylines flattens p into one point list per subpath.
func (p *Path) Polylines() [][]Point {
	var out [][]Point
	var cur, start Point
	open := false
	for _, s := range p.Segments() {
		switch s.Op {
		case MoveTo:
			cur, start = s.Pts[0], s.Pts[0]
			open = false
			continue
		case Close:
			s = Segment{Op: LineTo, Pts: [3]Point{start}}
		}
		pts := s.Flatten(cur)
		if !open {
			out = append(out, []Point{cur})
			open = true
		}
		out[len(out)-1] = append(out[len(out)-1], pts[1:]...)
		cur = s.End()
	}
	return out
}

// Length returns the arc length of p.
func (p *Path) Length() float64 {
	var l float64
	p.walk(func(s Segment, from Point) { l += chordLength(s.Flatten(from)) })
	return l
}

// Bounds returns the bounding box of the flattened path, or [EmptyRect].
func (p *Path) Bounds() Rect {
	r := EmptyRect
	for _, line := range p.Polylines() {
		for _, pt := range line {
			r = r.AddPoint(pt)
		}
	}
	return r
}

// Contains reports whether pt lies within radius of the outline of p.
func (p *Path) Contains(pt Point, radius float64) bool {
	for _, pc := range p.pieces() {
		if pt.DistToSegment(pc.a, pc.b) <= radius {
			return true
		}
	}
	return false
}

// IntersectsRect reports whether any part of the outline of p touches r.
func (p *Path) IntersectsRect(r Rect) bool {
	for _, pc := range p.pieces() {
		if r.IntersectsLine(pc.a, pc.b) {
			return true
		}
	}
	return false
}

// Slice returns the part of p between the arc lengths from and to.
// Curves cut in the middle stay curves.
func (p *Path) Slice(from, to float64) *Path {
	out := NewPath(p.Size() + 1)
	if to <= from {
		return out
	}
	var pos float64
	needMove := true
	var cur, start Point
	for _, s := range p.Segments() {
		switch s.Op {
		case MoveTo:
			cur, start = s.Pts[0], s.Pts[0]
			needMove = true
			continue
		case Close:
			s = Segment{Op: LineTo, Pts: [3]Point{start}}
		}
		pts := s.Flatten(cur)
		l := chordLength(pts)
		a, b := pos, pos+l
		if l > 0 && b > from && a < to {
			t0, t1 := 0.0, 1.0
			if from > a {
				t0 = paramAt(pts, from-a)
			}
			if to < b {
				t1 = paramAt(pts, to-a)
			}
			begin, part := s.sub(cur, t0, t1)
			if needMove || t0 > 0 {
				out.MoveTo(begin)
				needMove = false
			}
			out.segs = append(out.segs, part)
		}
		pos = b
		cur = s.End()
	}
	return out
}

// CropStart removes the first d units of arc length from p.
func (p *Path) CropStart(d float64) *Path {
	if d <= 0 {
		return p.Clone()
	}
	return p.Slice(d, p.Length())
}

// CropEnd removes the last d units of arc length from p.
func (p *Path) CropEnd(d float64) *Path {
	if d <= 0 {
		return p.Clone()
	}
	return p.Slice(0, p.Length()-d)
}

// ClipToRects crops p where it leaves src at the start and where it enters
// dst at the end. Empty rectangles leave the corresponding end untouched.
// A path that never leaves src yields an empty path.
func (p *Path) ClipToRects(src, dst Rect) *Path {
	pcs := p.pieces()
	if len(pcs) == 0 {
		return NewPath(0)
	}
	total := p.Length()

	from := 0.0
	if !src.IsEmpty() && src.Contains(pcs[0].a) {
		from = total
		for _, pc := range pcs {
			if !src.Contains(pc.b) {
				from = pc.pos + src.exitParam(pc.a, pc.b)*pc.a.Dist(pc.b)
				break
			}
		}
	}

	to := total
	if last := pcs[len(pcs)-1]; !dst.IsEmpty() && dst.Contains(last.b) {
		to = 0
		for i := len(pcs) - 1; i >= 0; i-- {
			pc := pcs[i]
			if !dst.Contains(pc.a) {
				l := pc.a.Dist(pc.b)
				to = pc.pos + l - dst.exitParam(pc.b, pc.a)*l
				break
			}
		}
	}
	return p.Slice(from, to)
}

// sub returns the start point and the segment covering [t0, t1] of s.
func (s Segment) sub(from Point, t0, t1 float64) (Point, Segment) {
	switch s.Op {
	case QuadTo:
		q := subQuad([3]Point{from, s.Pts[0], s.Pts[1]}, t0, t1)
		return q[0], Segment{Op: QuadTo, Pts: [3]Point{q[1], q[2]}}
	case CubicTo:
		c := subCubic([4]Point{from, s.Pts[0], s.Pts[1], s.Pts[2]}, t0, t1)
		return c[0], Segment{Op: CubicTo, Pts: [3]Point{c[1], c[2], c[3]}}
	default:
		end := s.End()
		return from.Lerp(end, t0), Segment{Op: LineTo, Pts: [3]Point{from.Lerp(end, t1)}}
	}
}

func quadAt(p0, c, p1 Point, t float64) Point {
	return p0.Lerp(c, t).Lerp(c.Lerp(p1, t), t)
}

func cubicAt(p0, c1, c2, p1 Point, t float64) Point {
	a, b, c := p0.Lerp(c1, t), c1.Lerp(c2, t), c2.Lerp(p1, t)
	return a.Lerp(b, t).Lerp(b.Lerp(c, t), t)
}

func splitQuad(q [3]Point, t float64) (left, right [3]Point) {
	a, b := q[0].Lerp(q[1], t), q[1].Lerp(q[2], t)
	m := a.Lerp(b, t)
	return [3]Point{q[0], a, m}, [3]Point{m, b, q[2]}
}

func splitCubic(c [4]Point, t float64) (left, right [4]Point) {
	a, b, d := c[0].Lerp(c[1], t), c[1].Lerp(c[2], t), c[2].Lerp(c[3], t)
	e, f := a.Lerp(b, t), b.Lerp(d, t)
	m := e.Lerp(f, t)
	return [4]Point{c[0], a, e, m}, [4]Point{m, f, d, c[3]}
}

func subQuad(q [3]Point, t0, t1 float64) [3]Point {
	if t1 < 1 {
		q, _ = splitQuad(q, t1)
	}
	if t0 > 0 && t1 > 0 {
		_, q = splitQuad(q, math.Min(1, t0/t1))
	}
	return q
}

func subCubic(c [4]Point, t0, t1 float64) [4]Point {
	if t1 < 1 {
		c, _ = splitCubic(c, t1)
	}
	if t0 > 0 && t1 > 0 {
		_, c = splitCubic(c, math.Min(1, t0/t1))
	}
	return c
}
