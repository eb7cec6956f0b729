package geom

import "strings"

// Op identifies the kind of a path segment.
type Op uint8

const (
	MoveTo Op = iota
	LineTo
	QuadTo
	CubicTo
	Close
)

// Segment is one path operation. Pts holds the control points followed by
// the end point; unused entries are zero so segments compare with ==.
type Segment struct {
	Op  Op
	Pts [3]Point
}

// End returns the point the segment finishes at. Close segments have no end
// point of their own and return the zero point.
func (s Segment) End() Point {
	switch s.Op {
	case QuadTo:
		return s.Pts[1]
	case CubicTo:
		return s.Pts[2]
	case Close:
		return Point{}
	default:
		return s.Pts[0]
	}
}

// Path is a general path made of move, line, curve and close segments.
// The zero value is an empty path ready to use.
type Path struct {
	segs []Segment
}

// NewPath returns an empty path with room for capacity segments.
func NewPath(capacity int) *Path {
	return &Path{segs: make([]Segment, 0, capacity)}
}

// Polyline builds a path that moves to the first point and draws lines
// through the remaining ones.
func Polyline(pts ...Point) *Path {
	p := NewPath(len(pts))
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt)
		} else {
			p.LineTo(pt)
		}
	}
	return p
}

func (p *Path) MoveTo(pt Point) { p.segs = append(p.segs, Segment{Op: MoveTo, Pts: [3]Point{pt}}) }
func (p *Path) LineTo(pt Point) { p.segs = append(p.segs, Segment{Op: LineTo, Pts: [3]Point{pt}}) }
func (p *Path) QuadTo(c, pt Point) {
	p.segs = append(p.segs, Segment{Op: QuadTo, Pts: [3]Point{c, pt}})
}
func (p *Path) CubicTo(c1, c2, pt Point) {
	p.segs = append(p.segs, Segment{Op: CubicTo, Pts: [3]Point{c1, c2, pt}})
}
func (p *Path) Close() { p.segs = append(p.segs, Segment{Op: Close}) }

// Size returns the number of segments, including moves.
func (p *Path) Size() int {
	if p == nil {
		return 0
	}
	return len(p.segs)
}

// Segments returns the segments of p. The slice must not be modified.
func (p *Path) Segments() []Segment {
	if p == nil {
		return nil
	}
	return p.segs
}

// IsEmpty reports whether p draws nothing, i.e. has no segment other than
// moves.
func (p *Path) IsEmpty() bool {
	if p == nil {
		return true
	}
	for _, s := range p.segs {
		if s.Op != MoveTo {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of p.
func (p *Path) Clone() *Path {
	if p == nil {
		return NewPath(0)
	}
	return &Path{segs: append([]Segment(nil), p.segs...)}
}

// Equal reports whether p and o consist of exactly the same segments.
// A nil path equals an empty one.
func (p *Path) Equal(o *Path) bool {
	if p.Size() != o.Size() {
		return false
	}
	for i := range p.Segments() {
		if p.segs[i] != o.segs[i] {
			return false
		}
	}
	return true
}

// Points returns the end point of every move, line and curve segment in
// order. Control points are not included.
func (p *Path) Points() []Point {
	out := make([]Point, 0, p.Size())
	for _, s := range p.Segments() {
		if s.Op != Close {
			out = append(out, s.End())
		}
	}
	return out
}

// Last returns the final end point of p.
func (p *Path) Last() (Point, bool) {
	pts := p.Points()
	if len(pts) == 0 {
		return Point{}, false
	}
	return pts[len(pts)-1], true
}

// SVGData serializes p as SVG path data, for example "M 0 0 L 10 0".
// An empty path yields the empty string.
func (p *Path) SVGData() string {
	if p.Size() == 0 {
		return ""
	}
	var b strings.Builder
	for i, s := range p.segs {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch s.Op {
		case MoveTo:
			b.WriteString("M " + s.Pts[0].String())
		case LineTo:
			b.WriteString("L " + s.Pts[0].String())
		case QuadTo:
			b.WriteString("Q " + s.Pts[0].String() + " " + s.Pts[1].String())
		case CubicTo:
			b.WriteString("C " + s.Pts[0].String() + " " + s.Pts[1].String() + " " + s.Pts[2].String())
		case Close:
			b.WriteString("Z")
		}
	}
	return b.String()
}

// EndTangent returns the last point of p together with the unit direction
// the path travels in when it arrives there.
func (p *Path) EndTangent() (at, dir Point, ok bool) {
	var cur, start, prev Point
	var last Segment
	found := false
	for _, s := range p.Segments() {
		switch s.Op {
		case MoveTo:
			cur, start = s.Pts[0], s.Pts[0]
			continue
		case Close:
			s = Segment{Op: LineTo, Pts: [3]Point{start}}
		}
		prev, last, found = cur, s, true
		cur = s.End()
	}
	if !found {
		return Point{}, Point{}, false
	}
	end := last.End()
	var from Point
	switch last.Op {
	case QuadTo:
		from = last.Pts[0]
	case CubicTo:
		from = last.Pts[1]
	default:
		from = prev
	}
	if from == end {
		from = prev
	}
	return end, end.Sub(from).Normalized(), true
}

// Smoothed returns a copy of p whose polyline corners are replaced by
// quadratic curves. Each corner is rounded over at most radius units, and
// never more than half of either adjacent segment. Paths that already contain
// curves are returned unchanged.
func (p *Path) Smoothed(radius float64) *Path {
	var runs [][]Point
	for _, s := range p.Segments() {
		switch s.Op {
		case MoveTo:
			runs = append(runs, []Point{s.Pts[0]})
		case LineTo:
			if len(runs) == 0 {
				runs = append(runs, []Point{{}})
			}
			runs[len(runs)-1] = append(runs[len(runs)-1], s.Pts[0])
		default:
			return p.Clone()
		}
	}

	out := NewPath(p.Size() * 2)
	for _, pts := range runs {
		out.MoveTo(pts[0])
		for i := 1; i < len(pts)-1; i++ {
			v := pts[i]
			in, next := v.Sub(pts[i-1]), pts[i+1].Sub(v)
			d := min(radius, in.Len()/2, next.Len()/2)
			if d <= 0 || in.Normalized().Cross(next.Normalized()) == 0 {
				out.LineTo(v)
				continue
			}
			out.LineTo(v.Sub(in.Normalized().Scale(d)))
			out.QuadTo(v, v.Add(next.Normalized().Scale(d)))
		}
		if len(pts) > 1 {
			out.LineTo(pts[len(pts)-1])
		}
	}
	return out
}

// Append adds s to the end of p.
func (p *Path) Append(s Segment) { p.segs = append(p.segs, s) }

// StartTangent returns the first point of p together with the unit direction
// pointing backwards out of the path, which is where a source arrow faces.
func (p *Path) StartTangent() (at, dir Point, ok bool) {
	var cur Point
	for _, s := range p.Segments() {
		switch s.Op {
		case MoveTo:
			cur = s.Pts[0]
			continue
		case Close:
			return Point{}, Point{}, false
		}
		to := s.Pts[0]
		if to == cur {
			to = s.End()
		}
		return cur, cur.Sub(to).Normalized(), true
	}
	return Point{}, Point{}, false
}
