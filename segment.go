package fractrace

import (
	"fmt"
	"math"
)

// Segment represents a finite line segment. It may be degenerate, with both
// endpoints equal.
type Segment struct {
	V0 Point2
	V1 Point2
}

// Seg returns the segment from v0 to v1.
func Seg(v0, v1 Point2) Segment {
	return Segment{V0: v0, V1: v1}
}

func (s Segment) String() string {
	return fmt.Sprintf("%s–%s", s.V0, s.V1)
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return s.V0.Distance(s.V1)
}

func (s Segment) Eval(t float64) Point2 {
	return s.V0.Lerp(s.V1, t)
}

func (s Segment) BoundingBox() Rect {
	return NewRectFromPoints(s.V0, s.V1)
}

// IsEndpoint reports whether p lies within tol of either endpoint.
func (s Segment) IsEndpoint(p Point2, tol float64) bool {
	return s.V0.SamePoint(p, tol) || s.V1.SamePoint(p, tol)
}

// Nearest returns the squared distance from p to the closest point of the
// segment and that point's parameter t ∈ [0, 1]. Degenerate segments report
// their start point.
func (s Segment) Nearest(p Point2) (distSq, t float64) {
	d := s.V1.Sub(s.V0)
	dotp := d.Dot(p.Sub(s.V0))
	dSquared := d.Dot(d)
	if dotp <= 0.0 {
		return p.Sub(s.V0).LengthSquared(), 0.0
	} else if dotp >= dSquared {
		return p.Sub(s.V1).LengthSquared(), 1.0
	} else {
		t := dotp / dSquared
		dist := p.Sub(s.Eval(t)).LengthSquared()
		return dist, t
	}
}

// MinimumDistance returns the distance from p to the segment. When the
// projection of p onto the segment's line falls in (0, 1+tol) the
// perpendicular distance is returned, otherwise the distance to the closer
// endpoint. The segment must have nonzero length.
func (s Segment) MinimumDistance(p Point2, tol float64) (float64, error) {
	d := s.V1.Sub(s.V0)
	dSquared := d.Dot(d)
	if dSquared == 0 {
		return 0, fmt.Errorf("fractrace: distance from %s to %s: %w", p, s, ErrDegenerateSegment)
	}
	t := d.Dot(p.Sub(s.V0)) / dSquared
	if t > 0 && t-1 < tol {
		return s.V0.Add(d.Mul(t)).Distance(p), nil
	}
	return math.Min(s.V0.Distance(p), s.V1.Distance(p)), nil
}

// IntersectionPoints returns the points where s and o intersect.
//
// Segments whose direction determinant is within tol of zero are treated as
// parallel. For those, only the endpoints of o that coincide with an endpoint
// of s are reported; overlapping collinear stretches are not computed. Thus
// the result holds at most one point, or two in the parallel case.
func (s Segment) IntersectionPoints(o Segment, tol float64) []Point2 {
	xlk := s.V1.X - s.V0.X
	ylk := s.V1.Y - s.V0.Y
	xnm := o.V1.X - o.V0.X
	ynm := o.V1.Y - o.V0.Y
	xmk := o.V0.X - s.V0.X
	ymk := o.V0.Y - s.V0.Y

	denom := xnm*ylk - xlk*ynm
	if math.Abs(denom) <= tol {
		var pts []Point2
		if s.IsEndpoint(o.V0, tol) {
			pts = append(pts, o.V0)
		}
		if s.IsEndpoint(o.V1, tol) {
			pts = append(pts, o.V1)
		}
		return pts
	}

	// sp = position on s, tp = position on o
	sp := (xnm*ymk - xmk*ynm) / denom
	tp := (xlk*ymk - ylk*xmk) / denom
	if sp < 0 || tp < 0 || sp > 1 || tp > 1 {
		return nil
	}
	return []Point2{{X: s.V0.X + xlk*sp, Y: s.V0.Y + ylk*sp}}
}
