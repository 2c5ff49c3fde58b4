package fractrace

import (
	"errors"
	"fmt"
	"math"
)

// Scanline measures fracture length inside circles of a fixed radius. The
// circles are approximated by regular polygons with NumPoints corners.
type Scanline struct {
	Radius    float64
	NumPoints int
	Tolerance float64
}

// NewScanline returns a scan-line of the given radius using
// [DefaultCirclePoints] and [DefaultTolerance].
func NewScanline(radius float64) Scanline {
	return Scanline{
		Radius:    radius,
		NumPoints: DefaultCirclePoints,
		Tolerance: DefaultTolerance,
	}
}

func (sl Scanline) Validate() error {
	if !(sl.Radius > 0) || math.IsInf(sl.Radius, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidRadius, sl.Radius)
	}
	if sl.NumPoints < 4 {
		return fmt.Errorf("%w, got %d", ErrTooFewPoints, sl.NumPoints)
	}
	if !(sl.Tolerance > 0) {
		return errors.New("fractrace: tolerance must be positive")
	}
	return nil
}

// CheckCenter reports an error if the scan-line circle around center is not
// finite.
func (sl Scanline) CheckCenter(center Point2) error {
	if c := sl.Circle(center); c.IsNaN() || c.IsInf() {
		return fmt.Errorf("fractrace: scan-line center %s is not finite", center)
	}
	return nil
}

// Circle returns the scan-line circle around center.
func (sl Scanline) Circle(center Point2) Circle {
	return Circle{Center: center, Radius: sl.Radius}
}

// Boundary returns the edges of the polygon approximating the scan-line
// circle around center.
func (sl Scanline) Boundary(center Point2) ([]Segment, error) {
	poly, err := sl.Circle(center).Polygon(sl.NumPoints)
	if err != nil {
		return nil, err
	}
	return poly.Segments(), nil
}

// LengthInside returns the total length of traces inside the scan-line
// circle around center.
func (sl Scanline) LengthInside(center Point2, traces []*Trace) (float64, error) {
	if err := sl.Validate(); err != nil {
		return 0, err
	}
	if err := sl.CheckCenter(center); err != nil {
		return 0, err
	}
	boundary, err := sl.Boundary(center)
	if err != nil {
		return 0, err
	}
	var l float64
	for _, t := range traces {
		l += LengthInsideCircle(t, boundary, center, sl.Radius, sl.Tolerance)
	}
	return l, nil
}

// P21 returns the fracture length per unit area inside the scan-line circle
// around center.
func (sl Scanline) P21(center Point2, traces []*Trace) (float64, error) {
	l, err := sl.LengthInside(center, traces)
	if err != nil {
		return 0, err
	}
	return l / sl.Circle(center).Area(), nil
}

// P21At returns the fracture length per unit area of traces inside the
// circle of the given radius around pt, using a 20-corner polygon for the
// circle. It fails with [ErrInvalidRadius] if radius is not positive.
func P21At(pt Point2, traces []*Trace, radius float64) (float64, error) {
	return NewScanline(radius).P21(pt, traces)
}

// LengthInsideCircle returns the length of the part of t that lies within
// radius of center. boundary holds the edges of a polygon approximating the
// circle; the points where t leaves the circle are found by intersecting t
// with these edges.
//
// Each segment of t is handled on its own:
//   - segments whose closest point to center is farther than radius are
//     skipped;
//   - segments with both endpoints inside count in full;
//   - segments with one endpoint inside count from that endpoint to the
//     farthest boundary crossing;
//   - segments passing through with both endpoints outside count between
//     successive pairs of boundary crossings, in the order the crossings are
//     found.
//
// A crossing within tol of an earlier crossing of the same segment is the
// same boundary point, reported by two adjacent edges, and counts once.
//
// LengthInsideCircle panics with a [*ConsistencyError] if one boundary edge
// crosses a segment more than once.
func LengthInsideCircle(t *Trace, boundary []Segment, center Point2, radius, tol float64) float64 {
	circle := Circle{Center: center, Radius: radius}
	box := circle.BoundingBox()
	r2 := radius * radius
	var total float64
	for _, m := range t.Segments() {
		if !m.BoundingBox().Overlaps(box) {
			continue
		}
		if distSq, _ := m.Nearest(center); distSq > r2 {
			continue
		}
		in0 := circle.Contains(m.V0)
		in1 := circle.Contains(m.V1)
		switch {
		case in0 && in1:
			total += m.Length()
		case in0 || in1:
			inside := m.V0
			if in1 {
				inside = m.V1
			}
			// An inside end between the circle and the polygon can see
			// two crossings: the polygon entry right next to it and the
			// real exit. The exit is the one farthest away.
			var far float64
			for _, x := range crossings(m, boundary, tol) {
				far = max(far, inside.Distance(x))
			}
			total += far
		default:
			xs := crossings(m, boundary, tol)
			for i := 1; i < len(xs); i += 2 {
				total += xs[i-1].Distance(xs[i])
			}
		}
	}
	return total
}

// crossings returns the distinct points where m crosses boundary, in boundary
// order.
func crossings(m Segment, boundary []Segment, tol float64) []Point2 {
	var xs []Point2
outer:
	for _, edge := range boundary {
		pts := m.IntersectionPoints(edge, tol)
		if len(pts) > 1 {
			panic(&ConsistencyError{Segment: m, Circle: edge, Points: pts})
		}
		if len(pts) == 0 {
			continue
		}
		for _, x := range xs {
			if x.SamePoint(pts[0], tol) {
				continue outer
			}
		}
		xs = append(xs, pts[0])
	}
	return xs
}
