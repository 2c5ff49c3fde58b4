package fractrace

import (
	"fmt"
	"math"
)

// DefaultTolerance is the distance below which two points are considered
// the same when no other tolerance is given.
const DefaultTolerance = 1e-3

// Point2 is a point, or a vector, in the plane.
type Point2 struct {
	X float64
	Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point2 {
	return Point2{X: x, Y: y}
}

func (p Point2) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Add adds two vectors and returns the resulting vector.
func (p Point2) Add(o Point2) Point2 {
	return Point2{
		X: p.X + o.X,
		Y: p.Y + o.Y,
	}
}

// Sub computes p−o.
func (p Point2) Sub(o Point2) Point2 {
	return Point2{
		X: p.X - o.X,
		Y: p.Y - o.Y,
	}
}

func (p Point2) Mul(f float64) Point2 {
	return Point2{
		X: p.X * f,
		Y: p.Y * f,
	}
}

func (p Point2) Div(f float64) Point2 {
	return Point2{
		X: p.X / f,
		Y: p.Y / f,
	}
}

// Dot returns the dot product of p and o.
func (p Point2) Dot(o Point2) float64 {
	return p.X*o.X + p.Y*o.Y
}

// Cross returns the cross product of p and o.
func (p Point2) Cross(o Point2) float64 {
	return p.X*o.Y - p.Y*o.X
}

// Length returns the magnitude of the vector.
func (p Point2) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// LengthSquared returns the squared magnitude of the vector.
//
// This function is more efficient than squaring the result of [Point2.Length].
func (p Point2) LengthSquared() float64 {
	return p.Dot(p)
}

// Distance returns the euclidean distance between two points. It is exactly
// zero if and only if the points are equal.
func (p Point2) Distance(o Point2) float64 {
	if p == o {
		return 0
	}
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// DistanceSquared returns the squared euclidean distance between two points.
func (p Point2) DistanceSquared(o Point2) float64 {
	x := p.X - o.X
	y := p.Y - o.Y
	return x*x + y*y
}

// SamePoint reports whether o lies closer to p than tol.
func (p Point2) SamePoint(o Point2, tol float64) bool {
	return p.Distance(o) < tol
}

// Normal returns a vector of magnitude 1 with the same angle as p. It fails
// with [ErrZeroLength] if p has no magnitude.
func (p Point2) Normal() (Point2, error) {
	l := p.Length()
	if l == 0 {
		return Point2{}, ErrZeroLength
	}
	return p.Div(l), nil
}

// SetMagnitude returns a vector with the angle of p and magnitude m.
func (p Point2) SetMagnitude(m float64) (Point2, error) {
	n, err := p.Normal()
	if err != nil {
		return Point2{}, err
	}
	return n.Mul(m), nil
}

// ProjectionOnto returns the component of p along o. If o has zero
// magnitude, the projection is undetermined and the zero vector is returned.
func (p Point2) ProjectionOnto(o Point2) Point2 {
	d := o.Dot(o)
	if d > 0 {
		return o.Mul(p.Dot(o) / d)
	}
	return Point2{}
}

// Rotate90 rotates the vector 90° counterclockwise.
func (p Point2) Rotate90() Point2 {
	return Point2{X: -p.Y, Y: p.X}
}

// Rotate180 reverses the direction of the vector.
func (p Point2) Rotate180() Point2 {
	return Point2{X: -p.X, Y: -p.Y}
}

// Rotated rotates the vector counterclockwise by deg degrees.
func (p Point2) Rotated(deg float64) Point2 {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Point2{
		X: p.X*c - p.Y*s,
		Y: p.X*s + p.Y*c,
	}
}

// Angle returns the angle in degrees between the vector and ⟨1, 0⟩,
// measured counterclockwise. The angle of the zero vector is 0.
func (p Point2) Angle() float64 {
	if p.LengthSquared() == 0 {
		return 0
	}
	return math.Atan2(p.Y, p.X) * 180 / math.Pi
}

// AngleBetween returns the signed angle in degrees from p to o, in the range
// [-180, 180].
func (p Point2) AngleBetween(o Point2) float64 {
	return math.Atan2(p.Cross(o), p.Dot(o)) * 180 / math.Pi
}

// Lerp linearly interpolates between two points.
func (p Point2) Lerp(o Point2, t float64) Point2 {
	// p + t * (o-p)
	return p.Add(o.Sub(p).Mul(t))
}

// IsInf reports whether at least one of x and y is infinite.
func (p Point2) IsInf() bool {
	return math.IsInf(p.X, 0) || math.IsInf(p.Y, 0)
}

// IsNaN reports whether at least one of x and y is NaN.
func (p Point2) IsNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}
