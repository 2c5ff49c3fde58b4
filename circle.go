package fractrace

import "math"

// DefaultCirclePoints is the number of corners of the polygon that
// approximates a scan-line circle.
const DefaultCirclePoints = 20

type Circle struct {
	Center Point2
	Radius float64
}

// Contains reports whether pt lies inside the circle or on its boundary.
func (c Circle) Contains(pt Point2) bool {
	return pt.DistanceSquared(c.Center) <= c.Radius*c.Radius
}

func (c Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

func (c Circle) BoundingBox() Rect {
	r := math.Abs(c.Radius)
	x := c.Center.X
	y := c.Center.Y
	return Rect{
		X0: x - r,
		Y0: y - r,
		X1: x + r,
		Y1: y + r,
	}
}

func (c Circle) IsInf() bool {
	return c.Center.IsInf() || math.IsInf(c.Radius, 0)
}

func (c Circle) IsNaN() bool {
	return c.Center.IsNaN() || math.IsNaN(c.Radius)
}

// Polygon returns the circle approximated by a closed polygon with n corners.
// See [NewCircularTrace].
func (c Circle) Polygon(n int) (*Trace, error) {
	return NewCircularTrace(c.Center, c.Radius, n)
}
