package fractrace

import (
	"math"
	"testing"
)

func TestCircleArea(t *testing.T) {
	approxEqual := func(x, y float64) bool {
		return math.Abs(x-y) < 1e-7
	}

	center := Pt(5, 5)
	c := Circle{center, 5}
	if a := c.Area(); !approxEqual(a, 25*math.Pi) {
		t.Errorf("got area %v, expected %v", a, 25.0*math.Pi)
	}
	if !c.Contains(center) || !c.Contains(Pt(10, 5)) || c.Contains(Pt(10, 6)) {
		t.Error("wrong containment")
	}
	diff(t, c.BoundingBox(), Rect{0, 0, 10, 10})

	poly, err := c.Polygon(DefaultCirclePoints)
	if err != nil {
		t.Fatal(err)
	}
	// The inscribed polygon is a little shorter than the circle.
	if l, p := poly.Length(), 2*math.Pi*c.Radius; l >= p || l < 0.99*p {
		t.Errorf("got polygon perimeter %v for circle perimeter %v", l, p)
	}
}
