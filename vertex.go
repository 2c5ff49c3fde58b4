package fractrace

import "fmt"

// Vec3 is a coordinate or direction in space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

var (
	// MapView is the normal of the horizontal coordinate plane.
	MapView = Vec3{0, 0, 1}
)

// IsMapView reports whether the plane with normal n is the horizontal
// plane, viewed from above or below.
func IsMapView(n Vec3) bool {
	return n.X == 0 && n.Y == 0 && (n.Z == 1 || n.Z == -1)
}

// Vertex is one digitized point of a trace, together with the display
// attributes it was exported with.
type Vertex struct {
	// Pos is the source coordinate.
	Pos Vec3
	// Map is Pos projected onto the trace's coordinate plane. It is only
	// meaningful once the trace has been projected.
	Map Point2

	PType      int
	ColorIndex int
	ColorNum   int
	R, G, B    int
}

// V returns a vertex at (x, y, z) with white color and no other attributes.
func V(x, y, z float64) Vertex {
	return Vertex{
		Pos: Vec3{x, y, z},
		R:   255,
		G:   255,
		B:   255,
	}
}
