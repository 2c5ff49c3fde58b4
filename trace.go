package fractrace

import (
	"fmt"
	"math"
	"slices"
	"sync"
)

// JoinSeparator separates the names of joined traces.
const JoinSeparator = "_JOIN_"

// Trace is a digitized fracture trace: a polyline of vertices in a
// coordinate plane.
//
// All per-vertex data lives in a single slice of [Vertex], so reversing,
// trimming and joining keep coordinates and attributes aligned.
//
// A Trace must not be copied after first use. Mutating methods must not be
// called concurrently with any other method; read-only methods may be called
// concurrently.
type Trace struct {
	ID    int
	Name  string
	Plane Vec3

	verts     []Vertex
	projected bool
	consumed  bool
	// version is incremented by every mutation of verts.
	version uint64

	mu          sync.Mutex
	segs        []Segment
	segsVersion uint64
	segsValid   bool
}

// NewTrace returns an empty trace lying in the plane with normal plane.
func NewTrace(id int, name string, plane Vec3, verts ...Vertex) *Trace {
	t := &Trace{
		ID:    id,
		Name:  name,
		Plane: plane,
	}
	for _, v := range verts {
		t.AppendVertex(v)
	}
	return t
}

func (t *Trace) String() string {
	return fmt.Sprintf("Trace{%d %q, %d vertices}", t.ID, t.Name, len(t.verts))
}

// Len returns the number of vertices.
func (t *Trace) Len() int { return len(t.verts) }

// Projected reports whether the 2D coordinates of the trace are available.
func (t *Trace) Projected() bool { return t.projected }

// Consumed reports whether the trace has been absorbed by another trace in
// [Trace.AppendIfSameEndpoints].
func (t *Trace) Consumed() bool { return t.consumed }

// Vertices returns a copy of the trace's vertices.
func (t *Trace) Vertices() []Vertex {
	return slices.Clone(t.verts)
}

// Points returns the projected 2D coordinates, in order. It returns nil if
// the trace has not been projected.
func (t *Trace) Points() []Point2 {
	if !t.projected {
		return nil
	}
	pts := make([]Point2, len(t.verts))
	for i, v := range t.verts {
		pts[i] = v.Map
	}
	return pts
}

func (t *Trace) mustLive() {
	if t.consumed {
		panic(fmt.Sprintf("fractrace: use of trace %d after it was joined into another trace", t.ID))
	}
}

func (t *Trace) touch() {
	t.version++
}

// AppendVertex appends v to the end of the trace. If the trace has already
// been projected, v is projected as well.
func (t *Trace) AppendVertex(v Vertex) {
	t.mustLive()
	if t.projected {
		v.Map = Pt(v.Pos.X, v.Pos.Y)
	}
	t.verts = append(t.verts, v)
	t.touch()
}

// Project computes the 2D coordinates of all vertices. Only the map view
// plane, with normal (0, 0, ±1), is supported; it drops the z coordinate. For
// any other plane the trace stays unprojected, with no 2D coordinates, and
// Project returns an error wrapping [ErrUnsupportedPlane].
func (t *Trace) Project() error {
	t.mustLive()
	if !IsMapView(t.Plane) {
		return fmt.Errorf("fractrace: trace %d in plane %s: %w", t.ID, t.Plane, ErrUnsupportedPlane)
	}
	for i := range t.verts {
		p := t.verts[i].Pos
		t.verts[i].Map = Pt(p.X, p.Y)
	}
	t.projected = true
	t.touch()
	return nil
}

// Reverse reverses the order of the vertices.
func (t *Trace) Reverse() {
	t.mustLive()
	slices.Reverse(t.verts)
	t.touch()
}

func (t *Trace) pop() {
	t.verts = t.verts[:len(t.verts)-1]
	t.touch()
}

// Segments returns the decomposition of the trace into n-1 segments, in
// order. The decomposition is cached until the next mutation.
func (t *Trace) Segments() []Segment {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.segsValid || t.segsVersion != t.version {
		t.segs = t.segs[:0]
		if t.projected {
			for i := 1; i < len(t.verts); i++ {
				t.segs = append(t.segs, Segment{V0: t.verts[i-1].Map, V1: t.verts[i].Map})
			}
		}
		t.segsVersion = t.version
		t.segsValid = true
	}
	return slices.Clone(t.segs)
}

// Length returns the length of the projected trace.
func (t *Trace) Length() float64 {
	if !t.projected {
		return 0
	}
	var l float64
	for i := 1; i < len(t.verts); i++ {
		l += t.verts[i].Map.Distance(t.verts[i-1].Map)
	}
	return l
}

// BoundingBox returns the bounding box of the projected trace. It is the
// zero Rect for traces without 2D coordinates.
func (t *Trace) BoundingBox() Rect {
	if !t.projected || len(t.verts) == 0 {
		return Rect{}
	}
	p := t.verts[0].Map
	r := Rect{X0: p.X, Y0: p.Y, X1: p.X, Y1: p.Y}
	for _, v := range t.verts[1:] {
		r = r.UnionPoint(v.Map)
	}
	return r
}

// IsEndpoint returns the index of the end of the trace that lies within tol
// of p. The start is checked before the end. Interior vertices are never
// matched.
func (t *Trace) IsEndpoint(p Point2, tol float64) (int, bool) {
	if !t.projected || len(t.verts) == 0 {
		return -1, false
	}
	if t.verts[0].Map.SamePoint(p, tol) {
		return 0, true
	}
	last := len(t.verts) - 1
	if t.verts[last].Map.SamePoint(p, tol) {
		return last, true
	}
	return -1, false
}

// AppendIfSameEndpoints joins o onto t if an end of o lies within tol of an
// end of t. The traces are oriented so that the matching ends meet, and t's
// copy of the shared vertex is dropped. The name of t becomes
// t.Name + JoinSeparator + o.Name.
//
// A successful join consumes o: its vertices now belong to t and any further
// mutation of o panics. The caller must drop o from its collection. Only one
// match is attempted; joining a whole network requires repeating the call
// until no more joins happen (see [TraceSet.JoinAll]).
func (t *Trace) AppendIfSameEndpoints(o *Trace, tol float64) bool {
	t.mustLive()
	o.mustLive()
	if t == o || !o.projected || len(o.verts) == 0 {
		return false
	}

	first := o.verts[0].Map
	last := o.verts[len(o.verts)-1].Map
	if i, ok := t.IsEndpoint(first, tol); ok {
		if i == 0 {
			// start matches start
			t.Reverse()
		}
		t.pop()
	} else if i, ok := t.IsEndpoint(last, tol); ok {
		if i == 0 {
			// start matches end
			t.Reverse()
		}
		t.pop()
		o.Reverse()
	} else {
		return false
	}

	t.verts = append(t.verts, o.verts...)
	t.Name += JoinSeparator + o.Name
	t.touch()

	o.verts = nil
	o.consumed = true
	o.touch()
	return true
}

// IntersectionPoints returns the intersections of every segment of t with
// every segment of o. Points where several segment pairs meet are reported
// once per pair.
func (t *Trace) IntersectionPoints(o *Trace, tol float64) []Point2 {
	var pts []Point2
	osegs := o.Segments()
	for _, m := range t.Segments() {
		for _, n := range osegs {
			pts = append(pts, m.IntersectionPoints(n, tol)...)
		}
	}
	return pts
}

// NewCircularTrace returns a closed polygon approximating the circle with
// the given center and radius. The polygon has n corners evenly spaced in
// angle starting on the positive x axis; the returned trace has n+1 vertices
// because the last one closes the loop. n must be at least 4.
func NewCircularTrace(center Point2, radius float64, n int) (*Trace, error) {
	if n < 4 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewPoints, n)
	}
	t := &Trace{
		Name:      "CircularScanline",
		Plane:     MapView,
		projected: true,
		verts:     make([]Vertex, 0, n+1),
	}
	deltaTh := 2 * math.Pi / float64(n)
	for i := 0; i <= n; i++ {
		var p Point2
		if i == n {
			p = t.verts[0].Map
		} else {
			s, c := math.Sincos(deltaTh * float64(i))
			p = Pt(center.X+radius*c, center.Y+radius*s)
		}
		v := V(p.X, p.Y, 0)
		v.Map = p
		t.verts = append(t.verts, v)
	}
	return t, nil
}
