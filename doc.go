// Package fractrace provides the planar geometry used to analyze networks of
// fracture traces: trace lengths, trace intersections, and the areal fracture
// density P21, the fracture length per unit area, measured with circular
// scan-lines.
//
// # Points and segments
//
// [Point2] doubles as a point and a vector. Arithmetic is exact floating
// point; wherever two points have to be matched, [Point2.SamePoint] compares
// them with a distance tolerance, [DefaultTolerance] unless the caller says
// otherwise.
//
// [Segment] intersection solves the 2×2 system with the perp-dot product.
// Nearly parallel segments are not intersected; only their shared endpoints
// are reported. Collinear overlap is never computed.
//
// # Traces
//
// A [Trace] is a polyline digitized in a coordinate plane. Each [Vertex]
// carries the source coordinate, its 2D projection and the display
// attributes it was exported with. Only the map view plane (normal
// (0, 0, ±1)) can be projected; see [Trace.Project].
//
// Traces whose ends meet can be joined with [Trace.AppendIfSameEndpoints],
// which consumes the other trace. [TraceSet.JoinAll] repeats this over a whole
// network until no two traces can be joined.
//
// # Scan-lines
//
// A [Scanline] is a circle of fixed radius, approximated by a regular polygon
// with [DefaultCirclePoints] corners. [LengthInsideCircle] clips a trace
// against such a polygon, and [Scanline.P21] divides the clipped length of a
// set of traces by the circle's area.
//
// All functions are pure except the mutating methods of Trace and TraceSet.
// Read-only methods may be used from several goroutines at once.
package fractrace
