package analysis

import (
	"slices"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"

	"github.com/fracnet/fractrace"
)

// entry is the bounding box of one trace as stored in the tree. The box is
// kept as the two-point line string between its corners so that it satisfies
// geom.Geom.
type entry struct {
	geom.LineString
	i int
}

// Index finds traces whose bounding boxes come near a query rectangle.
type Index struct {
	tree *rtree.Rtree
	n    int
}

// NewIndex indexes the bounding boxes of traces, grown by tol on every side.
// Traces without 2D coordinates are never returned.
func NewIndex(traces []*fractrace.Trace, tol float64) *Index {
	x := &Index{tree: rtree.NewTree(25, 50)}
	for i, t := range traces {
		if !t.Projected() || t.Len() == 0 {
			continue
		}
		r := t.BoundingBox()
		x.tree.Insert(&entry{
			LineString: geom.LineString{
				{X: r.X0 - tol, Y: r.Y0 - tol},
				{X: r.X1 + tol, Y: r.Y1 + tol},
			},
			i: i,
		})
		x.n++
	}
	return x
}

// Len returns the number of indexed traces.
func (x *Index) Len() int { return x.n }

// Search returns the positions, in ascending order, of the traces whose grown
// bounding boxes overlap r.
func (x *Index) Search(r fractrace.Rect) []int {
	r = r.Abs()
	b := &geom.Bounds{
		Min: geom.Point{X: r.X0, Y: r.Y0},
		Max: geom.Point{X: r.X1, Y: r.Y1},
	}
	found := x.tree.SearchIntersect(b)
	out := make([]int, 0, len(found))
	for _, g := range found {
		out = append(out, g.(*entry).i)
	}
	slices.Sort(out)
	return out
}

// pointIndex holds intersection points for radius queries.
type pointIndex struct {
	tree *rtree.Rtree
}

func newPointIndex(pts []fractrace.Point2) *pointIndex {
	x := &pointIndex{tree: rtree.NewTree(25, 50)}
	for _, p := range pts {
		x.tree.Insert(geom.Point{X: p.X, Y: p.Y})
	}
	return x
}

// within returns the number of points strictly closer than radius to c.
func (x *pointIndex) within(c fractrace.Point2, radius float64) int {
	b := &geom.Bounds{
		Min: geom.Point{X: c.X - radius, Y: c.Y - radius},
		Max: geom.Point{X: c.X + radius, Y: c.Y + radius},
	}
	n := 0
	for _, g := range x.tree.SearchIntersect(b) {
		p := g.(geom.Point)
		if c.Distance(fractrace.Pt(p.X, p.Y)) < radius {
			n++
		}
	}
	return n
}
