// Package analysis runs the batch analyses of a fracture trace network: trace
// lengths, trace intersections and P21 density on a grid of sample points.
//
// The work that can run in parallel, pairwise intersection and per-point
// clipping, is spread over a bounded number of goroutines. Candidate traces
// are found through an R-tree of trace bounding boxes, so only traces that can
// meet are compared.
package analysis

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/fracnet/fractrace"
)

// Length is the length of one trace.
type Length struct {
	Name   string
	ID     int
	Length float64
}

// Lengths returns the length of every trace, in order.
func Lengths(traces []*fractrace.Trace) []Length {
	out := make([]Length, len(traces))
	for i, t := range traces {
		out[i] = Length{Name: t.Name, ID: t.ID, Length: t.Length()}
	}
	return out
}

// TotalLength returns the sum of ls.
func TotalLength(ls []Length) float64 {
	v := make([]float64, len(ls))
	for i, l := range ls {
		v[i] = l.Length
	}
	return floats.Sum(v)
}

// Analyzer holds the settings shared by the analyses.
type Analyzer struct {
	// Tolerance is the distance below which two points are the same.
	Tolerance float64

	// Workers bounds the number of goroutines of the parallel phases. Zero
	// means runtime.GOMAXPROCS(0).
	Workers int

	// Log receives progress messages. Nil discards them.
	Log logrus.FieldLogger
}

// New returns an Analyzer with the given tolerance.
func New(tol float64) *Analyzer {
	return &Analyzer{Tolerance: tol}
}

func (a *Analyzer) log() logrus.FieldLogger {
	if a.Log != nil {
		return a.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (a *Analyzer) workers() int {
	if a.Workers > 0 {
		return a.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (a *Analyzer) check() error {
	if !(a.Tolerance > 0) {
		return fmt.Errorf("analysis: tolerance must be positive, got %g", a.Tolerance)
	}
	return nil
}

// Join joins traces whose ends meet until no more joins are possible. It
// returns the remaining traces and the number of joins made. The traces are
// joined in place; absorbed traces are left consumed and are not returned.
func (a *Analyzer) Join(traces []*fractrace.Trace) ([]*fractrace.Trace, int, error) {
	if err := a.check(); err != nil {
		return nil, 0, err
	}
	set, err := fractrace.NewTraceSet(traces...)
	if err != nil {
		return nil, 0, fmt.Errorf("analysis: joining traces: %w", err)
	}
	n := set.JoinAll(a.Tolerance)
	a.log().WithFields(logrus.Fields{
		"traces": set.Len(),
		"joins":  n,
	}).Info("joined traces")
	return set.Traces(), n, nil
}

type pair struct{ i, j int }

// Intersections returns the points where traces cross each other. Points
// reported by several segment pairs or trace pairs are returned once; the
// result is ordered by the first trace pair (i, j) reporting each point.
func (a *Analyzer) Intersections(ctx context.Context, traces []*fractrace.Trace) ([]fractrace.Point2, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	tol := a.Tolerance
	idx := NewIndex(traces, tol)

	var pairs []pair
	for i, t := range traces {
		if !t.Projected() || t.Len() == 0 {
			continue
		}
		for _, j := range idx.Search(t.BoundingBox().Inflate(tol, tol)) {
			if j > i {
				pairs = append(pairs, pair{i, j})
			}
		}
	}
	a.log().WithFields(logrus.Fields{
		"traces": len(traces),
		"pairs":  len(pairs),
	}).Info("intersecting traces")

	found := make([][]fractrace.Point2, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())
	for k, p := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			found[k] = traces[p.i].IntersectionPoints(traces[p.j], tol)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []fractrace.Point2
	for _, pts := range found {
	next:
		for _, p := range pts {
			for _, q := range out {
				if q.SamePoint(p, tol) {
					continue next
				}
			}
			out = append(out, p)
		}
	}
	a.log().WithField("intersections", len(out)).Info("intersected traces")
	return out, nil
}

// CountWithin returns, for every center, the number of points of isects
// strictly closer than radius.
func CountWithin(centers, isects []fractrace.Point2, radius float64) ([]int, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("analysis: %w, got %g", fractrace.ErrInvalidRadius, radius)
	}
	idx := newPointIndex(isects)
	out := make([]int, len(centers))
	for i, c := range centers {
		out[i] = idx.within(c, radius)
	}
	return out, nil
}

// Density returns the P21 density of traces measured with sl around every
// center.
func (a *Analyzer) Density(ctx context.Context, centers []fractrace.Point2, traces []*fractrace.Trace, sl fractrace.Scanline) ([]float64, error) {
	if err := sl.Validate(); err != nil {
		return nil, err
	}
	idx := NewIndex(traces, sl.Tolerance)
	a.log().WithFields(logrus.Fields{
		"traces": idx.Len(),
		"points": len(centers),
		"radius": sl.Radius,
	}).Info("computing P21")

	out := make([]float64, len(centers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())
	for k, c := range centers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := sl.CheckCenter(c); err != nil {
				return err
			}
			boundary, err := sl.Boundary(c)
			if err != nil {
				return err
			}
			circle := sl.Circle(c)
			cand := idx.Search(circle.BoundingBox())
			lengths := make([]float64, len(cand))
			for n, i := range cand {
				lengths[n] = fractrace.LengthInsideCircle(traces[i], boundary, c, sl.Radius, sl.Tolerance)
			}
			out[k] = floats.Sum(lengths) / circle.Area()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Intersections returns the deduplicated intersection points of traces using
// the default number of workers.
func Intersections(ctx context.Context, traces []*fractrace.Trace, tol float64) ([]fractrace.Point2, error) {
	return New(tol).Intersections(ctx, traces)
}

// Density returns the P21 density of traces measured with sl around every
// center using the default number of workers.
func Density(ctx context.Context, centers []fractrace.Point2, traces []*fractrace.Trace, sl fractrace.Scanline) ([]float64, error) {
	return New(sl.Tolerance).Density(ctx, centers, traces, sl)
}

// Join joins traces whose ends lie within tol of each other. See
// [Analyzer.Join].
func Join(traces []*fractrace.Trace, tol float64) ([]*fractrace.Trace, int, error) {
	return New(tol).Join(traces)
}
