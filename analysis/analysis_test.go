package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fracnet/fractrace"
)

func mapTrace(t *testing.T, id int, name string, pts ...fractrace.Point2) *fractrace.Trace {
	t.Helper()
	tr := fractrace.NewTrace(id, name, fractrace.MapView)
	for _, p := range pts {
		tr.AppendVertex(fractrace.V(p.X, p.Y, 0))
	}
	require.NoError(t, tr.Project())
	return tr
}

func assertPoints(t *testing.T, want, got []fractrace.Point2) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-12, "point %d", i)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-12, "point %d", i)
	}
}

func TestLengths(t *testing.T) {
	traces := []*fractrace.Trace{
		mapTrace(t, 3, "a", fractrace.Pt(0, 0), fractrace.Pt(3, 4)),
		mapTrace(t, 7, "b", fractrace.Pt(0, 0), fractrace.Pt(1, 0), fractrace.Pt(1, 1)),
		mapTrace(t, 9, "c", fractrace.Pt(2, 2)),
	}
	ls := Lengths(traces)
	assert.Equal(t, []Length{
		{Name: "a", ID: 3, Length: 5},
		{Name: "b", ID: 7, Length: 2},
		{Name: "c", ID: 9, Length: 0},
	}, ls)
	assert.InDelta(t, 7, TotalLength(ls), 1e-12)
}

func crossTraces(t *testing.T) []*fractrace.Trace {
	return []*fractrace.Trace{
		mapTrace(t, 1, "A", fractrace.Pt(-1, 0), fractrace.Pt(1, 0)),
		mapTrace(t, 2, "B", fractrace.Pt(0, -1), fractrace.Pt(0, 1)),
		mapTrace(t, 3, "C", fractrace.Pt(5, 5), fractrace.Pt(6, 6)),
		mapTrace(t, 4, "D", fractrace.Pt(-1, 0.5), fractrace.Pt(1, 0.5)),
	}
}

func TestIntersections(t *testing.T) {
	got, err := Intersections(context.Background(), crossTraces(t), fractrace.DefaultTolerance)
	require.NoError(t, err)
	assertPoints(t, []fractrace.Point2{fractrace.Pt(0, 0), fractrace.Pt(0, 0.5)}, got)
}

func TestIntersectionsDedupe(t *testing.T) {
	traces := []*fractrace.Trace{
		mapTrace(t, 1, "h", fractrace.Pt(-1, 0), fractrace.Pt(1, 0)),
		// Interior vertex on h: both segments report the same point.
		mapTrace(t, 2, "v", fractrace.Pt(0, 1), fractrace.Pt(0, 0), fractrace.Pt(0, -1)),
		mapTrace(t, 3, "d", fractrace.Pt(-1, -1), fractrace.Pt(1, 1)),
	}
	got, err := Intersections(context.Background(), traces, fractrace.DefaultTolerance)
	require.NoError(t, err)
	assertPoints(t, []fractrace.Point2{fractrace.Pt(0, 0)}, got)
}

func TestIntersectionsWorkers(t *testing.T) {
	traces := gridTraces(t)
	seq := &Analyzer{Tolerance: fractrace.DefaultTolerance, Workers: 1}
	want, err := seq.Intersections(context.Background(), traces)
	require.NoError(t, err)
	require.NotEmpty(t, want)

	par := &Analyzer{Tolerance: fractrace.DefaultTolerance, Workers: 8}
	got, err := par.Intersections(context.Background(), traces)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIntersectionsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Intersections(ctx, crossTraces(t), fractrace.DefaultTolerance)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIntersectionsTolerance(t *testing.T) {
	_, err := Intersections(context.Background(), crossTraces(t), 0)
	assert.Error(t, err)
}

func TestCountWithin(t *testing.T) {
	centers := []fractrace.Point2{fractrace.Pt(0, 0), fractrace.Pt(10, 10)}
	isects := []fractrace.Point2{fractrace.Pt(0, 0), fractrace.Pt(0, 0.5), fractrace.Pt(3, 0)}
	tests := []struct {
		radius float64
		want   []int
	}{
		{1, []int{2, 0}},
		// (3, 0) lies on the circle and is not counted.
		{3, []int{2, 0}},
		{3.5, []int{3, 0}},
		{20, []int{3, 3}},
	}
	for _, tt := range tests {
		got, err := CountWithin(centers, isects, tt.radius)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "radius %g", tt.radius)
	}

	_, err := CountWithin(centers, isects, 0)
	assert.ErrorIs(t, err, fractrace.ErrInvalidRadius)
}

func gridTraces(t *testing.T) []*fractrace.Trace {
	return []*fractrace.Trace{
		mapTrace(t, 1, "diag", fractrace.Pt(-10, -7), fractrace.Pt(9, 8)),
		mapTrace(t, 2, "bent", fractrace.Pt(-5, -5), fractrace.Pt(0, 3), fractrace.Pt(6, -2)),
		mapTrace(t, 3, "flat", fractrace.Pt(-10, 1), fractrace.Pt(10, 1)),
		mapTrace(t, 4, "far", fractrace.Pt(50, 50), fractrace.Pt(60, 51)),
	}
}

func TestDensity(t *testing.T) {
	traces := []*fractrace.Trace{
		mapTrace(t, 1, "flat", fractrace.Pt(-10, 1), fractrace.Pt(10, 1)),
	}
	centers := []fractrace.Point2{fractrace.Pt(0, 0), fractrace.Pt(100, 100)}
	got, err := Density(context.Background(), centers, traces, fractrace.NewScanline(5))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 9.683231119350927/(25*math.Pi), got[0], 1e-12)
	assert.Equal(t, 0.0, got[1])
}

func TestDensityMatchesScanline(t *testing.T) {
	traces := gridTraces(t)
	var centers []fractrace.Point2
	for x := -4.0; x <= 4; x += 2 {
		for y := -4.0; y <= 4; y += 2 {
			centers = append(centers, fractrace.Pt(x, y))
		}
	}
	sl := fractrace.NewScanline(3)

	par := &Analyzer{Tolerance: sl.Tolerance, Workers: 4}
	got, err := par.Density(context.Background(), centers, traces, sl)
	require.NoError(t, err)

	seq := &Analyzer{Tolerance: sl.Tolerance, Workers: 1}
	again, err := seq.Density(context.Background(), centers, traces, sl)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	for i, c := range centers {
		want, err := sl.P21(c, traces)
		require.NoError(t, err)
		assert.InDelta(t, want, got[i], 1e-12, "center %s", c)
	}
}

func TestDensityInvalidScanline(t *testing.T) {
	_, err := Density(context.Background(), []fractrace.Point2{fractrace.Pt(0, 0)}, nil, fractrace.NewScanline(-1))
	assert.ErrorIs(t, err, fractrace.ErrInvalidRadius)
}

func TestDensityNonFiniteCenter(t *testing.T) {
	centers := []fractrace.Point2{fractrace.Pt(0, 0), fractrace.Pt(math.NaN(), 1)}
	_, err := Density(context.Background(), centers, gridTraces(t), fractrace.NewScanline(3))
	assert.ErrorContains(t, err, "not finite")
}

func TestJoin(t *testing.T) {
	traces := []*fractrace.Trace{
		mapTrace(t, 1, "A", fractrace.Pt(0, 0), fractrace.Pt(1, 0)),
		mapTrace(t, 2, "B", fractrace.Pt(1, 0), fractrace.Pt(2, 0)),
		mapTrace(t, 3, "C", fractrace.Pt(5, 5), fractrace.Pt(6, 6)),
	}
	out, n, err := Join(traces, fractrace.DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, out, 2)
	assert.Equal(t, "A_JOIN_B", out[0].Name)
	assert.Equal(t, []fractrace.Point2{fractrace.Pt(0, 0), fractrace.Pt(1, 0), fractrace.Pt(2, 0)}, out[0].Points())
	assert.Same(t, traces[2], out[1])
	assert.True(t, traces[1].Consumed())
}

func TestJoinDuplicateID(t *testing.T) {
	traces := []*fractrace.Trace{
		mapTrace(t, 1, "A", fractrace.Pt(0, 0), fractrace.Pt(1, 0)),
		mapTrace(t, 1, "B", fractrace.Pt(1, 0), fractrace.Pt(2, 0)),
	}
	_, _, err := Join(traces, fractrace.DefaultTolerance)
	assert.Error(t, err)
}

func TestIndexSearch(t *testing.T) {
	traces := gridTraces(t)
	traces = append(traces, fractrace.NewTrace(5, "empty", fractrace.MapView))
	idx := NewIndex(traces, fractrace.DefaultTolerance)
	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, []int{3}, idx.Search(fractrace.Rect{X0: 55, Y0: 55, X1: 45, Y1: 45}))
	assert.Equal(t, []int{0, 1, 2}, idx.Search(fractrace.Rect{X0: -1, Y0: -1, X1: 1, Y1: 1}))
	assert.Empty(t, idx.Search(fractrace.Rect{X0: 20, Y0: 20, X1: 30, Y1: 30}))
}
