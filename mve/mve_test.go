package mve

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fracnet/fractrace"
	"github.com/fracnet/fractrace/analysis"
)

const traceFile = "x\ty\tz\tName\tId\tPType\tColour Num\tColour Id\tColour (red)\tColour (green)\tColour (blue)\n" +
	"0\t0\t5\tF1\t1\t0\t2\t3\t10\t20\t30\n" +
	"3\t4\t5\tF1\t1\t1\t2\t3\t10\t20\t30\n" +
	"\n" +
	"10\t0\t0\tF2\t2\t0\t0\t0\t255\t255\t255\n" +
	"x\ty\tz\tName\tId\tPType\tColour Num\tColour Id\tColour (red)\tColour (green)\tColour (blue)\n" +
	"10\t1\t0\tF2\t2\t1\t0\t0\t255\t255\t255\n" +
	"6\t8\t0\tignored\t1\t2\t2\t3\t10\t20\t30\n"

func TestReadTraces(t *testing.T) {
	traces, err := ReadTraces(strings.NewReader(traceFile))
	require.NoError(t, err)
	require.Len(t, traces, 2)

	f1 := traces[0]
	assert.Equal(t, 1, f1.ID)
	assert.Equal(t, "F1", f1.Name)
	assert.Equal(t, fractrace.MapView, f1.Plane)
	assert.True(t, f1.Projected())
	assert.Equal(t, []fractrace.Point2{fractrace.Pt(0, 0), fractrace.Pt(3, 4), fractrace.Pt(6, 8)}, f1.Points())
	assert.InDelta(t, 10, f1.Length(), 1e-12)

	v := f1.Vertices()[1]
	assert.Equal(t, fractrace.Vec3{X: 3, Y: 4, Z: 5}, v.Pos)
	assert.Equal(t, 1, v.PType)
	assert.Equal(t, 2, v.ColorNum)
	assert.Equal(t, 3, v.ColorIndex)
	assert.Equal(t, []int{10, 20, 30}, []int{v.R, v.G, v.B})

	f2 := traces[1]
	assert.Equal(t, 2, f2.ID)
	assert.Equal(t, 2, f2.Len())
	assert.InDelta(t, 1, f2.Length(), 1e-12)
}

func TestReadTracesColumnOrder(t *testing.T) {
	in := "Id\tName\tz\ty\tx\n" +
		"7\tA\t0\t1\t2\n" +
		"7\tA\t0\t3\t4\n"
	traces, err := ReadTraces(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, traces, 1)
	assert.Equal(t, []fractrace.Point2{fractrace.Pt(2, 1), fractrace.Pt(4, 3)}, traces[0].Points())

	// Missing optional columns keep the defaults.
	v := traces[0].Vertices()[0]
	assert.Equal(t, []int{255, 255, 255}, []int{v.R, v.G, v.B})
	assert.Equal(t, 0, v.PType)
}

func TestReadTracesErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "no header"},
		{"missing column", "x\ty\tName\tId\n1\t2\ta\t1\n", `missing column "z"`},
		{"bad number", "x\ty\tz\tName\tId\n1\t2\t0\ta\t1\n1\tfoo\t0\ta\t1\n", "line 3"},
		{"short row", "x\ty\tz\tName\tId\n1\t2\t0\n", "line 2"},
		{"bad integer", "x\ty\tz\tName\tId\tPType\n1\t2\t0\ta\t1\t1.5\n", "not an integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTraces(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadTracesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.txt")
	require.NoError(t, os.WriteFile(path, []byte(traceFile), 0o644))
	traces, err := ReadTracesFile(path)
	require.NoError(t, err)
	assert.Len(t, traces, 2)

	_, err = ReadTracesFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadPoints(t *testing.T) {
	in := "x\ty\tz\n" +
		"1\t2\t3\n" +
		"4.5\t-1\t0\n"
	points, err := ReadPoints(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, fractrace.Pt(1, 2), points[0].Point2())
	assert.Equal(t, fractrace.Pt(4.5, -1), points[1].Map)
	assert.Equal(t, 0, points[1].ID)
	assert.Equal(t, 255, points[1].R)
}

func TestWritePointsRoundTrip(t *testing.T) {
	points, err := ReadPoints(strings.NewReader(traceFile))
	require.NoError(t, err)
	require.Len(t, points, 5)
	for i, p := range points {
		p.Count = i
	}

	var buf bytes.Buffer
	require.NoError(t, WritePoints(&buf, points, "IntersectionsWithin5", CountValue))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "x\ty\tz\tName\tId\tPType\tColour_Num\tColour_Id\tColour_(red)\tColour_(green)\tColour_(blue)\tIntersectionsWithin5", lines[0])
	assert.Equal(t, "3\t4\t5\tF1\t1\t1\t2\t3\t10\t20\t30\t1", lines[2])

	again, err := ReadPoints(&buf)
	require.NoError(t, err)
	require.Len(t, again, len(points))
	for i := range points {
		p := *points[i]
		p.Count = 0
		assert.Equal(t, p, *again[i])
	}
}

func TestWritePointsValue(t *testing.T) {
	p := &Point{Vertex: fractrace.V(1, 2, 0), Name: "g", Value: 0.25}
	var buf bytes.Buffer
	require.NoError(t, WritePoints(&buf, []*Point{p}, "P21", FloatValue))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1\t2\t0\tg\t0\t0\t0\t0\t255\t255\t255\t0.25", lines[1])
}

func TestWriteTraceLengths(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTraceLengths(&buf, []analysis.Length{
		{Name: "F1", ID: 1, Length: 10},
		{Name: "F2", ID: 2, Length: 1.5},
	})
	require.NoError(t, err)
	assert.Equal(t, "Name\tId\tTraceLength\nF1\t1\t10\nF2\t2\t1.5\n", buf.String())
}

func TestWriteIntersections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIntersections(&buf, []fractrace.Point2{fractrace.Pt(0, 0.5), fractrace.Pt(-2, 3)}))
	assert.Equal(t, "x\ty\n0\t0.5\n-2\t3\n", buf.String())
}
