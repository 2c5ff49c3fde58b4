// Package mve reads and writes the tab-separated point files exported by the
// MOVE structural geology package.
//
// The first non-blank line of a file names the columns. Columns may come in
// any order; spaces and underscores in column names are interchangeable, so
// files written by this package can be read back.
package mve

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/fracnet/fractrace"
)

// Column names.
const (
	ColX        = "x"
	ColY        = "y"
	ColZ        = "z"
	ColName     = "Name"
	ColID       = "Id"
	ColPType    = "PType"
	ColColorNum = "Colour Num"
	ColColorID  = "Colour Id"
	ColRed      = "Colour (red)"
	ColGreen    = "Colour (green)"
	ColBlue     = "Colour (blue)"
)

// Point is one row of a point file.
type Point struct {
	fractrace.Vertex
	Name string
	ID   int

	// Count and Value hold the result computed for the point.
	Count int
	Value float64
}

// Point2 returns the map view location of p.
func (p *Point) Point2() fractrace.Point2 {
	return fractrace.Pt(p.Pos.X, p.Pos.Y)
}

// Reader reads MVE files.
type Reader struct {
	// Log receives warnings about skipped rows. Nil discards them.
	Log logrus.FieldLogger
}

func (rd *Reader) log() logrus.FieldLogger {
	if rd.Log != nil {
		return rd.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// header maps column names to field positions.
type header map[string]int

func normalize(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "_", " ")
}

func parseHeader(line string) header {
	h := make(header)
	for i, f := range strings.Split(line, "\t") {
		name := normalize(f)
		if name == "" {
			continue
		}
		if _, ok := h[name]; !ok {
			h[name] = i
		}
	}
	return h
}

func (h header) require(names ...string) error {
	for _, n := range names {
		if _, ok := h[n]; !ok {
			return fmt.Errorf("mve: header is missing column %q", n)
		}
	}
	return nil
}

// row is one data line split into fields.
type row struct {
	h      header
	fields []string
	line   int
}

func (r row) get(name string) (string, bool) {
	i, ok := r.h[name]
	if !ok || i >= len(r.fields) {
		return "", false
	}
	return strings.TrimSpace(r.fields[i]), true
}

func (r row) float(name string) (float64, error) {
	s, ok := r.get(name)
	if !ok {
		return 0, fmt.Errorf("mve: line %d: missing field %q", r.line, name)
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, fmt.Errorf("mve: line %d: field %q: %v", r.line, name, err)
	}
	return v, nil
}

// integer parses an optional integer field, returning def if the column is
// absent or empty. Values written as floats, such as "3.0", are accepted.
func (r row) integer(name string, def int) (int, error) {
	s, ok := r.get(name)
	if !ok || s == "" {
		return def, nil
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, fmt.Errorf("mve: line %d: field %q: %v", r.line, name, err)
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("mve: line %d: field %q: %q is not an integer", r.line, name, s)
	}
	return int(v), nil
}

// id returns the trace id of the row. Rows whose id is not a number, such as
// repeated header lines, report ok == false.
func (r row) id() (id int, ok bool) {
	s, present := r.get(ColID)
	if !present {
		return 0, false
	}
	id, err := strconv.Atoi(s)
	return id, err == nil
}

func (r row) vertex() (fractrace.Vertex, error) {
	x, err := r.float(ColX)
	if err != nil {
		return fractrace.Vertex{}, err
	}
	y, err := r.float(ColY)
	if err != nil {
		return fractrace.Vertex{}, err
	}
	z, err := r.float(ColZ)
	if err != nil {
		return fractrace.Vertex{}, err
	}
	v := fractrace.V(x, y, z)
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{ColPType, &v.PType},
		{ColColorNum, &v.ColorNum},
		{ColColorID, &v.ColorIndex},
		{ColRed, &v.R},
		{ColGreen, &v.G},
		{ColBlue, &v.B},
	} {
		if *f.dst, err = r.integer(f.name, *f.dst); err != nil {
			return fractrace.Vertex{}, err
		}
	}
	return v, nil
}

// scan calls fn for every data row of the file read from r. It fails if the
// header lacks one of the required columns.
func scan(r io.Reader, required []string, fn func(row) error) error {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var h header
	line := 0
	for s.Scan() {
		line++
		text := strings.TrimRight(s.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if h == nil {
			h = parseHeader(text)
			if err := h.require(required...); err != nil {
				return err
			}
			continue
		}
		if err := fn(row{h: h, fields: strings.Split(text, "\t"), line: line}); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("mve: reading line %d: %v", line+1, err)
	}
	if h == nil {
		return fmt.Errorf("mve: no header line")
	}
	return nil
}

// Traces reads traces from r. Rows with the same Id form one trace, in the
// order the ids first appear; the first row of each trace supplies its name.
// Every trace lies in the map view plane and is projected.
func (rd *Reader) Traces(r io.Reader) ([]*fractrace.Trace, error) {
	var (
		traces  []*fractrace.Trace
		byID    = make(map[int]*fractrace.Trace)
		rows    int
		skipped int
	)
	err := scan(r, []string{ColX, ColY, ColZ, ColName, ColID}, func(rec row) error {
		if _, ok := rec.get(ColID); !ok {
			return fmt.Errorf("mve: line %d: missing field %q", rec.line, ColID)
		}
		id, ok := rec.id()
		if !ok {
			skipped++
			rd.log().WithField("line", rec.line).Debug("skipping row without numeric id")
			return nil
		}
		v, err := rec.vertex()
		if err != nil {
			return err
		}
		t, ok := byID[id]
		if !ok {
			name, _ := rec.get(ColName)
			t = fractrace.NewTrace(id, name, fractrace.MapView)
			byID[id] = t
			traces = append(traces, t)
		}
		t.AppendVertex(v)
		rows++
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, t := range traces {
		if err := t.Project(); err != nil {
			rd.log().WithField("trace", t.ID).Warn(err)
		}
	}
	rd.log().WithFields(logrus.Fields{
		"traces":  len(traces),
		"rows":    rows,
		"skipped": skipped,
	}).Info("read traces")
	return traces, nil
}

// Points reads sample points from r. The Id and Name columns are optional;
// rows with a non-numeric Id are skipped.
func (rd *Reader) Points(r io.Reader) ([]*Point, error) {
	var (
		points  []*Point
		skipped int
	)
	err := scan(r, []string{ColX, ColY, ColZ}, func(rec row) error {
		p := new(Point)
		if _, ok := rec.get(ColID); ok {
			id, ok := rec.id()
			if !ok {
				skipped++
				rd.log().WithField("line", rec.line).Debug("skipping row without numeric id")
				return nil
			}
			p.ID = id
		}
		v, err := rec.vertex()
		if err != nil {
			return err
		}
		p.Vertex = v
		p.Map = p.Point2()
		p.Name, _ = rec.get(ColName)
		points = append(points, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	rd.log().WithFields(logrus.Fields{
		"points":  len(points),
		"skipped": skipped,
	}).Info("read points")
	return points, nil
}

func (rd *Reader) TracesFile(path string) ([]*fractrace.Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mve: %w", err)
	}
	defer f.Close()
	traces, err := rd.Traces(f)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return traces, nil
}

func (rd *Reader) PointsFile(path string) ([]*Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mve: %w", err)
	}
	defer f.Close()
	points, err := rd.Points(f)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return points, nil
}

// ReadTraces reads traces from r. See [Reader.Traces].
func ReadTraces(r io.Reader) ([]*fractrace.Trace, error) {
	return new(Reader).Traces(r)
}

// ReadTracesFile reads traces from the named file.
func ReadTracesFile(path string) ([]*fractrace.Trace, error) {
	return new(Reader).TracesFile(path)
}

// ReadPoints reads sample points from r. See [Reader.Points].
func ReadPoints(r io.Reader) ([]*Point, error) {
	return new(Reader).Points(r)
}

// ReadPointsFile reads sample points from the named file.
func ReadPointsFile(path string) ([]*Point, error) {
	return new(Reader).PointsFile(path)
}
