package mve

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fracnet/fractrace"
	"github.com/fracnet/fractrace/analysis"
)

// pointHeader is the column list written before the result column of a point
// file.
var pointHeader = []string{
	ColX, ColY, ColZ, ColName, ColID, ColPType,
	ColColorNum, ColColorID, ColRed, ColGreen, ColBlue,
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteTraceLengths writes one Name, Id, TraceLength row per trace.
func WriteTraceLengths(w io.Writer, lengths []analysis.Length) error {
	b := bufio.NewWriter(w)
	fmt.Fprintln(b, "Name\tId\tTraceLength")
	for _, l := range lengths {
		fmt.Fprintf(b, "%s\t%d\t%s\n", l.Name, l.ID, formatFloat(l.Length))
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("mve: writing trace lengths: %v", err)
	}
	return nil
}

// WritePoints writes points with their attributes followed by one result
// column named column, whose values are produced by value. Column names are
// written with underscores in place of spaces.
func WritePoints(w io.Writer, points []*Point, column string, value func(*Point) string) error {
	b := bufio.NewWriter(w)
	names := make([]string, 0, len(pointHeader)+1)
	for _, n := range pointHeader {
		names = append(names, strings.ReplaceAll(n, " ", "_"))
	}
	names = append(names, column)
	fmt.Fprintln(b, strings.Join(names, "\t"))
	for _, p := range points {
		fmt.Fprintf(b, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			formatFloat(p.Pos.X), formatFloat(p.Pos.Y), formatFloat(p.Pos.Z),
			p.Name, p.ID, p.PType, p.ColorNum, p.ColorIndex, p.R, p.G, p.B,
			value(p))
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("mve: writing points: %v", err)
	}
	return nil
}

// CountValue formats the Count of a point.
func CountValue(p *Point) string { return strconv.Itoa(p.Count) }

// FloatValue formats the Value of a point.
func FloatValue(p *Point) string { return formatFloat(p.Value) }

// WriteIntersections writes one x, y row per point.
func WriteIntersections(w io.Writer, pts []fractrace.Point2) error {
	b := bufio.NewWriter(w)
	fmt.Fprintln(b, "x\ty")
	for _, p := range pts {
		fmt.Fprintf(b, "%s\t%s\n", formatFloat(p.X), formatFloat(p.Y))
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("mve: writing intersections: %v", err)
	}
	return nil
}
