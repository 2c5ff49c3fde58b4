package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/fracnet/fractrace"
	"github.com/fracnet/fractrace/analysis"
	"github.com/fracnet/fractrace/mve"
)

func (cfg *Config) analyzer() *analysis.Analyzer {
	return &analysis.Analyzer{
		Tolerance: cfg.Tolerance,
		Workers:   cfg.Workers,
		Log:       Log,
	}
}

// loadTraces reads the trace file and runs the join pre-pass if requested.
func loadTraces(cfg *Config) ([]*fractrace.Trace, error) {
	rd := &mve.Reader{Log: Log.WithField("file", cfg.Traces)}
	traces, err := rd.TracesFile(cfg.Traces)
	if err != nil {
		return nil, err
	}
	if !cfg.Join {
		return traces, nil
	}
	traces, _, err = cfg.analyzer().Join(traces)
	return traces, err
}

func loadGrid(cfg *Config) ([]*mve.Point, []fractrace.Point2, error) {
	rd := &mve.Reader{Log: Log.WithField("file", cfg.Grid)}
	points, err := rd.PointsFile(cfg.Grid)
	if err != nil {
		return nil, nil, err
	}
	centers := make([]fractrace.Point2, len(points))
	for i, p := range points {
		centers[i] = p.Point2()
	}
	return points, centers, nil
}

// writeFile creates the file at path and fills it with write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("fractrace: creating output file: %v", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("fractrace: closing output file: %v", err)
	}
	Log.WithField("file", path).Info("wrote output")
	return nil
}

func radiusColumn(prefix string, radius float64) string {
	return prefix + strconv.FormatFloat(radius, 'g', -1, 64)
}

// Lengths writes the length of every trace.
func Lengths(ctx context.Context, cfg *Config) error {
	traces, err := loadTraces(cfg)
	if err != nil {
		return err
	}
	lengths := analysis.Lengths(traces)
	Log.WithFields(logrus.Fields{
		"traces": len(lengths),
		"total":  analysis.TotalLength(lengths),
	}).Info("computed trace lengths")
	return writeFile(cfg.Output, func(w io.Writer) error {
		return mve.WriteTraceLengths(w, lengths)
	})
}

// Intersections counts the trace intersections within cfg.Radius of every
// grid point.
func Intersections(ctx context.Context, cfg *Config) error {
	traces, err := loadTraces(cfg)
	if err != nil {
		return err
	}
	points, centers, err := loadGrid(cfg)
	if err != nil {
		return err
	}
	isects, err := cfg.analyzer().Intersections(ctx, traces)
	if err != nil {
		return err
	}
	counts, err := analysis.CountWithin(centers, isects, cfg.Radius)
	if err != nil {
		return err
	}
	for i, p := range points {
		p.Count = counts[i]
	}
	if cfg.Points != "" {
		err := writeFile(cfg.Points, func(w io.Writer) error {
			return mve.WriteIntersections(w, isects)
		})
		if err != nil {
			return err
		}
	}
	return writeFile(cfg.Output, func(w io.Writer) error {
		return mve.WritePoints(w, points, radiusColumn("IntersectionsWithin", cfg.Radius), mve.CountValue)
	})
}

// P21 computes the fracture length per unit area inside the scan-line circle
// around every grid point.
func P21(ctx context.Context, cfg *Config) error {
	sl := fractrace.Scanline{
		Radius:    cfg.Radius,
		NumPoints: cfg.CirclePoints,
		Tolerance: cfg.Tolerance,
	}
	if err := sl.Validate(); err != nil {
		return err
	}
	traces, err := loadTraces(cfg)
	if err != nil {
		return err
	}
	points, centers, err := loadGrid(cfg)
	if err != nil {
		return err
	}
	density, err := cfg.analyzer().Density(ctx, centers, traces, sl)
	if err != nil {
		return err
	}
	for i, p := range points {
		p.Value = density[i]
	}
	return writeFile(cfg.Output, func(w io.Writer) error {
		return mve.WritePoints(w, points, radiusColumn("FractureLengthPerArea", cfg.Radius), mve.FloatValue)
	})
}
