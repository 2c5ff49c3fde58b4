package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cast"

	"github.com/fracnet/fractrace"
)

// Config holds the settings of one analysis run.
type Config struct {
	Traces string
	Grid   string
	Output string
	// Points, if not empty, receives the intersection points.
	Points string

	Radius       float64
	Tolerance    float64
	CirclePoints int
	Workers      int
	Join         bool
}

// loadConfig reads a Config from Cfg. The grid file and radius are only
// required if sampled is true.
func loadConfig(sampled bool) (*Config, error) {
	cfg := new(Config)
	var err error

	if cfg.Traces, err = checkPath("traces", Cfg.GetString("traces")); err != nil {
		return nil, err
	}
	if cfg.Output, err = checkPath("output", Cfg.GetString("output")); err != nil {
		return nil, err
	}
	if cfg.Tolerance, err = positive("tolerance", Cfg.Get("tolerance")); err != nil {
		return nil, err
	}
	if cfg.Join, err = cast.ToBoolE(Cfg.Get("join")); err != nil {
		return nil, fmt.Errorf("fractrace: invalid join: %v", err)
	}
	if !sampled {
		return cfg, nil
	}

	if cfg.Grid, err = checkPath("grid", Cfg.GetString("grid")); err != nil {
		return nil, err
	}
	cfg.Points = Cfg.GetString("points")
	if cfg.Radius, err = cast.ToFloat64E(Cfg.Get("radius")); err != nil {
		return nil, fmt.Errorf("fractrace: invalid radius: %v", err)
	}
	if !(cfg.Radius > 0) || math.IsInf(cfg.Radius, 0) {
		return nil, fmt.Errorf("%w, got %v", fractrace.ErrInvalidRadius, Cfg.Get("radius"))
	}
	if cfg.CirclePoints, err = cast.ToIntE(Cfg.Get("circlepoints")); err != nil {
		return nil, fmt.Errorf("fractrace: invalid circlepoints: %v", err)
	}
	if cfg.Workers, err = cast.ToIntE(Cfg.Get("workers")); err != nil {
		return nil, fmt.Errorf("fractrace: invalid workers: %v", err)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("fractrace: workers must not be negative, got %d", cfg.Workers)
	}
	return cfg, nil
}

// positive converts v to a finite number greater than zero.
func positive(name string, v interface{}) (float64, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("fractrace: invalid %s: %v", name, err)
	}
	if !(f > 0) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("fractrace: %s must be a positive number, got %v", name, v)
	}
	return f, nil
}
