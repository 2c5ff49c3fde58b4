package fractrace

import (
	"errors"
	"fmt"
)

var (
	ErrZeroLength        = errors.New("fractrace: vector has zero length")
	ErrDegenerateSegment = errors.New("fractrace: segment has zero length")
	ErrTooFewPoints      = errors.New("fractrace: circle needs at least 4 points")
	ErrInvalidRadius     = errors.New("fractrace: radius must be positive")
	ErrUnsupportedPlane  = errors.New("fractrace: projection onto coordinate plane not supported")
)

// ConsistencyError describes a geometric configuration that the clipping
// code cannot have produced from a well-formed circle. It is raised with
// panic.
type ConsistencyError struct {
	Segment Segment
	Circle  Segment
	Points  []Point2
}

func (err *ConsistencyError) Error() string {
	return fmt.Sprintf("fractrace: segment %s crosses circle edge %s at %d points %v, want at most 1",
		err.Segment, err.Circle, len(err.Points), err.Points)
}
