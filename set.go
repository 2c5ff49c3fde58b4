package fractrace

import "fmt"

// TraceSet is an ordered collection of traces with unique ids.
//
// The set owns its traces. Traces absorbed by a join are removed from it as
// part of the join.
type TraceSet struct {
	traces []*Trace
	byID   map[int]int
}

// NewTraceSet returns a set holding traces, in order. It fails if two traces
// share an id.
func NewTraceSet(traces ...*Trace) (*TraceSet, error) {
	s := &TraceSet{byID: make(map[int]int, len(traces))}
	for _, t := range traces {
		if err := s.Add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends t to the set.
func (s *TraceSet) Add(t *Trace) error {
	if t.Consumed() {
		return fmt.Errorf("fractrace: adding trace %d: trace was joined into another trace", t.ID)
	}
	if _, ok := s.byID[t.ID]; ok {
		return fmt.Errorf("fractrace: adding trace %d: duplicate id", t.ID)
	}
	s.byID[t.ID] = len(s.traces)
	s.traces = append(s.traces, t)
	return nil
}

// Get returns the trace with the given id.
func (s *TraceSet) Get(id int) (*Trace, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return s.traces[i], true
}

func (s *TraceSet) Len() int { return len(s.traces) }

// Traces returns the traces of the set, in order. The slice is a copy; the
// traces are not.
func (s *TraceSet) Traces() []*Trace {
	out := make([]*Trace, len(s.traces))
	copy(out, s.traces)
	return out
}

func (s *TraceSet) remove(i int) {
	delete(s.byID, s.traces[i].ID)
	copy(s.traces[i:], s.traces[i+1:])
	s.traces[len(s.traces)-1] = nil
	s.traces = s.traces[:len(s.traces)-1]
	for j := i; j < len(s.traces); j++ {
		s.byID[s.traces[j].ID] = j
	}
}

// JoinAll joins traces whose ends lie within tol of each other until no two
// traces in the set can be joined, and returns the number of joins made.
//
// Pairs are tried in set order; the earlier trace of a pair keeps its id and
// absorbs the later one.
func (s *TraceSet) JoinAll(tol float64) int {
	joins := 0
	for {
		joined := false
		for i := 0; i < len(s.traces); i++ {
			for j := i + 1; j < len(s.traces); {
				if s.traces[i].AppendIfSameEndpoints(s.traces[j], tol) {
					s.remove(j)
					joins++
					joined = true
					// The grown trace has new ends; retry the remaining
					// traces against it.
					j = i + 1
					continue
				}
				j++
			}
		}
		if !joined {
			return joins
		}
	}
}
