package framework

import (
	"fmt"
	"slices"
	"strings"
)

// Sense is the optimization direction of an objective, or the feasible side of a constraint.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

func (s Sense) String() string {
	switch s {
	case Minimize:
		return "min"
	case Maximize:
		return "max"
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Sense) MarshalText() ([]byte, error) {
	switch s {
	case Minimize, Maximize:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("unknown sense %d", int(s))
}

// UnmarshalText implements encoding.TextUnmarshaler. Both the short and the long
// spelling are accepted.
func (s *Sense) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "min", "minimize":
		*s = Minimize
	case "max", "maximize":
		*s = Maximize
	default:
		return fmt.Errorf("unknown sense %q", string(text))
	}
	return nil
}

// Individual is an evaluated point in decision space as produced by an external
// evaluator. Objective, constraint and tagalong values follow the order in which
// they are declared on the Problem.
type Individual struct {
	Decisions   []float64
	Objectives  []float64
	Constraints []float64
	// Tagalongs are auxiliary metrics carried along with the individual but never
	// used for comparisons.
	Tagalongs []float64
}

// Clone returns a deep copy of the individual.
func (ind Individual) Clone() Individual {
	return Individual{
		Decisions:   slices.Clone(ind.Decisions),
		Objectives:  slices.Clone(ind.Objectives),
		Constraints: slices.Clone(ind.Constraints),
		Tagalongs:   slices.Clone(ind.Tagalongs),
	}
}

// ObjectiveFunc defines the interface for objective functions
type ObjectiveFunc func([]float64) float64

// ObjectiveSpacePoint represents an N-dimensional point in the objective space.
// As an example, for a problem with 2 objective functions f1 and f2, a point
// in the objective space could be [f1(x'), f2(x')], for the input of x'.
type ObjectiveSpacePoint []float64

// Evaluator turns a sample in decision space into an evaluated Individual.
// The core never calls an Evaluator itself; callers do.
type Evaluator interface {
	Evaluate(sample []float64) Individual
}
