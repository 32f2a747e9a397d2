package framework

import (
	"fmt"
	"math"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Decision is one continuous decision variable, discretized with step Delta.
type Decision struct {
	Name  string  `json:"name"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Delta float64 `json:"delta"`
}

// Objective is a named objective and the direction it is optimized in.
type Objective struct {
	Name  string `json:"name"`
	Sense Sense  `json:"sense"`
}

// Constraint is a named constraint. Sense tells which side of zero is feasible:
// Minimize constraints are satisfied when c <= 0, Maximize constraints when c >= 0.
type Constraint struct {
	Name  string `json:"name"`
	Sense Sense  `json:"sense"`
}

// Problem describes the structure of a multi-objective problem. It is built by the
// caller; the core never parses problem definitions.
type Problem struct {
	Decisions   []Decision   `json:"decisions"`
	Objectives  []Objective  `json:"objectives"`
	Constraints []Constraint `json:"constraints,omitempty"`
	Tagalongs   []string     `json:"tagalongs,omitempty"`
}

// Senses returns the comparison senses of the problem.
func (p *Problem) Senses() Senses {
	s := Senses{
		Objectives:  make([]Sense, len(p.Objectives)),
		Constraints: make([]Sense, len(p.Constraints)),
	}
	for i, o := range p.Objectives {
		s.Objectives[i] = o.Sense
	}
	for i, c := range p.Constraints {
		s.Constraints[i] = c.Sense
	}
	return s
}

// Validate checks the problem definition. All problems found are reported together.
func (p *Problem) Validate() error {
	var errs field.ErrorList

	decisionsPath := field.NewPath("decisions")
	if len(p.Decisions) == 0 {
		errs = append(errs, field.Required(decisionsPath, "at least one decision is required"))
	}
	names := make(map[string]bool)
	for i, d := range p.Decisions {
		errs = append(errs, ValidateDecision(d, decisionsPath.Index(i))...)
		if d.Name != "" {
			if names[d.Name] {
				errs = append(errs, field.Duplicate(decisionsPath.Index(i).Child("name"), d.Name))
			}
			names[d.Name] = true
		}
	}

	objectivesPath := field.NewPath("objectives")
	if len(p.Objectives) == 0 {
		errs = append(errs, field.Required(objectivesPath, "at least one objective is required"))
	}
	for i, o := range p.Objectives {
		errs = append(errs, validateSense(o.Sense, objectivesPath.Index(i).Child("sense"))...)
	}

	constraintsPath := field.NewPath("constraints")
	for i, c := range p.Constraints {
		errs = append(errs, validateSense(c.Sense, constraintsPath.Index(i).Child("sense"))...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProblem, errs.ToAggregate())
	}
	return nil
}

// ValidateDecision checks a single decision variable.
func ValidateDecision(d Decision, path *field.Path) field.ErrorList {
	var errs field.ErrorList
	if math.IsNaN(d.Lower) || math.IsInf(d.Lower, 0) {
		errs = append(errs, field.Invalid(path.Child("lower"), d.Lower, "must be finite"))
	}
	if math.IsNaN(d.Upper) || math.IsInf(d.Upper, 0) {
		errs = append(errs, field.Invalid(path.Child("upper"), d.Upper, "must be finite"))
	}
	if !(d.Upper > d.Lower) {
		errs = append(errs, field.Invalid(path.Child("upper"), d.Upper, fmt.Sprintf("must be greater than lower (%g)", d.Lower)))
	}
	if !(d.Delta > 0) || math.IsInf(d.Delta, 0) {
		errs = append(errs, field.Invalid(path.Child("delta"), d.Delta, "must be positive and finite"))
	}
	return errs
}

func validateSense(s Sense, path *field.Path) field.ErrorList {
	if s != Minimize && s != Maximize {
		return field.ErrorList{field.NotSupported(path, s, []string{Minimize.String(), Maximize.String()})}
	}
	return nil
}

// CheckIndividual verifies that an evaluated individual has the arity the problem
// declares.
func (p *Problem) CheckIndividual(ind Individual) error {
	switch {
	case len(ind.Decisions) != len(p.Decisions):
		return fmt.Errorf("%w: got %d decisions, want %d", ErrShapeMismatch, len(ind.Decisions), len(p.Decisions))
	case len(ind.Objectives) != len(p.Objectives):
		return fmt.Errorf("%w: got %d objectives, want %d", ErrShapeMismatch, len(ind.Objectives), len(p.Objectives))
	case len(ind.Constraints) != len(p.Constraints):
		return fmt.Errorf("%w: got %d constraints, want %d", ErrShapeMismatch, len(ind.Constraints), len(p.Constraints))
	case len(ind.Tagalongs) != len(p.Tagalongs):
		return fmt.Errorf("%w: got %d tagalongs, want %d", ErrShapeMismatch, len(ind.Tagalongs), len(p.Tagalongs))
	}
	return nil
}
