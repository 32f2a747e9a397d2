package archive

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/grid"
)

// Retention controls whether archived individuals keep their raw decision values.
type Retention int

const (
	// Discard drops decision values; they are rebuilt from the grid point on demand.
	Discard Retention = iota
	// Retain keeps the decision values exactly as evaluated.
	Retain
)

func (r Retention) String() string {
	switch r {
	case Discard:
		return "discard"
	case Retain:
		return "retain"
	default:
		return fmt.Sprintf("Retention(%d)", int(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Retention) MarshalText() ([]byte, error) {
	switch r {
	case Discard, Retain:
		return []byte(r.String()), nil
	}
	return nil, fmt.Errorf("unknown retention %d", int(r))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Retention) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "discard":
		*r = Discard
	case "retain":
		*r = Retain
	default:
		return fmt.Errorf("unknown retention %q", string(text))
	}
	return nil
}

// sentinelIndex fills every coordinate of a sentinel's grid point.
const sentinelIndex = 999

// Individual is the record stored in archive slots. Values held by an archive are
// shared between archive versions and must not be modified.
type Individual struct {
	// Valid is false for sentinel filler.
	Valid bool
	Point grid.GridPoint
	// Decisions is empty unless the archive retains decision values.
	Decisions   []float64
	Objectives  []float64
	Constraints []float64
	Tagalongs   []float64
}

// NewIndividual converts an evaluated individual into an archive record.
func NewIndividual(g *grid.Grid, ind framework.Individual, retention Retention) (Individual, error) {
	gp, err := g.Map(ind.Decisions)
	if err != nil {
		return Individual{}, err
	}
	c := ind.Clone()
	out := Individual{
		Valid:       true,
		Point:       gp,
		Objectives:  c.Objectives,
		Constraints: c.Constraints,
		Tagalongs:   c.Tagalongs,
	}
	if retention == Retain {
		out.Decisions = c.Decisions
	}
	return out, nil
}

// Sentinel builds the filler record for a problem. Its objectives and constraints
// are infinite on the losing side of every sense, so any valid individual with
// finite feasible values dominates it and it never dominates anything.
func Sentinel(p *framework.Problem, retention Retention) Individual {
	s := Individual{
		Point:       make(grid.GridPoint, len(p.Decisions)),
		Objectives:  make([]float64, len(p.Objectives)),
		Constraints: make([]float64, len(p.Constraints)),
		Tagalongs:   make([]float64, len(p.Tagalongs)),
	}
	for i := range s.Point {
		s.Point[i] = sentinelIndex
	}
	if retention == Retain {
		s.Decisions = make([]float64, len(p.Decisions))
	}
	for i, o := range p.Objectives {
		s.Objectives[i] = worst(o.Sense)
	}
	for i, c := range p.Constraints {
		s.Constraints[i] = worst(c.Sense)
	}
	return s
}

func worst(s framework.Sense) float64 {
	if s == framework.Maximize {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// DecisionValues returns the decision values of the individual, reading them off
// the grid when they were not retained.
func (ind *Individual) DecisionValues(g *grid.Grid) (grid.Sample, error) {
	if len(ind.Decisions) > 0 {
		return slices.Clone(ind.Decisions), nil
	}
	return g.Read(ind.Point)
}

// Clone returns a deep copy.
func (ind *Individual) Clone() Individual {
	return Individual{
		Valid:       ind.Valid,
		Point:       slices.Clone(ind.Point),
		Decisions:   slices.Clone(ind.Decisions),
		Objectives:  slices.Clone(ind.Objectives),
		Constraints: slices.Clone(ind.Constraints),
		Tagalongs:   slices.Clone(ind.Tagalongs),
	}
}

// SameAs reports whether two records share the grid cell and evaluation.
// Tagalongs are ignored.
func (ind *Individual) SameAs(other *Individual) bool {
	return ind.Point.Equal(other.Point) &&
		slices.Equal(ind.Objectives, other.Objectives) &&
		slices.Equal(ind.Constraints, other.Constraints)
}

// footprint approximates the heap bytes held by the record.
func (ind *Individual) footprint() uint64 {
	const word = 8
	n := len(ind.Point) + len(ind.Decisions) + len(ind.Objectives) + len(ind.Constraints) + len(ind.Tagalongs)
	return uint64(n*word + 5*3*word + word)
}
