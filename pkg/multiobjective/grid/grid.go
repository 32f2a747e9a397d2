package grid

import (
	"fmt"
	"math"
	"slices"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
)

// extendTolerance is the fraction of a step below which a remainder is treated as
// one more whole step.
const extendTolerance = 1e-6

// Axis is the strictly increasing sequence of lattice values of one decision.
type Axis []float64

// Min returns the first lattice value.
func (a Axis) Min() float64 { return a[0] }

// Max returns the last lattice value.
func (a Axis) Max() float64 { return a[len(a)-1] }

// GridPoint holds one lattice index per decision.
type GridPoint []int

// Equal reports whether two grid points address the same lattice cell.
func (gp GridPoint) Equal(other GridPoint) bool {
	return slices.Equal(gp, other)
}

// Sample is a point in decision-space units, one value per decision.
type Sample []float64

// Grid discretizes a continuous decision space. A Grid is immutable once built
// and safe to share between states.
type Grid struct {
	names  []string
	axes   []Axis
	deltas []float64
}

// New builds a grid with one axis per decision, in decision order.
func New(decisions []framework.Decision) (*Grid, error) {
	var errs field.ErrorList
	path := field.NewPath("decisions")
	if len(decisions) == 0 {
		errs = append(errs, field.Required(path, "at least one decision is required"))
	}
	for i, d := range decisions {
		errs = append(errs, framework.ValidateDecision(d, path.Index(i))...)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", framework.ErrInvalidProblem, errs.ToAggregate())
	}

	g := &Grid{
		names:  make([]string, len(decisions)),
		axes:   make([]Axis, len(decisions)),
		deltas: make([]float64, len(decisions)),
	}
	for i, d := range decisions {
		g.names[i] = d.Name
		g.axes[i] = buildAxis(d)
		g.deltas[i] = d.Delta
	}
	return g, nil
}

func buildAxis(d framework.Decision) Axis {
	width := d.Upper - d.Lower
	intervals := int(math.Floor(width / d.Delta))
	span := float64(intervals) * d.Delta

	lower := d.Lower
	slop := width - span
	spans := true
	switch {
	case math.Abs(slop) < extendTolerance*d.Delta:
	case span+d.Delta-width < extendTolerance*d.Delta:
		// floor stopped just short of the upper bound; include it.
		intervals++
	default:
		// Split the slop evenly between both ends.
		lower += 0.5 * slop
		spans = false
	}

	axis := make(Axis, intervals+1)
	value := lower
	for i := range axis {
		axis[i] = value
		value += d.Delta
	}

	// Repeated addition drifts; pin the end of a spanning lattice to the bound.
	last := len(axis) - 1
	if spans || axis[last] > d.Upper {
		axis[last] = d.Upper
	}
	return axis
}

// Len returns the number of decisions.
func (g *Grid) Len() int { return len(g.axes) }

// Axis returns the lattice of decision i. The returned slice must not be modified.
func (g *Grid) Axis(i int) Axis { return g.axes[i] }

// Deltas returns the step size of every axis.
func (g *Grid) Deltas() []float64 { return slices.Clone(g.deltas) }

// Names returns the decision names in axis order.
func (g *Grid) Names() []string { return slices.Clone(g.names) }

// Map snaps a decision vector to the nearest lattice point. Ties go to the lower index.
func (g *Grid) Map(values []float64) (GridPoint, error) {
	if len(values) != len(g.axes) {
		return nil, fmt.Errorf("%w: got %d values, grid has %d axes", framework.ErrShapeMismatch, len(values), len(g.axes))
	}
	gp := make(GridPoint, len(values))
	for i, v := range values {
		gp[i] = g.mapAxis(i, v)
	}
	return gp, nil
}

func (g *Grid) mapAxis(i int, v float64) int {
	axis := g.axes[i]
	switch {
	case v <= axis.Min():
		return 0
	case v >= axis.Max():
		return len(axis) - 1
	}
	under := int(math.Floor((v - axis.Min()) / g.deltas[i]))
	under = min(max(under, 0), len(axis)-2)
	if v-axis[under] <= axis[under+1]-v {
		return under
	}
	return under + 1
}

// Read returns the decision values at a grid point.
func (g *Grid) Read(gp GridPoint) (Sample, error) {
	if len(gp) != len(g.axes) {
		return nil, fmt.Errorf("%w: got %d indices, grid has %d axes", framework.ErrShapeMismatch, len(gp), len(g.axes))
	}
	if !g.Contains(gp) {
		return nil, fmt.Errorf("%w: grid point %v is outside the grid", framework.ErrShapeMismatch, gp)
	}
	s := make(Sample, len(gp))
	for i, idx := range gp {
		s[i] = g.axes[i][idx]
	}
	return s, nil
}

// Contains reports whether gp is a valid grid point of g.
func (g *Grid) Contains(gp GridPoint) bool {
	if len(gp) != len(g.axes) {
		return false
	}
	for i, idx := range gp {
		if idx < 0 || idx >= len(g.axes[i]) {
			return false
		}
	}
	return true
}

// Center returns the grid point in the middle of every axis. On axes with an even
// number of values the lower middle index is used.
func (g *Grid) Center() GridPoint {
	gp := make(GridPoint, len(g.axes))
	for i, a := range g.axes {
		gp[i] = (len(a) - 1) / 2
	}
	return gp
}

// Last returns the highest index of axis i.
func (g *Grid) Last(i int) int { return len(g.axes[i]) - 1 }

// Size returns the number of lattice points, saturating at math.MaxInt.
func (g *Grid) Size() int {
	size := 1
	for _, a := range g.axes {
		if size > math.MaxInt/len(a) {
			return math.MaxInt
		}
		size *= len(a)
	}
	return size
}
