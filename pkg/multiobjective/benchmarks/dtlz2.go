package benchmarks

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
)

const (
	DTLZ2Name = "DTLZ2"
)

// DTLZ2 has a spherical Pareto front: sum(f_i^2) = 1 for optimal solutions.
// It's easier than DTLZ1 as it has no local fronts
type DTLZ2 struct {
	numVars       int
	numObjectives int
}

// NewDTLZ2 returns the problem. numVars should be at least numObjectives; the
// usual choice is numObjectives + 9.
func NewDTLZ2(numVars, numObjectives int) *DTLZ2 {
	return &DTLZ2{
		numVars:       numVars,
		numObjectives: numObjectives,
	}
}

func (p *DTLZ2) Name() string {
	return DTLZ2Name
}

func (p *DTLZ2) Problem(delta float64) framework.Problem {
	names := make([]string, p.numObjectives)
	for i := range names {
		names[i] = fmt.Sprintf("f%d", i+1)
	}
	return framework.Problem{
		Decisions:  unitDecisions(p.numVars, delta),
		Objectives: minimize(names...),
	}
}

func (p *DTLZ2) ObjectiveFuncs() []framework.ObjectiveFunc {
	funcs := make([]framework.ObjectiveFunc, p.numObjectives)
	for i := range funcs {
		funcs[i] = func(x []float64) float64 {
			return p.objective(x, i)
		}
	}
	return funcs
}

func (p *DTLZ2) Evaluate(x []float64) framework.Individual {
	return framework.Individual{
		Decisions:  slices.Clone(x),
		Objectives: evaluate(x, p.ObjectiveFuncs()),
	}
}

func (p *DTLZ2) g(x []float64) float64 {
	tail := make([]float64, 0, p.numVars)
	for i := p.numObjectives - 1; i < p.numVars; i++ {
		tail = append(tail, (x[i]-0.5)*(x[i]-0.5))
	}
	return floats.Sum(tail)
}

func (p *DTLZ2) objective(x []float64, objIdx int) float64 {
	f := 1 + p.g(x)

	// Product of cos terms
	for i := 0; i < p.numObjectives-objIdx-1; i++ {
		f *= math.Cos(x[i] * math.Pi / 2)
	}

	// Last term is sin for all objectives except the first
	if objIdx > 0 {
		f *= math.Sin(x[p.numObjectives-objIdx-1] * math.Pi / 2)
	}

	return f
}

// TrueParetoFront samples the front for two objectives (a quarter circle) or three
// (an octant of the unit sphere). Other objective counts return nil.
func (p *DTLZ2) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	switch p.numObjectives {
	case 2:
		points := make([]framework.ObjectiveSpacePoint, numPoints)
		for i := 0; i < numPoints; i++ {
			theta := (math.Pi / 2) * float64(i) / float64(numPoints-1)
			points[i] = framework.ObjectiveSpacePoint{math.Cos(theta), math.Sin(theta)}
		}
		return points
	case 3:
		side := int(math.Sqrt(float64(numPoints)))
		points := make([]framework.ObjectiveSpacePoint, 0, side*side)
		for i := 0; i < side; i++ {
			theta := (math.Pi / 2) * float64(i) / float64(side-1)
			for j := 0; j < side; j++ {
				phi := (math.Pi / 2) * float64(j) / float64(side-1)
				points = append(points, framework.ObjectiveSpacePoint{
					math.Cos(theta) * math.Cos(phi),
					math.Sin(theta) * math.Cos(phi),
					math.Sin(phi),
				})
			}
		}
		return points
	}
	return nil
}
