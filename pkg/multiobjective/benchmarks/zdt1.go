package benchmarks

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
)

const (
	ZDT1Name = "ZDT1"
)

// ZDT1 is a benchmark function used to test the correctness
// of multi-objective algorithms. For more details, check the article below:
// https://datacrayon.com/practical-evolutionary-algorithms/synthetic-objective-functions-and-zdt1/
//
// The value of g is reported as a tagalong.
type ZDT1 struct {
	numVars int
}

func NewZDT1(numVars int) *ZDT1 {
	return &ZDT1{
		numVars,
	}
}

func (p *ZDT1) Name() string {
	return ZDT1Name
}

func (p *ZDT1) Problem(delta float64) framework.Problem {
	return framework.Problem{
		Decisions:  unitDecisions(p.numVars, delta),
		Objectives: minimize("f1", "f2"),
		Tagalongs:  []string{"g"},
	}
}

func (p *ZDT1) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{
		p.f1, p.f2,
	}
}

// Evaluate computes both objectives at x.
func (p *ZDT1) Evaluate(x []float64) framework.Individual {
	return framework.Individual{
		Decisions:  slices.Clone(x),
		Objectives: evaluate(x, p.ObjectiveFuncs()),
		Tagalongs:  []float64{p.g(x)},
	}
}

// f1 is the first ZDT1 objective
func (p *ZDT1) f1(x []float64) float64 {
	return x[0]
}

// f2 is the second ZDT1 objective
func (p *ZDT1) f2(x []float64) float64 {
	g := p.g(x)
	return g * (1.0 - math.Sqrt(x[0]/g))
}

func (p *ZDT1) g(x []float64) float64 {
	if len(x) < 2 {
		return 1.0
	}
	return 1.0 + 9.0*floats.Sum(x[1:])/float64(len(x)-1)
}

// TrueParetoFront generates numPoints points on the true Pareto front for ZDT1
func (p *ZDT1) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i := 0; i < numPoints; i++ {
		x := float64(i) / float64(numPoints-1)
		points[i] = framework.ObjectiveSpacePoint{
			x, 1.0 - math.Sqrt(x),
		}
	}
	return points
}
