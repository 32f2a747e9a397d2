package benchmarks

import (
	"math"
	"slices"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
)

const (
	BNHName = "BNH"
)

// BNH is the constrained two-objective problem of Binh and Korn:
//
//	f1 = 4x1² + 4x2²
//	f2 = (x1-5)² + (x2-5)²
//	(x1-5)² + x2² <= 25
//	(x1-8)² + (x2+3)² >= 7.7
//
// with x1 in [0, 5] and x2 in [0, 3].
type BNH struct{}

func NewBNH() *BNH { return &BNH{} }

func (p *BNH) Name() string { return BNHName }

// Problem declares the first constraint as feasible when non-positive and the
// second as feasible when non-negative.
func (p *BNH) Problem(delta float64) framework.Problem {
	return framework.Problem{
		Decisions: []framework.Decision{
			{Name: "x1", Lower: 0, Upper: 5, Delta: delta},
			{Name: "x2", Lower: 0, Upper: 3, Delta: delta},
		},
		Objectives: minimize("f1", "f2"),
		Constraints: []framework.Constraint{
			{Name: "c1", Sense: framework.Minimize},
			{Name: "c2", Sense: framework.Maximize},
		},
	}
}

func (p *BNH) Evaluate(x []float64) framework.Individual {
	x1, x2 := x[0], x[1]
	return framework.Individual{
		Decisions: slices.Clone(x),
		Objectives: []float64{
			4*x1*x1 + 4*x2*x2,
			(x1-5)*(x1-5) + (x2-5)*(x2-5),
		},
		Constraints: []float64{
			(x1-5)*(x1-5) + x2*x2 - 25,
			(x1-8)*(x1-8) + (x2+3)*(x2+3) - 7.7,
		},
	}
}

// TrueParetoFront follows x1 = x2 on [0, 3], then x2 = 3 with x1 on [3, 5].
func (p *BNH) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i := 0; i < numPoints; i++ {
		t := 5 * float64(i) / float64(numPoints-1)
		x1, x2 := t, math.Min(t, 3)
		ind := p.Evaluate([]float64{x1, x2})
		points[i] = framework.ObjectiveSpacePoint(ind.Objectives)
	}
	return points
}
