package benchmarks

import (
	"fmt"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
)

// Benchmark is a synthetic test problem with a known Pareto front.
type Benchmark interface {
	framework.Evaluator
	Name() string
	// Problem describes the benchmark with every decision discretized by delta.
	Problem(delta float64) framework.Problem
	// TrueParetoFront samples numPoints points of the true Pareto front.
	TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint
}

// unitDecisions returns n decisions named x1..xn on [0, 1].
func unitDecisions(n int, delta float64) []framework.Decision {
	decisions := make([]framework.Decision, n)
	for i := range decisions {
		decisions[i] = framework.Decision{
			Name:  fmt.Sprintf("x%d", i+1),
			Lower: 0,
			Upper: 1,
			Delta: delta,
		}
	}
	return decisions
}

func minimize(names ...string) []framework.Objective {
	objectives := make([]framework.Objective, len(names))
	for i, name := range names {
		objectives[i] = framework.Objective{Name: name, Sense: framework.Minimize}
	}
	return objectives
}

// evaluate applies objective functions to x.
func evaluate(x []float64, funcs []framework.ObjectiveFunc) []float64 {
	objs := make([]float64, len(funcs))
	for i, f := range funcs {
		objs[i] = f(x)
	}
	return objs
}
