package framework

import "math"

// Senses holds the direction of every objective and constraint of a problem and
// implements the dominance relation used by the archive.
type Senses struct {
	Objectives  []Sense
	Constraints []Sense
}

// Violation returns by how much the constraint values miss feasibility. A feasible
// vector has violation 0. Sentinel values (-Inf on a Maximize constraint, +Inf on a
// Minimize one) yield +Inf.
func (s Senses) Violation(constraints []float64) float64 {
	total := 0.0
	for i, c := range constraints {
		if math.IsNaN(c) {
			return math.Inf(1)
		}
		if s.Constraints[i] == Maximize {
			c = -c
		}
		if c > 0 {
			total += c
		}
	}
	return total
}

// Feasible reports whether every constraint is satisfied.
func (s Senses) Feasible(constraints []float64) bool {
	return s.Violation(constraints) == 0
}

// Dominates checks if the point (aObj, aCon) dominates (bObj, bCon).
//
// Constraints are compared first: a feasible point dominates an infeasible one, and
// of two infeasible points the one with the strictly smaller total violation wins.
// Two feasible points are compared on objectives: a dominates b when it is at least
// as good on every objective and strictly better on one.
func (s Senses) Dominates(aObj, aCon, bObj, bCon []float64) bool {
	if len(s.Constraints) > 0 {
		va, vb := s.Violation(aCon), s.Violation(bCon)
		if va > 0 || vb > 0 {
			return va < vb
		}
	}

	better := false
	for i, sense := range s.Objectives {
		a, b := aObj[i], bObj[i]
		if sense == Maximize {
			a, b = -a, -b
		}
		// NaN never compares as better or worse; treat it as worse than anything.
		if math.IsNaN(a) {
			return false
		}
		if a > b {
			return false
		}
		if a < b || math.IsNaN(b) {
			better = true
		}
	}
	return better
}

// DominatesIndividual checks if individual a dominates individual b.
func (s Senses) DominatesIndividual(a, b Individual) bool {
	return s.Dominates(a.Objectives, a.Constraints, b.Objectives, b.Constraints)
}

// NonDominatedSort performs non-dominated sorting on the population and returns
// the indices of the members of each front, best front first.
func (s Senses) NonDominatedSort(population []Individual) [][]int {
	var fronts [][]int
	dominated := make([][]int, len(population))
	domCount := make([]int, len(population))

	// Calculate domination for each individual
	for i := 0; i < len(population); i++ {
		for j := 0; j < len(population); j++ {
			if i == j {
				continue
			}
			if s.DominatesIndividual(population[i], population[j]) {
				dominated[i] = append(dominated[i], j)
			} else if s.DominatesIndividual(population[j], population[i]) {
				domCount[i]++
			}
		}
	}

	// Find first front
	var currentFront []int
	for i := range population {
		if domCount[i] == 0 {
			currentFront = append(currentFront, i)
		}
	}

	// Find subsequent fronts
	for len(currentFront) > 0 {
		fronts = append(fronts, currentFront)
		var nextFront []int
		for _, idx := range currentFront {
			for _, dominatedIdx := range dominated[idx] {
				domCount[dominatedIdx]--
				if domCount[dominatedIdx] == 0 {
					nextFront = append(nextFront, dominatedIdx)
				}
			}
		}
		currentFront = nextFront
	}

	return fronts
}
