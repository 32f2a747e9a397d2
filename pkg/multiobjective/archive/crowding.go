package archive

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/grid"
)

// CrowdingDistance calculates the crowding distance of every grid point in the
// set, measured in lattice coordinates. Boundary points on any axis get +Inf;
// sets of at most two points are all boundary.
func CrowdingDistance(points []grid.GridPoint) []float64 {
	n := len(points)
	distance := make([]float64, n)
	if n <= 2 {
		for i := range distance {
			distance[i] = math.Inf(1)
		}
		return distance
	}

	coords := make([]float64, n)
	order := make([]int, n)
	for m := range points[0] {
		for i, p := range points {
			coords[i] = float64(p[m])
		}
		// Sort by each axis; coords ends up sorted, order maps back to points.
		floats.Argsort(coords, order)

		axisRange := coords[n-1] - coords[0]
		if axisRange == 0 {
			continue
		}

		// Set boundary points to infinity
		distance[order[0]] = math.Inf(1)
		distance[order[n-1]] = math.Inf(1)

		// Calculate distance for intermediate points
		for i := 1; i < n-1; i++ {
			distance[order[i]] += (coords[i+1] - coords[i-1]) / axisRange
		}
	}
	return distance
}

// mostCrowded picks the member to evict so that incoming can take its slot. It
// returns false when no member is strictly more crowded than incoming.
func mostCrowded(members []*Individual, incoming *Individual) (int, bool) {
	points := make([]grid.GridPoint, 0, len(members)+1)
	for _, m := range members {
		points = append(points, m.Point)
	}
	points = append(points, incoming.Point)

	distance := CrowdingDistance(points)
	victim := floats.MinIdx(distance[:len(members)])
	return victim, distance[victim] < distance[len(members)]
}
