package moea

import (
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/grid"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/internal/pvec"
)

// issuedRecord remembers the most recently handed-out grid points in a fixed-size
// ring. Unused entries hold a point of -1 indices, which no grid contains.
type issuedRecord struct {
	points pvec.Vector[grid.GridPoint]
	next   int
	count  int
}

func newIssuedRecord(size, decisions int) issuedRecord {
	empty := make(grid.GridPoint, decisions)
	for i := range empty {
		empty[i] = -1
	}
	return issuedRecord{points: pvec.New(size, empty)}
}

func (r issuedRecord) add(gp grid.GridPoint) issuedRecord {
	size := r.points.Len()
	return issuedRecord{
		points: r.points.Set(r.next, gp),
		next:   (r.next + 1) % size,
		count:  min(r.count+1, size),
	}
}

func (r issuedRecord) contains(gp grid.GridPoint) bool {
	for i := 0; i < r.count; i++ {
		if r.points.Get(i).Equal(gp) {
			return true
		}
	}
	return false
}

// list returns the remembered points, oldest first.
func (r issuedRecord) list() []grid.GridPoint {
	size := r.points.Len()
	out := make([]grid.GridPoint, 0, r.count)
	start := 0
	if r.count == size {
		start = r.next
	}
	for i := 0; i < r.count; i++ {
		out = append(out, r.points.Get((start+i)%size))
	}
	return out
}
