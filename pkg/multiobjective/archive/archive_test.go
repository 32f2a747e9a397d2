package archive_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/archive"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/grid"
)

func problem(decisions int, constraints ...framework.Sense) *framework.Problem {
	p := &framework.Problem{
		Objectives: []framework.Objective{
			{Name: "f1", Sense: framework.Minimize},
			{Name: "f2", Sense: framework.Minimize},
		},
	}
	for i := 0; i < decisions; i++ {
		p.Decisions = append(p.Decisions, framework.Decision{
			Name: string(rune('a' + i)), Lower: 0, Upper: 10, Delta: 1,
		})
	}
	for i, s := range constraints {
		p.Constraints = append(p.Constraints, framework.Constraint{Name: string(rune('p' + i)), Sense: s})
	}
	return p
}

func newArchive(t *testing.T, p *framework.Problem, ranks, size int) *archive.Archive {
	t.Helper()
	a, err := archive.New(ranks, size, archive.Sentinel(p, archive.Discard), p.Senses())
	require.NoError(t, err)
	return a
}

func rec(point grid.GridPoint, objectives ...float64) archive.Individual {
	return archive.Individual{Valid: true, Point: point, Objectives: objectives}
}

func points(members []archive.Individual) []grid.GridPoint {
	out := make([]grid.GridPoint, len(members))
	for i, m := range members {
		out[i] = m.Point
	}
	return out
}

func TestInsertDemotesAndEvicts(t *testing.T) {
	a0 := newArchive(t, problem(2), 2, 2)

	a1, res := a0.Insert(rec(grid.GridPoint{1, 1}, 1, 1))
	assert.Equal(t, archive.InsertResult{Inserted: true, Rank: 0}, res)
	assert.Equal(t, 1, a1.Rank(0).Occupied())

	a2, res := a1.Insert(rec(grid.GridPoint{2, 2}, 2, 2))
	assert.Equal(t, archive.InsertResult{Inserted: true, Rank: 1}, res)
	assert.Equal(t, []grid.GridPoint{{1, 1}}, points(a2.Members(0)))
	assert.Equal(t, []grid.GridPoint{{2, 2}}, points(a2.Members(1)))

	// C dominates both: A moves to rank 1, pushing B past the last rank.
	a3, res := a2.Insert(rec(grid.GridPoint{0, 0}, 0, 0))
	assert.Equal(t, archive.InsertResult{Inserted: true, Rank: 0, Demoted: 1, Evicted: 1}, res)
	assert.Equal(t, []grid.GridPoint{{0, 0}}, points(a3.Front()))
	assert.Equal(t, []grid.GridPoint{{1, 1}}, points(a3.Members(1)))
	assert.Equal(t, 2, a3.Occupied())

	// Earlier versions are untouched.
	assert.Equal(t, []grid.GridPoint{{1, 1}}, points(a2.Front()))
	assert.Equal(t, []grid.GridPoint{{2, 2}}, points(a2.Members(1)))
	assert.Equal(t, 0, a0.Occupied())
}

func TestInsertDuplicateIsNoOp(t *testing.T) {
	a := newArchive(t, problem(2), 2, 4)
	a, _ = a.Insert(rec(grid.GridPoint{3, 4}, 1, 2))

	again, res := a.Insert(rec(grid.GridPoint{3, 4}, 1, 2))
	assert.True(t, res.Duplicate)
	assert.False(t, res.Inserted)
	assert.Equal(t, 0, res.Rank)
	assert.Same(t, a, again)
	assert.Equal(t, 1, again.Rank(0).Occupied())
}

func TestInsertDominatedInLastRankIsDiscarded(t *testing.T) {
	a := newArchive(t, problem(1), 1, 4)
	a, _ = a.Insert(rec(grid.GridPoint{1}, 1, 1))

	after, res := a.Insert(rec(grid.GridPoint{2}, 2, 2))
	assert.Equal(t, archive.InsertResult{Rank: -1, Discarded: true}, res)
	assert.Same(t, a, after)
}

func TestInsertSentinelIsDiscarded(t *testing.T) {
	p := problem(1)
	a := newArchive(t, p, 2, 2)
	after, res := a.Insert(archive.Sentinel(p, archive.Discard))
	assert.True(t, res.Discarded)
	assert.Same(t, a, after)
}

func TestFullRankReplacesSameCell(t *testing.T) {
	a := newArchive(t, problem(2), 1, 2)
	a, _ = a.Insert(rec(grid.GridPoint{0, 0}, 1, 3))
	a, _ = a.Insert(rec(grid.GridPoint{5, 5}, 3, 1))
	require.True(t, a.Rank(0).Full())

	a, res := a.Insert(rec(grid.GridPoint{0, 0}, 2, 2))
	assert.Equal(t, archive.InsertResult{Inserted: true, Rank: 0, Evicted: 1}, res)
	assert.ElementsMatch(t, []grid.GridPoint{{0, 0}, {5, 5}}, points(a.Front()))
	for _, m := range a.Front() {
		if m.Point.Equal(grid.GridPoint{0, 0}) {
			assert.Equal(t, []float64{2, 2}, m.Objectives)
		}
	}
}

func TestFullRankCrowding(t *testing.T) {
	base := newArchive(t, problem(1), 1, 3)
	base, _ = base.Insert(rec(grid.GridPoint{0}, 0, 10))
	base, _ = base.Insert(rec(grid.GridPoint{1}, 1, 9))
	base, _ = base.Insert(rec(grid.GridPoint{10}, 10, 0))

	t.Run("evicts the most crowded member", func(t *testing.T) {
		a, res := base.Insert(rec(grid.GridPoint{5}, 5, 5))
		assert.Equal(t, archive.InsertResult{Inserted: true, Rank: 0, Evicted: 1}, res)
		assert.ElementsMatch(t, []grid.GridPoint{{0}, {5}, {10}}, points(a.Front()))
	})

	t.Run("drops an incoming record that is more crowded", func(t *testing.T) {
		spread, _ := base.Insert(rec(grid.GridPoint{5}, 5, 5))
		a, res := spread.Insert(rec(grid.GridPoint{1}, 1, 8.5))
		assert.Equal(t, archive.InsertResult{Rank: -1, Discarded: true}, res)
		assert.Same(t, spread, a)
	})
}

func TestFeasibleOutranksInfeasible(t *testing.T) {
	p := problem(1, framework.Minimize)
	a := newArchive(t, p, 3, 4)

	infeasible := archive.Individual{Valid: true, Point: grid.GridPoint{0}, Objectives: []float64{0, 0}, Constraints: []float64{1}}
	feasible := archive.Individual{Valid: true, Point: grid.GridPoint{1}, Objectives: []float64{5, 5}, Constraints: []float64{-1}}

	a, _ = a.Insert(infeasible)
	a, res := a.Insert(feasible)
	assert.Equal(t, 0, res.Rank)
	assert.Equal(t, 1, res.Demoted)
	assert.Equal(t, []grid.GridPoint{{1}}, points(a.Front()))
	assert.Equal(t, []grid.GridPoint{{0}}, points(a.Members(1)))
}

// checkInvariants verifies capacity, sentinel filling and that no member of a rank
// is dominated by a member of the same or a deeper rank.
func checkInvariants(t *testing.T, a *archive.Archive) {
	t.Helper()
	senses := a.Senses()
	for j := 0; j < a.Len(); j++ {
		r := a.Rank(j)
		if r.Occupied() > a.RankSize() {
			t.Fatalf("rank %d holds %d > %d members", j, r.Occupied(), a.RankSize())
		}
		for i := r.Occupied(); i < r.Size(); i++ {
			if r.At(i).Valid {
				t.Fatalf("rank %d slot %d past occupancy holds a valid record", j, i)
			}
		}
		for _, m := range r.Members() {
			for d := j; d < a.Len(); d++ {
				for _, other := range a.Members(d) {
					if senses.Dominates(other.Objectives, other.Constraints, m.Objectives, m.Constraints) {
						t.Fatalf("rank %d member %v dominated by rank %d member %v", j, m.Point, d, other.Point)
					}
				}
			}
		}
	}

	front := make([]framework.Individual, 0, a.Rank(0).Occupied())
	for _, m := range a.Front() {
		front = append(front, framework.Individual{Objectives: m.Objectives, Constraints: m.Constraints})
	}
	if fronts := senses.NonDominatedSort(front); len(fronts) > 1 {
		t.Fatalf("rank 0 is not mutually non-dominated: %v", fronts)
	}
}

func TestRandomInsertionsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	p := problem(2)
	a := newArchive(t, p, 3, 4)

	for n := 0; n < 500; n++ {
		ind := rec(
			grid.GridPoint{rng.IntN(11), rng.IntN(11)},
			math.Round(rng.Float64()*20)/2,
			math.Round(rng.Float64()*20)/2,
		)
		before := a.Rank(0).Occupied()
		next, res := a.Insert(ind)

		// Re-inserting never grows the archive.
		again, dup := next.Insert(ind)
		if res.Inserted {
			assert.True(t, dup.Duplicate)
			assert.Same(t, next, again)
		}
		if res.Discarded {
			assert.Same(t, a, next)
			assert.Equal(t, before, next.Rank(0).Occupied())
		}

		a = next
		checkInvariants(t, a)
	}
	assert.Positive(t, a.Occupied())
}

func TestNewValidatesCapacity(t *testing.T) {
	p := problem(1)
	_, err := archive.New(0, 10, archive.Sentinel(p, archive.Discard), p.Senses())
	assert.ErrorIs(t, err, framework.ErrInvalidOptions)
	_, err = archive.New(10, -1, archive.Sentinel(p, archive.Discard), p.Senses())
	assert.ErrorIs(t, err, framework.ErrInvalidOptions)
}

func TestQueries(t *testing.T) {
	a := newArchive(t, problem(2), 4, 3)
	assert.Equal(t, 4, a.Len())
	assert.Equal(t, 3, a.RankSize())
	assert.False(t, a.Contains(grid.GridPoint{1, 1}))

	empty := a.Footprint()
	assert.Positive(t, empty)

	a, _ = a.Insert(rec(grid.GridPoint{1, 1}, 1, 1))
	assert.True(t, a.Contains(grid.GridPoint{1, 1}))
	assert.Greater(t, a.Footprint(), empty)

	if diff := cmp.Diff(grid.GridPoint{999, 999}, a.Sentinel().Point); diff != "" {
		t.Errorf("unexpected sentinel point (-want +got):\n%s", diff)
	}
}

func TestCrowdingDistance(t *testing.T) {
	d := archive.CrowdingDistance([]grid.GridPoint{{0}, {1}, {5}, {10}})
	assert.True(t, math.IsInf(d[0], 1))
	assert.InDelta(t, 0.5, d[1], 1e-12)
	assert.InDelta(t, 0.9, d[2], 1e-12)
	assert.True(t, math.IsInf(d[3], 1))

	small := archive.CrowdingDistance([]grid.GridPoint{{0, 0}, {3, 3}})
	assert.True(t, math.IsInf(small[0], 1) && math.IsInf(small[1], 1))

	flat := archive.CrowdingDistance([]grid.GridPoint{{2, 0}, {2, 1}, {2, 2}})
	assert.True(t, math.IsInf(flat[0], 1))
	assert.InDelta(t, 1.0, flat[1], 1e-12)
	assert.True(t, math.IsInf(flat[2], 1))
}
