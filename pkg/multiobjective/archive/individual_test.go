package archive_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/archive"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/grid"
)

func TestNewIndividualRetention(t *testing.T) {
	g, err := grid.New([]framework.Decision{{Name: "x", Lower: 0, Upper: 1, Delta: 0.5}})
	require.NoError(t, err)
	ind := framework.Individual{
		Decisions:  []float64{0.74},
		Objectives: []float64{3},
		Tagalongs:  []float64{42},
	}

	kept, err := archive.NewIndividual(g, ind, archive.Retain)
	require.NoError(t, err)
	assert.True(t, kept.Valid)
	assert.Equal(t, grid.GridPoint{1}, kept.Point)
	assert.Equal(t, []float64{0.74}, kept.Decisions)
	values, err := kept.DecisionValues(g)
	require.NoError(t, err)
	assert.Equal(t, grid.Sample{0.74}, values)

	dropped, err := archive.NewIndividual(g, ind, archive.Discard)
	require.NoError(t, err)
	assert.Empty(t, dropped.Decisions)
	assert.Equal(t, []float64{42}, dropped.Tagalongs)
	values, err = dropped.DecisionValues(g)
	require.NoError(t, err)
	assert.Equal(t, grid.Sample{0.5}, values)

	// Records own their slices.
	ind.Objectives[0] = -1
	assert.Equal(t, []float64{3}, dropped.Objectives)

	_, err = archive.NewIndividual(g, framework.Individual{Decisions: []float64{0, 1}}, archive.Discard)
	assert.ErrorIs(t, err, framework.ErrShapeMismatch)
}

func TestSentinel(t *testing.T) {
	p := &framework.Problem{
		Decisions: []framework.Decision{{Name: "x", Lower: 0, Upper: 1, Delta: 0.5}},
		Objectives: []framework.Objective{
			{Name: "cost", Sense: framework.Minimize},
			{Name: "gain", Sense: framework.Maximize},
		},
		Constraints: []framework.Constraint{
			{Name: "under", Sense: framework.Minimize},
			{Name: "over", Sense: framework.Maximize},
		},
		Tagalongs: []string{"t"},
	}

	s := archive.Sentinel(p, archive.Retain)
	assert.False(t, s.Valid)
	assert.Equal(t, grid.GridPoint{999}, s.Point)
	assert.Equal(t, []float64{0}, s.Decisions)
	assert.Equal(t, []float64{0}, s.Tagalongs)
	assert.True(t, math.IsInf(s.Objectives[0], 1))
	assert.True(t, math.IsInf(s.Objectives[1], -1))
	assert.True(t, math.IsInf(s.Constraints[0], 1))
	assert.True(t, math.IsInf(s.Constraints[1], -1))

	assert.Empty(t, archive.Sentinel(p, archive.Discard).Decisions)

	senses := p.Senses()
	valid := []float64{1e12, -1e12}
	feasible := []float64{0, 0}
	assert.True(t, senses.Dominates(valid, feasible, s.Objectives, s.Constraints))
	assert.False(t, senses.Dominates(s.Objectives, s.Constraints, valid, feasible))
}

func TestRetentionText(t *testing.T) {
	var r archive.Retention
	require.NoError(t, r.UnmarshalText([]byte("RETAIN")))
	assert.Equal(t, archive.Retain, r)
	assert.Error(t, r.UnmarshalText([]byte("keep")))

	text, err := archive.Discard.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "discard", string(text))
}

func TestRank(t *testing.T) {
	p := &framework.Problem{
		Decisions:  []framework.Decision{{Name: "x", Lower: 0, Upper: 1, Delta: 0.5}},
		Objectives: []framework.Objective{{Name: "y"}},
	}
	r := archive.NewRank(archive.Sentinel(p, archive.Discard), 3)
	assert.Equal(t, 3, r.Size())
	assert.Equal(t, 0, r.Occupied())
	assert.False(t, r.Full())
	assert.Empty(t, r.Members())
	for i := 0; i < r.Size(); i++ {
		assert.False(t, r.At(i).Valid)
	}
}
