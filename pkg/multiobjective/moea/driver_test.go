package moea_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/benchmarks"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/doe"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/moea"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/util"
)

// Test problem: DTLZ2 with three decisions and two objectives, sampled until the
// grid is exhausted.
func TestDriverLoopWithDTLZ2(t *testing.T) {
	dtlz2 := benchmarks.NewDTLZ2(3, 2)
	problem := dtlz2.Problem(0.25)
	s := create(t, problem, moea.Options{
		Ranks:    ptr.To(10),
		RankSize: ptr.To(200),
		Seed:     ptr.To[int64](1),
		DOE:      &doe.Options{Terminate: doe.Count, Count: ptr.To(40)},
	})

	evaluations := 0
	for nfe := 0; nfe < 10000; nfe++ {
		next, sample, err := s.RequestSample()
		if errors.Is(err, framework.ErrGridExhausted) {
			break
		}
		require.NoError(t, err)
		next, _, err = next.IngestEvaluated(dtlz2.Evaluate(sample))
		require.NoError(t, err)
		s = next
		evaluations++
	}
	assert.GreaterOrEqual(t, evaluations, s.Grid().Size(), "the walk covers every point the DOE missed")

	rows, err := s.ArchiveRows()
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	// Check if first front is non-dominated
	senses := problem.Senses()
	for i := range rows {
		for j := range rows {
			if i != j && senses.Dominates(rows[i][3:], nil, rows[j][3:], nil) {
				t.Errorf("Archive front contains dominated solutions: %v dominates %v", rows[i], rows[j])
			}
		}
	}

	// The grid front is x2 = x3 = 0.5 for each of the five values of x1, and it lies
	// on the unit circle.
	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.Equal(t, 0.5, row[1])
		assert.Equal(t, 0.5, row[2])
		assert.InDelta(t, 1.0, row[3]*row[3]+row[4]*row[4], 1e-9)
	}

	var buf bytes.Buffer
	if err := util.PlotArchive(&buf, s.Archive(), dtlz2.Name(), dtlz2.TrueParetoFront(100), 3); err != nil {
		t.Errorf("Plot failed: %v", err)
	}
	assert.NotZero(t, buf.Len())
}
