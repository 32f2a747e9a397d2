package moea_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2/ktesting"
	"k8s.io/utils/ptr"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/benchmarks"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/doe"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/moea"
)

func TestSessionConcurrentEvaluation(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	zdt1 := benchmarks.NewZDT1(2)
	s := create(t, zdt1.Problem(0.1), moea.Options{Ranks: ptr.To(25), RankSize: ptr.To(200)})
	session := moea.NewSession(s)

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		issued   int
		inserted int
	)
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				sample, err := session.Request(ctx)
				if errors.Is(err, framework.ErrGridExhausted) {
					return
				}
				if err != nil {
					errs <- err
					return
				}
				res, err := session.Ingest(ctx, zdt1.Evaluate(sample))
				if err != nil {
					errs <- err
					return
				}
				mu.Lock()
				issued++
				if res.Inserted {
					inserted++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	final := session.Snapshot()
	assert.Equal(t, 121, issued, "every grid point is issued exactly once")
	assert.Equal(t, issued, inserted)
	assert.Len(t, final.Issued(), 121)

	// On the grid, the ZDT1 front is every point with x2 = 0.
	front := final.Archive().Front()
	require.Len(t, front, 11)
	for _, m := range front {
		assert.Equal(t, 0, m.Point[1])
	}

	// The starting state never changed.
	assert.Equal(t, 0, s.Archive().Occupied())
}

func TestSessionConfigure(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	session := moea.NewSession(create(t, squareProblem(), moea.Options{Ranks: ptr.To(1), RankSize: ptr.To(16)}))

	require.NoError(t, session.Configure(doe.Options{Terminate: doe.Count, Count: ptr.To(1)}))
	before := session.Snapshot()
	_, err := session.Request(ctx)
	require.NoError(t, err)
	assert.True(t, before.DOEState().Active())
	assert.False(t, session.Snapshot().DOEState().Active())

	assert.ErrorIs(t, session.Configure(doe.Options{Terminate: doe.Phase(-1)}), framework.ErrInvalidOptions)

	_, err = session.Ingest(ctx, framework.Individual{Decisions: []float64{1}})
	assert.ErrorIs(t, err, framework.ErrShapeMismatch)
}
