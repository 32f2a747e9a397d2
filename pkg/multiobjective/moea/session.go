package moea

import (
	"context"
	"sync"

	"k8s.io/klog/v2"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/archive"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/doe"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/grid"
)

// Session serializes updates to one evolving State so that many samples can be
// evaluated concurrently while every ingest applies atomically to the archive.
type Session struct {
	mu    sync.Mutex
	state *State
}

// NewSession starts a session from state.
func NewSession(state *State) *Session {
	return &Session{state: state}
}

// Request hands out the next sample.
func (s *Session) Request(ctx context.Context) (grid.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, sample, err := s.state.RequestSample()
	if err != nil {
		return nil, err
	}
	s.state = next
	klog.FromContext(ctx).V(4).Info("Issued sample", "sample", sample, "doePhase", next.doe.Phase)
	return sample, nil
}

// Ingest adds an evaluated individual to the archive.
func (s *Session) Ingest(ctx context.Context, ind framework.Individual) (archive.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, res, err := s.state.IngestEvaluated(ind)
	if err != nil {
		return res, err
	}
	s.state = next
	klog.FromContext(ctx).V(4).Info("Ingested individual", "rank", res.Rank, "inserted", res.Inserted, "archived", next.archive.Occupied())
	return res, nil
}

// Configure applies a DOE override.
func (s *Session) Configure(opts doe.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.DOE(opts)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Snapshot returns the current state. The snapshot stays valid and unchanged
// while the session moves on.
func (s *Session) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
