package moea

import (
	"fmt"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/archive"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/doe"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/grid"
)

// maxRandomRetries bounds the redraws of a random DOE point that was already issued.
const maxRandomRetries = 16

// RequestSample returns the next point to evaluate, in decision-space units.
//
// While the DOE is active the point comes from the current DOE phase. Afterwards
// the grid is walked in a fixed order, skipping points already issued or archived,
// until every point has been visited and framework.ErrGridExhausted is returned.
func (s *State) RequestSample() (*State, grid.Sample, error) {
	next := s.clone()

	var gp grid.GridPoint
	fromDOE := false
	if s.doe.Active() {
		var d doe.State
		gp, d, fromDOE = s.doe.Next(s.grid, s.randInt)
		if fromDOE && s.doe.Phase == doe.Random {
			for try := 0; try < maxRandomRetries && s.issued.contains(gp); try++ {
				gp = doe.RandomPoint(s.grid, s.randInt)
			}
		}
		next.doe = d
		if d.Phase != s.doe.Phase || !d.Active() {
			s.logger.V(5).Info("DOE advanced", "from", s.doe.Phase, "to", d.Phase, "active", d.Active())
		}
	}
	if !fromDOE {
		var ok bool
		gp, ok = next.walk()
		if !ok {
			return s, nil, framework.ErrGridExhausted
		}
	}

	sample, err := s.grid.Read(gp)
	if err != nil {
		return s, nil, fmt.Errorf("reading sample: %w", err)
	}
	next.issued = next.issued.add(gp)
	return next, sample, nil
}

// walk advances the exhaustive walker to the next point not yet issued or archived.
func (s *State) walk() (grid.GridPoint, bool) {
	for {
		gp, cursor, ok := s.walker.Next(s.grid)
		s.walker = cursor
		if !ok {
			return nil, false
		}
		if !s.issued.contains(gp) && !s.archive.Contains(gp) {
			return gp, true
		}
	}
}

// IngestEvaluated maps an evaluated individual onto the grid and inserts it into
// the archive.
func (s *State) IngestEvaluated(ind framework.Individual) (*State, archive.InsertResult, error) {
	if err := s.problem.CheckIndividual(ind); err != nil {
		return s, archive.InsertResult{}, err
	}
	rec, err := archive.NewIndividual(s.grid, ind, s.retention)
	if err != nil {
		return s, archive.InsertResult{}, err
	}

	a, res := s.archive.Insert(rec)
	s.logger.V(5).Info("Ingested individual",
		"point", rec.Point,
		"inserted", res.Inserted,
		"rank", res.Rank,
		"demoted", res.Demoted,
		"evicted", res.Evicted,
		"duplicate", res.Duplicate)
	if a == s.archive {
		return s, res, nil
	}
	next := s.clone()
	next.archive = a
	return next, res, nil
}
