// Package moea ties a problem, its grid, the archive and the DOE together into the
// state of a multi-objective evolutionary search.
//
// A State is immutable. RequestSample and IngestEvaluated return a new State and
// leave the receiver untouched, so older states remain valid snapshots. Callers
// that share one evolving state between goroutines use a Session.
package moea

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/archive"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/doe"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/grid"
)

// State is a snapshot of the search.
type State struct {
	problem   framework.Problem
	retention archive.Retention
	grid      *grid.Grid
	archive   *archive.Archive
	// rankA and rankB are working populations for variation operators.
	rankA, rankB archive.Rank
	issued       issuedRecord
	random       func() float64
	randInt      doe.RandInt
	doe          doe.State
	walker       grid.Cursor
	logger       logr.Logger
}

// Create validates the problem, builds its grid and allocates the archive.
func Create(problem framework.Problem, opts Options) (*State, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.Default()

	var g *grid.Grid
	var err error
	if opts.GridCache != nil {
		g, err = opts.GridCache.Get(problem.Decisions)
	} else {
		g, err = grid.New(problem.Decisions)
	}
	if err != nil {
		return nil, err
	}

	sentinel := archive.Sentinel(&problem, opts.Retention)
	ranks, rankSize := *opts.Ranks, *opts.RankSize
	a, err := archive.New(ranks, rankSize, sentinel, problem.Senses())
	if err != nil {
		return nil, err
	}

	s := &State{
		problem:   cloneProblem(problem),
		retention: opts.Retention,
		grid:      g,
		archive:   a,
		rankA:     archive.NewRank(sentinel, rankSize),
		rankB:     archive.NewRank(sentinel, rankSize),
		issued:    newIssuedRecord(rankSize, len(problem.Decisions)),
		random:    opts.Random,
		randInt:   opts.RandInt,
		doe:       doe.New(len(problem.Decisions)),
		logger:    opts.Logger.WithName("moea"),
	}
	if opts.DOE != nil {
		if s.doe, err = s.doe.Configure(*opts.DOE); err != nil {
			return nil, err
		}
	}

	s.logger.V(2).Info("Created MOEA state",
		"decisions", len(problem.Decisions),
		"objectives", len(problem.Objectives),
		"constraints", len(problem.Constraints),
		"gridPoints", humanize.Comma(int64(g.Size())),
		"ranks", ranks,
		"rankSize", rankSize,
		"retention", opts.Retention,
		"archiveFootprint", humanize.Bytes(a.Footprint()))
	return s, nil
}

func cloneProblem(p framework.Problem) framework.Problem {
	return framework.Problem{
		Decisions:   slices.Clone(p.Decisions),
		Objectives:  slices.Clone(p.Objectives),
		Constraints: slices.Clone(p.Constraints),
		Tagalongs:   slices.Clone(p.Tagalongs),
	}
}

func (s *State) clone() *State {
	next := *s
	return &next
}

// DOE applies an explicit design-of-experiments override. It is the only way to
// move the DOE back to an earlier phase.
func (s *State) DOE(opts doe.Options) (*State, error) {
	d, err := s.doe.Configure(opts)
	if err != nil {
		return s, err
	}
	next := s.clone()
	next.doe = d
	s.logger.V(5).Info("DOE reconfigured", "phase", d.Phase, "terminate", d.Terminate, "budget", d.Budget)
	return next, nil
}

// Problem returns the problem definition.
func (s *State) Problem() framework.Problem { return cloneProblem(s.problem) }

// Grid returns the decision grid.
func (s *State) Grid() *grid.Grid { return s.grid }

// Archive returns the archive.
func (s *State) Archive() *archive.Archive { return s.archive }

// DOEState returns the position of the design of experiments.
func (s *State) DOEState() doe.State { return s.doe }

// Retention returns the decision retention policy.
func (s *State) Retention() archive.Retention { return s.retention }

// Scratch returns the two working populations reserved for variation operators.
func (s *State) Scratch() (archive.Rank, archive.Rank) { return s.rankA, s.rankB }

// Issued returns the most recently issued grid points, oldest first.
func (s *State) Issued() []grid.GridPoint { return s.issued.list() }

// Random returns the bound random generators.
func (s *State) Random() (func() float64, doe.RandInt) { return s.random, s.randInt }

// ArchiveRows returns one row per non-dominated individual: its decision values
// followed by its objective values.
func (s *State) ArchiveRows() ([][]float64, error) {
	front := s.archive.Front()
	rows := make([][]float64, 0, len(front))
	for i := range front {
		decisions, err := front[i].DecisionValues(s.grid)
		if err != nil {
			return nil, fmt.Errorf("reading decisions of archived individual %d: %w", i, err)
		}
		row := make([]float64, 0, len(decisions)+len(front[i].Objectives))
		row = append(row, decisions...)
		row = append(row, front[i].Objectives...)
		rows = append(rows, row)
	}
	return rows, nil
}
