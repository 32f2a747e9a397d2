// Package doe drives the design-of-experiments samples issued before evolutionary
// sampling takes over.
//
// The phases run in a fixed order: the center point (1 sample), one factor at a
// time (2N samples for N decisions), the corners of the decision space (2^N
// samples) and uniform random samples (unlimited). A State is a plain value; every
// transition returns a new State.
package doe

import (
	"fmt"
	"math"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/grid"
)

// Phase is a DOE phase. Count is only valid as a termination condition.
type Phase int

const (
	CenterPoint Phase = iota
	OFAT
	Corners
	Random
	// Count ends the DOE after an explicit number of samples.
	Count
)

var phaseNames = map[Phase]string{
	CenterPoint: "centerpoint",
	OFAT:        "ofat",
	Corners:     "corners",
	Random:      "random",
	Count:       "count",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	if name, ok := phaseNames[p]; ok {
		return []byte(name), nil
	}
	return nil, fmt.Errorf("unknown DOE phase %d", int(p))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for phase, name := range phaseNames {
		if name == s {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown DOE phase %q", string(text))
}

// Unlimited marks the remaining count of the random phase.
const Unlimited = -1

// State is the position of the DOE.
type State struct {
	// Phase is the phase the next sample is drawn from.
	Phase Phase
	// Terminate is the last phase sampled before evolution takes over, or Count.
	Terminate Phase
	// Remaining is the number of samples left in Phase, or Unlimited.
	Remaining int
	// Budget is the number of samples left when Terminate is Count.
	Budget int
	// Cursor is the index of the next sample within Phase.
	Cursor int
	// Decisions is the number of decision variables.
	Decisions int
}

// New returns the initial DOE state for n decisions: start at the center point and
// stop after the one-factor-at-a-time phase.
func New(n int) State {
	return State{
		Phase:     CenterPoint,
		Terminate: OFAT,
		Remaining: PhaseLength(CenterPoint, n),
		Decisions: n,
	}
}

// PhaseLength returns the number of samples in a phase for n decisions. Corners
// saturates at math.MaxInt.
func PhaseLength(p Phase, n int) int {
	switch p {
	case CenterPoint:
		return 1
	case OFAT:
		return 2 * n
	case Corners:
		if n >= 63 {
			return math.MaxInt
		}
		return 1 << n
	default:
		return Unlimited
	}
}

// Active reports whether the DOE still produces samples.
func (s State) Active() bool {
	if s.Terminate == Count {
		return s.Budget > 0
	}
	return s.Phase <= s.Terminate
}

// Options overrides the DOE configuration.
type Options struct {
	// Terminate is the last DOE phase, or Count.
	Terminate Phase `json:"terminate"`
	// Count is the number of samples when Terminate is Count. Defaults to 2N+1.
	Count *int `json:"count,omitempty"`
	// Start moves the DOE to the given phase. Defaults to the current phase.
	Start *Phase `json:"start,omitempty"`
}

// DefaultCount returns the sample count used with Count termination when none is
// given.
func DefaultCount(n int) int { return 2*n + 1 }

// Validate checks the options.
func (o Options) Validate() error {
	var errs field.ErrorList
	if o.Terminate < CenterPoint || o.Terminate > Count {
		errs = append(errs, field.NotSupported(field.NewPath("terminate"), o.Terminate, phaseList(Count)))
	}
	if o.Count != nil {
		switch {
		case o.Terminate != Count:
			errs = append(errs, field.Forbidden(field.NewPath("count"), "only allowed when terminate is count"))
		case *o.Count < 0:
			errs = append(errs, field.Invalid(field.NewPath("count"), *o.Count, "must not be negative"))
		}
	}
	if o.Start != nil && (*o.Start < CenterPoint || *o.Start > Random) {
		errs = append(errs, field.NotSupported(field.NewPath("start"), *o.Start, phaseList(Random)))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", framework.ErrInvalidOptions, errs.ToAggregate())
	}
	return nil
}

func phaseList(last Phase) []string {
	var out []string
	for p := CenterPoint; p <= last; p++ {
		out = append(out, p.String())
	}
	return out
}

// Configure applies an explicit override. The remaining count and cursor restart
// for the current phase, or for Start when set; this is the only way to move the
// DOE back to an earlier phase.
func (s State) Configure(o Options) (State, error) {
	if err := o.Validate(); err != nil {
		return s, err
	}
	phase := s.Phase
	if o.Start != nil {
		phase = *o.Start
	}
	next := State{
		Phase:     phase,
		Terminate: o.Terminate,
		Remaining: PhaseLength(phase, s.Decisions),
		Decisions: s.Decisions,
	}
	if o.Terminate == Count {
		next.Budget = DefaultCount(s.Decisions)
		if o.Count != nil {
			next.Budget = *o.Count
		}
	}
	return next, nil
}

// RandInt returns a uniformly distributed integer in [lo, hi].
type RandInt func(lo, hi int) int

// Next produces the next DOE grid point and the advanced state. It returns false
// when the DOE is no longer active. OFAT extremes that coincide with the center
// point are skipped without consuming the COUNT budget.
func (s State) Next(g *grid.Grid, randInt RandInt) (grid.GridPoint, State, bool) {
	s = s.skipCentered(g)
	if !s.Active() {
		return nil, s, false
	}

	var gp grid.GridPoint
	switch s.Phase {
	case CenterPoint:
		gp = g.Center()
	case OFAT:
		gp = g.Center()
		axis := s.Cursor / 2
		if s.Cursor%2 == 0 {
			gp[axis] = 0
		} else {
			gp[axis] = g.Last(axis)
		}
	case Corners:
		gp = make(grid.GridPoint, g.Len())
		for i := range gp {
			if i < 63 && s.Cursor&(1<<i) != 0 {
				gp[i] = g.Last(i)
			}
		}
	default:
		gp = RandomPoint(g, randInt)
	}

	return gp, s.advance(), true
}

// RandomPoint draws every index uniformly from its axis.
func RandomPoint(g *grid.Grid, randInt RandInt) grid.GridPoint {
	gp := make(grid.GridPoint, g.Len())
	for i := range gp {
		gp[i] = randInt(0, g.Last(i))
	}
	return gp
}

// skipCentered passes over OFAT positions whose extreme is the center index, which
// happens on axes with at most two values.
func (s State) skipCentered(g *grid.Grid) State {
	for s.Phase == OFAT && s.Remaining > 0 {
		axis := s.Cursor / 2
		extreme := 0
		if s.Cursor%2 == 1 {
			extreme = g.Last(axis)
		}
		if extreme != g.Center()[axis] {
			break
		}
		s = s.step()
	}
	return s
}

func (s State) advance() State {
	if s.Terminate == Count {
		s.Budget--
	}
	return s.step()
}

func (s State) step() State {
	if s.Remaining == Unlimited {
		s.Cursor++
		return s
	}
	s.Remaining--
	s.Cursor++
	for s.Remaining == 0 && s.Phase < Random {
		s.Phase++
		s.Cursor = 0
		s.Remaining = PhaseLength(s.Phase, s.Decisions)
	}
	return s
}
