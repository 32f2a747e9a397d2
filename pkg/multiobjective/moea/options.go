package moea

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/archive"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/doe"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/grid"
)

const (
	DefaultRanks    = 100
	DefaultRankSize = 10000
)

// Options configures state creation. Nil fields select the defaults.
//
// Fewer ranks save memory at the risk of forgetting that a badly dominated region
// was already sampled; a smaller rank size saves memory at the risk of evicting
// useful individuals when ranks overflow.
type Options struct {
	// Ranks is the number of archive ranks.
	Ranks *int `json:"ranks,omitempty"`
	// RankSize is the capacity of every rank and of the issued-sample record.
	RankSize *int `json:"rankSize,omitempty"`
	// Retention decides whether archived individuals keep their decision values.
	Retention archive.Retention `json:"retention,omitempty"`
	// Seed seeds the default random generators. Ignored for hooks set explicitly.
	Seed *int64 `json:"seed,omitempty"`
	// DOE overrides the initial design of experiments.
	DOE *doe.Options `json:"doe,omitempty"`

	// Random returns uniformly distributed reals in [0, 1). States derived from one
	// another share the hooks, so custom hooks must be safe for concurrent use when
	// snapshots are sampled from several goroutines.
	Random func() float64 `json:"-"`
	// RandInt returns uniformly distributed integers in [lo, hi]. Sampling assumes
	// independent uniform draws; a biased generator degrades the search.
	RandInt doe.RandInt `json:"-"`
	// Logger defaults to klog.Background().
	Logger logr.Logger `json:"-"`
	// GridCache, when set, shares grids between states of the same problem.
	GridCache *grid.Cache `json:"-"`
}

// LoadOptions parses options from YAML or JSON. Unknown fields are rejected.
func LoadOptions(data []byte) (Options, error) {
	var opts Options
	if err := yaml.UnmarshalStrict(data, &opts); err != nil {
		return Options{}, fmt.Errorf("%w: %w", framework.ErrInvalidOptions, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	opts.Default()
	return opts, nil
}

// Default fills unset fields.
func (o *Options) Default() {
	if o.Ranks == nil {
		o.Ranks = ptr.To(DefaultRanks)
	}
	if o.RankSize == nil {
		o.RankSize = ptr.To(DefaultRankSize)
	}
	if o.Random == nil || o.RandInt == nil {
		random, randInt := rand.Float64, rand.IntN
		if o.Seed != nil {
			r := newLockedRand(uint64(*o.Seed))
			random, randInt = r.Float64, r.IntN
		}
		if o.Random == nil {
			o.Random = random
		}
		if o.RandInt == nil {
			o.RandInt = func(lo, hi int) int { return lo + randInt(hi-lo+1) }
		}
	}
	if o.Logger.GetSink() == nil {
		o.Logger = klog.Background()
	}
}

// Validate checks the options. Nil fields are valid; set sizes must be positive.
func (o *Options) Validate() error {
	var errs field.ErrorList
	if o.Ranks != nil && *o.Ranks <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("ranks"), *o.Ranks, "must be positive"))
	}
	if o.RankSize != nil && *o.RankSize <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("rankSize"), *o.RankSize, "must be positive"))
	}
	if o.Retention != archive.Discard && o.Retention != archive.Retain {
		errs = append(errs, field.NotSupported(field.NewPath("retention"), o.Retention,
			[]string{archive.Discard.String(), archive.Retain.String()}))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", framework.ErrInvalidOptions, errs.ToAggregate())
	}
	if o.DOE != nil {
		if err := o.DOE.Validate(); err != nil {
			return fmt.Errorf("doe: %w", err)
		}
	}
	return nil
}

// lockedRand is a seeded generator shared by every state derived from one Create
// call, so concurrent snapshots draw from it under a lock.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(seed uint64) *lockedRand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
