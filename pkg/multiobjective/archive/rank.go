package archive

import (
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/internal/pvec"
)

// Rank is a fixed-capacity sequence of archive slots. Occupied slots are kept at
// the front; the rest hold the sentinel. A Rank is an immutable value; archive
// updates produce new Ranks sharing unchanged storage with the old ones.
type Rank struct {
	slots    pvec.Vector[*Individual]
	occupied int
	sentinel *Individual
}

// NewRank returns a rank of size slots, all holding sentinel.
func NewRank(sentinel Individual, size int) Rank {
	return newRank(&sentinel, size)
}

func newRank(sentinel *Individual, size int) Rank {
	return Rank{
		slots:    pvec.New(size, sentinel),
		sentinel: sentinel,
	}
}

// Size returns the capacity of the rank.
func (r Rank) Size() int { return r.slots.Len() }

// Occupied returns the number of valid members.
func (r Rank) Occupied() int { return r.occupied }

// Full reports whether every slot is occupied.
func (r Rank) Full() bool { return r.occupied >= r.slots.Len() }

// At returns the record in slot i, which is the sentinel for unoccupied slots.
func (r Rank) At(i int) Individual { return *r.slots.Get(i) }

// Members returns the occupied records in slot order.
func (r Rank) Members() []Individual {
	out := make([]Individual, r.occupied)
	for i, ind := range r.slots.Slice(0, r.occupied) {
		out[i] = *ind
	}
	return out
}

func (r Rank) edit() *rankEditor {
	return &rankEditor{
		slots:    r.slots.Edit(),
		occupied: r.occupied,
		sentinel: r.sentinel,
		size:     r.slots.Len(),
	}
}

// rankEditor applies a batch of changes to a Rank, copying storage lazily.
type rankEditor struct {
	slots    *pvec.Editor[*Individual]
	occupied int
	sentinel *Individual
	size     int
	dirty    bool
}

func (e *rankEditor) at(i int) *Individual { return e.slots.Get(i) }

func (e *rankEditor) full() bool { return e.occupied >= e.size }

func (e *rankEditor) members() []*Individual {
	out := make([]*Individual, e.occupied)
	for i := range out {
		out[i] = e.slots.Get(i)
	}
	return out
}

func (e *rankEditor) add(ind *Individual) {
	e.slots.Set(e.occupied, ind)
	e.occupied++
	e.dirty = true
}

func (e *rankEditor) replace(i int, ind *Individual) {
	e.slots.Set(i, ind)
	e.dirty = true
}

// removeAll removes the given slots, which must be sorted in increasing order, and
// returns the removed records. The last occupied slot is moved into each hole.
func (e *rankEditor) removeAll(slots []int) []*Individual {
	removed := make([]*Individual, len(slots))
	for k := len(slots) - 1; k >= 0; k-- {
		i := slots[k]
		removed[k] = e.slots.Get(i)
		last := e.occupied - 1
		if i != last {
			e.slots.Set(i, e.slots.Get(last))
		}
		e.slots.Set(last, e.sentinel)
		e.occupied--
		e.dirty = true
	}
	return removed
}

func (e *rankEditor) done(base Rank) Rank {
	if !e.dirty {
		return base
	}
	return Rank{slots: e.slots.Done(), occupied: e.occupied, sentinel: e.sentinel}
}
