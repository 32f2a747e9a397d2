package archive

import (
	"fmt"
	"unsafe"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/grid"
	"github.com/mihai-snyk/moeadv/pkg/multiobjective/internal/pvec"
)

// Archive is a fixed number of fixed-capacity ranks holding evaluated individuals
// by non-domination level. Rank 0 holds the current non-dominated set.
//
// An Archive is immutable. Insert returns a new Archive that shares every rank it
// did not touch, and the untouched storage of the ranks it did, with the receiver.
type Archive struct {
	senses   framework.Senses
	ranks    []Rank
	rankSize int
	sentinel *Individual
}

// InsertResult describes what an insertion did.
type InsertResult struct {
	// Inserted is true when the new individual now occupies a slot.
	Inserted bool
	// Rank is the rank the individual was placed in, or the rank holding its
	// duplicate. It is -1 when the individual was discarded.
	Rank int
	// Demoted counts existing members moved to a worse rank.
	Demoted int
	// Evicted counts existing members removed from the archive, either to make room
	// in a full rank or because they were demoted past the last rank.
	Evicted int
	// Discarded is true when the individual was rejected: dominated in the last
	// rank, or crowded out of a full rank.
	Discarded bool
	// Duplicate is true when an identical record was already archived.
	Duplicate bool
}

// New allocates an archive of ranks × rankSize slots, all holding sentinel.
func New(ranks, rankSize int, sentinel Individual, senses framework.Senses) (*Archive, error) {
	var errs field.ErrorList
	if ranks <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("ranks"), ranks, "must be positive"))
	}
	if rankSize <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("rankSize"), rankSize, "must be positive"))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", framework.ErrInvalidOptions, errs.ToAggregate())
	}

	s := sentinel
	a := &Archive{
		senses:   senses,
		ranks:    make([]Rank, ranks),
		rankSize: rankSize,
		sentinel: &s,
	}
	for i := range a.ranks {
		a.ranks[i] = newRank(a.sentinel, rankSize)
	}
	return a, nil
}

// Len returns the number of ranks.
func (a *Archive) Len() int { return len(a.ranks) }

// RankSize returns the capacity of every rank.
func (a *Archive) RankSize() int { return a.rankSize }

// Rank returns rank i.
func (a *Archive) Rank(i int) Rank { return a.ranks[i] }

// Members returns the occupied records of rank i.
func (a *Archive) Members(i int) []Individual { return a.ranks[i].Members() }

// Front returns the non-dominated set.
func (a *Archive) Front() []Individual { return a.ranks[0].Members() }

// Sentinel returns the filler record of unoccupied slots.
func (a *Archive) Sentinel() Individual { return *a.sentinel }

// Senses returns the comparison senses the archive orders individuals by.
func (a *Archive) Senses() framework.Senses { return a.senses }

// Occupied returns the number of archived individuals over all ranks.
func (a *Archive) Occupied() int {
	total := 0
	for _, r := range a.ranks {
		total += r.occupied
	}
	return total
}

// Contains reports whether any archived individual lies in grid cell gp.
func (a *Archive) Contains(gp grid.GridPoint) bool {
	for _, r := range a.ranks {
		for i := 0; i < r.occupied; i++ {
			if r.slots.Get(i).Point.Equal(gp) {
				return true
			}
		}
	}
	return false
}

// Footprint estimates the bytes held by the archive: every slot plus the records
// of occupied slots.
func (a *Archive) Footprint() uint64 {
	var ptr *Individual
	slotBytes := uint64(unsafe.Sizeof(ptr))
	total := a.sentinel.footprint()
	for _, r := range a.ranks {
		total += uint64(r.slots.Chunks()) * uint64(pvec.ChunkSize) * slotBytes
		for i := 0; i < r.occupied; i++ {
			total += r.slots.Get(i).footprint()
		}
	}
	return total
}

// Insert adds an individual to the archive and returns the updated archive.
//
// The individual is placed in the shallowest rank where no member of that rank or
// a deeper one dominates it. Members of that rank it dominates move one rank down,
// pushing the members they dominate further down in turn; anything pushed past the
// last rank is evicted. When a rank is full the incoming record replaces a member
// in the same grid cell, or else the most crowded member if that member is more
// crowded than the incoming record. Otherwise the incoming record is dropped.
func (a *Archive) Insert(ind Individual) (*Archive, InsertResult) {
	if !ind.Valid {
		return a, InsertResult{Rank: -1, Discarded: true}
	}
	for r := range a.ranks {
		rank := a.ranks[r]
		for i := 0; i < rank.occupied; i++ {
			if rank.slots.Get(i).SameAs(&ind) {
				return a, InsertResult{Rank: r, Duplicate: true}
			}
		}
	}

	k := a.targetRank(&ind)
	if k >= len(a.ranks) {
		return a, InsertResult{Rank: -1, Discarded: true}
	}

	incoming := ind.Clone()
	ranks := make([]Rank, len(a.ranks))
	copy(ranks, a.ranks)
	res := InsertResult{Rank: k}

	ed := ranks[k].edit()
	demoted := ed.removeAll(a.dominatedBy(ed, []*Individual{&incoming}))
	if !a.place(ed, &incoming, &res) {
		// Nothing was dominated, so nothing moved: the archive is unchanged.
		return a, InsertResult{Rank: -1, Discarded: true}
	}
	res.Inserted = true
	ranks[k] = ed.done(ranks[k])

	for j := k + 1; j < len(ranks) && len(demoted) > 0; j++ {
		ed := ranks[j].edit()
		next := ed.removeAll(a.dominatedBy(ed, demoted))
		for _, d := range demoted {
			if a.place(ed, d, &res) {
				res.Demoted++
			} else {
				res.Evicted++
			}
		}
		ranks[j] = ed.done(ranks[j])
		demoted = next
	}
	res.Evicted += len(demoted)

	return &Archive{
		senses:   a.senses,
		ranks:    ranks,
		rankSize: a.rankSize,
		sentinel: a.sentinel,
	}, res
}

// targetRank returns one past the deepest rank holding a dominator of ind, or 0
// when nothing dominates it.
func (a *Archive) targetRank(ind *Individual) int {
	for r := len(a.ranks) - 1; r >= 0; r-- {
		rank := a.ranks[r]
		for i := 0; i < rank.occupied; i++ {
			if a.dominates(rank.slots.Get(i), ind) {
				return r + 1
			}
		}
	}
	return 0
}

// dominatedBy returns, in increasing order, the occupied slots whose member is
// dominated by any of the given individuals.
func (a *Archive) dominatedBy(ed *rankEditor, by []*Individual) []int {
	var slots []int
	for i := 0; i < ed.occupied; i++ {
		member := ed.at(i)
		for _, b := range by {
			if a.dominates(b, member) {
				slots = append(slots, i)
				break
			}
		}
	}
	return slots
}

// place puts ind into the rank, applying the capacity policy when the rank is
// full. It reports whether ind was stored.
func (a *Archive) place(ed *rankEditor, ind *Individual, res *InsertResult) bool {
	if !ed.full() {
		ed.add(ind)
		return true
	}
	for i := 0; i < ed.occupied; i++ {
		if ed.at(i).Point.Equal(ind.Point) {
			ed.replace(i, ind)
			res.Evicted++
			return true
		}
	}
	if victim, ok := mostCrowded(ed.members(), ind); ok {
		ed.replace(victim, ind)
		res.Evicted++
		return true
	}
	return false
}

func (a *Archive) dominates(x, y *Individual) bool {
	return a.senses.Dominates(x.Objectives, x.Constraints, y.Objectives, y.Constraints)
}
