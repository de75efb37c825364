package assign

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/fieldops/leadrouter/core/model"
)

// repState pairs a rep's static fields with its live load counter. The
// counter is the only shared mutable state in the core and is mutated solely
// through Reserve and Release.
type repState struct {
	rep  model.Rep
	load atomic.Int32
}

// Roster owns the live capacity counters for a set of reps. All reads of rep
// state outside the roster are immutable snapshots.
type Roster struct {
	mu   sync.RWMutex
	reps map[string]*repState
}

// NewRoster builds a roster from the given reps. Each rep is validated and
// its CurrentLoad seeds the live counter.
func NewRoster(reps []model.Rep) (*Roster, error) {
	r := &Roster{reps: make(map[string]*repState, len(reps))}
	for _, rep := range reps {
		if err := rep.Validate(); err != nil {
			return nil, err
		}
		st := &repState{rep: rep}
		st.load.Store(int32(rep.CurrentLoad))
		r.reps[rep.ID] = st
	}
	return r, nil
}

// Upsert adds or replaces a rep. The live counter restarts from the rep's
// CurrentLoad field.
func (r *Roster) Upsert(rep model.Rep) error {
	if err := rep.Validate(); err != nil {
		return err
	}
	st := &repState{rep: rep}
	st.load.Store(int32(rep.CurrentLoad))
	r.mu.Lock()
	r.reps[rep.ID] = st
	r.mu.Unlock()
	return nil
}

// Snapshot returns a point-in-time copy of all reps with their current load,
// sorted by ID for deterministic iteration.
func (r *Roster) Snapshot() []model.Rep {
	r.mu.RLock()
	out := make([]model.Rep, 0, len(r.reps))
	for _, st := range r.reps {
		rep := st.rep
		rep.CurrentLoad = int(st.load.Load())
		out = append(out, rep)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a snapshot of a single rep.
func (r *Roster) Get(id string) (model.Rep, bool) {
	r.mu.RLock()
	st, ok := r.reps[id]
	r.mu.RUnlock()
	if !ok {
		return model.Rep{}, false
	}
	rep := st.rep
	rep.CurrentLoad = int(st.load.Load())
	return rep, true
}

// Reserve atomically increments the rep's load if capacity remains. It
// returns false when the rep is unknown or already at max capacity, which
// callers treat as a lost race.
func (r *Roster) Reserve(id string) bool {
	r.mu.RLock()
	st, ok := r.reps[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	for {
		cur := st.load.Load()
		if int(cur) >= st.rep.MaxCapacity {
			return false
		}
		if st.load.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// Release decrements the rep's load, never below zero. It supports the
// explicit release-then-reassign flow.
func (r *Roster) Release(id string) error {
	r.mu.RLock()
	st, ok := r.reps[id]
	r.mu.RUnlock()
	if !ok {
		return ErrUnknownRep
	}
	for {
		cur := st.load.Load()
		if cur <= 0 {
			return nil
		}
		if st.load.CompareAndSwap(cur, cur-1) {
			return nil
		}
	}
}

// Len returns the number of reps in the roster.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.reps)
}
