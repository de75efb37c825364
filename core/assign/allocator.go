package assign

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/leadrouter/core/logger"
	"github.com/fieldops/leadrouter/core/model"
	"github.com/fieldops/leadrouter/core/scoring"
)

// Config defines allocator settings.
type Config struct {
	// MaxAttempts bounds the reservation retry loop on capacity races.
	MaxAttempts int `json:"max_attempts"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
}

// Allocator assigns leads to reps. It filters the roster, scores eligible
// candidates, reserves capacity on the winner atomically and nominates a
// backup. The assignment record is append-only; a failed Assign leaves no
// partial state behind.
type Allocator struct {
	cfg    Config
	engine *scoring.Engine
	roster *Roster
	log    logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	records  []model.Assignment
	assigned map[string]struct{}
}

// NewAllocator creates an allocator over the given roster.
func NewAllocator(cfg Config, engine *scoring.Engine, roster *Roster, log logger.Logger) *Allocator {
	cfg.SetDefaults()
	if log == nil {
		log = logger.Nop{}
	}
	return &Allocator{
		cfg:      cfg,
		engine:   engine,
		roster:   roster,
		log:      log,
		now:      time.Now,
		assigned: make(map[string]struct{}),
	}
}

// Roster exposes the allocator's roster for snapshot reads.
func (a *Allocator) Roster() *Roster { return a.roster }

// Assign allocates the lead to the best-scoring eligible rep. On a lost
// reservation race it retries from a refreshed roster snapshot, bounded by
// MaxAttempts, then fails with ErrCapacityRace. A lead with a live
// assignment is rejected with ErrLeadAlreadyAssigned until Release is
// called for it.
func (a *Allocator) Assign(lead model.Lead) (model.Assignment, error) {
	if err := lead.Validate(); err != nil {
		return model.Assignment{}, err
	}
	if !a.claim(lead.ID) {
		return model.Assignment{}, ErrLeadAlreadyAssigned
	}
	asn, err := a.allocate(lead)
	if err != nil {
		a.unclaim(lead.ID)
		return model.Assignment{}, err
	}
	return asn, nil
}

func (a *Allocator) allocate(lead model.Lead) (model.Assignment, error) {
	for attempt := 0; attempt < a.cfg.MaxAttempts; attempt++ {
		snapshot := a.roster.Snapshot()
		if len(snapshot) == 0 {
			return model.Assignment{}, ErrEmptyRoster
		}

		var eligible []model.Rep
		for _, rep := range snapshot {
			if rep.CanTakeLead() {
				eligible = append(eligible, rep)
			}
		}
		if len(eligible) == 0 {
			return model.Assignment{}, ErrNoCapacityAvailable
		}

		avgLoad := scoring.AverageLoad(snapshot)
		scores := make([]scoring.RepScore, 0, len(eligible))
		for _, rep := range eligible {
			b, err := a.engine.Score(lead, rep, avgLoad)
			if err != nil {
				return model.Assignment{}, err
			}
			scores = append(scores, scoring.RepScore{Rep: rep, Breakdown: b})
		}
		scoring.Rank(scores)

		primary := scores[0]
		if !a.roster.Reserve(primary.Rep.ID) {
			a.log.Debugf("lost reservation race for rep %s, attempt %d", primary.Rep.ID, attempt+1)
			continue
		}

		asn := model.Assignment{
			ID:           uuid.NewString(),
			LeadID:       lead.ID,
			PrimaryRepID: primary.Rep.ID,
			Breakdown:    primary.Breakdown,
			AssignedAt:   a.now(),
			EligibleReps: len(eligible),
			Attempts:     attempt + 1,
		}
		if len(scores) > 1 {
			asn.BackupRepID = scores[1].Rep.ID
		}

		a.mu.Lock()
		a.records = append(a.records, asn)
		a.mu.Unlock()

		a.log.Infof("lead %s assigned to %s (total %.1f)", lead.ID, asn.PrimaryRepID, asn.Breakdown.Total)
		return asn, nil
	}
	return model.Assignment{}, ErrCapacityRace
}

// Release frees one unit of capacity on the assignment's primary rep and
// clears the lead's live assignment. It is the first half of the explicit
// release-then-reassign flow; the original assignment record is never
// overwritten.
func (a *Allocator) Release(asn model.Assignment) error {
	if err := a.roster.Release(asn.PrimaryRepID); err != nil {
		return err
	}
	a.unclaim(asn.LeadID)
	return nil
}

// claim marks the lead as holding a live assignment. It returns false when
// the lead is already claimed, which makes concurrent Assign calls for the
// same lead serialize down to one winner.
func (a *Allocator) claim(leadID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.assigned[leadID]; ok {
		return false
	}
	a.assigned[leadID] = struct{}{}
	return true
}

func (a *Allocator) unclaim(leadID string) {
	a.mu.Lock()
	delete(a.assigned, leadID)
	a.mu.Unlock()
}

// Assignments returns a copy of the append-only assignment history.
func (a *Allocator) Assignments() []model.Assignment {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.Assignment, len(a.records))
	copy(out, a.records)
	return out
}
