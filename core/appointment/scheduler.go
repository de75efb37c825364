package appointment

import (
	"context"
	"sync"
	"time"

	"github.com/fieldops/leadrouter/core/logger"
	"github.com/fieldops/leadrouter/core/model"
)

// DueFunc is invoked once per emitted reminder stage.
type DueFunc func(appt model.Appointment, stage model.ReminderStage, state model.ReminderState)

// Scheduler periodically sweeps all registered reminder machines and fires
// the stages that have come due. Sweeps are idempotent: the machines
// guarantee at-most-once emission per stage.
type Scheduler struct {
	mu       sync.Mutex
	machines map[string]*Machine
	interval time.Duration
	onDue    DueFunc
	log      logger.Logger
	now      func() time.Time
}

// NewScheduler creates a reminder scheduler. interval defaults to a minute.
func NewScheduler(interval time.Duration, onDue DueFunc, log logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Scheduler{
		machines: make(map[string]*Machine),
		interval: interval,
		onDue:    onDue,
		log:      log,
		now:      time.Now,
	}
}

// Add registers a machine, keyed by its appointment ID.
func (s *Scheduler) Add(m *Machine) {
	appt := m.Appointment()
	s.mu.Lock()
	s.machines[appt.ID] = m
	s.mu.Unlock()
}

// Get returns the machine for an appointment ID.
func (s *Scheduler) Get(apptID string) (*Machine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.machines[apptID]
	return m, ok
}

// Remove drops a machine from the sweep set.
func (s *Scheduler) Remove(apptID string) {
	s.mu.Lock()
	delete(s.machines, apptID)
	s.mu.Unlock()
}

// Sweep evaluates every machine at the given instant and invokes the due
// callback for each stage fired. Terminal machines are pruned.
func (s *Scheduler) Sweep(now time.Time) {
	s.mu.Lock()
	machines := make([]*Machine, 0, len(s.machines))
	for _, m := range s.machines {
		machines = append(machines, m)
	}
	s.mu.Unlock()

	for _, m := range machines {
		appt := m.Appointment()
		for _, stage := range m.EvaluateDue(now) {
			s.log.Debugf("reminder %s due for appointment %s", stage, appt.ID)
			if s.onDue != nil {
				s.onDue(appt, stage, m.State())
			}
		}
		if m.State().Terminal() {
			s.Remove(appt.ID)
		}
	}
}

// Run sweeps on the configured interval until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep(s.now())
		case <-ctx.Done():
			return
		}
	}
}
