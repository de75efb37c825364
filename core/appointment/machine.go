package appointment

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/leadrouter/core/model"
)

// Transition is one recorded state change, kept for audit.
type Transition struct {
	From model.ReminderState `json:"from"`
	To   model.ReminderState `json:"to"`
	At   time.Time           `json:"at"`
	Note string              `json:"note,omitempty"`
}

// Machine drives the reminder lifecycle for a single appointment. States
// only ever move forward; overdue reminders fire immediately in order rather
// than being dropped, and each stage is emitted at most once.
type Machine struct {
	mu          sync.Mutex
	appt        model.Appointment
	state       model.ReminderState
	riskScore   int
	escalate    bool
	sent        map[model.ReminderStage]bool
	transitions []Transition
}

// NewMachine creates a reminder machine for the appointment. riskScore
// decides whether the escalated 72h cadence applies; the threshold comes
// from the engine config.
func (e *Engine) NewMachine(appt model.Appointment, riskScore int) *Machine {
	return &Machine{
		appt:      appt,
		state:     model.StateScheduled,
		riskScore: riskScore,
		escalate:  riskScore > e.cfg.EscalationThreshold,
		sent:      make(map[model.ReminderStage]bool),
	}
}

// Appointment returns the appointment this machine tracks.
func (m *Machine) Appointment() model.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appt
}

// State returns the current state.
func (m *Machine) State() model.ReminderState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// RiskScore returns the no-show risk score the machine was created with.
func (m *Machine) RiskScore() int { return m.riskScore }

// Transitions returns a copy of the recorded state changes.
func (m *Machine) Transitions() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Transition, len(m.transitions))
	copy(out, m.transitions)
	return out
}

// stages returns the cadence for this appointment in firing order.
func (m *Machine) stages() []model.ReminderStage {
	if m.escalate {
		return []model.ReminderStage{model.Stage72H, model.Stage24H, model.Stage2H, model.Stage30M}
	}
	return []model.ReminderStage{model.Stage24H, model.Stage2H, model.Stage30M}
}

func stageState(s model.ReminderStage) model.ReminderState {
	switch s {
	case model.Stage72H:
		return model.StateReminder72H
	case model.Stage24H:
		return model.StateReminder24H
	case model.Stage2H:
		return model.StateReminder2H
	default:
		return model.StateReminder30M
	}
}

// EvaluateDue returns the reminder stages that are due at now and have not
// been emitted yet, in cadence order. Re-evaluating is idempotent: each
// stage fires at most once per appointment, keyed by (appointment, stage).
// No stages fire once the lead confirmed or the machine is terminal.
func (m *Machine) EvaluateDue(now time.Time) []model.ReminderStage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == model.StateConfirmed || m.state.Terminal() {
		return nil
	}

	var due []model.ReminderStage
	for _, stage := range m.stages() {
		if m.sent[stage] {
			continue
		}
		if now.Before(m.appt.Start.Add(-stage.Offset())) {
			continue
		}
		m.sent[stage] = true
		due = append(due, stage)
		next := stageState(stage)
		if next > m.state {
			m.record(next, "reminder due")
		}
	}
	return due
}

// Confirm moves the machine to CONFIRMED from any reminder state. Further
// reminders are suppressed; SHOWED/NO_SHOW remain reachable.
func (m *Machine) Confirm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Terminal() || m.state == model.StateConfirmed {
		return
	}
	m.appt.Confirmed = true
	m.record(model.StateConfirmed, "lead confirmed")
}

// Reschedule terminates this instance and spawns a fresh SCHEDULED
// appointment for the new slot, carrying the reschedule count forward.
func (m *Machine) Reschedule(newStart, newEnd time.Time) (model.Appointment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Terminal() {
		return model.Appointment{}, false
	}
	m.record(model.StateRescheduled, "lead rescheduled")

	next := m.appt
	next.ID = uuid.NewString()
	next.Start = newStart
	next.End = newEnd
	next.Confirmed = false
	next.Reschedules++
	return next, true
}

// MarkShowed records that the lead showed up. Terminal.
func (m *Machine) MarkShowed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Terminal() {
		return
	}
	m.record(model.StateShowed, "post-appointment outcome")
}

// MarkNoShow records that the lead did not show. Terminal.
func (m *Machine) MarkNoShow() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Terminal() {
		return
	}
	m.record(model.StateNoShow, "post-appointment outcome")
}

// record appends a transition and advances the state. Callers hold the lock.
func (m *Machine) record(to model.ReminderState, note string) {
	m.transitions = append(m.transitions, Transition{From: m.state, To: to, At: time.Now(), Note: note})
	m.state = to
}
