package events

import (
	"time"

	"github.com/fieldops/leadrouter/core/model"
)

// AssignmentCreated is published after a lead is allocated to a rep.
type AssignmentCreated struct {
	Assignment model.Assignment
}

// RouteComputed is published after a daily route is built.
type RouteComputed struct {
	Route model.Route
	Date  time.Time
}

// CoverageGapDetected is published once per gap cluster in a coverage sweep.
type CoverageGapDetected struct {
	Cluster     model.GapCluster
	GeneratedAt time.Time
}

// ReminderDue is published when a reminder stage fires for an appointment.
type ReminderDue struct {
	Appointment model.Appointment
	Stage       model.ReminderStage
	State       model.ReminderState
}

// NoShowRiskChanged is published when an appointment's risk is computed or
// recomputed. Previous is the prior score, or -1 on the first computation.
type NoShowRiskChanged struct {
	Candidate model.AppointmentCandidate
	Previous  int
}
