package appointment

import (
	"fmt"
	"sort"
	"time"

	"github.com/fieldops/leadrouter/core/geo"
	"github.com/fieldops/leadrouter/core/model"
)

// FeasibilityResult reports whether a candidate slot fits the rep's calendar.
// Infeasibility is a normal business outcome, not an error: the reason is
// carried for display, never silently dropped.
type FeasibilityResult struct {
	Feasible bool   `json:"feasible"`
	Reason   string `json:"reason,omitempty"`
}

// CheckSlot verifies the candidate appointment leaves enough travel time
// against the nearest adjacent appointments in the rep's existing calendar.
// The required gap is the drive time between the two meeting locations plus
// the configured buffer. Appointments without a location need no travel.
func (e *Engine) CheckSlot(existing []model.Appointment, candidate model.Appointment) (FeasibilityResult, error) {
	buffer := time.Duration(e.cfg.TravelBufferMinutes) * time.Minute

	sorted := make([]model.Appointment, len(existing))
	copy(sorted, existing)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	for _, appt := range sorted {
		if appt.Start.Before(candidate.End) && candidate.Start.Before(appt.End) {
			return FeasibilityResult{
				Feasible: false,
				Reason:   fmt.Sprintf("overlaps existing appointment %s (%s-%s)", appt.ID, appt.Start.Format("15:04"), appt.End.Format("15:04")),
			}, nil
		}
	}

	var prev, next *model.Appointment
	for i := range sorted {
		appt := &sorted[i]
		if !appt.End.After(candidate.Start) {
			prev = appt
		}
		if !appt.Start.Before(candidate.End) && next == nil {
			next = appt
		}
	}

	if prev != nil {
		required, err := e.travelTime(prev.Location, candidate.Location)
		if err != nil {
			return FeasibilityResult{}, err
		}
		gap := candidate.Start.Sub(prev.End)
		if gap < required+buffer {
			return FeasibilityResult{
				Feasible: false,
				Reason: fmt.Sprintf("only %s after appointment %s, need %s travel plus %s buffer",
					gap, prev.ID, required, buffer),
			}, nil
		}
	}
	if next != nil {
		required, err := e.travelTime(candidate.Location, next.Location)
		if err != nil {
			return FeasibilityResult{}, err
		}
		gap := next.Start.Sub(candidate.End)
		if gap < required+buffer {
			return FeasibilityResult{
				Feasible: false,
				Reason: fmt.Sprintf("only %s before appointment %s, need %s travel plus %s buffer",
					gap, next.ID, required, buffer),
			}, nil
		}
	}
	return FeasibilityResult{Feasible: true}, nil
}

func (e *Engine) travelTime(from, to *model.Coordinate) (time.Duration, error) {
	if from == nil || to == nil {
		return 0, nil
	}
	est, err := e.est.Estimate(*from, *to, geo.ModeDriving)
	if err != nil {
		return 0, err
	}
	return time.Duration(est.DriveMinutes) * time.Minute, nil
}
