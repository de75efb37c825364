package route

import (
	"errors"
	"fmt"
	"time"

	"github.com/fieldops/leadrouter/core/geo"
	"github.com/fieldops/leadrouter/core/logger"
	"github.com/fieldops/leadrouter/core/model"
)

// ErrUnroutableLead is returned when a lead has no coordinate to visit.
var ErrUnroutableLead = errors.New("lead has no coordinate")

// Config defines default route parameters used when the caller does not
// specify them explicitly.
type Config struct {
	MeetingMinutes   int `json:"meeting_minutes"`
	BufferMinutes    int `json:"buffer_minutes"`
	WorkdayStartHour int `json:"workday_start_hour"`
	WorkdayEndHour   int `json:"workday_end_hour"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MeetingMinutes == 0 {
		c.MeetingMinutes = 45
	}
	if c.BufferMinutes == 0 {
		c.BufferMinutes = 15
	}
	if c.WorkdayStartHour == 0 {
		c.WorkdayStartHour = 9
	}
	if c.WorkdayEndHour == 0 {
		c.WorkdayEndHour = 17
	}
}

// Builder constructs ordered, time-feasible daily routes using a greedy
// nearest-neighbor heuristic. Build is a pure function of its inputs: no
// hidden state, safe to call concurrently for different reps.
type Builder struct {
	est *geo.Estimator
	log logger.Logger
}

// NewBuilder creates a route builder backed by the given estimator.
func NewBuilder(est *geo.Estimator, log logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop{}
	}
	return &Builder{est: est, log: log}
}

// Build sequences all leads into a route starting from the rep's base. Every
// lead is visited exactly once; the heuristic never drops a stop. Feasible is
// false when the final clock overruns workdayEnd, but the route is still
// returned so the caller can decide which stop to cut.
//
// The heuristic is O(n^2) in the number of leads, which is acceptable for
// daily stop counts. No backtracking or re-optimization is performed.
func (b *Builder) Build(rep model.Rep, leads []model.Lead, workdayStart, workdayEnd time.Time, meetingDuration, buffer time.Duration) (model.Route, error) {
	route := model.Route{RepID: rep.ID, Stops: []model.RouteStop{}, Feasible: true}
	if len(leads) == 0 {
		return route, nil
	}
	for _, l := range leads {
		if !l.HasCoordinate() {
			return model.Route{}, fmt.Errorf("%w: %s", ErrUnroutableLead, l.ID)
		}
	}

	current := rep.BaseCoordinate
	clock := workdayStart
	remaining := make([]model.Lead, len(leads))
	copy(remaining, leads)

	for len(remaining) > 0 {
		bestIdx := -1
		var bestEst geo.Estimate
		for i, l := range remaining {
			est, err := b.est.Estimate(current, *l.Coordinate, geo.ModeDriving)
			if err != nil {
				return model.Route{}, err
			}
			if bestIdx == -1 ||
				est.DriveMinutes < bestEst.DriveMinutes ||
				(est.DriveMinutes == bestEst.DriveMinutes && l.ID < remaining[bestIdx].ID) {
				bestIdx, bestEst = i, est
			}
		}

		next := remaining[bestIdx]
		arrival := clock.Add(time.Duration(bestEst.DriveMinutes) * time.Minute)
		departure := arrival.Add(meetingDuration)
		route.Stops = append(route.Stops, model.RouteStop{
			LeadID:                   next.ID,
			Coordinate:               *next.Coordinate,
			ArrivalEstimate:          arrival,
			DepartureEstimate:        departure,
			DriveMinutesFromPrevious: bestEst.DriveMinutes,
		})
		route.TotalDriveMinutes += bestEst.DriveMinutes
		route.TotalMeetingMinutes += int(meetingDuration.Minutes())

		clock = departure.Add(buffer)
		current = *next.Coordinate
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	route.Feasible = !clock.After(workdayEnd)
	if !route.Feasible {
		b.log.Debugf("route for rep %s overruns workday by %s", rep.ID, clock.Sub(workdayEnd))
	}
	return route, nil
}
