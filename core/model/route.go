package model

import "time"

// RouteStop is one visit in a rep's daily route. Stops are a derived view,
// recomputed whenever the input leads change; they are never mutated in place.
type RouteStop struct {
	LeadID                   string     `json:"lead_id"`
	Coordinate               Coordinate `json:"coordinate"`
	ArrivalEstimate          time.Time  `json:"arrival_estimate"`
	DepartureEstimate        time.Time  `json:"departure_estimate"`
	DriveMinutesFromPrevious int        `json:"drive_minutes_from_previous"`
}

// Route is an ordered visiting sequence for one rep and one workday.
type Route struct {
	RepID               string      `json:"rep_id"`
	Stops               []RouteStop `json:"stops"`
	Feasible            bool        `json:"feasible"`
	TotalDriveMinutes   int         `json:"total_drive_minutes"`
	TotalMeetingMinutes int         `json:"total_meeting_minutes"`
}
