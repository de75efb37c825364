package model

import "fmt"

// RepStatus describes a representative's current availability.
type RepStatus int

const (
	RepAvailable RepStatus = iota
	RepOnCall
	RepBusy
	RepOutOfOffice
)

// String returns a human-readable representation of the status.
func (s RepStatus) String() string {
	switch s {
	case RepAvailable:
		return "AVAILABLE"
	case RepOnCall:
		return "ON_CALL"
	case RepBusy:
		return "BUSY"
	case RepOutOfOffice:
		return "OUT_OF_OFFICE"
	default:
		return "unknown"
	}
}

// Rep represents a field-sales representative. CurrentLoad is a point-in-time
// snapshot; the live counter is owned by the allocator's roster and must never
// be mutated anywhere else.
type Rep struct {
	ID                    string             `json:"id"`
	BaseCoordinate        Coordinate         `json:"base_coordinate"`
	Specializations       []string           `json:"specializations,omitempty"`
	MaxCapacity           int                `json:"max_capacity"`
	CurrentLoad           int                `json:"current_load"`
	PerformanceByCategory map[string]float64 `json:"performance_by_category,omitempty"`
	Status                RepStatus          `json:"status"`
}

// Validate checks that the rep configuration is sound.
// In particular MaxCapacity must be positive.
func (r Rep) Validate() error {
	if r.MaxCapacity <= 0 {
		return fmt.Errorf("rep %s: max capacity must be positive", r.ID)
	}
	if r.CurrentLoad < 0 || r.CurrentLoad > r.MaxCapacity {
		return fmt.Errorf("rep %s: load %d outside [0,%d]", r.ID, r.CurrentLoad, r.MaxCapacity)
	}
	return r.BaseCoordinate.Validate()
}

// CanTakeLead returns true if the rep is eligible to receive a new lead.
func (r Rep) CanTakeLead() bool {
	return (r.Status == RepAvailable || r.Status == RepOnCall) && r.CurrentLoad < r.MaxCapacity
}

// HasSpecialization reports whether the rep carries the given tag.
func (r Rep) HasSpecialization(tag string) bool {
	for _, s := range r.Specializations {
		if s == tag {
			return true
		}
	}
	return false
}
