package model

import (
	"errors"
	"time"
)

// ErrMissingLeadID is returned when a lead arrives without an identifier.
var ErrMissingLeadID = errors.New("lead id is required")

// LeadTier ranks how warm an incoming lead is.
type LeadTier int

const (
	TierCold LeadTier = iota
	TierWarm
	TierHot
)

// String returns a human-readable representation of the tier.
func (t LeadTier) String() string {
	switch t {
	case TierHot:
		return "HOT"
	case TierWarm:
		return "WARM"
	case TierCold:
		return "COLD"
	default:
		return "unknown"
	}
}

// LeadStatus tracks where a lead is in the assignment lifecycle.
type LeadStatus int

const (
	LeadNew LeadStatus = iota
	LeadAssigned
	LeadScheduled
	LeadClosed
)

// Lead represents an incoming field-sales lead. Coordinate may be nil when
// the address has not been resolved; all other fields are immutable once the
// lead has been scored.
type Lead struct {
	ID                      string      `json:"id"`
	Coordinate              *Coordinate `json:"coordinate,omitempty"`
	Tier                    LeadTier    `json:"tier"`
	RequiredSpecializations []string    `json:"required_specializations,omitempty"`
	DealSize                float64     `json:"deal_size"`
	CreatedAt               time.Time   `json:"created_at"`

	AssignedRepID string     `json:"assigned_rep_id,omitempty"`
	Status        LeadStatus `json:"status"`
}

// HasCoordinate reports whether the lead carries a resolved location.
func (l Lead) HasCoordinate() bool { return l.Coordinate != nil }

// Validate checks the lead is well formed.
func (l Lead) Validate() error {
	if l.ID == "" {
		return ErrMissingLeadID
	}
	if l.Coordinate != nil {
		return l.Coordinate.Validate()
	}
	return nil
}
