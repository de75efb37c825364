package model

import "time"

// RiskTier is a discretized band of the continuous no-show risk score.
type RiskTier int

const (
	RiskVeryLow RiskTier = iota
	RiskLow
	RiskMedium
	RiskHigh
	RiskCritical
)

// String returns a human-readable representation of the risk tier.
func (t RiskTier) String() string {
	switch t {
	case RiskVeryLow:
		return "VERY_LOW"
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	default:
		return "unknown"
	}
}

// RiskTierFor maps a clamped [0,100] risk score onto its tier.
func RiskTierFor(score int) RiskTier {
	switch {
	case score < 20:
		return RiskVeryLow
	case score < 40:
		return RiskLow
	case score < 60:
		return RiskMedium
	case score < 80:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// Appointment is a booked meeting between a rep and a lead.
type Appointment struct {
	ID          string      `json:"id"`
	LeadID      string      `json:"lead_id"`
	RepID       string      `json:"rep_id"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Location    *Coordinate `json:"location,omitempty"`
	Confirmed   bool        `json:"confirmed"`
	Reschedules int         `json:"reschedules"`
	BookedAt    time.Time   `json:"booked_at"`
}

// AppointmentCandidate is a proposed slot scored for no-show risk.
type AppointmentCandidate struct {
	LeadID          string    `json:"lead_id"`
	RepID           string    `json:"rep_id"`
	ProposedStart   time.Time `json:"proposed_start"`
	ProposedEnd     time.Time `json:"proposed_end"`
	NoShowRiskScore int       `json:"no_show_risk_score"`
	RiskTier        RiskTier  `json:"risk_tier"`
}

// ReminderState is the lifecycle state of an appointment's reminder machine.
type ReminderState int

const (
	StateScheduled ReminderState = iota
	StateReminder72H
	StateReminder24H
	StateReminder2H
	StateReminder30M
	StateConfirmed
	StateShowed
	StateNoShow
	StateRescheduled
)

// String returns a human-readable representation of the state.
func (s ReminderState) String() string {
	switch s {
	case StateScheduled:
		return "SCHEDULED"
	case StateReminder72H:
		return "REMINDER_SENT_72H"
	case StateReminder24H:
		return "REMINDER_SENT_24H"
	case StateReminder2H:
		return "REMINDER_SENT_2H"
	case StateReminder30M:
		return "REMINDER_SENT_30M"
	case StateConfirmed:
		return "CONFIRMED"
	case StateShowed:
		return "SHOWED"
	case StateNoShow:
		return "NO_SHOW"
	case StateRescheduled:
		return "RESCHEDULED"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s ReminderState) Terminal() bool {
	return s == StateShowed || s == StateNoShow || s == StateRescheduled
}

// ReminderStage identifies one reminder emission in the cadence.
type ReminderStage int

const (
	Stage72H ReminderStage = iota
	Stage24H
	Stage2H
	Stage30M
)

// String returns a human-readable representation of the stage.
func (s ReminderStage) String() string {
	switch s {
	case Stage72H:
		return "72h"
	case Stage24H:
		return "24h"
	case Stage2H:
		return "2h"
	case Stage30M:
		return "30m"
	default:
		return "unknown"
	}
}

// Offset returns how long before the appointment start the stage fires.
func (s ReminderStage) Offset() time.Duration {
	switch s {
	case Stage72H:
		return 72 * time.Hour
	case Stage24H:
		return 24 * time.Hour
	case Stage2H:
		return 2 * time.Hour
	case Stage30M:
		return 30 * time.Minute
	default:
		return 0
	}
}
