package audit

import (
	"context"
	"time"

	"github.com/fieldops/leadrouter/core/model"
)

// Kind labels the type of decision captured by a record.
type Kind string

const (
	KindAssignment Kind = "assignment"
	KindRoute      Kind = "route"
	KindCoverage   Kind = "coverage"
	KindReminder   Kind = "reminder"
)

// ReminderChange captures one lifecycle transition of an appointment.
type ReminderChange struct {
	AppointmentID string              `json:"appointment_id"`
	From          model.ReminderState `json:"from"`
	To            model.ReminderState `json:"to"`
	RiskScore     int                 `json:"risk_score"`
	Note          string              `json:"note,omitempty"`
}

// LogRecord captures one allocation, routing, coverage or reminder decision.
// Exactly one of the payload pointers is set, matching Kind.
type LogRecord struct {
	Timestamp  time.Time             `json:"timestamp"`
	Kind       Kind                  `json:"kind"`
	LeadID     string                `json:"lead_id,omitempty"`
	RepID      string                `json:"rep_id,omitempty"`
	Assignment *model.Assignment     `json:"assignment,omitempty"`
	Route      *model.Route          `json:"route,omitempty"`
	Coverage   *model.CoverageReport `json:"coverage,omitempty"`
	Reminder   *ReminderChange       `json:"reminder,omitempty"`
}

// LogQuery defines filters for retrieving records. Zero fields match all.
type LogQuery struct {
	Start  time.Time
	End    time.Time
	Kind   Kind
	LeadID string
	RepID  string
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

func (q LogQuery) matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.LeadID != "" && r.LeadID != q.LeadID {
		return false
	}
	if q.RepID != "" && r.RepID != q.RepID {
		return false
	}
	return true
}
