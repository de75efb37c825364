package model

import "time"

// ScoreBreakdown itemizes the factors behind a rep-lead compatibility score.
type ScoreBreakdown struct {
	Specialization float64 `json:"specialization"`
	Territory      float64 `json:"territory"`
	Performance    float64 `json:"performance"`
	Workload       float64 `json:"workload"`
	Total          float64 `json:"total"`
}

// Assignment records the outcome of allocating a lead to a rep. Assignments
// are append-only: a lead is re-assigned only by an explicit release followed
// by a fresh Assign, never by overwriting an existing record.
type Assignment struct {
	ID           string         `json:"id"`
	LeadID       string         `json:"lead_id"`
	PrimaryRepID string         `json:"primary_rep_id"`
	BackupRepID  string         `json:"backup_rep_id,omitempty"`
	Breakdown    ScoreBreakdown `json:"breakdown"`
	Rationale    string         `json:"rationale,omitempty"`
	AssignedAt   time.Time      `json:"assigned_at"`

	// EligibleReps and Attempts capture how contested the allocation was:
	// the candidate pool size on the winning attempt and the number of
	// reservation attempts it took.
	EligibleReps int `json:"eligible_reps,omitempty"`
	Attempts     int `json:"attempts,omitempty"`
}
