// Package conv tracks per-rep daily conversion KPIs: how many leads a
// rep was assigned and how many booked appointments were actually kept.
package conv

import "time"

// Record aggregates one rep's outcomes for one day.
type Record struct {
	RepID    string    `json:"rep_id"`
	Date     time.Time `json:"date"`
	Assigned int       `json:"assigned"`
	Showed   int       `json:"showed"`
	NoShows  int       `json:"no_shows"`
}

// ShowRate returns the fraction of resolved appointments that were kept.
// Returns 0 when no appointments resolved that day.
func (r Record) ShowRate() float64 {
	total := r.Showed + r.NoShows
	if total == 0 {
		return 0
	}
	return float64(r.Showed) / float64(total)
}

// ConversionRate returns kept appointments per assigned lead.
func (r Record) ConversionRate() float64 {
	if r.Assigned == 0 {
		return 0
	}
	return float64(r.Showed) / float64(r.Assigned)
}

// Day truncates t to UTC midnight so records aggregate per calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Store persists daily conversion records.
type Store interface {
	Add(Record) error
	Query(repID string, start, end time.Time) ([]Record, error)
	Close() error
}
