package repstatus

import (
	"sort"
	"sync"
	"time"
)

// LastAssignment summarizes the most recent allocation decision for a rep.
type LastAssignment struct {
	LeadID    string    `json:"lead_id"`
	Total     float64   `json:"total"`
	Backup    bool      `json:"backup"`
	Timestamp time.Time `json:"timestamp"`
}

// Status captures the current known state of a rep for operator visibility.
type Status struct {
	RepID          string         `json:"rep_id"`
	Region         string         `json:"region,omitempty"`
	Team           string         `json:"team,omitempty"`
	CurrentStatus  string         `json:"current_status"`
	CurrentLoad    int            `json:"current_load"`
	LastAssignment LastAssignment `json:"last_assignment"`

	// ShowRate is a forecast filled in by the status API, not stored.
	ShowRate float64 `json:"show_rate,omitempty"`
}

// Filter narrows List results.
type Filter struct {
	Region string
	Team   string
}

// Store keeps per-rep status records.
type Store interface {
	Set(Status)
	List(Filter) []Status
	RecordAssignment(id string, dec LastAssignment)
	RecordCheckin(id, status string, load int)
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Status
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Status{}}
}

func (s *MemoryStore) Set(st Status) {
	s.mu.Lock()
	s.data[st.RepID] = st
	s.mu.Unlock()
}

func (s *MemoryStore) RecordAssignment(id string, dec LastAssignment) {
	s.mu.Lock()
	st := s.data[id]
	if st.RepID == "" {
		st.RepID = id
	}
	st.LastAssignment = dec
	if !dec.Backup {
		st.CurrentLoad++
	}
	st.CurrentStatus = "assigned"
	s.data[id] = st
	s.mu.Unlock()
}

// RecordCheckin merges a device check-in into the rep's entry without
// touching the last assignment.
func (s *MemoryStore) RecordCheckin(id, status string, load int) {
	s.mu.Lock()
	st := s.data[id]
	if st.RepID == "" {
		st.RepID = id
	}
	if status != "" {
		st.CurrentStatus = status
	}
	if load >= 0 {
		st.CurrentLoad = load
	}
	s.data[id] = st
	s.mu.Unlock()
}

func (s *MemoryStore) List(f Filter) []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Status, 0, len(s.data))
	for _, st := range s.data {
		if f.Region != "" && st.Region != f.Region {
			continue
		}
		if f.Team != "" && st.Team != f.Team {
			continue
		}
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].RepID < res[j].RepID })
	return res
}
