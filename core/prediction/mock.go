package prediction

import "sync"

// MockPredictor returns configured show rates and records observations.
type MockPredictor struct {
	mu        sync.Mutex
	ShowRates map[string]float64
	Observed  []Observation
}

type Observation struct {
	RepID  string
	Showed bool
}

func (m *MockPredictor) Observe(repID string, showed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Observed = append(m.Observed, Observation{RepID: repID, Showed: showed})
}

// ShowRate returns the configured rate for the rep or 1.
func (m *MockPredictor) ShowRate(repID string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShowRates == nil {
		return 1
	}
	if v, ok := m.ShowRates[repID]; ok {
		return v
	}
	return 1
}
