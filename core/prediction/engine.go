package prediction

import "sync"

// Predictor tracks appointment outcomes per rep and forecasts the
// probability that the next appointment is kept.
type Predictor interface {
	// Observe records a completed appointment outcome for the rep.
	Observe(repID string, showed bool)

	// ShowRate returns the probability [0,1] that the rep's next
	// appointment is kept. Reps with no history get the prior.
	ShowRate(repID string) float64
}

const (
	defaultPrior = 0.85
	defaultAlpha = 0.2
)

// MemoryPredictor keeps an exponentially weighted show rate per rep.
// Recent outcomes dominate, so a streak of no-shows degrades the
// forecast quickly. Safe for concurrent use.
type MemoryPredictor struct {
	mu    sync.RWMutex
	rates map[string]float64
	prior float64
	alpha float64
}

// NewMemoryPredictor creates a predictor with the given prior show rate
// and smoothing factor. Zero values fall back to 0.85 and 0.2.
func NewMemoryPredictor(prior, alpha float64) *MemoryPredictor {
	if prior <= 0 || prior > 1 {
		prior = defaultPrior
	}
	if alpha <= 0 || alpha > 1 {
		alpha = defaultAlpha
	}
	return &MemoryPredictor{
		rates: make(map[string]float64),
		prior: prior,
		alpha: alpha,
	}
}

func (p *MemoryPredictor) Observe(repID string, showed bool) {
	outcome := 0.0
	if showed {
		outcome = 1.0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	rate, ok := p.rates[repID]
	if !ok {
		rate = p.prior
	}
	p.rates[repID] = rate + p.alpha*(outcome-rate)
}

func (p *MemoryPredictor) ShowRate(repID string) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if rate, ok := p.rates[repID]; ok {
		return rate
	}
	return p.prior
}
