package scoring

import (
	"sort"

	"github.com/fieldops/leadrouter/core/geo"
	"github.com/fieldops/leadrouter/core/model"
)

// Config exposes the scoring weight constants as tunable parameters.
// The defaults reproduce the production weighting.
type Config struct {
	MaxDriveMinutes  int     `json:"max_drive_minutes"`
	FullSpecScore    float64 `json:"full_spec_score"`
	PartialSpecScore float64 `json:"partial_spec_score"`
	NeutralTerritory float64 `json:"neutral_territory"`
	HighCloseRate    float64 `json:"high_close_rate"`
	MidCloseRate     float64 `json:"mid_close_rate"`
	UnseenPenalty    float64 `json:"unseen_penalty"`
	WorkloadSlope    float64 `json:"workload_slope"`
	WorkloadClamp    float64 `json:"workload_clamp"`
}

// SetDefaults applies the default weight table.
func (c *Config) SetDefaults() {
	if c.MaxDriveMinutes == 0 {
		c.MaxDriveMinutes = 60
	}
	if c.FullSpecScore == 0 {
		c.FullSpecScore = 50
	}
	if c.PartialSpecScore == 0 {
		c.PartialSpecScore = 25
	}
	if c.NeutralTerritory == 0 {
		c.NeutralTerritory = 15
	}
	if c.HighCloseRate == 0 {
		c.HighCloseRate = 0.5
	}
	if c.MidCloseRate == 0 {
		c.MidCloseRate = 0.3
	}
	if c.UnseenPenalty == 0 {
		c.UnseenPenalty = 10
	}
	if c.WorkloadSlope == 0 {
		c.WorkloadSlope = 5
	}
	if c.WorkloadClamp == 0 {
		c.WorkloadClamp = 15
	}
}

// Engine computes multi-factor compatibility scores between leads and reps.
// Score is a pure function: identical inputs always yield identical output.
type Engine struct {
	cfg Config
	est *geo.Estimator
}

// NewEngine creates a scoring engine backed by the given estimator.
func NewEngine(cfg Config, est *geo.Estimator) *Engine {
	cfg.SetDefaults()
	return &Engine{cfg: cfg, est: est}
}

// Score computes the compatibility breakdown for one lead and one candidate
// rep. avgLoad is the mean current load across the roster snapshot, used for
// the workload factor.
func (e *Engine) Score(lead model.Lead, rep model.Rep, avgLoad float64) (model.ScoreBreakdown, error) {
	spec := e.specializationScore(lead, rep)
	terr, err := e.territoryScore(lead, rep)
	if err != nil {
		return model.ScoreBreakdown{}, err
	}
	perf := e.performanceScore(lead, rep)
	work := e.workloadScore(rep, avgLoad)

	b := model.ScoreBreakdown{
		Specialization: spec,
		Territory:      terr,
		Performance:    perf,
		Workload:       work,
	}
	b.Total = spec + terr + perf + work
	return b, nil
}

// specializationScore rewards full coverage of the lead's required tags,
// partial credit for any overlap.
func (e *Engine) specializationScore(lead model.Lead, rep model.Rep) float64 {
	if len(lead.RequiredSpecializations) == 0 {
		return e.cfg.FullSpecScore
	}
	matched := 0
	for _, tag := range lead.RequiredSpecializations {
		if rep.HasSpecialization(tag) {
			matched++
		}
	}
	switch {
	case matched == len(lead.RequiredSpecializations):
		return e.cfg.FullSpecScore
	case matched > 0:
		return e.cfg.PartialSpecScore
	default:
		return 0
	}
}

// territoryScore converts drive time from the rep's base into score bands.
// A lead with no coordinate contributes a fixed neutral value.
func (e *Engine) territoryScore(lead model.Lead, rep model.Rep) (float64, error) {
	if !lead.HasCoordinate() {
		return e.cfg.NeutralTerritory, nil
	}
	est, err := e.est.Estimate(rep.BaseCoordinate, *lead.Coordinate, geo.ModeDriving)
	if err != nil {
		return 0, err
	}
	switch {
	case est.DriveMinutes <= 20:
		return 30, nil
	case est.DriveMinutes <= 30:
		return 25, nil
	case est.DriveMinutes <= 45:
		return 20, nil
	case est.DriveMinutes <= e.cfg.MaxDriveMinutes:
		return 10, nil
	default:
		return 0, nil
	}
}

// performanceScore looks up the rep's close rate for the lead's tier, then
// for any matched specialization. An untested pairing is penalized.
func (e *Engine) performanceScore(lead model.Lead, rep model.Rep) float64 {
	rate, ok := rep.PerformanceByCategory[lead.Tier.String()]
	if !ok {
		for _, tag := range lead.RequiredSpecializations {
			if r, found := rep.PerformanceByCategory[tag]; found && rep.HasSpecialization(tag) {
				rate, ok = r, true
				break
			}
		}
	}
	if !ok {
		return -e.cfg.UnseenPenalty
	}
	switch {
	case rate >= e.cfg.HighCloseRate:
		return 40
	case rate >= e.cfg.MidCloseRate:
		return 20
	default:
		return 0
	}
}

// workloadScore rewards below-average load and penalizes above-average,
// linearly and clamped.
func (e *Engine) workloadScore(rep model.Rep, avgLoad float64) float64 {
	w := (avgLoad - float64(rep.CurrentLoad)) * e.cfg.WorkloadSlope
	if w > e.cfg.WorkloadClamp {
		return e.cfg.WorkloadClamp
	}
	if w < -e.cfg.WorkloadClamp {
		return -e.cfg.WorkloadClamp
	}
	return w
}

// RepScore pairs a rep with its computed breakdown.
type RepScore struct {
	Rep       model.Rep
	Breakdown model.ScoreBreakdown
}

// Rank sorts scores descending by total. Ties break on higher performance
// score, then lower current load, then lexicographically smaller rep ID, so
// the ordering is fully deterministic.
func Rank(scores []RepScore) {
	sort.Slice(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.Breakdown.Total != b.Breakdown.Total {
			return a.Breakdown.Total > b.Breakdown.Total
		}
		if a.Breakdown.Performance != b.Breakdown.Performance {
			return a.Breakdown.Performance > b.Breakdown.Performance
		}
		if a.Rep.CurrentLoad != b.Rep.CurrentLoad {
			return a.Rep.CurrentLoad < b.Rep.CurrentLoad
		}
		return a.Rep.ID < b.Rep.ID
	})
}

// AverageLoad returns the mean current load over the roster.
func AverageLoad(roster []model.Rep) float64 {
	if len(roster) == 0 {
		return 0
	}
	total := 0
	for _, r := range roster {
		total += r.CurrentLoad
	}
	return float64(total) / float64(len(roster))
}
