package appointment

import (
	"time"

	"github.com/fieldops/leadrouter/core/geo"
	"github.com/fieldops/leadrouter/core/model"
)

// Engine scores no-show risk and checks travel-buffer feasibility for
// candidate appointments.
type Engine struct {
	cfg Config
	est *geo.Estimator
}

// NewEngine creates an appointment engine backed by the given estimator.
func NewEngine(cfg Config, est *geo.Estimator) *Engine {
	cfg.SetDefaults()
	return &Engine{cfg: cfg, est: est}
}

// RiskInput bundles everything the additive no-show model looks at.
type RiskInput struct {
	Lead           model.Lead
	Start          time.Time
	Confirmed      bool
	Reschedules    int
	RepeatCustomer bool
	Now            time.Time
}

// ScoreRisk computes the additive no-show risk score, clamped to [0,100],
// and its tier. The model is deterministic: same input, same score.
func (e *Engine) ScoreRisk(in RiskInput) (int, model.RiskTier) {
	score := 0
	until := in.Start.Sub(in.Now)

	if until > time.Duration(e.cfg.FarOutDays)*24*time.Hour {
		score += e.cfg.FarOutPenalty
	}
	if !e.withinBusinessHours(in.Start) {
		score += e.cfg.OutsideHoursPenalty
	}
	switch in.Lead.Tier {
	case model.TierCold:
		score += e.cfg.ColdTierPenalty
	case model.TierWarm:
		score += e.cfg.WarmTierPenalty
	}
	if !in.Confirmed {
		score += e.cfg.NoConfirmationPenalty
	}
	if in.Reschedules >= 1 {
		score += e.cfg.ReschedulePenalty
	}
	if e.fridayAfternoonOrWeekend(in.Start) {
		score += e.cfg.FridayWeekendPenalty
	}

	if until > 0 && until <= 48*time.Hour {
		score -= e.cfg.SoonBonus
	}
	if in.Lead.Tier == model.TierHot {
		score -= e.cfg.HotTierBonus
	}
	if in.Confirmed {
		score -= e.cfg.ConfirmedBonus
	}
	if in.RepeatCustomer {
		score -= e.cfg.RepeatBonus
	}
	if e.weekdayMorning(in.Start) {
		score -= e.cfg.MorningBonus
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, model.RiskTierFor(score)
}

// Candidate scores a proposed slot and wraps it as an AppointmentCandidate.
func (e *Engine) Candidate(lead model.Lead, repID string, start, end time.Time, in RiskInput) model.AppointmentCandidate {
	score, tier := e.ScoreRisk(in)
	return model.AppointmentCandidate{
		LeadID:          lead.ID,
		RepID:           repID,
		ProposedStart:   start,
		ProposedEnd:     end,
		NoShowRiskScore: score,
		RiskTier:        tier,
	}
}

func (e *Engine) withinBusinessHours(t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return t.Hour() >= e.cfg.BusinessStartHour && t.Hour() < e.cfg.BusinessEndHour
}

func (e *Engine) fridayAfternoonOrWeekend(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	case time.Friday:
		return t.Hour() >= 12
	default:
		return false
	}
}

func (e *Engine) weekdayMorning(t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return t.Hour() >= e.cfg.BusinessStartHour && t.Hour() < 12
}
