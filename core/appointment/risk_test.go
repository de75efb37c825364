package appointment

import (
	"testing"
	"time"

	"github.com/fieldops/leadrouter/core/geo"
	"github.com/fieldops/leadrouter/core/model"
)

func newTestEngine() *Engine {
	return NewEngine(Config{}, geo.NewEstimator(geo.Config{}, nil, nil))
}

// Friday 2025-04-11.
var friday4pm = time.Date(2025, 4, 11, 16, 0, 0, 0, time.UTC)

func TestScoreRiskFarOutColdFriday(t *testing.T) {
	e := newTestEngine()
	now := friday4pm.Add(-10 * 24 * time.Hour)
	score, tier := e.ScoreRisk(RiskInput{
		Lead:  model.Lead{ID: "l1", Tier: model.TierCold},
		Start: friday4pm,
		Now:   now,
	})
	// +20 far out, +15 cold, +10 unconfirmed, +10 friday afternoon
	if score < 55 {
		t.Fatalf("expected score >= 55 got %d", score)
	}
	if tier != model.RiskMedium && tier != model.RiskHigh {
		t.Fatalf("expected MEDIUM or HIGH got %s", tier)
	}
}

func TestScoreRiskConfirmationDropsScore(t *testing.T) {
	e := newTestEngine()
	farOut, _ := e.ScoreRisk(RiskInput{
		Lead:  model.Lead{ID: "l1", Tier: model.TierCold},
		Start: friday4pm,
		Now:   friday4pm.Add(-10 * 24 * time.Hour),
	})
	soonConfirmed, _ := e.ScoreRisk(RiskInput{
		Lead:      model.Lead{ID: "l1", Tier: model.TierCold},
		Start:     friday4pm,
		Now:       friday4pm.Add(-20 * time.Hour),
		Confirmed: true,
	})
	if farOut-soonConfirmed < 40 {
		t.Fatalf("confirmation within 24h must drop score by >=40: %d -> %d", farOut, soonConfirmed)
	}
}

func TestScoreRiskHotMorningRepeat(t *testing.T) {
	e := newTestEngine()
	// Tuesday 10am, within 48h, confirmed repeat customer.
	start := time.Date(2025, 4, 8, 10, 0, 0, 0, time.UTC)
	score, tier := e.ScoreRisk(RiskInput{
		Lead:           model.Lead{ID: "l1", Tier: model.TierHot},
		Start:          start,
		Now:            start.Add(-24 * time.Hour),
		Confirmed:      true,
		RepeatCustomer: true,
	})
	if score != 0 {
		t.Fatalf("all mitigators present must clamp to 0, got %d", score)
	}
	if tier != model.RiskVeryLow {
		t.Fatalf("expected VERY_LOW got %s", tier)
	}
}

func TestScoreRiskOutsideBusinessHours(t *testing.T) {
	e := newTestEngine()
	// Tuesday 8pm vs Tuesday 2pm, same everything else.
	evening := time.Date(2025, 4, 8, 20, 0, 0, 0, time.UTC)
	afternoon := time.Date(2025, 4, 8, 14, 0, 0, 0, time.UTC)
	now := time.Date(2025, 4, 5, 9, 0, 0, 0, time.UTC)

	in := RiskInput{Lead: model.Lead{Tier: model.TierWarm}, Now: now}
	in.Start = evening
	late, _ := e.ScoreRisk(in)
	in.Start = afternoon
	mid, _ := e.ScoreRisk(in)
	if late-mid != 15 {
		t.Fatalf("expected +15 outside business hours, got %d vs %d", late, mid)
	}
}

func TestScoreRiskRescheduleHistory(t *testing.T) {
	e := newTestEngine()
	start := time.Date(2025, 4, 8, 14, 0, 0, 0, time.UTC)
	now := start.Add(-72 * time.Hour)

	fresh, _ := e.ScoreRisk(RiskInput{Lead: model.Lead{Tier: model.TierWarm}, Start: start, Now: now})
	bounced, _ := e.ScoreRisk(RiskInput{Lead: model.Lead{Tier: model.TierWarm}, Start: start, Now: now, Reschedules: 2})
	if bounced-fresh != 10 {
		t.Fatalf("expected +10 for prior reschedules, got %d vs %d", bounced, fresh)
	}
}

func TestScoreRiskClampedRange(t *testing.T) {
	e := newTestEngine()
	// Weekend far-out unconfirmed cold lead with reschedules: worst case.
	start := time.Date(2025, 4, 13, 6, 0, 0, 0, time.UTC) // Sunday 6am
	score, tier := e.ScoreRisk(RiskInput{
		Lead:        model.Lead{Tier: model.TierCold},
		Start:       start,
		Now:         start.Add(-30 * 24 * time.Hour),
		Reschedules: 3,
	})
	if score < 0 || score > 100 {
		t.Fatalf("score outside [0,100]: %d", score)
	}
	if tier != model.RiskHigh && tier != model.RiskCritical {
		t.Fatalf("worst case should be high risk, got %s (%d)", tier, score)
	}
}

func TestCandidateWrapsScore(t *testing.T) {
	e := newTestEngine()
	lead := model.Lead{ID: "l1", Tier: model.TierCold}
	end := friday4pm.Add(time.Hour)
	c := e.Candidate(lead, "r1", friday4pm, end, RiskInput{
		Lead: lead, Start: friday4pm, Now: friday4pm.Add(-10 * 24 * time.Hour),
	})
	if c.LeadID != "l1" || c.RepID != "r1" || c.NoShowRiskScore == 0 {
		t.Fatalf("candidate not populated: %+v", c)
	}
	if c.RiskTier != model.RiskTierFor(c.NoShowRiskScore) {
		t.Fatalf("tier must match score")
	}
}
