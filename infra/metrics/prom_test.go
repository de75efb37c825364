package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/fieldops/leadrouter/core/metrics"
	"github.com/fieldops/leadrouter/core/model"
)

func TestPromSink_RecordAssignment(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	rec := coremetrics.AssignmentResult{
		Assignment: model.Assignment{
			ID:           "asn-1",
			LeadID:       "lead-1",
			PrimaryRepID: "rep-1",
			BackupRepID:  "rep-2",
			Breakdown:    model.ScoreBreakdown{Total: 87.5},
		},
		LeadTier: model.TierHot,
		Eligible: 3,
		Attempts: 1,
		Time:     time.Now(),
	}
	if err := sink.RecordAssignment([]coremetrics.AssignmentResult{rec}); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP lead_assignments_total Total number of lead assignments
# TYPE lead_assignments_total counter
lead_assignments_total{has_backup="true",rep_id="rep-1",tier="HOT"} 1
`
	if err := testutil.CollectAndCompare(sink.assignments, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if c := testutil.CollectAndCount(sink.attempts); c == 0 {
		t.Errorf("attempts not recorded")
	}
}

func TestPromSink_RecordCoverageGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	res := coremetrics.CoverageResult{
		Report: model.CoverageReport{CoverageRate: 0.8},
		Time:   time.Now(),
	}
	if err := sink.RecordCoverage(res); err != nil {
		t.Fatalf("coverage error: %v", err)
	}
	expected := `
# HELP territory_coverage_rate Fraction of active leads reachable by at least one rep
# TYPE territory_coverage_rate gauge
territory_coverage_rate 0.8
`
	if err := testutil.CollectAndCompare(sink.coverage, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected coverage metric: %v", err)
	}
}

func TestPromSink_RecordRouteAndReminder(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordRoute(coremetrics.RouteResult{
		Route: model.Route{RepID: "rep-1", Feasible: true},
		Stops: 4,
		Time:  time.Now(),
	}); err != nil {
		t.Fatalf("route error: %v", err)
	}
	if c := testutil.CollectAndCount(sink.routeStops); c == 0 {
		t.Errorf("route stops not recorded")
	}

	if err := sink.RecordReminder(coremetrics.ReminderEvent{
		AppointmentID: "apt-1",
		Stage:         model.Stage24H,
		RiskTier:      model.RiskMedium,
		Time:          time.Now(),
	}); err != nil {
		t.Fatalf("reminder error: %v", err)
	}
	expected := `
# HELP appointment_reminders_total Total number of reminder stages emitted
# TYPE appointment_reminders_total counter
appointment_reminders_total{risk_tier="MEDIUM",stage="24h"} 1
`
	if err := testutil.CollectAndCompare(sink.reminders, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected reminder metric: %v", err)
	}
	if c := testutil.CollectAndCount(sink.reminders); c == 0 {
		t.Errorf("reminder not recorded")
	}
}
