package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fieldops/leadrouter/config"
	"github.com/fieldops/leadrouter/core/events"
	"github.com/fieldops/leadrouter/core/model"
	"github.com/fieldops/leadrouter/core/repstatus"
	"github.com/fieldops/leadrouter/infra/audit"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Audit.Path = filepath.Join(t.TempDir(), "audit.jsonl")
	return cfg
}

func testRoster() []model.Rep {
	return []model.Rep{
		{
			ID:             "rep-1",
			BaseCoordinate: model.Coordinate{Lat: 30, Lng: -97},
			MaxCapacity:    5,
			Status:         model.RepAvailable,
		},
		{
			ID:             "rep-2",
			BaseCoordinate: model.Coordinate{Lat: 30.2, Lng: -97.2},
			MaxCapacity:    5,
			Status:         model.RepAvailable,
		},
	}
}

func TestServiceAssignLeadRecordsEverywhere(t *testing.T) {
	svc, err := New(testConfig(t), testRoster())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer func() { _ = svc.Close() }()

	sub := svc.Bus().Subscribe()
	lead := model.Lead{
		ID:         "lead-1",
		Coordinate: &model.Coordinate{Lat: 30.01, Lng: -97.01},
		Tier:       model.TierHot,
	}
	asn, err := svc.AssignLead(context.Background(), lead)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if asn.PrimaryRepID != "rep-1" {
		t.Fatalf("expected nearest rep, got %s", asn.PrimaryRepID)
	}

	select {
	case ev := <-sub:
		created, ok := ev.(events.AssignmentCreated)
		if !ok {
			t.Fatalf("unexpected event %T", ev)
		}
		if created.Assignment.ID != asn.ID {
			t.Fatalf("event assignment mismatch")
		}
	case <-time.After(time.Second):
		t.Fatalf("no event published")
	}

	recs, err := svc.AuditLog().Query(context.Background(), audit.LogQuery{Kind: audit.KindAssignment})
	if err != nil {
		t.Fatalf("audit query: %v", err)
	}
	if len(recs) != 1 || recs[0].LeadID != "lead-1" {
		t.Fatalf("audit record missing: %+v", recs)
	}

	statuses := svc.Status.List(repstatus.Filter{})
	var found bool
	for _, st := range statuses {
		if st.RepID == "rep-1" && st.LastAssignment.LeadID == "lead-1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("rep status not updated: %+v", statuses)
	}
}

func TestServiceBuildRouteAndCoverage(t *testing.T) {
	svc, err := New(testConfig(t), testRoster())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer func() { _ = svc.Close() }()

	leads := []model.Lead{
		{ID: "l1", Coordinate: &model.Coordinate{Lat: 30.05, Lng: -97.0}},
		{ID: "l2", Coordinate: &model.Coordinate{Lat: 30.10, Lng: -97.0}},
	}
	rep, ok := svc.Allocator.Roster().Get("rep-1")
	if !ok {
		t.Fatalf("rep missing")
	}
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rt, err := svc.BuildRoute(context.Background(), rep, leads, day)
	if err != nil {
		t.Fatalf("build route: %v", err)
	}
	if len(rt.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(rt.Stops))
	}

	report, err := svc.AnalyzeCoverage(context.Background(), leads)
	if err != nil {
		t.Fatalf("coverage: %v", err)
	}
	if report.CoverageRate != 1 {
		t.Fatalf("expected full coverage, got %f", report.CoverageRate)
	}

	recs, err := svc.AuditLog().Query(context.Background(), audit.LogQuery{})
	if err != nil {
		t.Fatalf("audit query: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected route and coverage records, got %d", len(recs))
	}
}

func TestServiceTrackAppointmentFiresReminders(t *testing.T) {
	svc, err := New(testConfig(t), testRoster())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer func() { _ = svc.Close() }()

	appt := model.Appointment{
		ID:     "apt-1",
		LeadID: "lead-1",
		RepID:  "rep-1",
		Start:  time.Now().Add(90 * time.Minute),
		End:    time.Now().Add(150 * time.Minute),
	}
	svc.TrackAppointment(appt, 30)
	svc.Reminders.Sweep(time.Now())

	recs, err := svc.AuditLog().Query(context.Background(), audit.LogQuery{Kind: audit.KindReminder})
	if err != nil {
		t.Fatalf("audit query: %v", err)
	}
	if len(recs) == 0 {
		t.Fatalf("expected reminder records")
	}
	if recs[0].Reminder == nil || recs[0].Reminder.AppointmentID != "apt-1" {
		t.Fatalf("reminder payload missing: %+v", recs[0])
	}
}

func TestServiceBookAppointmentPublishesRisk(t *testing.T) {
	svc, err := New(testConfig(t), testRoster())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer func() { _ = svc.Close() }()

	sub := svc.Bus().Subscribe()
	lead := model.Lead{
		ID:         "lead-3",
		Coordinate: &model.Coordinate{Lat: 30.01, Lng: -97.01},
		Tier:       model.TierCold,
	}
	appt := model.Appointment{
		ID:     "apt-3",
		LeadID: lead.ID,
		RepID:  "rep-1",
		Start:  time.Now().Add(10 * 24 * time.Hour),
		End:    time.Now().Add(10*24*time.Hour + time.Hour),
	}

	m := svc.BookAppointment(lead, appt, false)

	var first events.NoShowRiskChanged
	select {
	case ev := <-sub:
		var ok bool
		first, ok = ev.(events.NoShowRiskChanged)
		if !ok {
			t.Fatalf("unexpected event %T", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("no risk event published")
	}
	if first.Previous != -1 {
		t.Fatalf("first computation should report no prior score, got %d", first.Previous)
	}
	// Far out, cold tier, unconfirmed: this slot is never zero risk.
	if first.Candidate.NoShowRiskScore == 0 {
		t.Fatalf("expected nonzero risk score")
	}
	if m.RiskScore() != first.Candidate.NoShowRiskScore {
		t.Fatalf("machine score %d != published score %d", m.RiskScore(), first.Candidate.NoShowRiskScore)
	}

	// Re-booking with a confirmation rescores and reports the prior value.
	appt.Confirmed = true
	svc.BookAppointment(lead, appt, false)

	select {
	case ev := <-sub:
		second, ok := ev.(events.NoShowRiskChanged)
		if !ok {
			t.Fatalf("unexpected event %T", ev)
		}
		if second.Previous != first.Candidate.NoShowRiskScore {
			t.Fatalf("expected previous %d got %d", first.Candidate.NoShowRiskScore, second.Previous)
		}
		if second.Candidate.NoShowRiskScore >= first.Candidate.NoShowRiskScore {
			t.Fatalf("confirmation should lower risk: %d -> %d",
				first.Candidate.NoShowRiskScore, second.Candidate.NoShowRiskScore)
		}
	case <-time.After(time.Second):
		t.Fatalf("no rescore event published")
	}
}

func TestServiceRecordOutcomeFeedsPredictor(t *testing.T) {
	svc, err := New(testConfig(t), testRoster())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer func() { _ = svc.Close() }()

	appt := model.Appointment{
		ID:     "apt-2",
		LeadID: "lead-2",
		RepID:  "rep-1",
		Start:  time.Now().Add(24 * time.Hour),
		End:    time.Now().Add(25 * time.Hour),
	}
	svc.TrackAppointment(appt, 10)

	before := svc.Predictor.ShowRate("rep-1")
	if err := svc.RecordOutcome(context.Background(), "apt-2", false); err != nil {
		t.Fatalf("record outcome: %v", err)
	}
	if got := svc.Predictor.ShowRate("rep-1"); got >= before {
		t.Fatalf("show rate should drop after a no-show: before %v after %v", before, got)
	}

	// the machine is released once the outcome is final
	if _, ok := svc.Reminders.Get("apt-2"); ok {
		t.Fatal("machine should be removed after outcome")
	}
	if err := svc.RecordOutcome(context.Background(), "apt-2", true); err == nil {
		t.Fatal("expected error for unknown appointment")
	}

	recs, err := svc.AuditLog().Query(context.Background(), audit.LogQuery{Kind: audit.KindReminder})
	if err != nil {
		t.Fatalf("audit query: %v", err)
	}
	var found bool
	for _, r := range recs {
		if r.Reminder != nil && r.Reminder.Note == "no_show" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a no_show audit record")
	}
}

func TestLoadRoster(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.json")
	reps := testRoster()
	data, _ := json.Marshal(reps)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	got, err := LoadRoster(path)
	if err != nil {
		t.Fatalf("load roster: %v", err)
	}
	if len(got) != 2 || got[0].ID != "rep-1" {
		t.Fatalf("unexpected roster: %+v", got)
	}
}

func TestLoadRosterRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.json")
	data := `[{"id": "rep-1", "max_capacity": 0}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	if _, err := LoadRoster(path); err == nil {
		t.Fatalf("expected validation error")
	}
}
