package audit

import (
	"context"
	"testing"
	"time"

	"github.com/fieldops/leadrouter/core/model"
)

func TestSQLiteStore_PersistQuery(t *testing.T) {
	store, err := NewSQLiteStore("file:audit_test.db?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	rec := LogRecord{
		Timestamp: time.Now(),
		Kind:      KindAssignment,
		LeadID:    "lead-1",
		RepID:     "rep-1",
		Assignment: &model.Assignment{
			ID:           "asn-1",
			LeadID:       "lead-1",
			PrimaryRepID: "rep-1",
			Breakdown:    model.ScoreBreakdown{Total: 72},
		},
	}
	if err := store.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	out, err := store.Query(context.Background(), LogQuery{RepID: "rep-1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].Assignment == nil || out[0].Assignment.ID != "asn-1" {
		t.Fatalf("assignment payload lost: %+v", out[0])
	}
}

func TestSQLiteStore_FilterByKind(t *testing.T) {
	store, err := NewSQLiteStore("file:audit_kind.db?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()
	now := time.Now()
	recs := []LogRecord{
		{Timestamp: now, Kind: KindAssignment, LeadID: "l1", RepID: "r1"},
		{Timestamp: now, Kind: KindRoute, RepID: "r1", Route: &model.Route{RepID: "r1"}},
		{Timestamp: now, Kind: KindReminder, Reminder: &ReminderChange{AppointmentID: "a1"}},
	}
	for _, r := range recs {
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	out, err := store.Query(ctx, LogQuery{Kind: KindRoute})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 || out[0].Route == nil {
		t.Fatalf("expected one route record, got %+v", out)
	}
}

func TestSQLiteStore_TimeWindow(t *testing.T) {
	store, err := NewSQLiteStore("file:audit_window.db?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()
	base := time.Now().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		rec := LogRecord{Timestamp: base.Add(time.Duration(i) * time.Hour), Kind: KindCoverage}
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	out, err := store.Query(ctx, LogQuery{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record in window, got %d", len(out))
	}
}
