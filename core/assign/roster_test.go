package assign

import (
	"errors"
	"testing"

	"github.com/fieldops/leadrouter/core/model"
)

func TestRosterRejectsInvalidRep(t *testing.T) {
	_, err := NewRoster([]model.Rep{{ID: "r1", MaxCapacity: 0}})
	if err == nil {
		t.Fatalf("expected validation error for zero capacity")
	}
	_, err = NewRoster([]model.Rep{{ID: "r1", MaxCapacity: 2, CurrentLoad: 3}})
	if err == nil {
		t.Fatalf("expected validation error for load above capacity")
	}
}

func TestRosterReserveAndRelease(t *testing.T) {
	roster, err := NewRoster([]model.Rep{gymRep("r1", 2)})
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if !roster.Reserve("r1") || !roster.Reserve("r1") {
		t.Fatalf("expected two reservations to succeed")
	}
	if roster.Reserve("r1") {
		t.Fatalf("reservation beyond capacity must fail")
	}
	if err := roster.Release("r1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if !roster.Reserve("r1") {
		t.Fatalf("released slot should be reservable again")
	}
}

func TestRosterReleaseFloor(t *testing.T) {
	roster, _ := NewRoster([]model.Rep{gymRep("r1", 2)})
	if err := roster.Release("r1"); err != nil {
		t.Fatalf("release at zero must be a no-op, got %v", err)
	}
	rep, _ := roster.Get("r1")
	if rep.CurrentLoad != 0 {
		t.Fatalf("load must not go negative, got %d", rep.CurrentLoad)
	}
	if err := roster.Release("ghost"); !errors.Is(err, ErrUnknownRep) {
		t.Fatalf("expected ErrUnknownRep got %v", err)
	}
}

func TestRosterSnapshotSorted(t *testing.T) {
	roster, _ := NewRoster([]model.Rep{gymRep("rB", 2), gymRep("rA", 2)})
	snap := roster.Snapshot()
	if len(snap) != 2 || snap[0].ID != "rA" || snap[1].ID != "rB" {
		t.Fatalf("snapshot must be sorted by ID: %+v", snap)
	}
}
