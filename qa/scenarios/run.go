package scenarios

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fieldops/leadrouter/core/assign"
	"github.com/fieldops/leadrouter/core/geo"
	coremetrics "github.com/fieldops/leadrouter/core/metrics"
	"github.com/fieldops/leadrouter/core/model"
	"github.com/fieldops/leadrouter/core/scoring"
	"github.com/fieldops/leadrouter/infra/logger"
	"github.com/fieldops/leadrouter/infra/metrics"
)

// RunScenario feeds the scenario's leads through a fresh allocator and
// checks the assignment counts against the expectations.
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	var geoCfg geo.Config
	geoCfg.SetDefaults()
	est := geo.NewEstimator(geoCfg, nil, logger.NopLogger{})

	var scoreCfg scoring.Config
	scoreCfg.SetDefaults()
	engine := scoring.NewEngine(scoreCfg, est)

	reps := make([]model.Rep, len(sc.Reps))
	for i, r := range sc.Reps {
		reps[i] = r.ToModel()
	}
	roster, err := assign.NewRoster(reps)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}

	var assignCfg assign.Config
	assignCfg.SetDefaults()
	alloc := assign.NewAllocator(assignCfg, engine, roster, logger.NopLogger{})

	assigned, unassigned := 0, 0
	perRep := map[string]int{}
	for _, leadDef := range sc.Leads {
		for repID, after := range sc.BusyAfter {
			if perRep[repID] >= after {
				if rep, ok := roster.Get(repID); ok && rep.Status != model.RepBusy {
					rep.Status = model.RepBusy
					if err := roster.Upsert(rep); err != nil {
						t.Fatalf("upsert %s: %v", repID, err)
					}
				}
			}
		}

		asn, err := alloc.Assign(leadDef.ToModel())
		if err != nil {
			unassigned++
			continue
		}
		assigned++
		perRep[asn.PrimaryRepID]++
		if err := sink.RecordAssignment([]coremetrics.AssignmentResult{{
			Assignment: asn,
			LeadTier:   parseTier(leadDef.Tier),
			Time:       time.Now(),
		}}); err != nil {
			t.Fatalf("record assignment: %v", err)
		}
	}

	if assigned != sc.Expected.Assigned {
		t.Errorf("scenario %s expected %d assigned, got %d", sc.Name, sc.Expected.Assigned, assigned)
	}
	if unassigned != sc.Expected.Unassigned {
		t.Errorf("scenario %s expected %d unassigned, got %d", sc.Name, sc.Expected.Unassigned, unassigned)
	}
	for repID, want := range sc.Expected.PerRep {
		if perRep[repID] != want {
			t.Errorf("scenario %s expected rep %s to take %d leads, got %d",
				sc.Name, repID, want, perRep[repID])
		}
	}
}
