// Package scenarios runs YAML-defined allocation scenarios end to end
// against the scoring engine and allocator.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fieldops/leadrouter/core/model"
)

type RepDef struct {
	ID              string   `yaml:"id"`
	Lat             float64  `yaml:"lat"`
	Lng             float64  `yaml:"lng"`
	MaxCapacity     int      `yaml:"max_capacity"`
	CurrentLoad     int      `yaml:"current_load"`
	Status          string   `yaml:"status"`
	Specializations []string `yaml:"specializations,omitempty"`
}

func (r RepDef) ToModel() model.Rep {
	return model.Rep{
		ID:              r.ID,
		BaseCoordinate:  model.Coordinate{Lat: r.Lat, Lng: r.Lng},
		MaxCapacity:     r.MaxCapacity,
		CurrentLoad:     r.CurrentLoad,
		Status:          parseRepStatus(r.Status),
		Specializations: r.Specializations,
	}
}

type LeadDef struct {
	ID                      string   `yaml:"id"`
	Lat                     float64  `yaml:"lat"`
	Lng                     float64  `yaml:"lng"`
	Tier                    string   `yaml:"tier"`
	DealSize                float64  `yaml:"deal_size"`
	RequiredSpecializations []string `yaml:"required_specializations,omitempty"`
}

func (l LeadDef) ToModel() model.Lead {
	return model.Lead{
		ID:                      l.ID,
		Coordinate:              &model.Coordinate{Lat: l.Lat, Lng: l.Lng},
		Tier:                    parseTier(l.Tier),
		DealSize:                l.DealSize,
		RequiredSpecializations: l.RequiredSpecializations,
	}
}

type Expected struct {
	Assigned   int            `yaml:"assigned"`
	Unassigned int            `yaml:"unassigned"`
	PerRep     map[string]int `yaml:"per_rep,omitempty"`
}

type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Reps        []RepDef `yaml:"reps"`
	Leads       []LeadDef `yaml:"leads"`
	// BusyAfter marks reps as busy once they have taken N leads in
	// this scenario, on top of their capacity limits.
	BusyAfter map[string]int `yaml:"busy_after,omitempty"`
	Expected  Expected       `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func parseTier(t string) model.LeadTier {
	switch t {
	case "HOT":
		return model.TierHot
	case "WARM":
		return model.TierWarm
	default:
		return model.TierCold
	}
}

func parseRepStatus(s string) model.RepStatus {
	switch s {
	case "ON_CALL":
		return model.RepOnCall
	case "BUSY":
		return model.RepBusy
	case "OUT_OF_OFFICE":
		return model.RepOutOfOffice
	default:
		return model.RepAvailable
	}
}
