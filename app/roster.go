package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fieldops/leadrouter/core/model"
)

// LoadRoster reads a JSON array of reps from path and validates each entry.
func LoadRoster(path string) ([]model.Rep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var reps []model.Rep
	if err := json.Unmarshal(data, &reps); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	for _, r := range reps {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	return reps, nil
}

// LoadLeads reads a JSON array of leads from path and validates each entry.
func LoadLeads(path string) ([]model.Lead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read leads: %w", err)
	}
	var leads []model.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("parse leads: %w", err)
	}
	for _, l := range leads {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("lead %s: %w", l.ID, err)
		}
	}
	return leads, nil
}
