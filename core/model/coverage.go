package model

import "time"

// GapCluster is a geographically grouped set of uncovered leads.
type GapCluster struct {
	Centroid    Coordinate `json:"centroid"`
	MemberCount int        `json:"member_count"`
	LeadIDs     []string   `json:"lead_ids"`
}

// CoverageReport summarizes territory coverage over a roster and lead
// population. Reports are recomputed on demand and never partially updated.
type CoverageReport struct {
	RepCoverage      map[string][]string `json:"rep_coverage"`
	UncoveredLeadIDs []string            `json:"uncovered_lead_ids"`
	GapClusters      []GapCluster        `json:"gap_clusters"`
	CoverageRate     float64             `json:"coverage_rate"`
	GeneratedAt      time.Time           `json:"generated_at"`
}
