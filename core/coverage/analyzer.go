package coverage

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/fieldops/leadrouter/core/geo"
	"github.com/fieldops/leadrouter/core/logger"
	"github.com/fieldops/leadrouter/core/model"
)

// Config defines coverage analysis thresholds.
type Config struct {
	// MaxDriveMinutes bounds a rep's reachable territory.
	MaxDriveMinutes int `json:"max_drive_minutes"`
	// ClusterRadiusMiles groups uncovered leads into the same gap cluster.
	ClusterRadiusMiles float64 `json:"cluster_radius_miles"`
	// MinClusterSize is the member count at which a cluster becomes a
	// reportable structural gap.
	MinClusterSize int `json:"min_cluster_size"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MaxDriveMinutes == 0 {
		c.MaxDriveMinutes = 60
	}
	if c.ClusterRadiusMiles == 0 {
		c.ClusterRadiusMiles = 5
	}
	if c.MinClusterSize == 0 {
		c.MinClusterSize = 3
	}
}

// Analyzer computes territory coverage across a roster and lead population.
// Analyze is pure and idempotent: no shared mutable state, safe to run
// concurrently with assignment against a point-in-time roster snapshot.
type Analyzer struct {
	cfg Config
	est *geo.Estimator
	log logger.Logger
	now func() time.Time
}

// NewAnalyzer creates a coverage analyzer backed by the given estimator.
func NewAnalyzer(cfg Config, est *geo.Estimator, log logger.Logger) *Analyzer {
	cfg.SetDefaults()
	if log == nil {
		log = logger.Nop{}
	}
	return &Analyzer{cfg: cfg, est: est, log: log, now: time.Now}
}

// Analyze builds the coverage report. Leads without a coordinate cannot be
// reached by any rep and are reported as uncovered, but are excluded from
// gap clustering since they have no position to cluster on.
func (a *Analyzer) Analyze(roster []model.Rep, leads []model.Lead) (model.CoverageReport, error) {
	report := model.CoverageReport{
		RepCoverage:      make(map[string][]string, len(roster)),
		UncoveredLeadIDs: []string{},
		GapClusters:      []model.GapCluster{},
		GeneratedAt:      a.now(),
	}

	covered := make(map[string]bool, len(leads))
	for _, rep := range roster {
		if rep.BaseCoordinate.Validate() != nil {
			a.log.Warnf("rep %s has invalid base coordinate, skipping", rep.ID)
			continue
		}
		var reach []string
		for _, l := range leads {
			if !l.HasCoordinate() {
				continue
			}
			est, err := a.est.Estimate(rep.BaseCoordinate, *l.Coordinate, geo.ModeDriving)
			if err != nil {
				return model.CoverageReport{}, err
			}
			if est.DriveMinutes <= a.cfg.MaxDriveMinutes {
				reach = append(reach, l.ID)
				covered[l.ID] = true
			}
		}
		sort.Strings(reach)
		report.RepCoverage[rep.ID] = reach
	}

	var uncovered []model.Lead
	for _, l := range leads {
		if !covered[l.ID] {
			report.UncoveredLeadIDs = append(report.UncoveredLeadIDs, l.ID)
			if l.HasCoordinate() {
				uncovered = append(uncovered, l)
			}
		}
	}
	sort.Strings(report.UncoveredLeadIDs)

	report.GapClusters = a.cluster(uncovered)
	if len(leads) > 0 {
		report.CoverageRate = float64(len(leads)-len(report.UncoveredLeadIDs)) / float64(len(leads))
	} else {
		report.CoverageRate = 1
	}
	return report, nil
}

// cluster groups uncovered leads into connected components under the
// proximity radius and keeps those reaching the minimum size.
func (a *Analyzer) cluster(leads []model.Lead) []model.GapCluster {
	if len(leads) == 0 {
		return []model.GapCluster{}
	}

	parent := make([]int, len(leads))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[ri] = rj
		}
	}

	for i := 0; i < len(leads); i++ {
		for j := i + 1; j < len(leads); j++ {
			if geo.Haversine(*leads[i].Coordinate, *leads[j].Coordinate) < a.cfg.ClusterRadiusMiles {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]model.Lead)
	for i, l := range leads {
		root := find(i)
		groups[root] = append(groups[root], l)
	}

	clusters := []model.GapCluster{}
	for _, members := range groups {
		if len(members) < a.cfg.MinClusterSize {
			continue
		}
		lats := make([]float64, len(members))
		lngs := make([]float64, len(members))
		ids := make([]string, len(members))
		for i, m := range members {
			lats[i] = m.Coordinate.Lat
			lngs[i] = m.Coordinate.Lng
			ids[i] = m.ID
		}
		sort.Strings(ids)
		clusters = append(clusters, model.GapCluster{
			Centroid:    model.Coordinate{Lat: stat.Mean(lats, nil), Lng: stat.Mean(lngs, nil)},
			MemberCount: len(members),
			LeadIDs:     ids,
		})
	}
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].MemberCount != clusters[j].MemberCount {
			return clusters[i].MemberCount > clusters[j].MemberCount
		}
		return clusters[i].LeadIDs[0] < clusters[j].LeadIDs[0]
	})
	return clusters
}
