package metrics

import (
	"strconv"

	coremetrics "github.com/fieldops/leadrouter/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records allocation and routing events in Prometheus metrics.
type PromSink struct {
	assignments *prometheus.CounterVec
	attempts    *prometheus.HistogramVec
	routeStops  *prometheus.HistogramVec
	coverage    prometheus.Gauge
	reminders   *prometheus.CounterVec
}

// NewPromSink registers metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lead_assignments_total",
		Help: "Total number of lead assignments",
	}, []string{"rep_id", "tier", "has_backup"})
	attempts := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lead_assignment_attempts",
		Help:    "Reservation attempts needed per assignment",
		Buckets: []float64{1, 2, 3},
	}, []string{"tier"})
	routeStops := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "route_stops",
		Help:    "Number of stops per computed route",
		Buckets: prometheus.LinearBuckets(1, 2, 8),
	}, []string{"feasible"})
	coverage := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "territory_coverage_rate",
		Help: "Fraction of active leads reachable by at least one rep",
	})
	reminders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appointment_reminders_total",
		Help: "Total number of reminder stages emitted",
	}, []string{"stage", "risk_tier"})

	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(attempts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			attempts = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(routeStops); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			routeStops = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(coverage); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			coverage = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(reminders); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reminders = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		assignments: assignments,
		attempts:    attempts,
		routeStops:  routeStops,
		coverage:    coverage,
		reminders:   reminders,
	}, nil
}

// RecordAssignment increments the counter for each allocation decision.
func (s *PromSink) RecordAssignment(res []coremetrics.AssignmentResult) error {
	for _, r := range res {
		hasBackup := strconv.FormatBool(r.Assignment.BackupRepID != "")
		s.assignments.WithLabelValues(r.Assignment.PrimaryRepID, r.LeadTier.String(), hasBackup).Inc()
		s.attempts.WithLabelValues(r.LeadTier.String()).Observe(float64(r.Attempts))
	}
	return nil
}

// RecordRoute observes the stop count of a computed route.
func (s *PromSink) RecordRoute(res coremetrics.RouteResult) error {
	s.routeStops.WithLabelValues(strconv.FormatBool(res.Route.Feasible)).Observe(float64(res.Stops))
	return nil
}

// RecordCoverage sets the coverage gauge from the latest sweep.
func (s *PromSink) RecordCoverage(res coremetrics.CoverageResult) error {
	s.coverage.Set(res.Report.CoverageRate)
	return nil
}

// RecordReminder counts an emitted reminder stage.
func (s *PromSink) RecordReminder(ev coremetrics.ReminderEvent) error {
	s.reminders.WithLabelValues(ev.Stage.String(), ev.RiskTier.String()).Inc()
	return nil
}
