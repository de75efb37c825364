package metrics

import (
	"time"

	"github.com/fieldops/leadrouter/core/model"
)

// AssignmentResult represents one allocation decision to be recorded.
type AssignmentResult struct {
	Assignment model.Assignment
	LeadTier   model.LeadTier
	Eligible   int
	Attempts   int
	Time       time.Time
}

// MetricsSink records allocation results for observability purposes.
type MetricsSink interface {
	RecordAssignment(results []AssignmentResult) error
}

// RouteResult captures one computed route.
type RouteResult struct {
	Route model.Route
	Stops int
	Time  time.Time
}

// RouteRecorder is implemented by sinks able to record route builds.
type RouteRecorder interface {
	RecordRoute(res RouteResult) error
}

// CoverageResult captures one coverage sweep.
type CoverageResult struct {
	Report    model.CoverageReport
	RosterLen int
	LeadCount int
	Time      time.Time
}

// CoverageRecorder is implemented by sinks able to record coverage sweeps.
type CoverageRecorder interface {
	RecordCoverage(res CoverageResult) error
}

// ReminderEvent captures one emitted reminder stage.
type ReminderEvent struct {
	AppointmentID string
	Stage         model.ReminderStage
	RiskTier      model.RiskTier
	Time          time.Time
}

// ReminderRecorder is implemented by sinks able to record reminder emissions.
type ReminderRecorder interface {
	RecordReminder(ev ReminderEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordAssignment([]AssignmentResult) error { return nil }
func (NopSink) RecordRoute(RouteResult) error             { return nil }
func (NopSink) RecordCoverage(CoverageResult) error       { return nil }
func (NopSink) RecordReminder(ReminderEvent) error        { return nil }

// Config defines metrics exporter settings.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}
