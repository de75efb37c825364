package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/fieldops/leadrouter/core/metrics"
	"github.com/fieldops/leadrouter/infra/logger"
)

// InfluxSink writes allocation and routing events to an InfluxDB instance
// using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordAssignment writes each allocation decision as a point.
func (s *InfluxSink) RecordAssignment(res []coremetrics.AssignmentResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range res {
		p := write.NewPointWithMeasurement("lead_assignment").
			AddTag("rep_id", r.Assignment.PrimaryRepID).
			AddTag("lead_id", r.Assignment.LeadID).
			AddTag("tier", r.LeadTier.String()).
			AddTag("component", "allocator").
			AddField("score", round3(r.Assignment.Breakdown.Total)).
			AddField("eligible_reps", r.Eligible).
			AddField("attempts", r.Attempts).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordRoute persists the shape of a computed route.
func (s *InfluxSink) RecordRoute(res coremetrics.RouteResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("route_computed").
		AddTag("rep_id", res.Route.RepID).
		AddTag("feasible", strconv.FormatBool(res.Route.Feasible)).
		AddTag("component", "route_builder").
		AddField("stops", res.Stops).
		AddField("total_drive_minutes", res.Route.TotalDriveMinutes).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCoverage persists a coverage sweep summary.
func (s *InfluxSink) RecordCoverage(res coremetrics.CoverageResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("coverage_sweep").
		AddTag("component", "coverage_analyzer").
		AddField("coverage_rate", round3(res.Report.CoverageRate)).
		AddField("uncovered", len(res.Report.UncoveredLeadIDs)).
		AddField("gap_clusters", len(res.Report.GapClusters)).
		AddField("reps", res.RosterLen).
		AddField("leads", res.LeadCount).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordReminder persists an emitted reminder stage.
func (s *InfluxSink) RecordReminder(ev coremetrics.ReminderEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("reminder_emitted").
		AddTag("appointment_id", ev.AppointmentID).
		AddTag("stage", ev.Stage.String()).
		AddTag("risk_tier", ev.RiskTier.String()).
		AddTag("component", "reminder_machine").
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
