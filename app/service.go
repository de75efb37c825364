package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/fieldops/leadrouter/api/auditlog"
	"github.com/fieldops/leadrouter/api/reps"
	"github.com/fieldops/leadrouter/app/plugins"
	"github.com/fieldops/leadrouter/config"
	"github.com/fieldops/leadrouter/core/appointment"
	"github.com/fieldops/leadrouter/core/assign"
	"github.com/fieldops/leadrouter/core/coverage"
	"github.com/fieldops/leadrouter/core/events"
	"github.com/fieldops/leadrouter/core/geo"
	coremetrics "github.com/fieldops/leadrouter/core/metrics"
	"github.com/fieldops/leadrouter/core/model"
	coremon "github.com/fieldops/leadrouter/core/monitoring"
	"github.com/fieldops/leadrouter/core/prediction"
	"github.com/fieldops/leadrouter/core/rationale"
	"github.com/fieldops/leadrouter/core/repstatus"
	"github.com/fieldops/leadrouter/core/route"
	"github.com/fieldops/leadrouter/core/scoring"
	"github.com/fieldops/leadrouter/infra/audit"
	"github.com/fieldops/leadrouter/infra/checkin"
	"github.com/fieldops/leadrouter/infra/kpi"
	"github.com/fieldops/leadrouter/infra/logger"
	"github.com/fieldops/leadrouter/infra/metrics"
	"github.com/fieldops/leadrouter/infra/monitoring"
	"github.com/fieldops/leadrouter/infra/mqtt"
	"github.com/fieldops/leadrouter/infra/routing"
	"github.com/fieldops/leadrouter/internal/eventbus"
)

// ackTimeout bounds how long an assignment notice waits for a device ack.
const ackTimeout = 10 * time.Second

// Service wires the estimator, scoring engine, allocator, route builder,
// coverage analyzer and appointment tracking behind one facade.
type Service struct {
	Allocator    *assign.Allocator
	RouteBuilder *route.Builder
	Coverage     *coverage.Analyzer
	Appointments *appointment.Engine
	Reminders    *appointment.Scheduler
	Status       *repstatus.MemoryStore
	Estimator    *geo.Estimator
	Predictor    prediction.Predictor

	cfg    *config.Config
	bus    eventbus.EventBus
	sink   *metrics.MultiSink
	store  audit.LogStore
	client *mqtt.PahoClient
	oracle rationale.Oracle
	log    logger.Logger
}

// New creates a Service from the configuration and the initial roster.
func New(cfg *config.Config, reps []model.Rep) (*Service, error) {
	log := logger.New("service")

	monitor, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(monitor)

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	multi := metrics.NewMultiSink(sinks...)

	store, err := newAuditStore(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}

	var provider geo.DistanceProvider
	if cfg.Routing.Enabled {
		p, err := routing.NewProvider(cfg.Routing, logger.New("routing"))
		if err != nil {
			return nil, fmt.Errorf("routing provider: %w", err)
		}
		provider = p
	}
	est := geo.NewEstimator(cfg.Geo, provider, logger.New("geo"))
	engine := scoring.NewEngine(cfg.Scoring, est)
	roster, err := assign.NewRoster(reps)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	alloc := assign.NewAllocator(cfg.Assign, engine, roster, logger.New("allocator"))

	svc := &Service{
		Allocator:    alloc,
		RouteBuilder: route.NewBuilder(est, logger.New("route")),
		Coverage:     coverage.NewAnalyzer(cfg.Coverage, est, logger.New("coverage")),
		Appointments: appointment.NewEngine(cfg.Appointment, est),
		Status:       repstatus.NewMemoryStore(),
		Estimator:    est,
		Predictor:    prediction.NewMemoryPredictor(0, 0),
		cfg:          cfg,
		bus:          eventbus.New(),
		sink:         multi,
		store:        store,
		oracle:       rationale.Nop{},
		log:          log,
	}
	svc.Reminders = appointment.NewScheduler(time.Minute, svc.onReminderDue, logger.New("reminders"))

	for _, r := range reps {
		svc.Status.Set(repstatus.Status{
			RepID:         r.ID,
			CurrentStatus: r.Status.String(),
			CurrentLoad:   r.CurrentLoad,
		})
	}

	if cfg.MQTT.Broker != "" {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.client = client
	}
	return svc, nil
}

func newAuditStore(cfg config.AuditConfig) (audit.LogStore, error) {
	backend := cfg.Backend
	factory, ok := plugins.LogStores[backend]
	if !ok {
		backend = "jsonl"
		factory = plugins.LogStores[backend]
	}
	var conf map[string]any
	if err := mapstructure.Decode(cfg, &conf); err != nil {
		return nil, err
	}
	return factory(backend, conf)
}

// SetOracle installs a rationale oracle for display-only explanations.
func (s *Service) SetOracle(o rationale.Oracle) {
	if o != nil {
		s.oracle = o
	}
}

// AssignLead allocates the lead, records the decision and notifies the rep.
func (s *Service) AssignLead(ctx context.Context, lead model.Lead) (model.Assignment, error) {
	asn, err := s.Allocator.Assign(lead)
	if err != nil {
		return model.Assignment{}, err
	}
	asn.Rationale = s.oracle.Explain(asn)

	s.Status.RecordAssignment(asn.PrimaryRepID, repstatus.LastAssignment{
		LeadID:    asn.LeadID,
		Total:     asn.Breakdown.Total,
		Timestamp: asn.AssignedAt,
	})
	if asn.BackupRepID != "" {
		s.Status.RecordAssignment(asn.BackupRepID, repstatus.LastAssignment{
			LeadID:    asn.LeadID,
			Total:     asn.Breakdown.Total,
			Backup:    true,
			Timestamp: asn.AssignedAt,
		})
	}

	if err := s.sink.RecordAssignment([]coremetrics.AssignmentResult{{
		Assignment: asn,
		LeadTier:   lead.Tier,
		Eligible:   asn.EligibleReps,
		Attempts:   asn.Attempts,
		Time:       asn.AssignedAt,
	}}); err != nil {
		s.log.Errorf("record assignment: %v", err)
	}
	if err := s.store.Append(ctx, audit.LogRecord{
		Timestamp:  asn.AssignedAt,
		Kind:       audit.KindAssignment,
		LeadID:     asn.LeadID,
		RepID:      asn.PrimaryRepID,
		Assignment: &asn,
	}); err != nil {
		s.log.Errorf("audit assignment: %v", err)
		coremon.CaptureException(err, map[string]string{"component": "audit"})
	}
	s.bus.Publish(events.AssignmentCreated{Assignment: asn})

	if s.client != nil {
		go s.notify(asn)
	}
	return asn, nil
}

func (s *Service) notify(asn model.Assignment) {
	defer coremon.Recover()
	noticeID, err := s.client.NotifyAssignment(asn.PrimaryRepID, asn)
	if err != nil {
		s.log.Errorf("notify rep %s: %v", asn.PrimaryRepID, err)
		coremon.CaptureException(err, map[string]string{"component": "mqtt", "rep_id": asn.PrimaryRepID})
		return
	}
	ok, err := s.client.WaitForAck(noticeID, ackTimeout)
	if err != nil || !ok {
		s.log.Warnf("no ack from rep %s for assignment %s", asn.PrimaryRepID, asn.ID)
	}
}

// BuildRoute computes a daily route for the rep over the given leads.
func (s *Service) BuildRoute(ctx context.Context, rep model.Rep, leads []model.Lead, day time.Time) (model.Route, error) {
	loc := day.Location()
	start := time.Date(day.Year(), day.Month(), day.Day(), s.cfg.Route.WorkdayStartHour, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), s.cfg.Route.WorkdayEndHour, 0, 0, 0, loc)
	rt, err := s.RouteBuilder.Build(rep, leads, start, end,
		time.Duration(s.cfg.Route.MeetingMinutes)*time.Minute,
		time.Duration(s.cfg.Route.BufferMinutes)*time.Minute)
	if err != nil {
		return model.Route{}, err
	}

	now := time.Now()
	if err := s.sink.RecordRoute(coremetrics.RouteResult{Route: rt, Stops: len(rt.Stops), Time: now}); err != nil {
		s.log.Errorf("record route: %v", err)
	}
	if err := s.store.Append(ctx, audit.LogRecord{
		Timestamp: now,
		Kind:      audit.KindRoute,
		RepID:     rt.RepID,
		Route:     &rt,
	}); err != nil {
		s.log.Errorf("audit route: %v", err)
	}
	s.bus.Publish(events.RouteComputed{Route: rt, Date: day})
	return rt, nil
}

// AnalyzeCoverage runs a coverage sweep over the current roster.
func (s *Service) AnalyzeCoverage(ctx context.Context, leads []model.Lead) (model.CoverageReport, error) {
	roster := s.Allocator.Roster().Snapshot()
	report, err := s.Coverage.Analyze(roster, leads)
	if err != nil {
		return model.CoverageReport{}, err
	}

	if err := s.sink.RecordCoverage(coremetrics.CoverageResult{
		Report:    report,
		RosterLen: len(roster),
		LeadCount: len(leads),
		Time:      report.GeneratedAt,
	}); err != nil {
		s.log.Errorf("record coverage: %v", err)
	}
	if err := s.store.Append(ctx, audit.LogRecord{
		Timestamp: report.GeneratedAt,
		Kind:      audit.KindCoverage,
		Coverage:  &report,
	}); err != nil {
		s.log.Errorf("audit coverage: %v", err)
	}
	for _, cluster := range report.GapClusters {
		s.bus.Publish(events.CoverageGapDetected{Cluster: cluster, GeneratedAt: report.GeneratedAt})
	}
	return report, nil
}

// TrackAppointment starts reminder tracking for a booked appointment.
func (s *Service) TrackAppointment(appt model.Appointment, riskScore int) *appointment.Machine {
	m := s.Appointments.NewMachine(appt, riskScore)
	s.Reminders.Add(m)
	return m
}

// BookAppointment scores a booked slot for no-show risk, announces the
// score on the bus and starts reminder tracking. Re-booking the same
// appointment rescores it and reports the prior score alongside the new
// one. repeatCustomer flags leads with a previously completed appointment.
func (s *Service) BookAppointment(lead model.Lead, appt model.Appointment, repeatCustomer bool) *appointment.Machine {
	cand := s.Appointments.Candidate(lead, appt.RepID, appt.Start, appt.End, appointment.RiskInput{
		Lead:           lead,
		Start:          appt.Start,
		Confirmed:      appt.Confirmed,
		Reschedules:    appt.Reschedules,
		RepeatCustomer: repeatCustomer,
		Now:            time.Now(),
	})

	previous := -1
	if m, ok := s.Reminders.Get(appt.ID); ok {
		previous = m.RiskScore()
	}
	s.bus.Publish(events.NoShowRiskChanged{Candidate: cand, Previous: previous})
	return s.TrackAppointment(appt, cand.NoShowRiskScore)
}

// RecordOutcome closes out a tracked appointment and feeds the show-rate
// predictor. The machine is removed from the reminder scheduler since no
// further reminders apply after a terminal state.
func (s *Service) RecordOutcome(ctx context.Context, apptID string, showed bool) error {
	m, ok := s.Reminders.Get(apptID)
	if !ok {
		return fmt.Errorf("unknown appointment %s", apptID)
	}
	appt := m.Appointment()
	from := m.State()
	if showed {
		m.MarkShowed()
	} else {
		m.MarkNoShow()
	}
	s.Predictor.Observe(appt.RepID, showed)

	note := "showed"
	if !showed {
		note = "no_show"
	}
	if err := s.store.Append(ctx, audit.LogRecord{
		Timestamp: time.Now(),
		Kind:      audit.KindReminder,
		LeadID:    appt.LeadID,
		RepID:     appt.RepID,
		Reminder: &audit.ReminderChange{
			AppointmentID: appt.ID,
			From:          from,
			To:            m.State(),
			RiskScore:     m.RiskScore(),
			Note:          note,
		},
	}); err != nil {
		s.log.Errorf("audit outcome: %v", err)
		coremon.CaptureException(err, map[string]string{"component": "audit"})
	}
	s.Reminders.Remove(apptID)
	return nil
}

func (s *Service) onReminderDue(appt model.Appointment, stage model.ReminderStage, state model.ReminderState) {
	now := time.Now()
	var score int
	if m, ok := s.Reminders.Get(appt.ID); ok {
		score = m.RiskScore()
	}
	tier := model.RiskTierFor(score)
	if err := s.sink.RecordReminder(coremetrics.ReminderEvent{
		AppointmentID: appt.ID,
		Stage:         stage,
		RiskTier:      tier,
		Time:          now,
	}); err != nil {
		s.log.Errorf("record reminder: %v", err)
	}
	if err := s.store.Append(context.Background(), audit.LogRecord{
		Timestamp: now,
		Kind:      audit.KindReminder,
		LeadID:    appt.LeadID,
		RepID:     appt.RepID,
		Reminder: &audit.ReminderChange{
			AppointmentID: appt.ID,
			To:            state,
			RiskScore:     score,
		},
	}); err != nil {
		s.log.Errorf("audit reminder: %v", err)
	}
	s.bus.Publish(events.ReminderDue{Appointment: appt, Stage: stage, State: state})
}

// AuditLog exposes the decision log for querying.
func (s *Service) AuditLog() audit.LogStore { return s.store }

// Bus exposes the event bus for subscribers.
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// Run starts the background loops and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.Reminders.Run(ctx)
	if s.cfg.API.Addr != "" {
		go func() {
			defer coremon.Recover()
			if err := s.serveAPI(ctx); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.client != nil {
		if err := s.client.SubscribeLeads(func(lead model.Lead) {
			if _, err := s.AssignLead(ctx, lead); err != nil {
				s.log.Errorf("assign lead %s: %v", lead.ID, err)
			}
		}); err != nil {
			return fmt.Errorf("lead intake: %w", err)
		}
		go s.forwardEvents(ctx)

		if s.cfg.Checkin.Enabled {
			mgr, err := checkin.NewManager(s.cfg.MQTT, s.cfg.Checkin, s.Status)
			if err != nil {
				return fmt.Errorf("checkin manager: %w", err)
			}
			go mgr.Start(ctx)
		}
	}
	<-ctx.Done()
	return nil
}

// serveAPI runs the operator HTTP API until the context is cancelled.
func (s *Service) serveAPI(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/api/audit/logs", auditlog.NewLogHandler(s.store, s.cfg.API.Token))
	mux.Handle("/api/reps/status", reps.NewStatusHandler(s.Status, s.Predictor))
	if s.cfg.API.KPIPath != "" {
		store, err := kpi.NewSQLiteStore(s.cfg.API.KPIPath)
		if err != nil {
			return fmt.Errorf("kpi store: %w", err)
		}
		defer store.Close()
		mux.Handle("/api/reps/", reps.NewKPIHandler(store))
	}

	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// forwardEvents republishes bus events on the MQTT event topics.
func (s *Service) forwardEvents(ctx context.Context) {
	defer coremon.Recover()
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			name := eventName(ev)
			if name == "" {
				continue
			}
			if err := s.client.PublishEvent(name, ev); err != nil {
				s.log.Errorf("publish %s: %v", name, err)
			}
		}
	}
}

func eventName(ev eventbus.Event) string {
	switch ev.(type) {
	case events.AssignmentCreated:
		return "assignment_created"
	case events.RouteComputed:
		return "route_computed"
	case events.CoverageGapDetected:
		return "coverage_gap_detected"
	case events.ReminderDue:
		return "reminder_due"
	case events.NoShowRiskChanged:
		return "no_show_risk_changed"
	default:
		return ""
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.client != nil {
		s.client.Disconnect()
	}
	s.bus.Close()
	coremon.Flush(2 * time.Second)
	return s.store.Close()
}
