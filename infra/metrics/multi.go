package metrics

import coremetrics "github.com/fieldops/leadrouter/core/metrics"

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAssignment forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordAssignment(res []coremetrics.AssignmentResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignment(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordRoute forwards route records when supported by the sink.
func (m *MultiSink) RecordRoute(res coremetrics.RouteResult) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.RouteRecorder); ok {
			if err := rec.RecordRoute(res); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordCoverage forwards coverage records when supported by the sink.
func (m *MultiSink) RecordCoverage(res coremetrics.CoverageResult) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.CoverageRecorder); ok {
			if err := rec.RecordCoverage(res); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordReminder forwards reminder records when supported by the sink.
func (m *MultiSink) RecordReminder(ev coremetrics.ReminderEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ReminderRecorder); ok {
			if err := rec.RecordReminder(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
