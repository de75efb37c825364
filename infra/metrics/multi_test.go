package metrics

import (
	"testing"

	coremetrics "github.com/fieldops/leadrouter/core/metrics"
)

type recordSink struct {
	count int
}

func (r *recordSink) RecordAssignment([]coremetrics.AssignmentResult) error {
	r.count++
	return nil
}

func (r *recordSink) RecordRoute(coremetrics.RouteResult) error {
	r.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordAssignment(nil); err != nil {
		t.Fatalf("record assignment: %v", err)
	}
	if err := m.RecordRoute(coremetrics.RouteResult{}); err != nil {
		t.Fatalf("record route: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("results not forwarded")
	}
}

func TestMultiSinkSkipsUnsupported(t *testing.T) {
	s := &recordSink{}
	m := NewMultiSink(s)
	if err := m.RecordCoverage(coremetrics.CoverageResult{}); err != nil {
		t.Fatalf("coverage: %v", err)
	}
	if err := m.RecordReminder(coremetrics.ReminderEvent{}); err != nil {
		t.Fatalf("reminder: %v", err)
	}
	if s.count != 0 {
		t.Fatalf("unsupported recorders should not be invoked")
	}
}
