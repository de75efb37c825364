package monitoring

import (
	"errors"
	"testing"
	"time"
)

type recordingMonitor struct {
	errs []error
	tags []map[string]string
}

func (m *recordingMonitor) CaptureException(err error, tags map[string]string) {
	m.errs = append(m.errs, err)
	m.tags = append(m.tags, tags)
}
func (m *recordingMonitor) Recover()            {}
func (m *recordingMonitor) Flush(time.Duration) {}

func TestGlobalMonitor(t *testing.T) {
	rec := &recordingMonitor{}
	Init(rec)
	defer Init(NopMonitor{})

	CaptureException(errors.New("boom"), map[string]string{"component": "allocator"})

	if len(rec.errs) != 1 {
		t.Fatalf("expected 1 captured error, got %d", len(rec.errs))
	}
	if rec.tags[0]["component"] != "allocator" {
		t.Fatalf("tag not forwarded: %v", rec.tags[0])
	}
}

func TestInitNilKeepsCurrent(t *testing.T) {
	rec := &recordingMonitor{}
	Init(rec)
	defer Init(NopMonitor{})

	Init(nil)
	CaptureException(errors.New("still recorded"), nil)
	if len(rec.errs) != 1 {
		t.Fatalf("expected monitor to survive Init(nil), got %d errors", len(rec.errs))
	}
}
