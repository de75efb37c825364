package monitoring

import "time"

// Monitor reports errors and panics to an external tracker.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

// NopMonitor discards everything. It is the default until Init is
// called with a real implementation.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the process-wide monitor.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	current.CaptureException(err, tags)
}

// Recover captures a panic raised in the calling goroutine. Call it
// with defer at the top of goroutines that must not die silently.
func Recover() {
	current.Recover()
}

// Flush blocks until buffered events are sent or the timeout expires.
func Flush(d time.Duration) {
	current.Flush(d)
}
