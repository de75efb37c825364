package mqtt

import (
	"time"

	"github.com/fieldops/leadrouter/core/model"
)

// Client represents an MQTT client capable of notifying reps of new
// assignments and waiting for acknowledgments from their devices.
type Client interface {
	// NotifyAssignment pushes the assignment to the rep's device topic and
	// returns the notice identifier used to track the acknowledgment.
	NotifyAssignment(repID string, asn model.Assignment) (noticeID string, err error)

	// WaitForAck waits for an acknowledgment for the provided notice
	// identifier or until the timeout expires.
	WaitForAck(noticeID string, timeout time.Duration) (bool, error)
}
