package mqtt

import "errors"

// ErrAckTimeout is returned when a rep does not acknowledge an assignment
// notice before the deadline.
var ErrAckTimeout = errors.New("no assignment ack before deadline")
