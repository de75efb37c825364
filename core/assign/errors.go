package assign

import "errors"

// Sentinel errors returned by the Allocator. Both capacity errors are
// recoverable at the caller level: the lead can be queued and retried with a
// fresh roster.
var (
	// ErrEmptyRoster is returned when Assign is called with no reps at all.
	ErrEmptyRoster = errors.New("empty roster")

	// ErrNoCapacityAvailable is returned when no rep is eligible to take the lead.
	ErrNoCapacityAvailable = errors.New("no capacity available")

	// ErrCapacityRace is returned when the bounded reservation retry is exhausted.
	ErrCapacityRace = errors.New("capacity race: reservation retries exhausted")

	// ErrUnknownRep is returned when a rep ID is not present in the roster.
	ErrUnknownRep = errors.New("unknown rep")

	// ErrLeadAlreadyAssigned is returned when Assign is called for a lead
	// that already holds a live assignment. Reassignment requires an
	// explicit Release first.
	ErrLeadAlreadyAssigned = errors.New("lead already assigned")
)
