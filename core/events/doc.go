// Package events defines the lead-dispatch events emitted on the event bus.
//
// Available event types:
//   - AssignmentCreated: a lead was allocated to a rep
//   - RouteComputed: a daily route was built for a rep
//   - CoverageGapDetected: an uncovered lead cluster was found
//   - ReminderDue: an appointment reminder stage came due
//   - NoShowRiskChanged: an appointment's risk score was (re)computed
package events
