// Package prediction forecasts per-rep appointment show rates from
// observed outcomes. Predictions are optional but improve reminder
// escalation and status reporting by anticipating no-shows.
package prediction
