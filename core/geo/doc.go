// Package geo estimates distance and travel time between coordinates.
//
// An external road-network provider can be plugged in; when it is absent or
// failing the estimator falls back to a great-circle computation so callers
// always receive a best-effort estimate, tagged with its source.
package geo
