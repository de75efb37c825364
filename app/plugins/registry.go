// Package plugins holds named factories for swappable backends. Builtins
// self-register in init; alternative builds can register their own
// implementations before the service starts.
package plugins

import (
	coremetrics "github.com/fieldops/leadrouter/core/metrics"
	"github.com/fieldops/leadrouter/core/prediction"
	"github.com/fieldops/leadrouter/infra/audit"
)

// MetricsFactory builds a metrics sink from a raw configuration map.
type MetricsFactory func(name string, conf map[string]any) (coremetrics.MetricsSink, error)

// LogStoreFactory builds an audit log store from a raw configuration map.
type LogStoreFactory func(name string, conf map[string]any) (audit.LogStore, error)

// PredictionFactory builds a show-rate predictor from a raw configuration map.
type PredictionFactory func(name string, conf map[string]any) (prediction.Predictor, error)

var (
	MetricsExporters = map[string]MetricsFactory{}
	LogStores        = map[string]LogStoreFactory{}
	Predictions      = map[string]PredictionFactory{}
)

func RegisterMetrics(name string, f MetricsFactory)       { MetricsExporters[name] = f }
func RegisterLogStore(name string, f LogStoreFactory)     { LogStores[name] = f }
func RegisterPrediction(name string, f PredictionFactory) { Predictions[name] = f }
