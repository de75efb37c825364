package plugins

import (
	"github.com/mitchellh/mapstructure"

	"github.com/fieldops/leadrouter/config"
	coremetrics "github.com/fieldops/leadrouter/core/metrics"
	"github.com/fieldops/leadrouter/core/prediction"
	"github.com/fieldops/leadrouter/infra/audit"
	inframetrics "github.com/fieldops/leadrouter/infra/metrics"
)

func init() {
	RegisterMetrics("prometheus", func(name string, conf map[string]any) (coremetrics.MetricsSink, error) {
		var mc coremetrics.Config
		if err := mapstructure.Decode(conf, &mc); err != nil {
			return nil, err
		}
		return inframetrics.NewPromSink(mc)
	})
	RegisterMetrics("influx", func(name string, conf map[string]any) (coremetrics.MetricsSink, error) {
		var mc coremetrics.Config
		if err := mapstructure.Decode(conf, &mc); err != nil {
			return nil, err
		}
		return inframetrics.NewInfluxSinkWithFallback(mc.InfluxURL, mc.InfluxToken, mc.InfluxOrg, mc.InfluxBucket), nil
	})

	RegisterLogStore("jsonl", func(name string, conf map[string]any) (audit.LogStore, error) {
		var ac config.AuditConfig
		if err := mapstructure.Decode(conf, &ac); err != nil {
			return nil, err
		}
		return audit.NewJSONLStore(ac.Path)
	})
	RegisterLogStore("rotating", func(name string, conf map[string]any) (audit.LogStore, error) {
		var ac config.AuditConfig
		if err := mapstructure.Decode(conf, &ac); err != nil {
			return nil, err
		}
		return audit.NewRotatingJSONLStore(ac.Path, ac.MaxSizeMB, ac.MaxBackups, ac.MaxAgeDays)
	})
	RegisterLogStore("sqlite", func(name string, conf map[string]any) (audit.LogStore, error) {
		var ac config.AuditConfig
		if err := mapstructure.Decode(conf, &ac); err != nil {
			return nil, err
		}
		return audit.NewSQLiteStore(ac.Path)
	})

	RegisterPrediction("memory", func(name string, _ map[string]any) (prediction.Predictor, error) {
		return prediction.NewMemoryPredictor(0, 0), nil
	})
	RegisterPrediction("mock", func(name string, _ map[string]any) (prediction.Predictor, error) {
		return &prediction.MockPredictor{}, nil
	})
}
