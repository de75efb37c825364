package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fieldops/leadrouter/core/appointment"
	"github.com/fieldops/leadrouter/core/assign"
	"github.com/fieldops/leadrouter/core/coverage"
	"github.com/fieldops/leadrouter/core/geo"
	"github.com/fieldops/leadrouter/core/metrics"
	"github.com/fieldops/leadrouter/core/route"
	"github.com/fieldops/leadrouter/core/scoring"
	"github.com/fieldops/leadrouter/infra/mqtt"
	"github.com/fieldops/leadrouter/infra/routing"
)

type Config struct {
	MQTT        mqtt.Config        `json:"mqtt"`
	Geo         geo.Config         `json:"geo"`
	Scoring     scoring.Config     `json:"scoring"`
	Assign      assign.Config      `json:"assign"`
	Route       route.Config       `json:"route"`
	Coverage    coverage.Config    `json:"coverage"`
	Appointment appointment.Config `json:"appointment"`
	Metrics     metrics.Config     `json:"metrics"`
	Audit       AuditConfig        `json:"audit"`
	Routing     routing.Config     `json:"routing"`
	Sentry      SentryConfig       `json:"sentry"`
	API         APIConfig          `json:"api"`
	Checkin     CheckinConfig      `json:"checkin"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("LR_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "lr_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Audit.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Routing.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults across all sections.
func (c *Config) SetDefaults() {
	c.MQTT.SetDefaults()
	c.Geo.SetDefaults()
	c.Scoring.SetDefaults()
	c.Assign.SetDefaults()
	c.Route.SetDefaults()
	c.Coverage.SetDefaults()
	c.Appointment.SetDefaults()
	c.Audit.SetDefaults()
	c.Routing.SetDefaults()
	c.Sentry.SetDefaults()
	c.Checkin.SetDefaults()
}
