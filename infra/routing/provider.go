package routing

import (
	"fmt"

	"github.com/fieldops/leadrouter/auth"
	"github.com/fieldops/leadrouter/connectors"
	"github.com/fieldops/leadrouter/connectors/clients/roadmatrix"
	"github.com/fieldops/leadrouter/connectors/factory"
	"github.com/fieldops/leadrouter/core/geo"
	"github.com/fieldops/leadrouter/core/logger"
	"github.com/fieldops/leadrouter/core/model"
)

// Config selects and authenticates an external routing provider.
type Config struct {
	Enabled  bool      `json:"enabled"`
	Provider string    `json:"provider"`
	BaseURL  string    `json:"base_url"`
	Auth     auth.Conf `json:"auth"`
}

func (c *Config) SetDefaults() {
	if c.Provider == "" {
		c.Provider = factory.IDRoadMatrix
	}
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, err := factory.NewMatrixClient(c.Provider); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// Provider adapts a connector client to the estimator's provider
// interface. Each Estimate call builds a fresh client, so the provider
// itself is safe for concurrent use.
type Provider struct {
	cfg        Config
	authClient *auth.ClientCred
	log        logger.Logger
}

func NewProvider(cfg Config, log logger.Logger) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("routing provider config: %w", err)
	}
	return &Provider{
		cfg:        cfg,
		authClient: auth.NewClientCred(cfg.Auth),
		log:        log,
	}, nil
}

// Estimate queries the provider for a road-network leg. Errors are
// returned to the caller so the estimator can fall back to haversine.
func (p *Provider) Estimate(origin, destination model.Coordinate, mode string) (float64, int, string, error) {
	client, err := factory.NewMatrixClient(p.cfg.Provider)
	if err != nil {
		return 0, 0, "", err
	}

	opts := []connectors.Option{
		roadmatrix.WithOrigin(origin),
		roadmatrix.WithDestination(destination),
		roadmatrix.WithMode(mode),
	}
	if p.cfg.BaseURL != "" {
		opts = append(opts, roadmatrix.WithBaseURL(p.cfg.BaseURL))
	}

	resp, err := client.Fetch(p.authClient, opts...)
	if err != nil {
		p.log.Warnf("routing provider query failed: %v", err)
		return 0, 0, "", err
	}
	miles, minutes, err := resp.Leg()
	if err != nil {
		return 0, 0, "", err
	}
	return miles, minutes, geo.SourceExact, nil
}
