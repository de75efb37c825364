package geo

import (
	"math"
	"time"

	"github.com/fieldops/leadrouter/core/logger"
	"github.com/fieldops/leadrouter/core/model"
)

// Mode is a travel mode understood by the estimator.
type Mode string

const (
	ModeDriving Mode = "driving"
	ModeTransit Mode = "transit"
	ModeWalking Mode = "walking"
)

// Source tags reported on every estimate.
const (
	SourceExact     = "exact"
	SourceEstimated = "estimated"
)

const earthRadiusMiles = 3958.8

// Estimate is a best-effort travel estimate between two coordinates.
// TrafficFactor is advisory metadata: it is not applied to DriveMinutes, so
// callers choose whether to account for rush-hour slowdown.
type Estimate struct {
	DistanceMiles float64 `json:"distance_miles"`
	DriveMinutes  int     `json:"drive_minutes"`
	Source        string  `json:"source"`
	TrafficFactor float64 `json:"traffic_factor"`
}

// DistanceProvider is an optional road-network-aware estimator. The core
// must function correctly even if it always errors.
type DistanceProvider interface {
	Estimate(origin, destination model.Coordinate, mode string) (distanceMiles float64, driveMinutes int, source string, err error)
}

// Config defines fallback speeds and traffic window multipliers.
type Config struct {
	DrivingMph    float64 `json:"driving_mph"`
	TransitMph    float64 `json:"transit_mph"`
	WalkingMph    float64 `json:"walking_mph"`
	MorningFactor float64 `json:"morning_factor"`
	EveningFactor float64 `json:"evening_factor"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.DrivingMph == 0 {
		c.DrivingMph = 30
	}
	if c.TransitMph == 0 {
		c.TransitMph = 15
	}
	if c.WalkingMph == 0 {
		c.WalkingMph = 3
	}
	if c.MorningFactor == 0 {
		c.MorningFactor = 1.25
	}
	if c.EveningFactor == 0 {
		c.EveningFactor = 1.35
	}
}

// Estimator converts two coordinates into a distance and travel duration.
type Estimator struct {
	cfg      Config
	provider DistanceProvider
	log      logger.Logger
}

// NewEstimator creates an Estimator. provider may be nil, in which case all
// estimates use the geometric fallback.
func NewEstimator(cfg Config, provider DistanceProvider, log logger.Logger) *Estimator {
	cfg.SetDefaults()
	if log == nil {
		log = logger.Nop{}
	}
	return &Estimator{cfg: cfg, provider: provider, log: log}
}

// Haversine returns the great-circle distance between two points in miles.
func Haversine(a, b model.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func (e *Estimator) speed(mode Mode) float64 {
	switch mode {
	case ModeTransit:
		return e.cfg.TransitMph
	case ModeWalking:
		return e.cfg.WalkingMph
	default:
		return e.cfg.DrivingMph
	}
}

// Estimate returns a travel estimate for the given mode. Provider errors are
// swallowed: the caller always receives an estimate, at worst the geometric
// fallback. The only error case is a malformed coordinate.
func (e *Estimator) Estimate(origin, destination model.Coordinate, mode Mode) (Estimate, error) {
	if err := origin.Validate(); err != nil {
		return Estimate{}, err
	}
	if err := destination.Validate(); err != nil {
		return Estimate{}, err
	}

	if e.provider != nil {
		dist, minutes, src, err := e.provider.Estimate(origin, destination, string(mode))
		if err == nil {
			if src == "" {
				src = SourceExact
			}
			return Estimate{DistanceMiles: dist, DriveMinutes: minutes, Source: src, TrafficFactor: 1.0}, nil
		}
		e.log.Debugf("distance provider failed, falling back: %v", err)
	}

	dist := Haversine(origin, destination)
	minutes := int(math.Round(dist / e.speed(mode) * 60))
	return Estimate{DistanceMiles: dist, DriveMinutes: minutes, Source: SourceEstimated, TrafficFactor: 1.0}, nil
}

// EstimateAt is Estimate with the traffic factor for the departure hour
// attached. The base DriveMinutes is left untouched.
func (e *Estimator) EstimateAt(origin, destination model.Coordinate, mode Mode, departAt time.Time) (Estimate, error) {
	est, err := e.Estimate(origin, destination, mode)
	if err != nil {
		return Estimate{}, err
	}
	est.TrafficFactor = e.TrafficFactor(departAt.Hour())
	return est, nil
}

// TrafficFactor returns the advisory rush-hour multiplier for the given hour.
func (e *Estimator) TrafficFactor(hour int) float64 {
	switch {
	case hour >= 7 && hour < 9:
		return e.cfg.MorningFactor
	case hour >= 16 && hour < 18:
		return e.cfg.EveningFactor
	default:
		return 1.0
	}
}
