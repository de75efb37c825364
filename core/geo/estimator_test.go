package geo

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/fieldops/leadrouter/core/model"
)

type stubProvider struct {
	dist    float64
	minutes int
	err     error
	calls   int
}

func (p *stubProvider) Estimate(_, _ model.Coordinate, _ string) (float64, int, string, error) {
	p.calls++
	return p.dist, p.minutes, SourceExact, p.err
}

func TestHaversineKnownDistance(t *testing.T) {
	a := model.Coordinate{Lat: 30.0, Lng: -97.0}
	b := model.Coordinate{Lat: 30.1, Lng: -97.1}
	d := Haversine(a, b)
	if math.Abs(d-9.13) > 0.1 {
		t.Fatalf("expected ~9.13 miles got %f", d)
	}
	if Haversine(a, a) != 0 {
		t.Fatalf("distance to self must be zero")
	}
}

func TestEstimateFallbackSpeeds(t *testing.T) {
	e := NewEstimator(Config{}, nil, nil)
	a := model.Coordinate{Lat: 30.0, Lng: -97.0}
	b := model.Coordinate{Lat: 30.1, Lng: -97.1}

	drive, err := e.Estimate(a, b, ModeDriving)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if drive.Source != SourceEstimated {
		t.Fatalf("expected estimated source got %s", drive.Source)
	}
	want := int(math.Round(drive.DistanceMiles / 30 * 60))
	if drive.DriveMinutes != want {
		t.Fatalf("expected %d minutes got %d", want, drive.DriveMinutes)
	}

	walk, _ := e.Estimate(a, b, ModeWalking)
	if walk.DriveMinutes <= drive.DriveMinutes {
		t.Fatalf("walking must be slower than driving")
	}
	transit, _ := e.Estimate(a, b, ModeTransit)
	if transit.DriveMinutes <= drive.DriveMinutes || transit.DriveMinutes >= walk.DriveMinutes {
		t.Fatalf("transit must sit between driving and walking")
	}
}

func TestEstimateProviderPreferred(t *testing.T) {
	p := &stubProvider{dist: 12.5, minutes: 22}
	e := NewEstimator(Config{}, p, nil)
	est, err := e.Estimate(model.Coordinate{Lat: 1}, model.Coordinate{Lat: 2}, ModeDriving)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.Source != SourceExact || est.DistanceMiles != 12.5 || est.DriveMinutes != 22 {
		t.Fatalf("provider estimate not used: %+v", est)
	}
}

func TestEstimateProviderErrorFallsBack(t *testing.T) {
	p := &stubProvider{err: errors.New("provider down")}
	e := NewEstimator(Config{}, p, nil)
	est, err := e.Estimate(model.Coordinate{Lat: 30, Lng: -97}, model.Coordinate{Lat: 30.1, Lng: -97.1}, ModeDriving)
	if err != nil {
		t.Fatalf("provider error must not propagate, got %v", err)
	}
	if est.Source != SourceEstimated {
		t.Fatalf("expected fallback source got %s", est.Source)
	}
	if est.DriveMinutes <= 0 {
		t.Fatalf("fallback must still produce a positive estimate")
	}
	if p.calls != 1 {
		t.Fatalf("provider should have been consulted once, got %d", p.calls)
	}
}

func TestEstimateInvalidCoordinate(t *testing.T) {
	e := NewEstimator(Config{}, nil, nil)
	_, err := e.Estimate(model.Coordinate{Lat: 91}, model.Coordinate{}, ModeDriving)
	if !errors.Is(err, model.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate got %v", err)
	}
	_, err = e.Estimate(model.Coordinate{}, model.Coordinate{Lng: -181}, ModeDriving)
	if !errors.Is(err, model.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate got %v", err)
	}
}

func TestTrafficFactorWindows(t *testing.T) {
	e := NewEstimator(Config{}, nil, nil)
	cases := []struct {
		hour int
		want float64
	}{
		{6, 1.0}, {7, 1.25}, {8, 1.25}, {9, 1.0},
		{15, 1.0}, {16, 1.35}, {17, 1.35}, {18, 1.0}, {23, 1.0},
	}
	for _, c := range cases {
		if got := e.TrafficFactor(c.hour); got != c.want {
			t.Errorf("hour %d: expected %.2f got %.2f", c.hour, c.want, got)
		}
	}
}

func TestEstimateAtAttachesFactor(t *testing.T) {
	e := NewEstimator(Config{}, nil, nil)
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	base, _ := e.Estimate(model.Coordinate{Lat: 30, Lng: -97}, model.Coordinate{Lat: 30.2, Lng: -97}, ModeDriving)
	est, err := e.EstimateAt(model.Coordinate{Lat: 30, Lng: -97}, model.Coordinate{Lat: 30.2, Lng: -97}, ModeDriving, at)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.TrafficFactor != 1.25 {
		t.Fatalf("expected morning factor got %.2f", est.TrafficFactor)
	}
	if est.DriveMinutes != base.DriveMinutes {
		t.Fatalf("traffic factor must not change the base minutes")
	}
}
