package roadmatrix

import (
	"fmt"
	"math"
)

// Response is the roadmatrix route payload. Distances come back in
// meters and durations in seconds.
type Response struct {
	Routes []struct {
		DistanceMeters  float64 `json:"distance_meters"`
		DurationSeconds float64 `json:"duration_seconds"`
		Summary         string  `json:"summary"`
	} `json:"routes"`
}

const metersPerMile = 1609.344

// Leg returns the first route converted to miles and whole minutes.
func (r *Response) Leg() (float64, int, error) {
	if len(r.Routes) == 0 {
		return 0, 0, fmt.Errorf("no routes in response")
	}
	best := r.Routes[0]
	miles := best.DistanceMeters / metersPerMile
	minutes := int(math.Ceil(best.DurationSeconds / 60))
	return miles, minutes, nil
}
