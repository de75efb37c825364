// Package export renders computed routes for hand-off to external
// tools, either as JSON or as a flat CSV itinerary.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/fieldops/leadrouter/core/model"
)

// WriteJSON writes the route to w in JSON format.
func WriteJSON(w io.Writer, rt model.Route) error {
	enc := json.NewEncoder(w)
	return enc.Encode(rt)
}

// WriteCSV writes the route's stops to w, one row per stop.
func WriteCSV(w io.Writer, rt model.Route) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rep_id", "seq", "lead_id", "arrival", "departure", "drive_minutes"}); err != nil {
		return err
	}
	for i, stop := range rt.Stops {
		rec := []string{
			rt.RepID,
			strconv.Itoa(i + 1),
			stop.LeadID,
			stop.ArrivalEstimate.Format(time.RFC3339),
			stop.DepartureEstimate.Format(time.RFC3339),
			strconv.Itoa(stop.DriveMinutesFromPrevious),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
