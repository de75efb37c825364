package reps

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fieldops/leadrouter/core/metrics/conv"
)

// NewKPIHandler exposes conversion KPIs via GET /api/reps/{id}/kpis.
func NewKPIHandler(store conv.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		path := strings.TrimPrefix(r.URL.Path, "/api/reps/")
		parts := strings.Split(path, "/")
		if len(parts) < 2 || parts[1] != "kpis" {
			http.NotFound(w, r)
			return
		}
		id := parts[0]
		start, _ := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
		end, _ := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
		if end.IsZero() {
			end = time.Now()
		}
		recs, err := store.Query(id, start, end)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		type out struct {
			Date           string  `json:"date"`
			Assigned       int     `json:"assigned"`
			Showed         int     `json:"showed"`
			NoShows        int     `json:"no_shows"`
			ShowRate       float64 `json:"show_rate"`
			ConversionRate float64 `json:"conversion_rate"`
		}
		outSlice := make([]out, len(recs))
		for i, rec := range recs {
			outSlice[i] = out{
				Date:           rec.Date.Format("2006-01-02"),
				Assigned:       rec.Assigned,
				Showed:         rec.Showed,
				NoShows:        rec.NoShows,
				ShowRate:       rec.ShowRate(),
				ConversionRate: rec.ConversionRate(),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(outSlice)
	})
}
