package reps

import (
	"encoding/json"
	"net/http"

	"github.com/fieldops/leadrouter/core/prediction"
	"github.com/fieldops/leadrouter/core/repstatus"
)

// NewStatusHandler returns an HTTP handler exposing rep status data via
// GET /api/reps/status. When a predictor is supplied each entry carries
// the rep's forecast show rate.
func NewStatusHandler(store repstatus.Store, pred prediction.Predictor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		f := repstatus.Filter{
			Region: r.URL.Query().Get("region"),
			Team:   r.URL.Query().Get("team"),
		}
		entries := store.List(f)
		if pred != nil {
			for i := range entries {
				entries[i].ShowRate = pred.ShowRate(entries[i].RepID)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
