package auditlog

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fieldops/leadrouter/infra/audit"
)

// NewLogHandler returns an HTTP handler exposing decision logs via
// GET /api/audit/logs. Requests must include an Authorization header
// with "Bearer <token>" when token is non-empty.
func NewLogHandler(store audit.LogStore, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		q := audit.LogQuery{}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		q.LeadID = r.URL.Query().Get("lead_id")
		q.RepID = r.URL.Query().Get("rep_id")
		if k := r.URL.Query().Get("kind"); k != "" {
			if v, ok := kindFromString(k); ok {
				q.Kind = v
			}
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func kindFromString(s string) (audit.Kind, bool) {
	switch s {
	case "assignment":
		return audit.KindAssignment, true
	case "route":
		return audit.KindRoute, true
	case "coverage":
		return audit.KindCoverage, true
	case "reminder":
		return audit.KindReminder, true
	default:
		return "", false
	}
}
