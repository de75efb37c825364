// Package convkpi rebuilds conversion KPI aggregates from the decision
// audit log, for bootstrapping a fresh KPI database or repairing one
// after downtime.
package convkpi

import (
	"github.com/fieldops/leadrouter/core/metrics/conv"
	"github.com/fieldops/leadrouter/core/model"
	"github.com/fieldops/leadrouter/infra/audit"
)

// Backfill replays audit history into the store. Assignment records
// count toward Assigned; reminder transitions into SHOWED or NO_SHOW
// count toward the outcome totals. Other record kinds are skipped.
func Backfill(store conv.Store, history []audit.LogRecord) error {
	for _, h := range history {
		rec := conv.Record{RepID: h.RepID, Date: conv.Day(h.Timestamp)}
		switch h.Kind {
		case audit.KindAssignment:
			if h.Assignment == nil {
				continue
			}
			rec.Assigned = 1
		case audit.KindReminder:
			if h.Reminder == nil {
				continue
			}
			switch h.Reminder.To {
			case model.StateShowed:
				rec.Showed = 1
			case model.StateNoShow:
				rec.NoShows = 1
			default:
				continue
			}
		default:
			continue
		}
		if rec.RepID == "" {
			continue
		}
		if err := store.Add(rec); err != nil {
			return err
		}
	}
	return nil
}
