package observability

import (
	"fmt"
	"testing"
	"time"

	"github.com/valter-silva-au/jobkit/pkg/models"
	"pgregory.net/rapid"
)

// Feature: jobkit, Property 8: Overdue Alerts Match Deadlines
// For any set of kits, the AlertEngine SHALL raise exactly one kit_overdue
// alert per non-archived kit whose deadline day is before today, and none
// for any other kit.
func TestProperty_OverdueAlertsMatchDeadlines(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 15).Draw(rt, "numKits")
		var kits []*models.ApplicationKit
		want := map[string]bool{}
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("kit-%d", i)
			status := rapid.SampledFrom(models.AllStatuses).Draw(rt, fmt.Sprintf("status_%d", i))
			kit := &models.ApplicationKit{ID: id, Status: status, LastUpdated: alertNow}
			if rapid.Bool().Draw(rt, fmt.Sprintf("hasDeadline_%d", i)) {
				offset := rapid.IntRange(-10, 10).Draw(rt, fmt.Sprintf("offset_%d", i))
				d := time.Date(2026, 3, 10+offset, 23, 0, 0, 0, time.UTC)
				kit.Deadline = &d
				if offset < 0 && status != models.StatusArchived {
					want["overdue-kit-"+id] = true
				}
			}
			kits = append(kits, kit)
		}

		alerts := NewAlertEngine(AlertThresholds{}, fixedNow).Evaluate(kits, nil)

		got := map[string]bool{}
		for _, a := range alerts {
			if a.Condition != "kit_overdue" {
				rt.Fatalf("unexpected condition %s with thresholds disabled", a.Condition)
			}
			if got[a.ID] {
				rt.Fatalf("duplicate alert %s", a.ID)
			}
			got[a.ID] = true
		}
		if len(got) != len(want) {
			rt.Fatalf("got %d overdue alerts, want %d", len(got), len(want))
		}
		for id := range want {
			if !got[id] {
				rt.Fatalf("missing alert %s", id)
			}
		}
	})
}
