package observability

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestEventLog(t *testing.T) EventLog {
	t.Helper()
	log, err := NewJSONLEventLog(filepath.Join(t.TempDir(), "events.jsonl"))
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func writeEvents(t *testing.T, log EventLog, events ...Event) {
	t.Helper()
	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}
}

func TestMetrics_AggregatesKitAndTaskEvents(t *testing.T) {
	log := newTestEventLog(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	writeEvents(t, log,
		NewEvent(at(0), EventKitCreated, map[string]any{"kit_id": "k1"}),
		NewEvent(at(1), EventKitCreated, map[string]any{"kit_id": "k2"}),
		NewEvent(at(2), EventKitItemChanged, map[string]any{"kit_id": "k1", "item": "resume", "completed": true}),
		NewEvent(at(3), EventKitItemChanged, map[string]any{"kit_id": "k1", "item": "referral", "completed": true}),
		NewEvent(at(4), EventKitItemChanged, map[string]any{"kit_id": "k1", "item": "referral", "completed": false}),
		NewEvent(at(5), EventKitStatusChanged, map[string]any{"kit_id": "k1", "from": "saved", "to": "applied"}),
		NewEvent(at(6), EventKitStatusChanged, map[string]any{"kit_id": "k2", "from": "saved", "to": "archived"}),
		NewEvent(at(7), EventTaskCreated, map[string]any{"task_id": "t1", "source": "manual"}),
		NewEvent(at(8), EventTaskCreated, map[string]any{"task_id": "t2", "source": "suggested", "kit_id": "k1"}),
		NewEvent(at(9), EventTaskToggled, map[string]any{"task_id": "t1", "completed": true}),
		NewEvent(at(10), EventTaskToggled, map[string]any{"task_id": "t1", "completed": false}),
		NewEvent(at(11), EventBulkApplied, map[string]any{"action": "delete", "succeeded": []string{"k2"}, "failed": []string{"k9", "k8"}}),
		NewEvent(at(12), EventKitDeleted, map[string]any{"kit_id": "k2"}),
	)

	m, err := NewMetricsCalculator(log).Calculate(base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("calculating metrics: %v", err)
	}

	checks := []struct {
		name      string
		got, want int
	}{
		{"KitsCreated", m.KitsCreated, 2},
		{"KitsDeleted", m.KitsDeleted, 1},
		{"ItemsCompleted", m.ItemsCompleted, 2},
		{"ItemsReopened", m.ItemsReopened, 1},
		{"StatusChanges[applied]", m.StatusChanges["applied"], 1},
		{"StatusChanges[archived]", m.StatusChanges["archived"], 1},
		{"TasksCreated", m.TasksCreated, 2},
		{"TasksSuggested", m.TasksSuggested, 1},
		{"TasksCompleted", m.TasksCompleted, 1},
		{"BulkOperations", m.BulkOperations, 1},
		{"BulkFailures", m.BulkFailures, 2},
		{"EventCount", m.EventCount, 13},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	if m.OldestEvent == nil || !m.OldestEvent.Equal(at(0)) {
		t.Errorf("OldestEvent = %v, want %v", m.OldestEvent, at(0))
	}
	if m.NewestEvent == nil || !m.NewestEvent.Equal(at(12)) {
		t.Errorf("NewestEvent = %v, want %v", m.NewestEvent, at(12))
	}
}

func TestMetrics_SinceExcludesOlderEvents(t *testing.T) {
	log := newTestEventLog(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	writeEvents(t, log,
		NewEvent(base, EventKitCreated, map[string]any{"kit_id": "old"}),
		NewEvent(base.Add(48*time.Hour), EventKitCreated, map[string]any{"kit_id": "new"}),
	)

	m, err := NewMetricsCalculator(log).Calculate(base.Add(24 * time.Hour))
	if err != nil {
		t.Fatalf("calculating metrics: %v", err)
	}
	if m.KitsCreated != 1 {
		t.Errorf("KitsCreated = %d, want 1", m.KitsCreated)
	}
}

func TestMetrics_EmptyLog(t *testing.T) {
	m, err := NewMetricsCalculator(newTestEventLog(t)).Calculate(time.Time{})
	if err != nil {
		t.Fatalf("calculating metrics: %v", err)
	}
	if m.EventCount != 0 || m.OldestEvent != nil || m.NewestEvent != nil {
		t.Errorf("expected empty metrics, got %+v", m)
	}
	if m.StatusChanges == nil {
		t.Error("StatusChanges should be non-nil")
	}
}
