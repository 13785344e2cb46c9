package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	KitsCreated    int            `json:"kits_created"`
	KitsDeleted    int            `json:"kits_deleted"`
	StatusChanges  map[string]int `json:"status_changes"`
	ItemsCompleted int            `json:"items_completed"`
	ItemsReopened  int            `json:"items_reopened"`
	TasksCreated   int            `json:"tasks_created"`
	TasksSuggested int            `json:"tasks_suggested"`
	TasksCompleted int            `json:"tasks_completed"`
	BulkOperations int            `json:"bulk_operations"`
	BulkFailures   int            `json:"bulk_failures"`
	EventCount     int            `json:"event_count"`
	OldestEvent    *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent    *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into
// metrics. StatusChanges is keyed by the target status.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		StatusChanges: make(map[string]int),
	}

	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case EventKitCreated:
			m.KitsCreated++
		case EventKitDeleted:
			m.KitsDeleted++
		case EventKitStatusChanged:
			if to, ok := event.Data["to"].(string); ok {
				m.StatusChanges[to]++
			}
		case EventKitItemChanged:
			if done, ok := event.Data["completed"].(bool); ok {
				if done {
					m.ItemsCompleted++
				} else {
					m.ItemsReopened++
				}
			}
		case EventTaskCreated:
			m.TasksCreated++
			if source, _ := event.Data["source"].(string); source == "suggested" {
				m.TasksSuggested++
			}
		case EventTaskToggled:
			if done, _ := event.Data["completed"].(bool); done {
				m.TasksCompleted++
			}
		case EventBulkApplied:
			m.BulkOperations++
			// Decoded from JSON, so the id list is []any.
			if failed, ok := event.Data["failed"].([]any); ok {
				m.BulkFailures += len(failed)
			}
		}
	}

	return m, nil
}
