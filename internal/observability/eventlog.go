package observability

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event levels.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Event types emitted by the tracker.
const (
	EventKitCreated       = "kit.created"
	EventKitUpdated       = "kit.updated"
	EventKitItemChanged   = "kit.item_changed"
	EventKitStatusChanged = "kit.status_changed"
	EventKitDeleted       = "kit.deleted"
	EventBulkApplied      = "bulk.applied"
	EventTaskCreated      = "task.created"
	EventTaskToggled      = "task.toggled"
	EventTaskRemoved      = "task.removed"
)

var eventMessages = map[string]string{
	EventKitCreated:       "application kit created",
	EventKitUpdated:       "application kit updated",
	EventKitItemChanged:   "kit item changed",
	EventKitStatusChanged: "kit moved in pipeline",
	EventKitDeleted:       "application kit deleted",
	EventBulkApplied:      "bulk action applied",
	EventTaskCreated:      "next step created",
	EventTaskToggled:      "next step toggled",
	EventTaskRemoved:      "next step removed",
}

// Event represents a single observable event in the system.
type Event struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"` // INFO, WARN, ERROR
	Type    string         `json:"type"`  // e.g. "kit.created", "kit.status_changed"
	Message string         `json:"msg"`
	Data    map[string]any `json:"data,omitempty"`
}

// NewEvent builds an event of eventType stamped with t. Bulk actions with
// failures are logged at WARN.
func NewEvent(t time.Time, eventType string, data map[string]any) Event {
	msg, ok := eventMessages[eventType]
	if !ok {
		msg = eventType
	}
	level := LevelInfo
	if eventType == EventBulkApplied {
		if failed, ok := data["failed"].([]string); ok && len(failed) > 0 {
			level = LevelWarn
		}
	}
	return Event{Time: t.UTC(), Level: level, Type: eventType, Message: msg, Data: data}
}

// EventFilter specifies criteria for reading events.
type EventFilter struct {
	Since *time.Time
	Until *time.Time
	Type  string
	Level string
	KitID string
}

// EventLog defines the interface for writing and reading events.
type EventLog interface {
	Write(event Event) error
	Read(filter EventFilter) ([]Event, error)
	Close() error
}

// jsonlEventLog implements EventLog using append-only JSONL files.
type jsonlEventLog struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// NewJSONLEventLog creates a new EventLog backed by a JSONL file at the given path.
func NewJSONLEventLog(path string) (EventLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating event log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return &jsonlEventLog{
		path: path,
		file: f,
	}, nil
}

// Write appends a JSON-encoded event followed by a newline to the log file.
func (l *jsonlEventLog) Write(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	data = append(data, '\n')

	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return nil
}

// Read scans the log line by line and returns the events matching filter in
// the order they were written. Malformed lines are skipped.
func (l *jsonlEventLog) Read(filter EventFilter) ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening event log for reading: %w", err)
	}
	defer func() { _ = f.Close() }()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue
		}

		if matchesEventFilter(event, filter) {
			events = append(events, event)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning event log: %w", err)
	}

	return events, nil
}

// Close closes the underlying log file.
func (l *jsonlEventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("closing event log: %w", err)
	}
	return nil
}

// matchesEventFilter checks whether an event satisfies all filter criteria.
func matchesEventFilter(event Event, filter EventFilter) bool {
	if filter.Since != nil && event.Time.Before(*filter.Since) {
		return false
	}
	if filter.Until != nil && event.Time.After(*filter.Until) {
		return false
	}
	if filter.Type != "" && event.Type != filter.Type {
		return false
	}
	if filter.Level != "" && event.Level != filter.Level {
		return false
	}
	if filter.KitID != "" {
		if id, _ := event.Data["kit_id"].(string); id != filter.KitID {
			return false
		}
	}
	return true
}
