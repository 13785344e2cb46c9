package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/valter-silva-au/jobkit/pkg/models"
)

// fixedClock returns a clock starting at start that advances one second per
// call, so LastUpdated changes are observable.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

// seqIDs returns an id generator producing prefix-0001, prefix-0002, ...
func seqIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%04d", prefix, n)
	}
}

var testStart = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestStore() KitStore {
	return NewKitStore(WithClock(fixedClock(testStart)), WithIDGenerator(seqIDs("kit")))
}

func newTestEngine() TaskEngine {
	return NewTaskEngine(WithClock(fixedClock(testStart)), WithIDGenerator(seqIDs("task")))
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

type fakeEvent struct {
	eventType string
	data      map[string]any
}

type fakeEventLogger struct {
	mu     sync.Mutex
	events []fakeEvent
}

func (l *fakeEventLogger) LogEvent(eventType string, data map[string]any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, fakeEvent{eventType: eventType, data: data})
	return nil
}

func (l *fakeEventLogger) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	for i, e := range l.events {
		out[i] = e.eventType
	}
	return out
}

type memStateStore struct {
	snap    *Snapshot
	saves   int
	saveErr error
}

func (s *memStateStore) Load() (*Snapshot, error) { return s.snap, nil }

func (s *memStateStore) Save(snap *Snapshot) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.snap = snap
	return nil
}

type recordingNavigator struct {
	labels    []string
	workflows []Workflow
}

func (n *recordingNavigator) Navigate(actionLabel string, wf Workflow) error {
	n.labels = append(n.labels, actionLabel)
	n.workflows = append(n.workflows, wf)
	return nil
}

func kitWithItems(done ...bool) *models.ApplicationKit {
	kit := &models.ApplicationKit{ID: "k", Status: models.StatusSaved}
	for i, d := range done {
		kit.Items = append(kit.Items, models.KitItem{Type: CatalogTypes()[i%len(catalog)], Completed: d})
	}
	return kit
}
