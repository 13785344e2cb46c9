package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/valter-silva-au/jobkit/pkg/models"
)

// Tracker is the entry point the presentation layers use. It serializes
// mutations, persists a snapshot after each one and emits events.
type Tracker interface {
	Load() error

	ListKits(tab models.KitStatus, query string) []*models.ApplicationKit
	AllKits() []*models.ApplicationKit
	GetKit(id string) (*models.ApplicationKit, error)
	CreateKit(req CreateKitRequest) (*models.ApplicationKit, error)
	UpdateKit(id string, patch KitPatch) (*models.ApplicationKit, error)
	UpdateKitItems(id string, item models.KitItemType, completed bool) (*models.ApplicationKit, error)
	TransitionStatus(id string, to models.KitStatus) (*models.ApplicationKit, error)
	DeleteKit(id string) error
	ResolveKitID(prefix string) (string, error)
	BulkApply(action BulkAction, ids []string) (BulkResult, error)
	BulkApplySelection(action BulkAction, sel *Selection) (BulkResult, error)
	StatusCounts() map[models.KitStatus]int

	ListTasks(sortBy TaskSort) ([]*models.NextStepTask, error)
	AddTask(req NewTaskRequest) (*models.NextStepTask, error)
	ToggleTask(id string) (*models.NextStepTask, error)
	RemoveTask(id string) error
	ResolveTaskID(prefix string) (string, error)
	SuggestTasks() ([]*models.NextStepTask, error)
	RunTaskAction(id string) (Workflow, error)

	GetStats() StatsSnapshot
	Profile() models.UserProfile
}

// TrackerDeps collects the collaborators of a Tracker. Only Kits and Tasks
// are required; missing ones are created empty.
type TrackerDeps struct {
	Kits      KitStore
	Tasks     TaskEngine
	State     StateStore
	Events    EventLogger
	Navigator Navigator
	Routes    *RouteTable
	Profile   ProfileProvider
	Now       func() time.Time
}

type tracker struct {
	mu   sync.Mutex
	deps TrackerDeps
	bulk *BulkProcessor
}

// NewTracker creates a Tracker over deps.
func NewTracker(deps TrackerDeps) Tracker {
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Kits == nil {
		deps.Kits = NewKitStore(WithClock(deps.Now))
	}
	if deps.Tasks == nil {
		deps.Tasks = NewTaskEngine(WithClock(deps.Now))
	}
	return &tracker{deps: deps, bulk: NewBulkProcessor(deps.Kits)}
}

// Load restores kits and tasks from the state store. A missing store is a
// no-op.
func (t *tracker) Load() error {
	if t.deps.State == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	snap, err := t.deps.State.Load()
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	if snap == nil {
		return nil
	}
	if err := t.deps.Kits.Restore(snap.Kits); err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	if err := t.deps.Tasks.Restore(snap.Tasks); err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	return nil
}

func (t *tracker) ListKits(tab models.KitStatus, query string) []*models.ApplicationKit {
	return FilterKits(t.deps.Kits.List(), tab, query)
}

func (t *tracker) AllKits() []*models.ApplicationKit {
	return t.deps.Kits.List()
}

func (t *tracker) GetKit(id string) (*models.ApplicationKit, error) {
	return t.deps.Kits.Get(id)
}

func (t *tracker) CreateKit(req CreateKitRequest) (*models.ApplicationKit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kit, err := t.deps.Kits.Create(req)
	if err != nil {
		return nil, err
	}
	t.logEvent("kit.created", map[string]any{
		"kit_id":   kit.ID,
		"company":  kit.Company,
		"position": kit.Position,
		"status":   string(kit.Status),
	})
	if err := t.persist(); err != nil {
		return nil, err
	}
	return kit, nil
}

func (t *tracker) UpdateKit(id string, patch KitPatch) (*models.ApplicationKit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	before, err := t.deps.Kits.Get(id)
	if err != nil {
		return nil, err
	}
	kit, err := t.deps.Kits.Update(id, patch)
	if err != nil {
		return nil, err
	}
	t.logEvent("kit.updated", map[string]any{"kit_id": id, "progress": ComputeProgress(kit)})
	t.logItemChanges(before, kit)
	if before.Status != kit.Status {
		t.logStatusChange(before.Status, kit)
	}
	if err := t.persist(); err != nil {
		return nil, err
	}
	return kit, nil
}

func (t *tracker) UpdateKitItems(id string, item models.KitItemType, completed bool) (*models.ApplicationKit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	before, err := t.deps.Kits.Get(id)
	if err != nil {
		return nil, err
	}
	kit, err := t.deps.Kits.SetItem(id, item, completed)
	if err != nil {
		return nil, err
	}
	t.logItemChanges(before, kit)
	if err := t.persist(); err != nil {
		return nil, err
	}
	return kit, nil
}

func (t *tracker) TransitionStatus(id string, to models.KitStatus) (*models.ApplicationKit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	before, err := t.deps.Kits.Get(id)
	if err != nil {
		return nil, err
	}
	kit, err := t.deps.Kits.Transition(id, to)
	if err != nil {
		return nil, err
	}
	t.logStatusChange(before.Status, kit)
	if err := t.persist(); err != nil {
		return nil, err
	}
	return kit, nil
}

func (t *tracker) DeleteKit(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.deps.Kits.Delete(id); err != nil {
		return err
	}
	t.logEvent("kit.deleted", map[string]any{"kit_id": id})
	return t.persist()
}

func (t *tracker) ResolveKitID(prefix string) (string, error) {
	return t.deps.Kits.Resolve(prefix)
}

// BulkApply runs action over ids and persists once after the whole batch.
func (t *tracker) BulkApply(action BulkAction, ids []string) (BulkResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	result, err := t.bulk.Apply(action, ids)
	if err != nil {
		return result, err
	}
	return result, t.afterBulk(result)
}

func (t *tracker) BulkApplySelection(action BulkAction, sel *Selection) (BulkResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	result, err := t.bulk.ApplySelection(action, sel)
	if err != nil {
		return result, err
	}
	return result, t.afterBulk(result)
}

func (t *tracker) afterBulk(result BulkResult) error {
	t.logEvent("bulk.applied", map[string]any{
		"action":    string(result.Action),
		"succeeded": result.Succeeded,
		"failed":    result.FailedIDs(),
	})
	if len(result.Succeeded) == 0 {
		return nil
	}
	return t.persist()
}

func (t *tracker) StatusCounts() map[models.KitStatus]int {
	return StatusCounts(t.deps.Kits.List())
}

func (t *tracker) ListTasks(sortBy TaskSort) ([]*models.NextStepTask, error) {
	return t.deps.Tasks.ListTasks(sortBy)
}

func (t *tracker) AddTask(req NewTaskRequest) (*models.NextStepTask, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, err := t.deps.Tasks.AddTask(req)
	if err != nil {
		return nil, err
	}
	t.logTaskCreated(task, "manual")
	if err := t.persist(); err != nil {
		return nil, err
	}
	return task, nil
}

func (t *tracker) ToggleTask(id string) (*models.NextStepTask, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, err := t.deps.Tasks.ToggleComplete(id)
	if err != nil {
		return nil, err
	}
	t.logEvent("task.toggled", map[string]any{"task_id": id, "completed": task.Completed})
	if err := t.persist(); err != nil {
		return nil, err
	}
	return task, nil
}

func (t *tracker) RemoveTask(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.deps.Tasks.RemoveTask(id); err != nil {
		return err
	}
	t.logEvent("task.removed", map[string]any{"task_id": id})
	return t.persist()
}

func (t *tracker) ResolveTaskID(prefix string) (string, error) {
	return t.deps.Tasks.Resolve(prefix)
}

func (t *tracker) SuggestTasks() ([]*models.NextStepTask, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	added, err := t.deps.Tasks.SuggestTasks(t.deps.Kits.List())
	if err != nil {
		return nil, err
	}
	for _, task := range added {
		t.logTaskCreated(task, "suggested")
	}
	if len(added) == 0 {
		return added, nil
	}
	if err := t.persist(); err != nil {
		return nil, err
	}
	return added, nil
}

// RunTaskAction hands the task's action label to the navigator and returns
// the workflow it routes to. It does not wait for the workflow.
func (t *tracker) RunTaskAction(id string) (Workflow, error) {
	task, err := t.deps.Tasks.GetTask(id)
	if err != nil {
		return WorkflowNone, err
	}
	if task.ActionLabel == "" {
		return WorkflowNone, validationf("running task action", "task %s has no action", id)
	}
	wf := t.deps.Routes.Resolve(task.ActionLabel)
	if t.deps.Navigator != nil {
		if err := t.deps.Navigator.Navigate(task.ActionLabel, wf); err != nil {
			return wf, fmt.Errorf("navigating to %q: %w", task.ActionLabel, err)
		}
	}
	return wf, nil
}

func (t *tracker) GetStats() StatsSnapshot {
	tasks, _ := t.deps.Tasks.ListTasks(SortCreated)
	return ComputeStats(t.deps.Kits.List(), tasks, t.deps.Now())
}

func (t *tracker) Profile() models.UserProfile {
	if t.deps.Profile == nil {
		return models.UserProfile{}
	}
	return t.deps.Profile.Profile()
}

// persist saves the current state. Callers hold t.mu.
func (t *tracker) persist() error {
	if t.deps.State == nil {
		return nil
	}
	snap := &Snapshot{
		Kits:  make([]models.ApplicationKit, 0),
		Tasks: make([]models.NextStepTask, 0),
	}
	for _, kit := range t.deps.Kits.List() {
		snap.Kits = append(snap.Kits, *kit)
	}
	tasks, err := t.deps.Tasks.ListTasks(SortCreated)
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	for _, task := range tasks {
		snap.Tasks = append(snap.Tasks, *task)
	}
	if err := t.deps.State.Save(snap); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

func (t *tracker) logItemChanges(before, after *models.ApplicationKit) {
	prev := make(map[models.KitItemType]bool, len(before.Items))
	for _, it := range before.Items {
		prev[it.Type] = it.Completed
	}
	for _, it := range after.Items {
		if was, ok := prev[it.Type]; ok && was == it.Completed {
			continue
		}
		t.logEvent("kit.item_changed", map[string]any{
			"kit_id":    after.ID,
			"item":      string(it.Type),
			"completed": it.Completed,
			"progress":  ComputeProgress(after),
		})
	}
}

func (t *tracker) logStatusChange(from models.KitStatus, kit *models.ApplicationKit) {
	t.logEvent("kit.status_changed", map[string]any{
		"kit_id": kit.ID,
		"from":   string(from),
		"to":     string(kit.Status),
	})
}

func (t *tracker) logTaskCreated(task *models.NextStepTask, source string) {
	data := map[string]any{
		"task_id":  task.ID,
		"priority": string(task.Priority),
		"source":   source,
	}
	if task.KitID != "" {
		data["kit_id"] = task.KitID
	}
	t.logEvent("task.created", data)
}

// logEvent emits an event if an EventLogger is configured.
func (t *tracker) logEvent(eventType string, data map[string]any) {
	if t.deps.Events != nil {
		_ = t.deps.Events.LogEvent(eventType, data)
	}
}
