package core

import (
	"sort"
	"strings"
	"sync"

	"github.com/valter-silva-au/jobkit/pkg/models"
)

// TaskSort selects the ordering of ListTasks.
type TaskSort string

const (
	// SortDefault puts incomplete tasks first, then orders by priority and
	// earliest due date, undated last.
	SortDefault TaskSort = "default"
	// SortDue orders by earliest due date (undated last), then priority.
	SortDue TaskSort = "due"
	// SortPriority orders by priority, then due date, ignoring completion.
	SortPriority TaskSort = "priority"
	// SortCreated keeps insertion order.
	SortCreated TaskSort = "created"
)

// TaskSorts lists the supported sort modes.
var TaskSorts = []TaskSort{SortDefault, SortDue, SortPriority, SortCreated}

// ParseTaskSort parses a sort mode. The empty string selects SortDefault.
func ParseTaskSort(s string) (TaskSort, error) {
	v := TaskSort(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return SortDefault, nil
	}
	for _, known := range TaskSorts {
		if v == known {
			return v, nil
		}
	}
	return "", validationf("parsing task sort", "unknown sort %q", s)
}

// TaskEngine owns the next-step tasks of one session. Tasks have no
// structural link to kits; KitID is informational only.
type TaskEngine interface {
	AddTask(req NewTaskRequest) (*models.NextStepTask, error)
	ToggleComplete(id string) (*models.NextStepTask, error)
	RemoveTask(id string) error
	GetTask(id string) (*models.NextStepTask, error)
	ListTasks(sortBy TaskSort) ([]*models.NextStepTask, error)
	Resolve(prefix string) (string, error)
	Restore(tasks []models.NextStepTask) error
	SuggestTasks(kits []*models.ApplicationKit) ([]*models.NextStepTask, error)
}

type taskEngine struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]*models.NextStepTask
	opts  storeOptions
}

// NewTaskEngine creates an empty TaskEngine.
func NewTaskEngine(opts ...StoreOption) TaskEngine {
	return &taskEngine{
		tasks: make(map[string]*models.NextStepTask),
		opts:  buildOptions(opts),
	}
}

func (e *taskEngine) AddTask(req NewTaskRequest) (*models.NextStepTask, error) {
	req.normalize()
	if err := validateRequest("adding task", &req); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneTask(e.insert(req)), nil
}

// insert stores a validated request. Callers hold e.mu.
func (e *taskEngine) insert(req NewTaskRequest) *models.NextStepTask {
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	task := &models.NextStepTask{
		ID:          e.opts.newID(),
		Description: req.Description,
		ActionLabel: req.ActionLabel,
		Priority:    priority,
		DueDate:     copyTime(req.DueDate),
		KitID:       req.KitID,
		Created:     e.opts.now(),
	}
	e.tasks[task.ID] = task
	e.order = append(e.order, task.ID)
	return task
}

func (e *taskEngine) ToggleComplete(id string) (*models.NextStepTask, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	task, ok := e.tasks[id]
	if !ok {
		return nil, notFound("toggling task", id)
	}
	task.Completed = !task.Completed
	return cloneTask(task), nil
}

func (e *taskEngine) RemoveTask(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.tasks[id]; !ok {
		return notFound("removing task", id)
	}
	delete(e.tasks, id)
	for i, tid := range e.order {
		if tid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

func (e *taskEngine) GetTask(id string) (*models.NextStepTask, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	task, ok := e.tasks[id]
	if !ok {
		return nil, notFound("getting task", id)
	}
	return cloneTask(task), nil
}

func (e *taskEngine) ListTasks(sortBy TaskSort) ([]*models.NextStepTask, error) {
	less, err := taskLess(sortBy)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	out := make([]*models.NextStepTask, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, cloneTask(e.tasks[id]))
	}
	e.mu.RUnlock()

	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out, nil
}

func (e *taskEngine) Resolve(prefix string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return resolvePrefix("resolving task", prefix, e.order)
}

// Restore replaces the engine contents with tasks, preserving their order.
func (e *taskEngine) Restore(tasks []models.NextStepTask) error {
	order := make([]string, 0, len(tasks))
	byID := make(map[string]*models.NextStepTask, len(tasks))
	for i := range tasks {
		task := cloneTask(&tasks[i])
		if task.ID == "" {
			return validationf("restoring tasks", "task at position %d has no id", i)
		}
		if _, dup := byID[task.ID]; dup {
			return validationf("restoring tasks", "duplicate task id %s", task.ID)
		}
		if strings.TrimSpace(task.Description) == "" {
			return validationf("restoring tasks", "task %s has an empty description", task.ID)
		}
		if task.Priority == "" {
			task.Priority = models.PriorityMedium
		}
		byID[task.ID] = task
		order = append(order, task.ID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = byID
	e.order = order
	return nil
}

// SuggestTasks seeds one task per pending item of every non-archived kit,
// skipping kit/action pairs that already have a task. It returns the tasks
// it added.
func (e *taskEngine) SuggestTasks(kits []*models.ApplicationKit) ([]*models.NextStepTask, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	existing := make(map[string]bool, len(e.tasks))
	for _, t := range e.tasks {
		if t.KitID != "" {
			existing[suggestionKey(t.KitID, t.ActionLabel)] = true
		}
	}

	added := make([]*models.NextStepTask, 0)
	for _, kit := range kits {
		if kit.Status == models.StatusArchived {
			continue
		}
		for _, item := range PendingItems(kit) {
			entry, ok := LookupItem(item)
			if !ok {
				continue
			}
			key := suggestionKey(kit.ID, entry.ActionLabel)
			if existing[key] {
				continue
			}
			existing[key] = true
			task := e.insert(NewTaskRequest{
				Description: suggestedTaskDescription(entry, kit),
				ActionLabel: entry.ActionLabel,
				Priority:    kit.Priority,
				DueDate:     kit.Deadline,
				KitID:       kit.ID,
			})
			added = append(added, cloneTask(task))
		}
	}
	return added, nil
}

func suggestionKey(kitID, actionLabel string) string {
	return kitID + "\x00" + strings.ToLower(actionLabel)
}

// taskLess returns the comparison for sortBy; nil keeps insertion order.
func taskLess(sortBy TaskSort) (func(a, b *models.NextStepTask) bool, error) {
	switch sortBy {
	case SortDefault, "":
		return func(a, b *models.NextStepTask) bool {
			if a.Completed != b.Completed {
				return !a.Completed
			}
			if pa, pb := priorityRank(a.Priority), priorityRank(b.Priority); pa != pb {
				return pa < pb
			}
			return dueBefore(a, b)
		}, nil
	case SortDue:
		return func(a, b *models.NextStepTask) bool {
			if dueBefore(a, b) {
				return true
			}
			if dueBefore(b, a) {
				return false
			}
			return priorityRank(a.Priority) < priorityRank(b.Priority)
		}, nil
	case SortPriority:
		return func(a, b *models.NextStepTask) bool {
			if pa, pb := priorityRank(a.Priority), priorityRank(b.Priority); pa != pb {
				return pa < pb
			}
			return dueBefore(a, b)
		}, nil
	case SortCreated:
		return nil, nil
	}
	return nil, validationf("listing tasks", "unknown sort %q", sortBy)
}

// dueBefore reports whether a is due strictly before b. Undated tasks sort
// after dated ones.
func dueBefore(a, b *models.NextStepTask) bool {
	switch {
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	default:
		return a.DueDate.Before(*b.DueDate)
	}
}

func cloneTask(t *models.NextStepTask) *models.NextStepTask {
	c := *t
	c.DueDate = copyTime(t.DueDate)
	return &c
}
