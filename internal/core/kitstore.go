package core

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

// KitStore owns every ApplicationKit of one session. Kits handed out are
// copies; callers mutate state only through the store.
type KitStore interface {
	Create(req CreateKitRequest) (*models.ApplicationKit, error)
	Update(id string, patch KitPatch) (*models.ApplicationKit, error)
	SetItem(id string, item models.KitItemType, completed bool) (*models.ApplicationKit, error)
	Transition(id string, to models.KitStatus) (*models.ApplicationKit, error)
	Delete(id string) error
	Get(id string) (*models.ApplicationKit, error)
	List() []*models.ApplicationKit
	Resolve(prefix string) (string, error)
	Restore(kits []models.ApplicationKit) error
}

// StoreOption configures a KitStore or TaskEngine.
type StoreOption func(*storeOptions)

type storeOptions struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) { o.now = now }
}

// WithIDGenerator overrides the id source (uuid by default).
func WithIDGenerator(newID func() string) StoreOption {
	return func(o *storeOptions) { o.newID = newID }
}

func buildOptions(opts []StoreOption) storeOptions {
	o := storeOptions{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type memoryKitStore struct {
	mu    sync.RWMutex
	order []string
	kits  map[string]*models.ApplicationKit
	opts  storeOptions
}

// NewKitStore creates an empty in-memory KitStore.
func NewKitStore(opts ...StoreOption) KitStore {
	return &memoryKitStore{
		kits: make(map[string]*models.ApplicationKit),
		opts: buildOptions(opts),
	}
}

func (s *memoryKitStore) Create(req CreateKitRequest) (*models.ApplicationKit, error) {
	req.normalize()
	if err := validateRequest("creating kit", &req); err != nil {
		return nil, err
	}
	items, err := pendingItemsFor(req.Items)
	if err != nil {
		return nil, err
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := s.opts.now()
	kit := &models.ApplicationKit{
		ID:          s.opts.newID(),
		Company:     req.Company,
		Position:    req.Position,
		Location:    req.Location,
		SkillMatch:  req.SkillMatch,
		Status:      models.StatusSaved,
		Items:       items,
		Priority:    priority,
		Deadline:    copyTime(req.Deadline),
		JobURL:      req.JobURL,
		Notes:       req.Notes,
		Created:     now,
		LastUpdated: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.kits[kit.ID]; exists {
		return nil, validationf("creating kit", "id %s already exists", kit.ID)
	}
	s.kits[kit.ID] = kit
	s.order = append(s.order, kit.ID)
	return cloneKit(kit), nil
}

// Update applies patch to a copy and commits it only if every field is valid.
func (s *memoryKitStore) Update(id string, patch KitPatch) (*models.ApplicationKit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.kits[id]
	if !ok {
		return nil, notFound("updating kit", id)
	}
	next := cloneKit(cur)
	if err := applyPatch(next, patch, s.opts.now); err != nil {
		return nil, err
	}
	next.LastUpdated = s.opts.now()
	s.kits[id] = next
	return cloneKit(next), nil
}

func (s *memoryKitStore) SetItem(id string, item models.KitItemType, completed bool) (*models.ApplicationKit, error) {
	return s.Update(id, KitPatch{Items: map[models.KitItemType]bool{item: completed}})
}

func (s *memoryKitStore) Transition(id string, to models.KitStatus) (*models.ApplicationKit, error) {
	return s.Update(id, KitPatch{Status: &to})
}

func (s *memoryKitStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.kits[id]; !ok {
		return notFound("deleting kit", id)
	}
	delete(s.kits, id)
	for i, kid := range s.order {
		if kid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memoryKitStore) Get(id string) (*models.ApplicationKit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kit, ok := s.kits[id]
	if !ok {
		return nil, notFound("getting kit", id)
	}
	return cloneKit(kit), nil
}

// List returns copies of all kits in insertion order.
func (s *memoryKitStore) List() []*models.ApplicationKit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ApplicationKit, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneKit(s.kits[id]))
	}
	return out
}

// Resolve expands a unique id prefix to the full kit id.
func (s *memoryKitStore) Resolve(prefix string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return resolvePrefix("resolving kit", prefix, s.order)
}

// Restore replaces the store contents with kits, preserving their order.
// Items are normalized; unknown statuses or item types are rejected.
func (s *memoryKitStore) Restore(kits []models.ApplicationKit) error {
	order := make([]string, 0, len(kits))
	byID := make(map[string]*models.ApplicationKit, len(kits))
	for i := range kits {
		kit := cloneKit(&kits[i])
		if kit.ID == "" {
			return validationf("restoring kits", "kit at position %d has no id", i)
		}
		if _, dup := byID[kit.ID]; dup {
			return validationf("restoring kits", "duplicate kit id %s", kit.ID)
		}
		if !IsValidStatus(kit.Status) {
			return validationf("restoring kits", "kit %s has unknown status %q", kit.ID, kit.Status)
		}
		items, err := normalizeItems(kit.Items)
		if err != nil {
			return validationf("restoring kits", "kit %s: %v", kit.ID, err)
		}
		kit.Items = items
		if kit.Priority == "" {
			kit.Priority = models.PriorityMedium
		}
		byID[kit.ID] = kit
		order = append(order, kit.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.kits = byID
	s.order = order
	return nil
}

func applyPatch(kit *models.ApplicationKit, p KitPatch, now func() time.Time) error {
	const op = "updating kit"
	if p.Company != nil {
		v := strings.TrimSpace(*p.Company)
		if v == "" {
			return &KitError{Kind: ErrValidation, Op: op, ID: kit.ID, Msg: "company must not be empty"}
		}
		kit.Company = v
	}
	if p.Position != nil {
		v := strings.TrimSpace(*p.Position)
		if v == "" {
			return &KitError{Kind: ErrValidation, Op: op, ID: kit.ID, Msg: "position must not be empty"}
		}
		kit.Position = v
	}
	if p.Location != nil {
		kit.Location = strings.TrimSpace(*p.Location)
	}
	if p.SkillMatch != nil {
		if *p.SkillMatch < 0 || *p.SkillMatch > 100 {
			return &KitError{Kind: ErrValidation, Op: op, ID: kit.ID, Msg: "skill_match must be between 0 and 100"}
		}
		kit.SkillMatch = *p.SkillMatch
	}
	if p.Priority != nil {
		pr, err := ParsePriority(string(*p.Priority))
		if err != nil {
			return err
		}
		kit.Priority = pr
	}
	if p.ClearDeadline {
		kit.Deadline = nil
	} else if p.Deadline != nil {
		kit.Deadline = copyTime(p.Deadline)
	}
	if p.JobURL != nil {
		kit.JobURL = strings.TrimSpace(*p.JobURL)
	}
	if p.Notes != nil {
		kit.Notes = *p.Notes
	}
	for item, completed := range p.Items {
		idx := -1
		for i, it := range kit.Items {
			if it.Type == item {
				idx = i
				break
			}
		}
		if idx < 0 {
			return &KitError{Kind: ErrValidation, Op: op, ID: kit.ID, Msg: "kit does not track item " + string(item)}
		}
		kit.Items[idx].Completed = completed
	}
	if p.Status != nil {
		if err := Transition(kit, *p.Status, now); err != nil {
			return err
		}
	}
	return nil
}

func resolvePrefix(op, prefix string, ids []string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", validationf(op, "id must not be empty")
	}
	var match string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", &KitError{Kind: ErrAmbiguousID, Op: op, ID: prefix}
			}
			match = id
		}
	}
	if match == "" {
		return "", notFound(op, prefix)
	}
	return match, nil
}

func cloneKit(k *models.ApplicationKit) *models.ApplicationKit {
	c := *k
	c.Items = append([]models.KitItem(nil), k.Items...)
	c.Deadline = copyTime(k.Deadline)
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
