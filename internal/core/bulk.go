package core

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/jobkit/pkg/models"
)

// BulkAction is a batch operation over selected kits.
type BulkAction string

const (
	BulkArchive BulkAction = "archive"
	BulkDelete  BulkAction = "delete"
)

// ParseBulkAction parses archive or delete.
func ParseBulkAction(s string) (BulkAction, error) {
	switch a := BulkAction(strings.ToLower(strings.TrimSpace(s))); a {
	case BulkArchive, BulkDelete:
		return a, nil
	}
	return "", validationf("parsing bulk action", "unknown action %q, must be archive or delete", s)
}

// BulkFailure records why one id of a batch failed.
type BulkFailure struct {
	ID  string
	Err error
}

// BulkResult partitions the ids of a batch. It is built only after every
// item has been attempted.
type BulkResult struct {
	Action    BulkAction
	Succeeded []string
	Failed    []BulkFailure
}

// FailedIDs returns the ids that failed, in attempt order.
func (r BulkResult) FailedIDs() []string {
	ids := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		ids[i] = f.ID
	}
	return ids
}

// BulkProcessor applies batch actions to a KitStore.
type BulkProcessor struct {
	store KitStore
}

// NewBulkProcessor creates a BulkProcessor over store.
func NewBulkProcessor(store KitStore) *BulkProcessor {
	return &BulkProcessor{store: store}
}

// Apply runs action on every id. A failing id is recorded and skipped; the
// remaining ids still run. Duplicate ids are attempted once.
func (p *BulkProcessor) Apply(action BulkAction, ids []string) (BulkResult, error) {
	if action != BulkArchive && action != BulkDelete {
		return BulkResult{}, validationf("applying bulk action", "unknown action %q", action)
	}
	result := BulkResult{Action: action, Succeeded: []string{}, Failed: []BulkFailure{}}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := p.applyOne(action, id); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}

// ApplySelection runs action over the selected ids and clears sel afterwards,
// whatever the outcome.
func (p *BulkProcessor) ApplySelection(action BulkAction, sel *Selection) (BulkResult, error) {
	defer sel.ClearAll()
	return p.Apply(action, sel.IDs())
}

func (p *BulkProcessor) applyOne(action BulkAction, id string) error {
	switch action {
	case BulkArchive:
		_, err := p.store.Transition(id, models.StatusArchived)
		return err
	case BulkDelete:
		return p.store.Delete(id)
	default:
		return fmt.Errorf("unsupported bulk action %q", action)
	}
}
