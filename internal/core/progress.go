package core

import (
	"time"

	"github.com/valter-silva-au/jobkit/pkg/models"
)

// ComputeProgress returns round-half-up(100 * completed / total) over the
// kit's items. A kit with no items is vacuously complete and returns 100.
func ComputeProgress(kit *models.ApplicationKit) int {
	total := len(kit.Items)
	if total == 0 {
		return 100
	}
	done := 0
	for _, it := range kit.Items {
		if it.Completed {
			done++
		}
	}
	return (200*done + total) / (2 * total)
}

// CompletedItems returns the completed item types in catalog order.
func CompletedItems(kit *models.ApplicationKit) []models.KitItemType {
	return itemsWhere(kit, true)
}

// PendingItems returns the pending item types in catalog order.
func PendingItems(kit *models.ApplicationKit) []models.KitItemType {
	return itemsWhere(kit, false)
}

func itemsWhere(kit *models.ApplicationKit, completed bool) []models.KitItemType {
	out := make([]models.KitItemType, 0, len(kit.Items))
	for _, it := range kit.Items {
		if it.Completed == completed {
			out = append(out, it.Type)
		}
	}
	return out
}

// IsOverdue reports whether the kit's deadline day is strictly before the day
// of now. Archived kits are never overdue.
func IsOverdue(kit *models.ApplicationKit, now time.Time) bool {
	if kit.Deadline == nil || kit.Status == models.StatusArchived {
		return false
	}
	return dateBefore(*kit.Deadline, now)
}

// IsTaskOverdue reports whether an open task's due day is before the day of now.
func IsTaskOverdue(task *models.NextStepTask, now time.Time) bool {
	if task.DueDate == nil || task.Completed {
		return false
	}
	return dateBefore(*task.DueDate, now)
}

// dateBefore compares calendar days in now's location.
func dateBefore(d, now time.Time) bool {
	loc := now.Location()
	dy, dm, dd := d.In(loc).Date()
	ny, nm, nd := now.Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, loc).Before(time.Date(ny, nm, nd, 0, 0, 0, 0, loc))
}

// normalizeItems returns items in catalog order with duplicates removed.
// A duplicated type is completed if any of its copies is.
func normalizeItems(items []models.KitItem) ([]models.KitItem, error) {
	completed := make(map[models.KitItemType]bool, len(items))
	for _, it := range items {
		if catalogIndex(it.Type) < 0 {
			return nil, validationf("normalizing items", "unknown item type %q", it.Type)
		}
		completed[it.Type] = completed[it.Type] || it.Completed
	}
	out := make([]models.KitItem, 0, len(completed))
	for _, t := range CatalogTypes() {
		if done, ok := completed[t]; ok {
			out = append(out, models.KitItem{Type: t, Completed: done})
		}
	}
	return out, nil
}

// pendingItemsFor builds an all-pending item list. A nil selection means the
// full catalog.
func pendingItemsFor(types []models.KitItemType) ([]models.KitItem, error) {
	if types == nil {
		types = CatalogTypes()
	}
	items := make([]models.KitItem, 0, len(types))
	for _, t := range types {
		items = append(items, models.KitItem{Type: t})
	}
	return normalizeItems(items)
}
