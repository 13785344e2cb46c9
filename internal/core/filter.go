package core

import (
	"strings"

	"github.com/valter-silva-au/jobkit/pkg/models"
)

// FilterKits returns the kits whose status equals tab and whose company or
// position contains query (case-insensitive), in their original order. An
// empty query matches every kit in the tab. No match yields an empty,
// non-nil slice.
func FilterKits(kits []*models.ApplicationKit, tab models.KitStatus, query string) []*models.ApplicationKit {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*models.ApplicationKit, 0)
	for _, kit := range kits {
		if kit.Status != tab {
			continue
		}
		if q != "" && !matchesQuery(kit, q) {
			continue
		}
		out = append(out, kit)
	}
	return out
}

func matchesQuery(kit *models.ApplicationKit, q string) bool {
	return strings.Contains(strings.ToLower(kit.Company), q) ||
		strings.Contains(strings.ToLower(kit.Position), q)
}

// StatusCounts returns the number of kits per status. Every status is present.
func StatusCounts(kits []*models.ApplicationKit) map[models.KitStatus]int {
	counts := make(map[models.KitStatus]int, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}
	for _, kit := range kits {
		counts[kit.Status]++
	}
	return counts
}
