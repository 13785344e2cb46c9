// Package core contains the application kit pipeline engine: the item
// catalog, progress calculation, the status pipeline, the kit store, filtering,
// bulk selection, the next-step task engine, and summary statistics.
package core

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/jobkit/pkg/models"
)

// CatalogEntry describes one kit item type.
type CatalogEntry struct {
	Type        models.KitItemType
	Label       string
	ActionLabel string
	// TaskTemplate is a fmt template taking the kit's company and location.
	TaskTemplate string
}

// catalog is ordered; the order is the display and storage order of kit items.
var catalog = []CatalogEntry{
	{
		Type:         models.ItemResume,
		Label:        "Resume",
		ActionLabel:  "Edit Resume",
		TaskTemplate: "Tailor your resume for %s, %s.",
	},
	{
		Type:         models.ItemAIInterview,
		Label:        "AI Interview",
		ActionLabel:  "Take AI Interview",
		TaskTemplate: "Take AI Interview to complete your application for %s, %s.",
	},
	{
		Type:         models.ItemReferral,
		Label:        "Referral",
		ActionLabel:  "Search for Referral",
		TaskTemplate: "Find Referral for %s, %s.",
	},
	{
		Type:         models.ItemCoverVideo,
		Label:        "Cover Video",
		ActionLabel:  "Record Cover Video",
		TaskTemplate: "Record a cover video for %s, %s.",
	},
}

// Catalog returns the ordered list of kit item types.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}

// CatalogTypes returns the item types in catalog order.
func CatalogTypes() []models.KitItemType {
	types := make([]models.KitItemType, len(catalog))
	for i, e := range catalog {
		types[i] = e.Type
	}
	return types
}

// LookupItem returns the catalog entry for t.
func LookupItem(t models.KitItemType) (CatalogEntry, bool) {
	for _, e := range catalog {
		if e.Type == t {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// ItemLabel returns the human label for t, or the raw value if t is unknown.
func ItemLabel(t models.KitItemType) string {
	if e, ok := LookupItem(t); ok {
		return e.Label
	}
	return string(t)
}

// ParseKitItemType accepts the canonical value ("ai_interview"), the label
// ("AI Interview"), or a dashed form ("ai-interview"), case-insensitively.
func ParseKitItemType(s string) (models.KitItemType, error) {
	norm := normalizeToken(s)
	for _, e := range catalog {
		if norm == string(e.Type) || norm == normalizeToken(e.Label) {
			return e.Type, nil
		}
	}
	return "", validationf("parsing item type", "unknown item %q, must be one of: %s", s, strings.Join(itemNames(), ", "))
}

func catalogIndex(t models.KitItemType) int {
	for i, e := range catalog {
		if e.Type == t {
			return i
		}
	}
	return -1
}

func itemNames() []string {
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = string(e.Type)
	}
	return names
}

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}

// ParsePriority parses high, medium or low case-insensitively.
func ParsePriority(s string) (models.Priority, error) {
	switch p := models.Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		return p, nil
	}
	return "", validationf("parsing priority", "unknown priority %q, must be one of: high, medium, low", s)
}

// priorityRank orders priorities high first. Unknown values sort last.
func priorityRank(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	case models.PriorityLow:
		return 2
	default:
		return 3
	}
}

// suggestedTaskDescription renders the catalog template for a pending item.
func suggestedTaskDescription(e CatalogEntry, kit *models.ApplicationKit) string {
	location := kit.Location
	if location == "" {
		location = kit.Position
	}
	return fmt.Sprintf(e.TaskTemplate, kit.Company, location)
}
