package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

func TestComputeStats_Empty(t *testing.T) {
	snap := ComputeStats(nil, nil, testStart)

	assert.Equal(t, 0, snap.TotalKits)
	assert.Equal(t, 0.0, snap.AverageSkillMatch)
	assert.Equal(t, 0.0, snap.AverageProgress)
	assert.Len(t, snap.ByStatus, len(models.AllStatuses))
}

func TestComputeStats_IncludesArchivedKits(t *testing.T) {
	kits := []*models.ApplicationKit{
		{SkillMatch: 90, Status: models.StatusArchived, Deadline: datePtr(2026, 1, 1), Items: []models.KitItem{{Type: models.ItemResume, Completed: true}}},
		{SkillMatch: 61, Status: models.StatusSaved, Items: []models.KitItem{{Type: models.ItemResume}, {Type: models.ItemReferral, Completed: true}}},
		{SkillMatch: 70, Status: models.StatusApplied, Deadline: datePtr(2026, 3, 9)},
	}
	tasks := []*models.NextStepTask{
		{Description: "a"},
		{Description: "b", Completed: true},
		{Description: "c"},
	}

	snap := ComputeStats(kits, tasks, testStart)

	assert.Equal(t, 3, snap.TotalKits)
	assert.InDelta(t, 73.667, snap.AverageSkillMatch, 0.001)
	assert.InDelta(t, 83.333, snap.AverageProgress, 0.001)
	assert.Equal(t, 2, snap.CompleteKits, "the item-less kit is vacuously complete")
	assert.Equal(t, 1, snap.OverdueKits, "archived kits are never overdue")
	assert.Equal(t, 2, snap.PendingTasks)
	assert.Equal(t, 1, snap.CompletedTasks)
}
