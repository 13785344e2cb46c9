package core

import (
	"time"

	"github.com/valter-silva-au/jobkit/pkg/models"
)

// StatsSnapshot summarizes kits and tasks at one point in time.
type StatsSnapshot struct {
	TotalKits         int                      `json:"total_kits"`
	ByStatus          map[models.KitStatus]int `json:"by_status"`
	AverageSkillMatch float64                  `json:"average_skill_match"`
	AverageProgress   float64                  `json:"average_progress"`
	OverdueKits       int                      `json:"overdue_kits"`
	CompleteKits      int                      `json:"complete_kits"`
	PendingTasks      int                      `json:"pending_tasks"`
	CompletedTasks    int                      `json:"completed_tasks"`
}

// ComputeStats aggregates kits and tasks. Averages are 0 for an empty
// collection. Archived kits count towards every kit figure except overdue.
func ComputeStats(kits []*models.ApplicationKit, tasks []*models.NextStepTask, now time.Time) StatsSnapshot {
	snap := StatsSnapshot{
		TotalKits: len(kits),
		ByStatus:  StatusCounts(kits),
	}

	var skillSum, progressSum int
	for _, kit := range kits {
		skillSum += kit.SkillMatch
		p := ComputeProgress(kit)
		progressSum += p
		if p == 100 {
			snap.CompleteKits++
		}
		if IsOverdue(kit, now) {
			snap.OverdueKits++
		}
	}
	if len(kits) > 0 {
		snap.AverageSkillMatch = float64(skillSum) / float64(len(kits))
		snap.AverageProgress = float64(progressSum) / float64(len(kits))
	}

	for _, t := range tasks {
		if t.Completed {
			snap.CompletedTasks++
		} else {
			snap.PendingTasks++
		}
	}
	return snap
}
