package observability

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/jobkit/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts should fire. A zero threshold
// disables its check.
type AlertThresholds struct {
	StaleDays    int `yaml:"stale_days" json:"stale_days"`
	MaxSavedKits int `yaml:"max_saved_kits" json:"max_saved_kits"`
}

// DefaultAlertThresholds returns sensible defaults for alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		StaleDays:    7,
		MaxSavedKits: 10,
	}
}

// AlertEngine evaluates alert conditions against the current kits and tasks.
type AlertEngine interface {
	Evaluate(kits []*models.ApplicationKit, tasks []*models.NextStepTask) []Alert
}

type alertEngine struct {
	thresholds AlertThresholds
	now        func() time.Time
}

// NewAlertEngine creates a new AlertEngine. A nil now uses the wall clock.
func NewAlertEngine(thresholds AlertThresholds, now func() time.Time) AlertEngine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &alertEngine{thresholds: thresholds, now: now}
}

// Evaluate checks every condition and returns the triggered alerts, overdue
// kits first, then stale kits, overdue tasks and the saved-kit count.
func (ae *alertEngine) Evaluate(kits []*models.ApplicationKit, tasks []*models.NextStepTask) []Alert {
	now := ae.now()
	var alerts []Alert
	alerts = append(alerts, ae.checkOverdueKits(kits, now)...)
	alerts = append(alerts, ae.checkStaleKits(kits, now)...)
	alerts = append(alerts, ae.checkOverdueTasks(tasks, now)...)
	alerts = append(alerts, ae.checkSavedBacklog(kits, now)...)
	return alerts
}

// checkOverdueKits flags non-archived kits whose deadline day has passed.
func (ae *alertEngine) checkOverdueKits(kits []*models.ApplicationKit, now time.Time) []Alert {
	var alerts []Alert
	for _, kit := range kits {
		if kit.Deadline == nil || kit.Status == models.StatusArchived || !dayBefore(*kit.Deadline, now) {
			continue
		}
		alerts = append(alerts, Alert{
			ID:        fmt.Sprintf("overdue-kit-%s", kit.ID),
			Condition: "kit_overdue",
			Severity:  SeverityHigh,
			Message: fmt.Sprintf("%s at %s passed its deadline of %s",
				kit.Position, kit.Company, kit.Deadline.Format("2006-01-02")),
			TriggeredAt: now,
		})
	}
	return alerts
}

// checkStaleKits flags Saved and Applied kits not touched for StaleDays.
func (ae *alertEngine) checkStaleKits(kits []*models.ApplicationKit, now time.Time) []Alert {
	if ae.thresholds.StaleDays <= 0 {
		return nil
	}
	threshold := time.Duration(ae.thresholds.StaleDays) * 24 * time.Hour
	var alerts []Alert
	for _, kit := range kits {
		if kit.Status != models.StatusSaved && kit.Status != models.StatusApplied {
			continue
		}
		if now.Sub(kit.LastUpdated) <= threshold {
			continue
		}
		alerts = append(alerts, Alert{
			ID:        fmt.Sprintf("stale-kit-%s", kit.ID),
			Condition: "kit_stale",
			Severity:  SeverityMedium,
			Message: fmt.Sprintf("%s at %s has been %s for more than %d days",
				kit.Position, kit.Company, kit.Status, ae.thresholds.StaleDays),
			TriggeredAt: now,
		})
	}
	return alerts
}

// checkOverdueTasks flags incomplete tasks past their due day. The alert
// takes the task's priority as its severity.
func (ae *alertEngine) checkOverdueTasks(tasks []*models.NextStepTask, now time.Time) []Alert {
	var alerts []Alert
	for _, task := range tasks {
		if task.Completed || task.DueDate == nil || !dayBefore(*task.DueDate, now) {
			continue
		}
		alerts = append(alerts, Alert{
			ID:          fmt.Sprintf("overdue-task-%s", task.ID),
			Condition:   "task_overdue",
			Severity:    severityForPriority(task.Priority),
			Message:     fmt.Sprintf("next step %q was due %s", task.Description, task.DueDate.Format("2006-01-02")),
			TriggeredAt: now,
		})
	}
	return alerts
}

// checkSavedBacklog alerts when more than MaxSavedKits kits sit in Saved.
func (ae *alertEngine) checkSavedBacklog(kits []*models.ApplicationKit, now time.Time) []Alert {
	if ae.thresholds.MaxSavedKits <= 0 {
		return nil
	}
	saved := 0
	for _, kit := range kits {
		if kit.Status == models.StatusSaved {
			saved++
		}
	}
	if saved <= ae.thresholds.MaxSavedKits {
		return nil
	}
	return []Alert{{
		ID:          "saved-backlog",
		Condition:   "too_many_saved",
		Severity:    SeverityLow,
		Message:     fmt.Sprintf("%d kits are saved but not applied, exceeding the maximum of %d", saved, ae.thresholds.MaxSavedKits),
		TriggeredAt: now,
	}}
}

func severityForPriority(p models.Priority) AlertSeverity {
	switch p {
	case models.PriorityHigh:
		return SeverityHigh
	case models.PriorityLow:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// dayBefore reports whether d falls on a calendar day before now's day, in
// now's location. It matches core.IsOverdue; observability does not import core.
func dayBefore(d, now time.Time) bool {
	loc := now.Location()
	dy, dm, dd := d.In(loc).Date()
	ny, nm, nd := now.Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, loc).Before(time.Date(ny, nm, nd, 0, 0, 0, 0, loc))
}
