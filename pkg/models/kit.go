package models

import "time"

// KitItemType identifies one artifact in an application kit's checklist.
type KitItemType string

const (
	ItemResume      KitItemType = "resume"
	ItemAIInterview KitItemType = "ai_interview"
	ItemReferral    KitItemType = "referral"
	ItemCoverVideo  KitItemType = "cover_video"
)

// KitStatus represents the pipeline stage of an application kit.
type KitStatus string

const (
	StatusSaved        KitStatus = "saved"
	StatusApplied      KitStatus = "applied"
	StatusInterviewing KitStatus = "interviewing"
	StatusDecision     KitStatus = "decision"
	StatusArchived     KitStatus = "archived"
)

// AllStatuses lists the kit statuses in pipeline order.
var AllStatuses = []KitStatus{
	StatusSaved,
	StatusApplied,
	StatusInterviewing,
	StatusDecision,
	StatusArchived,
}

// Priority represents the urgency of a kit or a next-step task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// KitItem records whether a single catalog item of a kit is done.
// An item present with Completed=false is pending.
type KitItem struct {
	Type      KitItemType `yaml:"type" json:"type"`
	Completed bool        `yaml:"completed" json:"completed"`
}

// ApplicationKit tracks the assembly and pipeline stage of one job application.
// Progress is never stored; it is derived from Items.
type ApplicationKit struct {
	ID          string     `yaml:"id" json:"id"`
	Company     string     `yaml:"company" json:"company"`
	Position    string     `yaml:"position" json:"position"`
	Location    string     `yaml:"location" json:"location"`
	SkillMatch  int        `yaml:"skill_match" json:"skill_match"`
	Status      KitStatus  `yaml:"status" json:"status"`
	Items       []KitItem  `yaml:"items" json:"items"`
	Priority    Priority   `yaml:"priority" json:"priority"`
	Deadline    *time.Time `yaml:"deadline,omitempty" json:"deadline,omitempty"`
	JobURL      string     `yaml:"job_url,omitempty" json:"job_url,omitempty"`
	Notes       string     `yaml:"notes,omitempty" json:"notes,omitempty"`
	Created     time.Time  `yaml:"created" json:"created"`
	LastUpdated time.Time  `yaml:"last_updated" json:"last_updated"`
}

// NextStepTask is an actionable reminder. ActionLabel names the workflow the
// user should be routed to; KitID is informational only.
type NextStepTask struct {
	ID          string     `yaml:"id" json:"id"`
	Description string     `yaml:"description" json:"description"`
	ActionLabel string     `yaml:"action_label" json:"action_label"`
	Priority    Priority   `yaml:"priority" json:"priority"`
	Completed   bool       `yaml:"completed" json:"completed"`
	DueDate     *time.Time `yaml:"due_date,omitempty" json:"due_date,omitempty"`
	KitID       string     `yaml:"kit_id,omitempty" json:"kit_id,omitempty"`
	Created     time.Time  `yaml:"created" json:"created"`
}

// UserProfile is the read-only display identity of the current user.
type UserProfile struct {
	DisplayName string `yaml:"display_name" mapstructure:"display_name" json:"display_name"`
	Email       string `yaml:"email" mapstructure:"email" json:"email"`
	Avatar      string `yaml:"avatar,omitempty" mapstructure:"avatar" json:"avatar,omitempty"`
}
