package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

// CreateKitRequest holds the fields a user supplies when starting a kit.
// Items selects which catalog items the kit tracks; nil means all of them.
type CreateKitRequest struct {
	Company    string               `json:"company" validate:"required"`
	Position   string               `json:"position" validate:"required"`
	Location   string               `json:"location,omitempty"`
	SkillMatch int                  `json:"skill_match" validate:"min=0,max=100"`
	Priority   models.Priority      `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	Deadline   *time.Time           `json:"deadline,omitempty"`
	JobURL     string               `json:"job_url,omitempty" validate:"omitempty,url"`
	Notes      string               `json:"notes,omitempty"`
	Items      []models.KitItemType `json:"items,omitempty"`
}

// KitPatch is a partial update. Nil fields are left unchanged. Status is
// routed through the pipeline; Items marks listed items completed or pending.
type KitPatch struct {
	Company       *string
	Position      *string
	Location      *string
	SkillMatch    *int
	Priority      *models.Priority
	Deadline      *time.Time
	ClearDeadline bool
	JobURL        *string
	Notes         *string
	Status        *models.KitStatus
	Items         map[models.KitItemType]bool
}

// NewTaskRequest holds the fields of a manually added next-step task.
type NewTaskRequest struct {
	Description string          `json:"description" validate:"required"`
	ActionLabel string          `json:"action_label,omitempty"`
	Priority    models.Priority `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	KitID       string          `json:"kit_id,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateRequest runs struct validation and converts failures into a single
// ErrValidation error naming every offending field.
func validateRequest(op string, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return validationf(op, "%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return validationf(op, "%s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s check", fe.Field(), fe.Tag())
	}
}

func (r *CreateKitRequest) normalize() {
	r.Company = strings.TrimSpace(r.Company)
	r.Position = strings.TrimSpace(r.Position)
	r.Location = strings.TrimSpace(r.Location)
	r.JobURL = strings.TrimSpace(r.JobURL)
}

func (r *NewTaskRequest) normalize() {
	r.Description = strings.TrimSpace(r.Description)
	r.ActionLabel = strings.TrimSpace(r.ActionLabel)
	r.KitID = strings.TrimSpace(r.KitID)
}
