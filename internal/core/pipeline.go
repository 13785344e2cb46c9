package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/valter-silva-au/jobkit/pkg/models"
)

// forward is the linear pipeline. Archived is reachable from every
// non-terminal status and has no outgoing transitions.
var forward = map[models.KitStatus]models.KitStatus{
	models.StatusSaved:        models.StatusApplied,
	models.StatusApplied:      models.StatusInterviewing,
	models.StatusInterviewing: models.StatusDecision,
}

// IsValidStatus reports whether s is one of the five pipeline statuses.
func IsValidStatus(s models.KitStatus) bool {
	for _, st := range models.AllStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s models.KitStatus) bool {
	return s == models.StatusArchived
}

// NextStatus returns the forward successor of s, if any.
func NextStatus(s models.KitStatus) (models.KitStatus, bool) {
	next, ok := forward[s]
	return next, ok
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to models.KitStatus) bool {
	if !IsValidStatus(from) || IsTerminal(from) {
		return false
	}
	if to == models.StatusArchived {
		return true
	}
	next, ok := forward[from]
	return ok && next == to
}

// AllowedTransitions lists the statuses reachable from s in one step.
func AllowedTransitions(s models.KitStatus) []models.KitStatus {
	var out []models.KitStatus
	if IsTerminal(s) || !IsValidStatus(s) {
		return out
	}
	if next, ok := forward[s]; ok {
		out = append(out, next)
	}
	return append(out, models.StatusArchived)
}

// Transition moves kit to status to, refreshing LastUpdated. On an invalid
// request it returns an ErrInvalidTransition error and leaves kit untouched.
// Items are never modified.
func Transition(kit *models.ApplicationKit, to models.KitStatus, now func() time.Time) error {
	if !IsValidStatus(to) {
		return &KitError{Kind: ErrValidation, Op: "transitioning kit", ID: kit.ID, Msg: fmt.Sprintf("unknown status %q", to)}
	}
	if !CanTransition(kit.Status, to) {
		return invalidTransition("transitioning kit", kit.ID, kit.Status, to)
	}
	kit.Status = to
	kit.LastUpdated = now()
	return nil
}

// ParseKitStatus parses a status name case-insensitively ("Applied", "applied").
func ParseKitStatus(s string) (models.KitStatus, error) {
	st := models.KitStatus(strings.ToLower(strings.TrimSpace(s)))
	if IsValidStatus(st) {
		return st, nil
	}
	return "", validationf("parsing status", "unknown status %q, must be one of: saved, applied, interviewing, decision, archived", s)
}

// StatusLabel returns the display form of a status ("Interviewing").
func StatusLabel(s models.KitStatus) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
