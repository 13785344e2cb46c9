package core

import "github.com/valter-silva-au/jobkit/pkg/models"

// Selection is the set of kit ids picked in the current filtered view. Every
// selected id is a member of the view; SetView drops ids that left it.
// A Selection is owned by one view and is not safe for concurrent use.
type Selection struct {
	view     []string
	inView   map[string]bool
	selected map[string]bool
}

// NewSelection returns an empty selection over view.
func NewSelection(view []*models.ApplicationKit) *Selection {
	s := &Selection{selected: make(map[string]bool)}
	s.SetView(view)
	return s
}

// SetView replaces the active view and drops selected ids no longer in it.
func (s *Selection) SetView(view []*models.ApplicationKit) {
	s.view = make([]string, 0, len(view))
	s.inView = make(map[string]bool, len(view))
	for _, kit := range view {
		s.view = append(s.view, kit.ID)
		s.inView[kit.ID] = true
	}
	for id := range s.selected {
		if !s.inView[id] {
			delete(s.selected, id)
		}
	}
}

// Toggle flips membership of id. Ids outside the view are rejected.
func (s *Selection) Toggle(id string) error {
	if !s.inView[id] {
		return notFound("toggling selection", id)
	}
	if s.selected[id] {
		delete(s.selected, id)
	} else {
		s.selected[id] = true
	}
	return nil
}

// SelectAll selects every kit in the view.
func (s *Selection) SelectAll() {
	for _, id := range s.view {
		s.selected[id] = true
	}
}

// ToggleAll clears the selection when the whole view is already selected and
// selects the whole view otherwise.
func (s *Selection) ToggleAll() {
	if len(s.view) > 0 && len(s.selected) == len(s.view) {
		s.ClearAll()
		return
	}
	s.SelectAll()
}

// ClearAll empties the selection.
func (s *Selection) ClearAll() {
	s.selected = make(map[string]bool)
}

// IsSelected reports whether id is selected.
func (s *Selection) IsSelected(id string) bool {
	return s.selected[id]
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.selected)
}

// IDs returns the selected ids in view order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.selected))
	for _, id := range s.view {
		if s.selected[id] {
			out = append(out, id)
		}
	}
	return out
}
