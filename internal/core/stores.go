package core

import "github.com/valter-silva-au/jobkit/pkg/models"

// Snapshot is the persisted state of a session: kits and tasks in
// insertion order.
type Snapshot struct {
	Kits  []models.ApplicationKit
	Tasks []models.NextStepTask
}

// StateStore persists snapshots of the tracker.
// This interface is defined locally in core to avoid importing storage.
type StateStore interface {
	Load() (*Snapshot, error)
	Save(snap *Snapshot) error
}

// ProfileProvider supplies the current user's display info. The tracker
// only reads it.
type ProfileProvider interface {
	Profile() models.UserProfile
}

// StaticProfile is a ProfileProvider returning a fixed profile.
type StaticProfile models.UserProfile

// Profile returns the profile.
func (p StaticProfile) Profile() models.UserProfile {
	return models.UserProfile(p)
}
