package state

import (
	"fmt"
	"slices"

	"family-health-dashboard/internal/domain/entity"
)

// SelectActive picks the active profile for a fresh profile list: the previous
// selection while it still exists, else the first profile, else none.
func SelectActive(prev string, profiles []entity.Profile) string {
	if len(profiles) == 0 {
		return ""
	}
	if prev != "" {
		for _, p := range profiles {
			if p.ID == prev {
				return prev
			}
		}
	}
	return profiles[0].ID
}

// Reduce applies one event to s. It never mutates slices reachable from s.
func Reduce(s AppState, ev Event) AppState {
	switch e := ev.(type) {
	case SessionReady:
		if s.Session != StatusPending {
			return s
		}
		s.Session = StatusReady
		s.Identity = e.Identity

	case SessionFailed:
		if s.Session == StatusFailed {
			return s
		}
		s.Session = StatusFailed
		s.SessionError = e.Reason
		s.Identity = ""

	case ProfilesUpdated:
		if s.Session != StatusReady {
			return s
		}
		s.Profiles = slices.Clone(e.Profiles)
		if s.pendingProfileID != "" {
			switch {
			case s.HasProfile(s.pendingProfileID):
				s.clearPending()
			case s.ActiveProfileID == s.pendingProfileID && !s.pendingMissed:
				s.pendingMissed = true
				return s
			default:
				s.clearPending()
			}
		}
		s.ActiveProfileID = SelectActive(s.ActiveProfileID, s.Profiles)

	case ProfileSelected:
		if s.Session != StatusReady {
			return s
		}
		s.clearPending()
		if e.ProfileID != "" && !s.HasProfile(e.ProfileID) {
			s.pendingProfileID = e.ProfileID
		}
		s.ActiveProfileID = e.ProfileID

	case SyncRebound:
		if e.ProfileID != s.ActiveProfileID {
			return s
		}
		s.SyncGeneration = e.Generation
		s.Mirrors = Mirrors{}

	case RecordsUpdated:
		if e.Generation != s.SyncGeneration || e.ProfileID != s.ActiveProfileID {
			return s
		}
		s.Mirrors = s.Mirrors.with(e.Kind, e.Records)

	case SubscriptionFailed:
		if e.Kind == "" {
			s.Error = "Failed to load profiles."
			return s
		}
		if e.Generation != s.SyncGeneration || e.ProfileID != s.ActiveProfileID {
			return s
		}
		s.Error = fmt.Sprintf("Failed to load %ss.", e.Kind.Label())

	case ViewChanged:
		if e.View.Valid() {
			s.View = e.View
		}

	case ErrorRaised:
		s.Error = e.Message

	case ErrorDismissed:
		s.Error = ""
	}
	return s
}

func (s *AppState) clearPending() {
	s.pendingProfileID = ""
	s.pendingMissed = false
}
