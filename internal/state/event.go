package state

import "family-health-dashboard/internal/domain/entity"

// Event is one input to Reduce.
type Event interface {
	isEvent()
}

type SessionReady struct {
	Identity string
}

type SessionFailed struct {
	Reason string
}

type ProfilesUpdated struct {
	Profiles []entity.Profile
}

type ProfileSelected struct {
	ProfileID string
}

// SyncRebound marks the start of a new sync generation for ProfileID.
type SyncRebound struct {
	ProfileID  string
	Generation uint64
}

type RecordsUpdated struct {
	Kind       entity.Kind
	ProfileID  string
	Generation uint64
	Records    []entity.Record
}

// SubscriptionFailed reports a failed snapshot. An empty Kind means the profile list.
type SubscriptionFailed struct {
	Kind       entity.Kind
	ProfileID  string
	Generation uint64
	Err        error
}

type ViewChanged struct {
	View View
}

type ErrorRaised struct {
	Message string
}

type ErrorDismissed struct{}

func (SessionReady) isEvent()       {}
func (SessionFailed) isEvent()      {}
func (ProfilesUpdated) isEvent()    {}
func (ProfileSelected) isEvent()    {}
func (SyncRebound) isEvent()        {}
func (RecordsUpdated) isEvent()     {}
func (SubscriptionFailed) isEvent() {}
func (ViewChanged) isEvent()        {}
func (ErrorRaised) isEvent()        {}
func (ErrorDismissed) isEvent()     {}
