// Package state holds the dashboard application state and the pure reducer
// that every transition goes through.
package state

import (
	"slices"

	"family-health-dashboard/internal/domain/entity"
)

// View is the screen the dashboard currently presents.
type View string

const (
	ViewDashboard     View = "dashboard"
	ViewAddMedicine   View = "addMedicine"
	ViewHistory       View = "history"
	ViewProfiles      View = "profiles"
	ViewAppointments  View = "appointments"
	ViewHealthMetrics View = "healthMetrics"
	ViewExport        View = "export"
)

func Views() []View {
	return []View{ViewDashboard, ViewAddMedicine, ViewHistory, ViewProfiles, ViewAppointments, ViewHealthMetrics, ViewExport}
}

func (v View) Valid() bool {
	return slices.Contains(Views(), v)
}

// SessionStatus is pending until the identity is known, then ready or failed for good.
type SessionStatus string

const (
	StatusPending SessionStatus = "pending"
	StatusReady   SessionStatus = "ready"
	StatusFailed  SessionStatus = "failed"
)

// Mirrors are the read-only local copies of the active profile's collections.
type Mirrors struct {
	Medicines     []entity.Medicine
	DoseLogs      []entity.DoseLog
	Appointments  []entity.Appointment
	BloodPressure []entity.BloodPressureReading
	BloodSugar    []entity.BloodSugarReading
}

func (m Mirrors) clone() Mirrors {
	return Mirrors{
		Medicines:     slices.Clone(m.Medicines),
		DoseLogs:      slices.Clone(m.DoseLogs),
		Appointments:  slices.Clone(m.Appointments),
		BloodPressure: slices.Clone(m.BloodPressure),
		BloodSugar:    slices.Clone(m.BloodSugar),
	}
}

// with returns a copy of m with the collection of kind replaced.
func (m Mirrors) with(kind entity.Kind, records []entity.Record) Mirrors {
	switch kind {
	case entity.KindMedicine:
		m.Medicines = collect[entity.Medicine](records)
	case entity.KindDoseLog:
		m.DoseLogs = collect[entity.DoseLog](records)
	case entity.KindAppointment:
		m.Appointments = collect[entity.Appointment](records)
	case entity.KindBloodPressure:
		m.BloodPressure = collect[entity.BloodPressureReading](records)
	case entity.KindBloodSugar:
		m.BloodSugar = collect[entity.BloodSugarReading](records)
	}
	return m
}

func collect[T any](records []entity.Record) []T {
	out := make([]T, 0, len(records))
	for _, record := range records {
		if v, ok := any(record).(*T); ok && v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// AppState is everything one dashboard session presents.
type AppState struct {
	Session         SessionStatus
	SessionError    string
	Identity        string
	Profiles        []entity.Profile
	ActiveProfileID string
	Mirrors         Mirrors
	SyncGeneration  uint64
	View            View
	Error           string

	// pendingProfileID is a selected profile the list has not shown yet.
	// One profile snapshot without it is tolerated, since a load that started
	// before the profile was committed can still be in flight.
	pendingProfileID string
	pendingMissed    bool
}

func Initial() AppState {
	return AppState{
		Session: StatusPending,
		View:    ViewDashboard,
	}
}

// Clone returns a copy that shares no slices with s.
func (s AppState) Clone() AppState {
	s.Profiles = slices.Clone(s.Profiles)
	s.Mirrors = s.Mirrors.clone()
	return s
}

// ActiveProfile returns the selected profile, or nil.
func (s AppState) ActiveProfile() *entity.Profile {
	for i := range s.Profiles {
		if s.Profiles[i].ID == s.ActiveProfileID {
			p := s.Profiles[i]
			return &p
		}
	}
	return nil
}

func (s AppState) HasProfile(id string) bool {
	return slices.ContainsFunc(s.Profiles, func(p entity.Profile) bool { return p.ID == id })
}
