package converter

import (
	"family-health-dashboard/internal/delivery/dto"
	"family-health-dashboard/internal/state"
)

// StateToResponse converts the dashboard state to DashboardResponse DTO
func StateToResponse(s state.AppState) *dto.DashboardResponse {
	return &dto.DashboardResponse{
		Session:         string(s.Session),
		SessionError:    s.SessionError,
		Identity:        s.Identity,
		Profiles:        ProfilesToResponses(s.Profiles),
		ActiveProfileID: s.ActiveProfileID,
		View:            string(s.View),
		Error:           s.Error,
		Medicines:       MedicinesToResponses(s.Mirrors.Medicines),
		DoseLogs:        DoseLogsToResponses(s.Mirrors.DoseLogs),
		Appointments:    AppointmentsToResponses(s.Mirrors.Appointments),
		BloodPressure:   BloodPressureToResponses(s.Mirrors.BloodPressure),
		BloodSugar:      BloodSugarToResponses(s.Mirrors.BloodSugar),
	}
}
