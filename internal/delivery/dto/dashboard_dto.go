package dto

// Request DTOs

type SetViewRequest struct {
	View string `json:"view" validate:"required,oneof=dashboard addMedicine history profiles appointments healthMetrics export"`
}

// Response DTOs

type DashboardResponse struct {
	Session         string                  `json:"session"`
	SessionError    string                  `json:"session_error,omitempty"`
	Identity        string                  `json:"identity,omitempty"`
	Profiles        []ProfileResponse       `json:"profiles"`
	ActiveProfileID string                  `json:"active_profile_id,omitempty"`
	View            string                  `json:"view"`
	Error           string                  `json:"error,omitempty"`
	Medicines       []MedicineResponse      `json:"medicines"`
	DoseLogs        []DoseLogResponse       `json:"medicine_logs"`
	Appointments    []AppointmentResponse   `json:"appointments"`
	BloodPressure   []BloodPressureResponse `json:"blood_pressure_readings"`
	BloodSugar      []BloodSugarResponse    `json:"blood_sugar_readings"`
}
