package dto

import "time"

type ExportSummary struct {
	LowStockMedicines   []MedicineResponse     `json:"low_stock_medicines"`
	LatestBloodPressure *BloodPressureResponse `json:"latest_blood_pressure,omitempty"`
	AverageBloodSugar   *float64               `json:"average_blood_sugar,omitempty"`
	NextAppointment     *AppointmentResponse   `json:"next_appointment,omitempty"`
	DosesTaken          int                    `json:"doses_taken"`
}

// ExportReport is the downloadable health summary of one profile.
type ExportReport struct {
	GeneratedAt   time.Time               `json:"generated_at"`
	Profile       ProfileResponse         `json:"profile"`
	Summary       ExportSummary           `json:"summary"`
	Medicines     []MedicineResponse      `json:"medicines"`
	DoseLogs      []DoseLogResponse       `json:"medicine_logs"`
	Appointments  []AppointmentResponse   `json:"appointments"`
	BloodPressure []BloodPressureResponse `json:"blood_pressure_readings"`
	BloodSugar    []BloodSugarResponse    `json:"blood_sugar_readings"`
}
