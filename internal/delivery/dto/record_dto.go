package dto

import "time"

// Request DTOs

type MedicineRequest struct {
	Name            string   `json:"name" validate:"required,max=200"`
	Doctor          string   `json:"doctor" validate:"max=200"`
	Stock           int      `json:"stock" validate:"gte=0"`
	Dosage          string   `json:"dosage" validate:"required,dosage"`
	Times           []string `json:"times" validate:"max=3,dive,hhmm"`
	PrescriptionURL string   `json:"prescription_url" validate:"max=2048"`
}

type AppointmentRequest struct {
	Doctor string    `json:"doctor" validate:"required,max=200"`
	Date   time.Time `json:"date" validate:"required"`
}

type BloodPressureRequest struct {
	Systolic  int `json:"systolic" validate:"required,gt=0,lte=300"`
	Diastolic int `json:"diastolic" validate:"required,gt=0,lte=200"`
}

type BloodSugarRequest struct {
	Value int    `json:"value" validate:"required,gt=0,lte=1000"`
	Type  string `json:"type" validate:"required,oneof=Fasting PP Random"`
}

// Response DTOs

type MedicineResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Doctor          string    `json:"doctor,omitempty"`
	Stock           int       `json:"stock"`
	Dosage          string    `json:"dosage"`
	Times           []string  `json:"times"`
	PrescriptionURL string    `json:"prescription_url,omitempty"`
	LowStock        bool      `json:"low_stock"`
	CreatedAt       time.Time `json:"created_at"`
}

type DoseLogResponse struct {
	ID           string    `json:"id"`
	MedicineID   string    `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	TakenAt      time.Time `json:"taken_at"`
}

type AppointmentResponse struct {
	ID        string    `json:"id"`
	Doctor    string    `json:"doctor"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

type BloodPressureResponse struct {
	ID        string    `json:"id"`
	Systolic  int       `json:"systolic"`
	Diastolic int       `json:"diastolic"`
	CreatedAt time.Time `json:"created_at"`
}

type BloodSugarResponse struct {
	ID        string    `json:"id"`
	Value     int       `json:"value"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type RecordSavedResponse struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

type PrescriptionResponse struct {
	URL string `json:"url"`
}
