package entity

// BloodSugarType is the measurement context of a blood sugar reading.
type BloodSugarType string

const (
	BloodSugarFasting BloodSugarType = "Fasting"
	BloodSugarPP      BloodSugarType = "PP"
	BloodSugarRandom  BloodSugarType = "Random"
)

type BloodPressureReading struct {
	ScopedDocument
	Systolic  int `gorm:"not null" json:"systolic"`
	Diastolic int `gorm:"not null" json:"diastolic"`
}

func (BloodPressureReading) TableName() string {
	return "blood_pressure_readings"
}

func (*BloodPressureReading) Kind() Kind {
	return KindBloodPressure
}

type BloodSugarReading struct {
	ScopedDocument
	Value int            `gorm:"not null" json:"value"`
	Type  BloodSugarType `gorm:"type:varchar(10);not null" json:"type"`
}

func (BloodSugarReading) TableName() string {
	return "blood_sugar_readings"
}

func (*BloodSugarReading) Kind() Kind {
	return KindBloodSugar
}
