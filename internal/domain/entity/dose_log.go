package entity

import "time"

// DoseLog records one taken dose. MedicineID is a weak reference and may dangle
// once the medicine is gone; MedicineName is a snapshot taken at dose time.
type DoseLog struct {
	ScopedDocument
	MedicineID   string    `gorm:"type:varchar(36);not null;index" json:"medicine_id"`
	MedicineName string    `gorm:"type:varchar(200);not null" json:"medicine_name"`
	TakenAt      time.Time `gorm:"not null" json:"taken_at"`
}

func (DoseLog) TableName() string {
	return "medicine_logs"
}

func (*DoseLog) Kind() Kind {
	return KindDoseLog
}
