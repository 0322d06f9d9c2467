package entity

import "time"

type Appointment struct {
	ScopedDocument
	Doctor string    `gorm:"type:varchar(200);not null" json:"doctor"`
	Date   time.Time `gorm:"not null;index" json:"date"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (*Appointment) Kind() Kind {
	return KindAppointment
}

// IsUpcoming reports whether the appointment is at or after now.
func (a *Appointment) IsUpcoming(now time.Time) bool {
	return !a.Date.Before(now)
}
