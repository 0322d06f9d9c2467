package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record is implemented by the five scoped record variants.
type Record interface {
	Kind() Kind
	RecordID() string
	SetRecordID(id string)
	RecordScope() Scope
	SetRecordScope(scope Scope)
	Created() time.Time
	SetCreated(t time.Time)
}

// ScopedDocument carries the fields every scoped record shares.
type ScopedDocument struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Scope     Scope     `gorm:"embedded" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (d *ScopedDocument) RecordID() string           { return d.ID }
func (d *ScopedDocument) SetRecordID(id string)      { d.ID = id }
func (d *ScopedDocument) RecordScope() Scope         { return d.Scope }
func (d *ScopedDocument) SetRecordScope(scope Scope) { d.Scope = scope }
func (d *ScopedDocument) Created() time.Time         { return d.CreatedAt }
func (d *ScopedDocument) SetCreated(t time.Time)     { d.CreatedAt = t }

func (d *ScopedDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return
}

// NewRecord returns an empty record of the given kind.
func NewRecord(kind Kind) Record {
	switch kind {
	case KindMedicine:
		return &Medicine{}
	case KindDoseLog:
		return &DoseLog{}
	case KindAppointment:
		return &Appointment{}
	case KindBloodPressure:
		return &BloodPressureReading{}
	case KindBloodSugar:
		return &BloodSugarReading{}
	default:
		return nil
	}
}

// ImmutableColumns are never written by an in-place update.
var ImmutableColumns = []string{"id", "deployment_id", "user_id", "profile_id", "created_at"}
