package entity

import "gorm.io/datatypes"

// Dosage is how often a medicine is taken.
type Dosage string

const (
	DosageOnceADay   Dosage = "Once a day"
	DosageTwiceADay  Dosage = "Twice a day"
	DosageThriceADay Dosage = "Thrice a day"
	DosageOnceAWeek  Dosage = "Once a week"
)

// DefaultDoseTime fills time slots that have no entry yet.
const DefaultDoseTime = "08:00"

// LowStockThreshold marks a medicine as running out.
const LowStockThreshold = 5

// Dosages lists the accepted dosage values.
func Dosages() []Dosage {
	return []Dosage{DosageOnceADay, DosageTwiceADay, DosageThriceADay, DosageOnceAWeek}
}

func (d Dosage) Valid() bool {
	for _, known := range Dosages() {
		if d == known {
			return true
		}
	}
	return false
}

// Slots is the number of HH:MM entries the dosage needs. Weekly doses use one slot.
func (d Dosage) Slots() int {
	switch d {
	case DosageTwiceADay:
		return 2
	case DosageThriceADay:
		return 3
	default:
		return 1
	}
}

// SyncTimes resizes times to the slot count of dosage, keeping existing entries
// by position and padding with DefaultDoseTime.
func SyncTimes(dosage Dosage, times []string) []string {
	n := dosage.Slots()
	synced := make([]string, n)
	for i := range synced {
		if i < len(times) && times[i] != "" {
			synced[i] = times[i]
		} else {
			synced[i] = DefaultDoseTime
		}
	}
	return synced
}

// Medicine tracks stock and dosing schedule of one medication.
type Medicine struct {
	ScopedDocument
	Name            string                      `gorm:"type:varchar(200);not null" json:"name"`
	Doctor          string                      `gorm:"type:varchar(200)" json:"doctor"`
	Stock           int                         `gorm:"not null;default:0" json:"stock"`
	Dosage          Dosage                      `gorm:"type:varchar(20);not null" json:"dosage"`
	Times           datatypes.JSONSlice[string] `json:"times"`
	PrescriptionURL string                      `gorm:"type:text" json:"prescription_url,omitempty"`
}

func (Medicine) TableName() string {
	return "medicines"
}

func (*Medicine) Kind() Kind {
	return KindMedicine
}

// NormalizeTimes enforces len(Times) == Dosage.Slots().
func (m *Medicine) NormalizeTimes() {
	m.Times = SyncTimes(m.Dosage, m.Times)
}

// CanTakeDose reports whether a dose can be taken from stock.
func (m *Medicine) CanTakeDose() bool {
	return m.Stock > 0
}

func (m *Medicine) IsLowStock() bool {
	return m.Stock <= LowStockThreshold
}
