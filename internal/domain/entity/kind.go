package entity

import "fmt"

// Kind tags the five scoped record variants. Its value is the collection name.
type Kind string

const (
	KindMedicine      Kind = "medicines"
	KindDoseLog       Kind = "medicineLogs"
	KindAppointment   Kind = "appointments"
	KindBloodPressure Kind = "bloodPressureReadings"
	KindBloodSugar    Kind = "bloodSugarReadings"
)

// Kinds lists every scoped record kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindMedicine, KindDoseLog, KindAppointment, KindBloodPressure, KindBloodSugar}
}

func (k Kind) Collection() string {
	return string(k)
}

// Label is the user-facing name used in messages.
func (k Kind) Label() string {
	switch k {
	case KindMedicine:
		return "medicine"
	case KindDoseLog:
		return "dose log"
	case KindAppointment:
		return "appointment"
	case KindBloodPressure:
		return "blood pressure reading"
	case KindBloodSugar:
		return "blood sugar reading"
	default:
		return string(k)
	}
}

func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind accepts a collection name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown record kind %q", s)
	}
	return k, nil
}
