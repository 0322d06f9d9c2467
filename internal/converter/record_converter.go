package converter

import (
	"family-health-dashboard/internal/delivery/dto"
	"family-health-dashboard/internal/domain/entity"
)

// MedicineRequestToEntity builds a medicine from a request; id may be empty for a create.
func MedicineRequestToEntity(id string, req *dto.MedicineRequest) *entity.Medicine {
	medicine := &entity.Medicine{
		Name:            req.Name,
		Doctor:          req.Doctor,
		Stock:           req.Stock,
		Dosage:          entity.Dosage(req.Dosage),
		Times:           req.Times,
		PrescriptionURL: req.PrescriptionURL,
	}
	medicine.SetRecordID(id)
	return medicine
}

func AppointmentRequestToEntity(id string, req *dto.AppointmentRequest) *entity.Appointment {
	appointment := &entity.Appointment{
		Doctor: req.Doctor,
		Date:   req.Date,
	}
	appointment.SetRecordID(id)
	return appointment
}

func BloodPressureRequestToEntity(id string, req *dto.BloodPressureRequest) *entity.BloodPressureReading {
	reading := &entity.BloodPressureReading{
		Systolic:  req.Systolic,
		Diastolic: req.Diastolic,
	}
	reading.SetRecordID(id)
	return reading
}

func BloodSugarRequestToEntity(id string, req *dto.BloodSugarRequest) *entity.BloodSugarReading {
	reading := &entity.BloodSugarReading{
		Value: req.Value,
		Type:  entity.BloodSugarType(req.Type),
	}
	reading.SetRecordID(id)
	return reading
}

func MedicineToResponse(m *entity.Medicine) dto.MedicineResponse {
	times := make([]string, len(m.Times))
	copy(times, m.Times)
	return dto.MedicineResponse{
		ID:              m.ID,
		Name:            m.Name,
		Doctor:          m.Doctor,
		Stock:           m.Stock,
		Dosage:          string(m.Dosage),
		Times:           times,
		PrescriptionURL: m.PrescriptionURL,
		LowStock:        m.IsLowStock(),
		CreatedAt:       m.CreatedAt,
	}
}

func MedicinesToResponses(medicines []entity.Medicine) []dto.MedicineResponse {
	responses := make([]dto.MedicineResponse, len(medicines))
	for i := range medicines {
		responses[i] = MedicineToResponse(&medicines[i])
	}
	return responses
}

func DoseLogsToResponses(logs []entity.DoseLog) []dto.DoseLogResponse {
	responses := make([]dto.DoseLogResponse, len(logs))
	for i, log := range logs {
		responses[i] = dto.DoseLogResponse{
			ID:           log.ID,
			MedicineID:   log.MedicineID,
			MedicineName: log.MedicineName,
			TakenAt:      log.TakenAt,
		}
	}
	return responses
}

func AppointmentToResponse(a *entity.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:        a.ID,
		Doctor:    a.Doctor,
		Date:      a.Date,
		CreatedAt: a.CreatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = AppointmentToResponse(&appointments[i])
	}
	return responses
}

func BloodPressureToResponse(r *entity.BloodPressureReading) dto.BloodPressureResponse {
	return dto.BloodPressureResponse{
		ID:        r.ID,
		Systolic:  r.Systolic,
		Diastolic: r.Diastolic,
		CreatedAt: r.CreatedAt,
	}
}

func BloodPressureToResponses(readings []entity.BloodPressureReading) []dto.BloodPressureResponse {
	responses := make([]dto.BloodPressureResponse, len(readings))
	for i := range readings {
		responses[i] = BloodPressureToResponse(&readings[i])
	}
	return responses
}

func BloodSugarToResponses(readings []entity.BloodSugarReading) []dto.BloodSugarResponse {
	responses := make([]dto.BloodSugarResponse, len(readings))
	for i, r := range readings {
		responses[i] = dto.BloodSugarResponse{
			ID:        r.ID,
			Value:     r.Value,
			Type:      string(r.Type),
			CreatedAt: r.CreatedAt,
		}
	}
	return responses
}
