package usecase

import (
	"errors"
	"time"

	"family-health-dashboard/internal/converter"
	"family-health-dashboard/internal/delivery/dto"
	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/state"

	"github.com/sirupsen/logrus"
)

var ErrNoActiveProfile = errors.New("no active profile")

// ExportUsecase builds the downloadable report from what the dashboard
// already mirrors. It never reads the store.
type ExportUsecase interface {
	Generate(profile *entity.Profile, mirrors state.Mirrors, now time.Time) (*dto.ExportReport, error)
}

type exportUsecase struct {
	log *logrus.Logger
}

func NewExportUsecase(log *logrus.Logger) ExportUsecase {
	return &exportUsecase{log: log}
}

func (u *exportUsecase) Generate(profile *entity.Profile, mirrors state.Mirrors, now time.Time) (*dto.ExportReport, error) {
	if profile == nil {
		return nil, ErrNoActiveProfile
	}

	report := &dto.ExportReport{
		GeneratedAt:   now,
		Profile:       *converter.ProfileToResponse(profile),
		Medicines:     converter.MedicinesToResponses(mirrors.Medicines),
		DoseLogs:      converter.DoseLogsToResponses(mirrors.DoseLogs),
		Appointments:  converter.AppointmentsToResponses(mirrors.Appointments),
		BloodPressure: converter.BloodPressureToResponses(mirrors.BloodPressure),
		BloodSugar:    converter.BloodSugarToResponses(mirrors.BloodSugar),
	}
	report.Summary = summarize(mirrors, now)

	u.log.Debugf("Generated report for profile %s", profile.ID)

	return report, nil
}

func summarize(m state.Mirrors, now time.Time) dto.ExportSummary {
	summary := dto.ExportSummary{
		LowStockMedicines: []dto.MedicineResponse{},
		DosesTaken:        len(m.DoseLogs),
	}

	for i := range m.Medicines {
		if m.Medicines[i].IsLowStock() {
			summary.LowStockMedicines = append(summary.LowStockMedicines, converter.MedicineToResponse(&m.Medicines[i]))
		}
	}

	var latest *entity.BloodPressureReading
	for i := range m.BloodPressure {
		r := &m.BloodPressure[i]
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest != nil {
		bp := converter.BloodPressureToResponse(latest)
		summary.LatestBloodPressure = &bp
	}

	if len(m.BloodSugar) > 0 {
		total := 0
		for _, r := range m.BloodSugar {
			total += r.Value
		}
		avg := float64(total) / float64(len(m.BloodSugar))
		summary.AverageBloodSugar = &avg
	}

	var next *entity.Appointment
	for i := range m.Appointments {
		a := &m.Appointments[i]
		if !a.IsUpcoming(now) {
			continue
		}
		if next == nil || a.Date.Before(next.Date) {
			next = a
		}
	}
	if next != nil {
		appt := converter.AppointmentToResponse(next)
		summary.NextAppointment = &appt
	}

	return summary
}
