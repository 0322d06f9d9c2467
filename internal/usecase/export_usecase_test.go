package usecase

import (
	"testing"
	"time"

	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/state"
	"family-health-dashboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReportSummary(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	profile := &entity.Profile{ID: "p1", Name: "Alice", Relationship: "Self"}

	bp := func(sys, dia int, at time.Time) entity.BloodPressureReading {
		r := entity.BloodPressureReading{Systolic: sys, Diastolic: dia}
		r.CreatedAt = at
		return r
	}

	mirrors := state.Mirrors{
		Medicines: []entity.Medicine{
			{Name: "Aspirin", Stock: 2, Dosage: entity.DosageOnceADay},
			{Name: "Metformin", Stock: 30, Dosage: entity.DosageTwiceADay},
			{Name: "Vitamin D", Stock: 5, Dosage: entity.DosageOnceAWeek},
		},
		DoseLogs: []entity.DoseLog{{MedicineName: "Aspirin"}, {MedicineName: "Aspirin"}},
		Appointments: []entity.Appointment{
			{Doctor: "Past", Date: now.Add(-24 * time.Hour)},
			{Doctor: "Later", Date: now.Add(72 * time.Hour)},
			{Doctor: "Soon", Date: now.Add(2 * time.Hour)},
		},
		BloodPressure: []entity.BloodPressureReading{
			bp(130, 85, now.Add(-48*time.Hour)),
			bp(118, 76, now.Add(-1*time.Hour)),
		},
		BloodSugar: []entity.BloodSugarReading{
			{Value: 90, Type: entity.BloodSugarFasting},
			{Value: 141, Type: entity.BloodSugarPP},
		},
	}

	report, err := NewExportUsecase(testutil.NewLogger()).Generate(profile, mirrors, now)
	require.NoError(t, err)

	assert.Equal(t, "Alice", report.Profile.Name)
	assert.Len(t, report.Medicines, 3)
	require.Len(t, report.Summary.LowStockMedicines, 2)
	assert.Equal(t, "Aspirin", report.Summary.LowStockMedicines[0].Name)
	assert.Equal(t, "Vitamin D", report.Summary.LowStockMedicines[1].Name)

	require.NotNil(t, report.Summary.LatestBloodPressure)
	assert.Equal(t, 118, report.Summary.LatestBloodPressure.Systolic)

	require.NotNil(t, report.Summary.AverageBloodSugar)
	assert.InDelta(t, 115.5, *report.Summary.AverageBloodSugar, 0.001)

	require.NotNil(t, report.Summary.NextAppointment)
	assert.Equal(t, "Soon", report.Summary.NextAppointment.Doctor)
	assert.Equal(t, 2, report.Summary.DosesTaken)
}

func TestGenerateReportNeedsProfile(t *testing.T) {
	_, err := NewExportUsecase(testutil.NewLogger()).Generate(nil, state.Mirrors{}, time.Now())
	assert.ErrorIs(t, err, ErrNoActiveProfile)
}

func TestGenerateReportOnEmptyMirrors(t *testing.T) {
	report, err := NewExportUsecase(testutil.NewLogger()).Generate(&entity.Profile{ID: "p1"}, state.Mirrors{}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, report.Summary.LowStockMedicines)
	assert.Nil(t, report.Summary.LatestBloodPressure)
	assert.Nil(t, report.Summary.AverageBloodSugar)
	assert.Nil(t, report.Summary.NextAppointment)
}
