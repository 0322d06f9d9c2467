package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncTimes(t *testing.T) {
	tests := []struct {
		name   string
		dosage Dosage
		times  []string
		want   []string
	}{
		{"once to twice keeps first slot", DosageTwiceADay, []string{"08:00"}, []string{"08:00", "08:00"}},
		{"pads custom slot with default", DosageThriceADay, []string{"07:30"}, []string{"07:30", "08:00", "08:00"}},
		{"thrice to once truncates", DosageOnceADay, []string{"07:00", "13:00", "21:00"}, []string{"07:00"}},
		{"weekly uses one slot", DosageOnceAWeek, []string{"09:15", "20:00"}, []string{"09:15"}},
		{"empty input", DosageTwiceADay, nil, []string{"08:00", "08:00"}},
		{"blank entries are refilled", DosageTwiceADay, []string{"", "22:00"}, []string{"08:00", "22:00"}},
		{"unknown dosage falls back to one slot", Dosage("Hourly"), []string{"10:00", "11:00"}, []string{"10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SyncTimes(tt.dosage, tt.times))
		})
	}
}

func TestSyncTimesDoesNotAliasInput(t *testing.T) {
	in := []string{"06:00", "18:00"}
	out := SyncTimes(DosageTwiceADay, in)
	out[0] = "23:59"
	assert.Equal(t, "06:00", in[0])
}

func TestMedicineNormalizeTimes(t *testing.T) {
	m := &Medicine{Dosage: DosageOnceADay, Times: []string{"08:00"}}
	m.Dosage = DosageTwiceADay
	m.NormalizeTimes()
	assert.Equal(t, []string{"08:00", "08:00"}, []string(m.Times))
}

func TestMedicineStockHelpers(t *testing.T) {
	assert.False(t, (&Medicine{Stock: 0}).CanTakeDose())
	assert.True(t, (&Medicine{Stock: 1}).CanTakeDose())
	assert.True(t, (&Medicine{Stock: 5}).IsLowStock())
	assert.False(t, (&Medicine{Stock: 6}).IsLowStock())
}
