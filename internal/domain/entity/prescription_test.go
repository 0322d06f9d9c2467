package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrescriptionContentType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
		ok   bool
	}{
		{".pdf", "application/pdf", true},
		{".PNG", "image/png", true},
		{".jpeg", "image/jpeg", true},
		{".html", "", false},
		{".svg", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			got, ok := PrescriptionContentType(tt.ext)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
