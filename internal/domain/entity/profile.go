package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxProfiles caps the profiles one identity may own.
const MaxProfiles = 10

// Profile is a tracked person (self or a family member) owning a private data scope.
type Profile struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Owner        Owner     `gorm:"embedded" json:"-"`
	Name         string    `gorm:"type:varchar(120);not null" json:"name"`
	Relationship string    `gorm:"type:varchar(60);not null" json:"relationship"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return
}

// Scope returns the data scope owned by the profile.
func (p *Profile) Scope() Scope {
	return p.Owner.Scope(p.ID)
}
