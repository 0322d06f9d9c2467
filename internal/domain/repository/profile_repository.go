package repository

import (
	"context"

	"family-health-dashboard/internal/domain/entity"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.Profile) error
	FindByID(ctx context.Context, db *gorm.DB, owner entity.Owner, id string) (*entity.Profile, error)
	ListByOwner(ctx context.Context, db *gorm.DB, owner entity.Owner) ([]entity.Profile, error)
	CountByOwner(ctx context.Context, db *gorm.DB, owner entity.Owner) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, owner entity.Owner, id string) (int64, error)
}
