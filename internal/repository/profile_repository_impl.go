package repository

import (
	"context"
	"errors"

	"family-health-dashboard/internal/domain/entity"
	domainRepo "family-health-dashboard/internal/domain/repository"

	"gorm.io/gorm"
)

type profileRepository struct{}

func NewProfileRepository() domainRepo.ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.Profile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) FindByID(ctx context.Context, db *gorm.DB, owner entity.Owner, id string) (*entity.Profile, error) {
	var profile entity.Profile
	err := ownedBy(db.WithContext(ctx), owner).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// ListByOwner returns profiles in insertion order.
func (r *profileRepository) ListByOwner(ctx context.Context, db *gorm.DB, owner entity.Owner) ([]entity.Profile, error) {
	var profiles []entity.Profile
	err := ownedBy(db.WithContext(ctx), owner).Order("created_at ASC, id ASC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) CountByOwner(ctx context.Context, db *gorm.DB, owner entity.Owner) (int64, error) {
	var total int64
	err := ownedBy(db.WithContext(ctx).Model(&entity.Profile{}), owner).Count(&total).Error
	return total, err
}

func (r *profileRepository) Delete(ctx context.Context, db *gorm.DB, owner entity.Owner, id string) (int64, error) {
	result := ownedBy(db.WithContext(ctx), owner).Where("id = ?", id).Delete(&entity.Profile{})
	return result.RowsAffected, result.Error
}
