package repository

import (
	"context"

	"family-health-dashboard/internal/domain/entity"
	domainRepo "family-health-dashboard/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	return db.WithContext(ctx).Create(log).Error
}

// FindByOwner returns the newest entries first.
func (r *auditLogRepository) FindByOwner(ctx context.Context, db *gorm.DB, owner entity.Owner, limit int) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	query := ownedBy(db.WithContext(ctx), owner).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
