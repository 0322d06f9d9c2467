package repository

import (
	"context"

	"family-health-dashboard/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	FindByOwner(ctx context.Context, db *gorm.DB, owner entity.Owner, limit int) ([]entity.AuditLog, error)
}
