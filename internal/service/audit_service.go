package service

import (
	"context"

	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	// Log writes one activity entry through tx, so it commits or rolls back with the caller.
	Log(ctx context.Context, tx *gorm.DB, owner entity.Owner, action string, metadata entity.JSON) error
	LogCreate(ctx context.Context, tx *gorm.DB, owner entity.Owner, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, owner entity.Owner, action string, entityName string, entityID string, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, owner entity.Owner, action string, entityName string, entityID string, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Log(ctx context.Context, tx *gorm.DB, owner entity.Owner, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		Owner:    owner,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}

func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, owner entity.Owner, action string, entityName string, entityID string, newValue interface{}) error {
	return s.Log(ctx, tx, owner, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"new_value": newValue,
	})
}

func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, owner entity.Owner, action string, entityName string, entityID string, newValue interface{}) error {
	return s.Log(ctx, tx, owner, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"new_value": newValue,
	})
}

// LogDelete logs a delete action with the removed value
func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, owner entity.Owner, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.Log(ctx, tx, owner, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
	})
}
