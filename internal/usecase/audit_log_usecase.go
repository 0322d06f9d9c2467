package usecase

import (
	"context"

	"family-health-dashboard/internal/converter"
	"family-health-dashboard/internal/delivery/dto"
	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultActivityLimit caps how many activity entries are returned at once.
const DefaultActivityLimit = 50

type AuditLogUsecase interface {
	GetActivity(ctx context.Context, owner entity.Owner, limit int) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetActivity(ctx context.Context, owner entity.Owner, limit int) (*dto.AuditLogListResponse, error) {
	if limit <= 0 || limit > DefaultActivityLimit {
		limit = DefaultActivityLimit
	}

	logs, err := u.auditLogRepo.FindByOwner(ctx, u.db, owner, limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
