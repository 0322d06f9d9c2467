package usecase

import (
	"context"

	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RecordQueryUsecase interface {
	List(ctx context.Context, scope entity.Scope, kind entity.Kind) ([]entity.Record, error)
}

type recordQueryUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	recordRepo repository.RecordRepository
}

func NewRecordQueryUsecase(db *gorm.DB, log *logrus.Logger, recordRepo repository.RecordRepository) RecordQueryUsecase {
	return &recordQueryUsecase{
		db:         db,
		log:        log,
		recordRepo: recordRepo,
	}
}

func (u *recordQueryUsecase) List(ctx context.Context, scope entity.Scope, kind entity.Kind) ([]entity.Record, error) {
	records, err := u.recordRepo.List(ctx, u.db, kind, scope)
	if err != nil {
		u.log.Warnf("Failed to list %s: %+v", kind, err)
		return nil, err
	}
	return records, nil
}
