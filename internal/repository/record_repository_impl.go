package repository

import (
	"context"
	"errors"
	"fmt"

	"family-health-dashboard/internal/domain/entity"
	domainRepo "family-health-dashboard/internal/domain/repository"

	"gorm.io/gorm"
)

type recordRepository struct{}

func NewRecordRepository() domainRepo.RecordRepository {
	return &recordRepository{}
}

func (r *recordRepository) Create(ctx context.Context, db *gorm.DB, record entity.Record) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *recordRepository) Update(ctx context.Context, db *gorm.DB, record entity.Record) (int64, error) {
	if record.RecordID() == "" {
		return 0, errors.New("update requires a record id")
	}
	result := scopedTo(db.WithContext(ctx).Model(record), record.RecordScope()).
		Select("*").
		Omit(entity.ImmutableColumns...).
		Updates(record)
	return result.RowsAffected, result.Error
}

func (r *recordRepository) List(ctx context.Context, db *gorm.DB, kind entity.Kind, scope entity.Scope) ([]entity.Record, error) {
	switch kind {
	case entity.KindMedicine:
		return listScoped[entity.Medicine](ctx, db, scope)
	case entity.KindDoseLog:
		return listScoped[entity.DoseLog](ctx, db, scope)
	case entity.KindAppointment:
		return listScoped[entity.Appointment](ctx, db, scope)
	case entity.KindBloodPressure:
		return listScoped[entity.BloodPressureReading](ctx, db, scope)
	case entity.KindBloodSugar:
		return listScoped[entity.BloodSugarReading](ctx, db, scope)
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
}

// listScoped returns one collection in insertion order.
func listScoped[T any, PT interface {
	*T
	entity.Record
}](ctx context.Context, db *gorm.DB, scope entity.Scope) ([]entity.Record, error) {
	var rows []T
	if err := scopedTo(db.WithContext(ctx), scope).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]entity.Record, len(rows))
	for i := range rows {
		records[i] = PT(&rows[i])
	}
	return records, nil
}

func (r *recordRepository) ListIDs(ctx context.Context, db *gorm.DB, kind entity.Kind, scope entity.Scope) ([]string, error) {
	model := entity.NewRecord(kind)
	if model == nil {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	var ids []string
	err := scopedTo(db.WithContext(ctx).Model(model), scope).Order("created_at ASC, id ASC").Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *recordRepository) DeleteByIDs(ctx context.Context, db *gorm.DB, kind entity.Kind, scope entity.Scope, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	model := entity.NewRecord(kind)
	if model == nil {
		return 0, fmt.Errorf("unknown record kind %q", kind)
	}
	result := scopedTo(db.WithContext(ctx), scope).Where("id IN ?", ids).Delete(model)
	return result.RowsAffected, result.Error
}

func (r *recordRepository) FindMedicine(ctx context.Context, db *gorm.DB, scope entity.Scope, id string) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := scopedTo(db.WithContext(ctx), scope).Where("id = ?", id).First(&medicine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &medicine, nil
}

func (r *recordRepository) DecrementStock(ctx context.Context, db *gorm.DB, scope entity.Scope, id string) (int64, error) {
	result := scopedTo(db.WithContext(ctx).Model(&entity.Medicine{}), scope).
		Where("id = ? AND stock > 0", id).
		Update("stock", gorm.Expr("stock - ?", 1))
	return result.RowsAffected, result.Error
}
