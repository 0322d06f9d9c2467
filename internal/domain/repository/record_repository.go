package repository

import (
	"context"

	"family-health-dashboard/internal/domain/entity"

	"gorm.io/gorm"
)

// RecordRepository reads and writes the five scoped record kinds.
type RecordRepository interface {
	Create(ctx context.Context, db *gorm.DB, record entity.Record) error
	// Update writes every mutable field of record in place and returns the affected rows.
	Update(ctx context.Context, db *gorm.DB, record entity.Record) (int64, error)
	List(ctx context.Context, db *gorm.DB, kind entity.Kind, scope entity.Scope) ([]entity.Record, error)
	ListIDs(ctx context.Context, db *gorm.DB, kind entity.Kind, scope entity.Scope) ([]string, error)
	DeleteByIDs(ctx context.Context, db *gorm.DB, kind entity.Kind, scope entity.Scope, ids []string) (int64, error)
	FindMedicine(ctx context.Context, db *gorm.DB, scope entity.Scope, id string) (*entity.Medicine, error)
	// DecrementStock takes one unit only while stock is positive; 0 rows means nothing was taken.
	DecrementStock(ctx context.Context, db *gorm.DB, scope entity.Scope, id string) (int64, error)
}
