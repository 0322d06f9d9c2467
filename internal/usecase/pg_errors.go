package usecase

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const maxSerializableAttempts = 3

// serializableTx returns the options for a serializable transaction on
// postgres. Other dialects keep their default, which is already serial for sqlite.
func serializableTx(db *gorm.DB) []*sql.TxOptions {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return []*sql.TxOptions{{Isolation: sql.LevelSerializable}}
}

// isSerializationFailure checks if the error is a PostgreSQL serialization failure
// that is safe to retry
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 40001 = serialization_failure, 40P01 = deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
