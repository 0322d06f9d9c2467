package repository

import (
	"family-health-dashboard/internal/domain/entity"

	"gorm.io/gorm"
)

func ownedBy(db *gorm.DB, owner entity.Owner) *gorm.DB {
	return db.Where("deployment_id = ? AND user_id = ?", owner.DeploymentID, owner.UserID)
}

func scopedTo(db *gorm.DB, scope entity.Scope) *gorm.DB {
	return db.Where("deployment_id = ? AND user_id = ? AND profile_id = ?", scope.DeploymentID, scope.UserID, scope.ProfileID)
}
