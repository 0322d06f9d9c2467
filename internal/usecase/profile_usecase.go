package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/domain/repository"
	"family-health-dashboard/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrProfileLimitReached = fmt.Errorf("you can only create up to %d profiles", entity.MaxProfiles)
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInvalidProfile      = errors.New("profile name and relationship are required")
)

type ProfileUsecase interface {
	Add(ctx context.Context, owner entity.Owner, name, relationship string) (*entity.Profile, error)
	List(ctx context.Context, owner entity.Owner) ([]entity.Profile, error)
}

type profileUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	profileRepo  repository.ProfileRepository
	auditService service.AuditService
	notifier     ChangeNotifier
}

func NewProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	profileRepo repository.ProfileRepository,
	auditService service.AuditService,
	notifier ChangeNotifier,
) ProfileUsecase {
	return &profileUsecase{
		db:           db,
		log:          log,
		profileRepo:  profileRepo,
		auditService: auditService,
		notifier:     notifier,
	}
}

func (u *profileUsecase) Add(ctx context.Context, owner entity.Owner, name, relationship string) (*entity.Profile, error) {
	name = strings.TrimSpace(name)
	relationship = strings.TrimSpace(relationship)
	if name == "" || relationship == "" {
		return nil, ErrInvalidProfile
	}

	var (
		profile *entity.Profile
		err     error
	)
	for attempt := 1; attempt <= maxSerializableAttempts; attempt++ {
		profile, err = u.add(ctx, owner, name, relationship)
		if !isSerializationFailure(err) {
			break
		}
		u.log.Infof("Retrying profile add after serialization failure (attempt %d)", attempt)
	}
	if err != nil {
		return nil, err
	}

	notifyCommitted(ctx, u.log, u.notifier, owner.ProfilesPath())

	return profile, nil
}

// add runs count-then-create in one transaction. On postgres the transaction is
// serializable, so two concurrent adds cannot both pass the capacity check.
func (u *profileUsecase) add(ctx context.Context, owner entity.Owner, name, relationship string) (*entity.Profile, error) {
	tx := u.db.WithContext(ctx).Begin(serializableTx(u.db)...)
	defer tx.Rollback()

	total, err := u.profileRepo.CountByOwner(ctx, tx, owner)
	if err != nil {
		u.log.Warnf("Failed to count profiles: %+v", err)
		return nil, err
	}
	if total >= entity.MaxProfiles {
		return nil, ErrProfileLimitReached
	}

	profile := &entity.Profile{
		Owner:        owner,
		Name:         name,
		Relationship: relationship,
	}
	if err := u.profileRepo.Create(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to create profile: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, owner, entity.AuditActionProfileCreate, "profile", profile.ID, profile); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return profile, nil
}

func (u *profileUsecase) List(ctx context.Context, owner entity.Owner) ([]entity.Profile, error) {
	profiles, err := u.profileRepo.ListByOwner(ctx, u.db, owner)
	if err != nil {
		u.log.Warnf("Failed to list profiles: %+v", err)
		return nil, err
	}
	return profiles, nil
}
