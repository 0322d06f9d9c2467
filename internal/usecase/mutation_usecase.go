package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/domain/repository"
	"family-health-dashboard/internal/infrastructure/blob"
	"family-health-dashboard/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound        = errors.New("record not found")
	ErrInvalidRecord         = errors.New("invalid record")
	ErrDosePartiallyRecorded = errors.New("stock was taken but the dose could not be logged")
	ErrUnsupportedFile       = errors.New("prescription must be a pdf or an image")
)

// MutationUsecase is the single write path for scoped data. Every operation is
// a silent no-op when the scope has no identity or no profile.
type MutationUsecase interface {
	// SaveRecord creates record when it has no id and updates it in place otherwise.
	SaveRecord(ctx context.Context, scope entity.Scope, record entity.Record) (entity.Record, error)
	// TakeDose returns nil without error when no stock was available.
	TakeDose(ctx context.Context, scope entity.Scope, medicineID string) (*entity.DoseLog, error)
	DeleteProfile(ctx context.Context, owner entity.Owner, profileID string) error
	UploadPrescription(ctx context.Context, scope entity.Scope, fileName string, r io.Reader) (string, error)
}

type mutationUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	profileRepo  repository.ProfileRepository
	recordRepo   repository.RecordRepository
	auditService service.AuditService
	notifier     ChangeNotifier
	blobStore    blob.Store
	now          func() time.Time
}

func NewMutationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	profileRepo repository.ProfileRepository,
	recordRepo repository.RecordRepository,
	auditService service.AuditService,
	notifier ChangeNotifier,
	blobStore blob.Store,
) MutationUsecase {
	return &mutationUsecase{
		db:           db,
		log:          log,
		profileRepo:  profileRepo,
		recordRepo:   recordRepo,
		auditService: auditService,
		notifier:     notifier,
		blobStore:    blobStore,
		now:          time.Now,
	}
}

func (u *mutationUsecase) SaveRecord(ctx context.Context, scope entity.Scope, record entity.Record) (entity.Record, error) {
	if scope.IsZero() {
		return nil, nil
	}
	if record == nil || !record.Kind().Valid() {
		return nil, ErrInvalidRecord
	}
	if err := prepareRecord(record); err != nil {
		return nil, err
	}
	record.SetRecordScope(scope)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.profileRepo.FindByID(ctx, tx, scope.Owner(), scope.ProfileID)
	if err != nil {
		u.log.Warnf("Failed to find profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	kind := record.Kind()
	if record.RecordID() == "" {
		record.SetRecordID(uuid.New().String())
		record.SetCreated(u.now())

		if err := u.recordRepo.Create(ctx, tx, record); err != nil {
			u.log.Warnf("Failed to create %s: %+v", kind.Label(), err)
			return nil, err
		}
		if err := u.auditService.LogCreate(ctx, tx, scope.Owner(), entity.AuditActionRecordCreate, string(kind), record.RecordID(), record); err != nil {
			return nil, err
		}
	} else {
		rows, err := u.recordRepo.Update(ctx, tx, record)
		if err != nil {
			u.log.Warnf("Failed to update %s: %+v", kind.Label(), err)
			return nil, err
		}
		if rows == 0 {
			return nil, ErrRecordNotFound
		}
		if err := u.auditService.LogUpdate(ctx, tx, scope.Owner(), entity.AuditActionRecordUpdate, string(kind), record.RecordID(), record); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	notifyCommitted(ctx, u.log, u.notifier, scope.CollectionPath(kind))

	return record, nil
}

// prepareRecord applies the per-kind rules every stored record satisfies.
func prepareRecord(record entity.Record) error {
	switch r := record.(type) {
	case *entity.Medicine:
		if strings.TrimSpace(r.Name) == "" || r.Stock < 0 || !r.Dosage.Valid() {
			return ErrInvalidRecord
		}
		r.NormalizeTimes()
	case *entity.BloodSugarReading:
		switch r.Type {
		case entity.BloodSugarFasting, entity.BloodSugarPP, entity.BloodSugarRandom:
		default:
			return ErrInvalidRecord
		}
	}
	return nil
}

func (u *mutationUsecase) TakeDose(ctx context.Context, scope entity.Scope, medicineID string) (*entity.DoseLog, error) {
	if scope.IsZero() || medicineID == "" {
		return nil, nil
	}

	medicine, err := u.recordRepo.FindMedicine(ctx, u.db, scope, medicineID)
	if err != nil {
		u.log.Warnf("Failed to find medicine: %+v", err)
		return nil, err
	}
	if medicine == nil {
		return nil, ErrRecordNotFound
	}
	if !medicine.CanTakeDose() {
		return nil, nil
	}

	// The conditional decrement settles races with other sessions: when it
	// takes nothing, nothing is logged either.
	rows, err := u.recordRepo.DecrementStock(ctx, u.db, scope, medicineID)
	if err != nil {
		u.log.Warnf("Failed to decrement stock: %+v", err)
		return nil, err
	}
	if rows == 0 {
		return nil, nil
	}

	takenAt := u.now()
	doseLog := &entity.DoseLog{
		MedicineID:   medicine.ID,
		MedicineName: medicine.Name,
		TakenAt:      takenAt,
	}
	doseLog.SetRecordScope(scope)
	doseLog.SetRecordID(uuid.New().String())
	doseLog.SetCreated(takenAt)

	// Stock and log are separate writes. A failed log leaves the decrement in place.
	if err := u.recordRepo.Create(ctx, u.db, doseLog); err != nil {
		u.log.Warnf("Failed to log dose of %s: %+v", medicine.ID, err)
		notifyCommitted(ctx, u.log, u.notifier, scope.CollectionPath(entity.KindMedicine))
		return nil, fmt.Errorf("%w: %v", ErrDosePartiallyRecorded, err)
	}

	if err := u.auditService.LogCreate(ctx, u.db, scope.Owner(), entity.AuditActionDoseTake, string(entity.KindDoseLog), doseLog.ID, doseLog); err != nil {
		u.log.Debugf("Failed to audit dose of %s: %+v", medicine.ID, err)
	}

	notifyCommitted(ctx, u.log, u.notifier,
		scope.CollectionPath(entity.KindMedicine),
		scope.CollectionPath(entity.KindDoseLog),
	)

	return doseLog, nil
}

func (u *mutationUsecase) DeleteProfile(ctx context.Context, owner entity.Owner, profileID string) error {
	if owner.IsZero() || profileID == "" {
		return nil
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.profileRepo.FindByID(ctx, tx, owner, profileID)
	if err != nil {
		u.log.Warnf("Failed to find profile: %+v", err)
		return err
	}
	if profile == nil {
		return ErrProfileNotFound
	}

	scope := owner.Scope(profileID)
	removed := make(map[string]int64, len(entity.Kinds()))
	for _, kind := range entity.Kinds() {
		ids, err := u.recordRepo.ListIDs(ctx, tx, kind, scope)
		if err != nil {
			u.log.Warnf("Failed to list %s for delete: %+v", kind, err)
			return err
		}
		rows, err := u.recordRepo.DeleteByIDs(ctx, tx, kind, scope, ids)
		if err != nil {
			u.log.Warnf("Failed to delete %s: %+v", kind, err)
			return err
		}
		removed[string(kind)] = rows
	}

	rows, err := u.profileRepo.Delete(ctx, tx, owner, profileID)
	if err != nil {
		u.log.Warnf("Failed to delete profile: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, owner, entity.AuditActionProfileDelete, "profile", profileID, entity.JSON{
		"name":         profile.Name,
		"relationship": profile.Relationship,
		"removed":      removed,
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	topics := []string{owner.ProfilesPath()}
	for _, kind := range entity.Kinds() {
		topics = append(topics, scope.CollectionPath(kind))
	}
	notifyCommitted(ctx, u.log, u.notifier, topics...)

	return nil
}

func (u *mutationUsecase) UploadPrescription(ctx context.Context, scope entity.Scope, fileName string, r io.Reader) (string, error) {
	if scope.IsZero() {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	if _, ok := entity.PrescriptionContentType(ext); !ok {
		return "", ErrUnsupportedFile
	}
	name := fmt.Sprintf("%s-%s%s", u.now().Format("20060102"), uuid.New().String(), ext)

	url, err := u.blobStore.Put(ctx, scope.PrescriptionPath(name), r)
	if err != nil {
		u.log.Warnf("Failed to store prescription: %+v", err)
		return "", err
	}

	if err := u.auditService.Log(ctx, u.db, scope.Owner(), entity.AuditActionPrescriptionStore, entity.JSON{
		"profile_id": scope.ProfileID,
		"file":       name,
		"url":        url,
	}); err != nil {
		u.log.Debugf("Failed to audit prescription upload: %+v", err)
	}

	return url, nil
}
