package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"family-health-dashboard/config"
	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/infrastructure/blob"
	"family-health-dashboard/internal/repository"
	"family-health-dashboard/internal/service"
	"family-health-dashboard/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var errInjected = errors.New("injected failure")

type recordingNotifier struct {
	mu     sync.Mutex
	topics []string
}

func (n *recordingNotifier) Notify(ctx context.Context, topics ...string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.topics = append(n.topics, topics...)
	return nil
}

func (n *recordingNotifier) Topics() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.topics...)
}

type fixture struct {
	db        *gorm.DB
	owner     entity.Owner
	notifier  *recordingNotifier
	blobDir   string
	profiles  ProfileUsecase
	mutations *mutationUsecase
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	notifier := &recordingNotifier{}
	blobDir := t.TempDir()
	store, err := blob.NewLocalStore(config.BlobConfig{Dir: blobDir, URLPath: "/blobs"})
	require.NoError(t, err)

	profileRepo := repository.NewProfileRepository()
	recordRepo := repository.NewRecordRepository()
	audit := service.NewAuditService(log, repository.NewAuditLogRepository())

	f := &fixture{
		db:       db,
		owner:    entity.Owner{DeploymentID: "app", UserID: "alice"},
		notifier: notifier,
		blobDir:  blobDir,
		profiles: NewProfileUsecase(db, log, profileRepo, audit, notifier),
		clock:    time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
	f.mutations = NewMutationUsecase(db, log, profileRepo, recordRepo, audit, notifier, store).(*mutationUsecase)
	f.mutations.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) addProfile(t *testing.T, name string) entity.Scope {
	t.Helper()
	p, err := f.profiles.Add(context.Background(), f.owner, name, "Self")
	require.NoError(t, err)
	return f.owner.Scope(p.ID)
}

func (f *fixture) count(t *testing.T, model any, scope entity.Scope) int64 {
	t.Helper()
	var total int64
	require.NoError(t, f.db.Model(model).
		Where("deployment_id = ? AND user_id = ? AND profile_id = ?", scope.DeploymentID, scope.UserID, scope.ProfileID).
		Count(&total).Error)
	return total
}

// failOn makes every statement of op against table fail.
func failOn(t *testing.T, db *gorm.DB, op string, table string) {
	t.Helper()
	fail := func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(errInjected)
		}
	}
	name := "test:fail_" + op + "_" + table
	switch op {
	case "create":
		require.NoError(t, db.Callback().Create().Before("gorm:create").Register(name, fail))
	case "delete":
		require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register(name, fail))
	default:
		t.Fatalf("unsupported op %q", op)
	}
}
