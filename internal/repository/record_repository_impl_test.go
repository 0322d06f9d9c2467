package repository

import (
	"context"
	"testing"
	"time"

	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOwner = entity.Owner{DeploymentID: "app", UserID: "alice"}

func newMedicine(scope entity.Scope, name string, stock int) *entity.Medicine {
	m := &entity.Medicine{Name: name, Stock: stock, Dosage: entity.DosageOnceADay, Times: []string{"08:00"}}
	m.SetRecordScope(scope)
	return m
}

func TestRecordRepositoryListIsScoped(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecordRepository()
	ctx := context.Background()

	mine := testOwner.Scope("p1")
	other := testOwner.Scope("p2")
	require.NoError(t, repo.Create(ctx, db, newMedicine(mine, "Aspirin", 3)))
	require.NoError(t, repo.Create(ctx, db, newMedicine(other, "Ibuprofen", 1)))

	records, err := repo.List(ctx, db, entity.KindMedicine, mine)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Aspirin", records[0].(*entity.Medicine).Name)
	assert.Equal(t, mine, records[0].RecordScope())
}

func TestRecordRepositoryUpdateKeepsImmutableColumns(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecordRepository()
	ctx := context.Background()
	scope := testOwner.Scope("p1")

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m := newMedicine(scope, "Aspirin", 3)
	m.CreatedAt = created
	require.NoError(t, repo.Create(ctx, db, m))

	edit := &entity.Medicine{Name: "Aspirin 100", Stock: 0, Dosage: entity.DosageTwiceADay, Times: []string{"08:00", "20:00"}}
	edit.SetRecordID(m.ID)
	edit.SetRecordScope(scope)
	rows, err := repo.Update(ctx, db, edit)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	stored, err := repo.FindMedicine(ctx, db, scope, m.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Aspirin 100", stored.Name)
	assert.Equal(t, 0, stored.Stock)
	assert.Equal(t, []string{"08:00", "20:00"}, []string(stored.Times))
	assert.True(t, created.Equal(stored.CreatedAt))
}

func TestRecordRepositoryUpdateOutsideScopeTouchesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecordRepository()
	ctx := context.Background()

	m := newMedicine(testOwner.Scope("p1"), "Aspirin", 3)
	require.NoError(t, repo.Create(ctx, db, m))

	edit := newMedicine(testOwner.Scope("p2"), "Hijacked", 9)
	edit.SetRecordID(m.ID)
	rows, err := repo.Update(ctx, db, edit)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestRecordRepositoryDecrementStockStopsAtZero(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecordRepository()
	ctx := context.Background()
	scope := testOwner.Scope("p1")

	m := newMedicine(scope, "Aspirin", 1)
	require.NoError(t, repo.Create(ctx, db, m))

	rows, err := repo.DecrementStock(ctx, db, scope, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.DecrementStock(ctx, db, scope, m.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)

	stored, err := repo.FindMedicine(ctx, db, scope, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Stock)
}

func TestRecordRepositoryListIDsAndDeleteByIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecordRepository()
	ctx := context.Background()
	scope := testOwner.Scope("p1")

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, db, newMedicine(scope, name, 1)))
	}
	keep := newMedicine(testOwner.Scope("p2"), "Keep", 1)
	require.NoError(t, repo.Create(ctx, db, keep))

	ids, err := repo.ListIDs(ctx, db, entity.KindMedicine, scope)
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	rows, err := repo.DeleteByIDs(ctx, db, entity.KindMedicine, scope, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rows)

	rows, err = repo.DeleteByIDs(ctx, db, entity.KindMedicine, scope, nil)
	require.NoError(t, err)
	assert.Zero(t, rows)

	left, err := repo.FindMedicine(ctx, db, keep.Scope, keep.ID)
	require.NoError(t, err)
	assert.NotNil(t, left)
}

func TestFindMedicineMissingReturnsNil(t *testing.T) {
	db := testutil.NewDB(t)
	m, err := NewRecordRepository().FindMedicine(context.Background(), db, testOwner.Scope("p1"), "nope")
	require.NoError(t, err)
	assert.Nil(t, m)
}
