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

func TestProfileRepositoryListsInInsertionOrder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProfileRepository()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Self", "Mom", "Dad"} {
		p := &entity.Profile{Owner: testOwner, Name: name, Relationship: "family", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(ctx, db, p))
	}
	stranger := &entity.Profile{Owner: entity.Owner{DeploymentID: "app", UserID: "bob"}, Name: "Bob", Relationship: "Self"}
	require.NoError(t, repo.Create(ctx, db, stranger))

	profiles, err := repo.ListByOwner(ctx, db, testOwner)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, "Self", profiles[0].Name)
	assert.Equal(t, "Dad", profiles[2].Name)

	total, err := repo.CountByOwner(ctx, db, testOwner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestProfileRepositoryDeleteIsOwnerScoped(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProfileRepository()
	ctx := context.Background()

	p := &entity.Profile{Owner: testOwner, Name: "Self", Relationship: "Self"}
	require.NoError(t, repo.Create(ctx, db, p))

	rows, err := repo.Delete(ctx, db, entity.Owner{DeploymentID: "app", UserID: "mallory"}, p.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = repo.Delete(ctx, db, testOwner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	found, err := repo.FindByID(ctx, db, testOwner, p.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}
