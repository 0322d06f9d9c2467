package usecase

import (
	"context"
	"fmt"
	"testing"

	"family-health-dashboard/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProfileEnforcesCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < entity.MaxProfiles; i++ {
		_, err := f.profiles.Add(ctx, f.owner, fmt.Sprintf("Member %d", i+1), "Family")
		require.NoError(t, err)
	}
	before := len(f.notifier.Topics())

	_, err := f.profiles.Add(ctx, f.owner, "Member 11", "Family")
	assert.ErrorIs(t, err, ErrProfileLimitReached)

	list, err := f.profiles.List(ctx, f.owner)
	require.NoError(t, err)
	assert.Len(t, list, entity.MaxProfiles)
	assert.Len(t, f.notifier.Topics(), before, "a rejected add must not notify")
}

func TestAddProfileCapacityIsPerOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < entity.MaxProfiles; i++ {
		_, err := f.profiles.Add(ctx, f.owner, fmt.Sprintf("Member %d", i+1), "Family")
		require.NoError(t, err)
	}

	bob := entity.Owner{DeploymentID: "app", UserID: "bob"}
	p, err := f.profiles.Add(ctx, bob, "Bob", "Self")
	require.NoError(t, err)
	assert.Equal(t, bob, p.Owner)
}

func TestAddProfileNotifiesProfileList(t *testing.T) {
	f := newFixture(t)

	p, err := f.profiles.Add(context.Background(), f.owner, "  Alice ", "Self")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, []string{f.owner.ProfilesPath()}, f.notifier.Topics())
}

func TestAddProfileRequiresName(t *testing.T) {
	f := newFixture(t)
	_, err := f.profiles.Add(context.Background(), f.owner, " ", "Self")
	assert.ErrorIs(t, err, ErrInvalidProfile)
}
