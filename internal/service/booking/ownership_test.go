package booking

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petcarehq/booking-api/internal/model"
	"github.com/petcarehq/booking-api/internal/repository"
)

func TestOwnershipGuardAuthorize(t *testing.T) {
	owner := newTestOwner()
	pet := newTestPet(owner.ID, "Max")

	guard := NewOwnershipGuard(
		&fakeOwnerRepo{owners: map[uuid.UUID]*model.PetOwnerProfile{owner.AccountID: owner}},
		&fakePetRepo{pets: map[uuid.UUID]*model.Pet{pet.ID: pet}},
	)

	got, err := guard.Authorize(context.Background(), owner.AccountID, pet.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got)
}

func TestOwnershipGuardRejectsForeignPet(t *testing.T) {
	owner := newTestOwner()
	stranger := newTestOwner()
	pet := newTestPet(stranger.ID, "Bella")

	guard := NewOwnershipGuard(
		&fakeOwnerRepo{owners: map[uuid.UUID]*model.PetOwnerProfile{owner.AccountID: owner}},
		&fakePetRepo{pets: map[uuid.UUID]*model.Pet{pet.ID: pet}},
	)

	_, err := guard.Authorize(context.Background(), owner.AccountID, pet.ID)
	assert.ErrorIs(t, err, ErrOwnershipViolation)
}

func TestOwnershipGuardUnknownPet(t *testing.T) {
	owner := newTestOwner()

	guard := NewOwnershipGuard(
		&fakeOwnerRepo{owners: map[uuid.UUID]*model.PetOwnerProfile{owner.AccountID: owner}},
		&fakePetRepo{pets: map[uuid.UUID]*model.Pet{}},
	)

	_, err := guard.Authorize(context.Background(), owner.AccountID, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NotErrorIs(t, err, ErrOwnershipViolation)
}

func TestOwnershipGuardUnknownAccount(t *testing.T) {
	guard := NewOwnershipGuard(
		&fakeOwnerRepo{owners: map[uuid.UUID]*model.PetOwnerProfile{}},
		&fakePetRepo{pets: map[uuid.UUID]*model.Pet{}},
	)

	_, err := guard.Authorize(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
