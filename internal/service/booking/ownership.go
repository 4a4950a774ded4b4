package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/petcarehq/booking-api/internal/repository"
)

// OwnershipGuard confirms the acting account owns the pet being booked.
type OwnershipGuard struct {
	owners repository.OwnerRepository
	pets   repository.PetRepository
}

func NewOwnershipGuard(owners repository.OwnerRepository, pets repository.PetRepository) *OwnershipGuard {
	return &OwnershipGuard{owners: owners, pets: pets}
}

// Authorize resolves the account's owner profile, fetches the pet, and
// compares the pet's owning profile id for equality. It returns the resolved
// owner profile id on success and ErrOwnershipViolation on mismatch, before
// any write is attempted.
func (g *OwnershipGuard) Authorize(ctx context.Context, accountID, petID uuid.UUID) (uuid.UUID, error) {
	owner, err := g.owners.GetByAccountID(ctx, accountID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve owner profile: %w", err)
	}

	pet, err := g.pets.Get(ctx, petID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load pet: %w", err)
	}

	if pet.OwnerID != owner.ID {
		return uuid.Nil, ErrOwnershipViolation
	}
	return owner.ID, nil
}
