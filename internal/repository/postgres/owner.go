package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/petcarehq/booking-api/internal/model"
	"github.com/petcarehq/booking-api/internal/repository"
)

const ownerColumns = `id, account_id, name, email, phone, created_at, updated_at`

func (r *ownerRepository) Get(ctx context.Context, id uuid.UUID) (*model.PetOwnerProfile, error) {
	query := `SELECT ` + ownerColumns + ` FROM pet_owner_profiles WHERE id = $1`

	var owner model.PetOwnerProfile
	err := r.db.GetContext(ctx, &owner, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get owner profile: %w", err)
	}
	return &owner, nil
}

func (r *ownerRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*model.PetOwnerProfile, error) {
	query := `SELECT ` + ownerColumns + ` FROM pet_owner_profiles WHERE account_id = $1`

	var owner model.PetOwnerProfile
	err := r.db.GetContext(ctx, &owner, query, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get owner profile by account: %w", err)
	}
	return &owner, nil
}
