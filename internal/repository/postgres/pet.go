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

const petColumns = `
	id, owner_id, name, species, breed, gender, weight_kg, medical_conditions,
	created_at, updated_at
`

func (r *petRepository) Get(ctx context.Context, id uuid.UUID) (*model.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE id = $1`

	var pet model.Pet
	err := r.db.GetContext(ctx, &pet, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return &pet, nil
}

func (r *petRepository) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE owner_id = $1 ORDER BY name ASC`

	var pets []*model.Pet
	err := r.db.SelectContext(ctx, &pets, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	return pets, nil
}
