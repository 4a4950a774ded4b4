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

const veterinarianColumns = `
	id, clinic_id, name, specialization, license_number, years_experience,
	consultation_fee, is_available, rating, created_at, updated_at
`

func (r *veterinarianRepository) Get(ctx context.Context, id uuid.UUID) (*model.Veterinarian, error) {
	query := `SELECT ` + veterinarianColumns + ` FROM veterinarians WHERE id = $1`

	var vet model.Veterinarian
	err := r.db.GetContext(ctx, &vet, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get veterinarian: %w", err)
	}
	return &vet, nil
}

func (r *veterinarianRepository) ListForClinic(ctx context.Context, clinicID uuid.UUID, availableOnly bool) ([]*model.Veterinarian, error) {
	query := `SELECT ` + veterinarianColumns + ` FROM veterinarians WHERE clinic_id = $1`
	if availableOnly {
		query += ` AND is_available = true`
	}
	query += ` ORDER BY name ASC`

	var vets []*model.Veterinarian
	err := r.db.SelectContext(ctx, &vets, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list veterinarians: %w", err)
	}
	return vets, nil
}
