package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petcarehq/booking-api/internal/model"
	"github.com/petcarehq/booking-api/internal/repository"
)

// DailyAppointmentCap bounds no-show/spam load on clinics. It is a hard
// ceiling, not configurable per call.
const DailyAppointmentCap = 5

// AvailabilityValidator enforces the per-owner daily volume limit and the
// veterinarian eligibility re-check before a write is attempted.
type AvailabilityValidator struct {
	appointments repository.AppointmentRepository
	vets         repository.VeterinarianRepository
}

func NewAvailabilityValidator(appointments repository.AppointmentRepository, vets repository.VeterinarianRepository) *AvailabilityValidator {
	return &AvailabilityValidator{appointments: appointments, vets: vets}
}

// Validate short-circuits on the first failing rule. The daily cap is checked
// before veterinarian eligibility. The veterinarian is re-fetched here rather
// than trusted from the client: a stale UI selection must be caught
// server-side to close the race between listing and booking. The re-checked
// record is returned so the caller can snapshot the current consultation fee.
func (v *AvailabilityValidator) Validate(ctx context.Context, ownerID uuid.UUID, date time.Time, vetID uuid.UUID) (*model.Veterinarian, error) {
	count, err := v.appointments.CountForOwnerOnDate(ctx, ownerID, date, model.LiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	if count >= DailyAppointmentCap {
		return nil, ErrDailyLimitExceeded
	}

	vet, err := v.vets.Get(ctx, vetID)
	if err != nil {
		return nil, fmt.Errorf("load veterinarian: %w", err)
	}
	if !vet.IsAvailable {
		return nil, ErrVeterinarianUnavailable
	}
	return vet, nil
}
