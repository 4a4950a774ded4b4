package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/petcarehq/booking-api/internal/model"
)

// Sentinel errors shared by all repository implementations.
var (
	ErrNotFound = errors.New("record not found")

	// ErrDailyCapExceeded is returned by the guarded insert when the owner
	// already holds the maximum number of live appointments for the date.
	ErrDailyCapExceeded = errors.New("owner daily appointment cap reached")

	// ErrSlotTaken is returned when another live appointment already occupies
	// the veterinarian's slot at the requested date and time.
	ErrSlotTaken = errors.New("veterinarian slot already booked")

	// ErrStatusConflict is returned when a compare-and-set status update
	// finds the appointment no longer in the expected status.
	ErrStatusConflict = errors.New("appointment status changed concurrently")
)

// All repository interfaces in one file
type (
	// AppointmentRepository is the persistence boundary of the booking
	// engine. Create is atomic: the full record is written or none of it.
	AppointmentRepository interface {
		// Create inserts a pending appointment, enforcing the daily cap and
		// slot exclusivity in the same statement so concurrent sessions
		// cannot race a read-then-write count check.
		Create(ctx context.Context, req *model.NewAppointmentRequest, dailyCap int) (*model.Appointment, error)
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		ListForOwner(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
		CountForOwnerOnDate(ctx context.Context, ownerID uuid.UUID, date time.Time, statuses []model.AppointmentStatus) (int, error)
		// UpdateStatus performs a compare-and-set transition and records an
		// outbox event in the same transaction.
		UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (*model.Appointment, error)
	}

	PetRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Pet, error)
		ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Pet, error)
	}

	OwnerRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.PetOwnerProfile, error)
		GetByAccountID(ctx context.Context, accountID uuid.UUID) (*model.PetOwnerProfile, error)
	}

	VeterinarianRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Veterinarian, error)
		// ListForClinic returns the clinic's veterinarians; when
		// availableOnly is set, veterinarians with is_available=false are
		// excluded so they are never offered as booking targets.
		ListForClinic(ctx context.Context, clinicID uuid.UUID, availableOnly bool) ([]*model.Veterinarian, error)
	}

	ClinicRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMessage *string) error
	}
)
