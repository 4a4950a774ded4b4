package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/petcarehq/booking-api/internal/model"
	"github.com/petcarehq/booking-api/internal/repository"
)

const appointmentColumns = `
	id, pet_owner_id, pet_id, veterinarian_id, clinic_id,
	appointment_date, appointment_time, reason_for_visit, symptoms,
	status, booking_type, estimated_duration, total_amount, payment_status,
	created_at, updated_at
`

func statusStrings(statuses []model.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// Create inserts a pending appointment with the daily cap and slot
// exclusivity enforced inside the INSERT itself. Two sessions racing the same
// cap or slot cannot both commit; the loser gets zero rows back.
func (r *appointmentRepository) Create(ctx context.Context, req *model.NewAppointmentRequest, dailyCap int) (*model.Appointment, error) {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15
		WHERE (
			SELECT COUNT(*) FROM appointments
			WHERE pet_owner_id = $2
			  AND appointment_date = $6
			  AND status = ANY($16)
		) < $17
		AND NOT EXISTS (
			SELECT 1 FROM appointments
			WHERE veterinarian_id = $4
			  AND appointment_date = $6
			  AND appointment_time = $7
			  AND status = ANY($16)
		)
		RETURNING ` + appointmentColumns

	now := time.Now()
	live := pq.Array(statusStrings(model.LiveStatuses))

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query,
		uuid.New(),
		req.OwnerID,
		req.PetID,
		req.VeterinarianID,
		req.ClinicID,
		req.Date,
		req.Time,
		req.Reason,
		req.Symptoms,
		model.AppointmentStatusPending,
		req.BookingChannel,
		req.DurationMinutes,
		req.TotalAmount,
		model.PaymentStatusUnpaid,
		now,
		live,
		dailyCap,
	)
	if err == nil {
		return &appointment, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	// The guard refused the insert. Re-count to tell the caller which rule
	// fired; the count is advisory here, the insert itself stays atomic.
	count, countErr := r.CountForOwnerOnDate(ctx, req.OwnerID, req.Date, model.LiveStatuses)
	if countErr != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	if count >= dailyCap {
		return nil, repository.ErrDailyCapExceeded
	}
	return nil, repository.ErrSlotTaken
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) ListForOwner(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE pet_owner_id = $1
		  AND appointment_date >= $2
		  AND appointment_date <= $3
		ORDER BY appointment_date ASC, appointment_time ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountForOwnerOnDate(ctx context.Context, ownerID uuid.UUID, date time.Time, statuses []model.AppointmentStatus) (int, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE pet_owner_id = $1
		  AND appointment_date = $2
		  AND status = ANY($3)
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, ownerID, date, pq.Array(statusStrings(statuses)))
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

// UpdateStatus performs a compare-and-set transition and writes the outbox
// event in the same transaction.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (*model.Appointment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE appointments
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
		RETURNING ` + appointmentColumns

	var appointment model.Appointment
	err = tx.GetContext(ctx, &appointment, query, id, to, time.Now(), from)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrStatusConflict
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"appointment_id": appointment.ID,
		"pet_owner_id":   appointment.OwnerID,
		"from":           from,
		"to":             to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outbox_events (id, event_type, payload, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, 0, $5)
	`, uuid.New(), "appointment_status_changed", payload, model.OutboxStatusPending, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to record outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}
	return &appointment, nil
}
