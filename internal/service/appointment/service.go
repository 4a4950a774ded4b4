package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petcarehq/booking-api/internal/model"
	"github.com/petcarehq/booking-api/internal/repository"
	"github.com/petcarehq/booking-api/internal/service/notification"
	"github.com/petcarehq/booking-api/pkg/logger"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
)

// allowedTransitions are the veterinarian-side moves. The booking engine
// itself only ever produces pending records and never mutates them.
var allowedTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending:    {model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
	model.AppointmentStatusConfirmed:  {model.AppointmentStatusInProgress, model.AppointmentStatusCancelled},
	model.AppointmentStatusInProgress: {model.AppointmentStatusCompleted},
}

type Service struct {
	repo       repository.AppointmentRepository
	owners     repository.OwnerRepository
	dispatcher notification.Dispatcher
	logger     *logger.Logger
}

func NewService(repo repository.AppointmentRepository, owners repository.OwnerRepository, dispatcher notification.Dispatcher, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		owners:     owners,
		dispatcher: dispatcher,
		logger:     log,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) ListForOwner(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	appointments, err := s.repo.ListForOwner(ctx, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// Transition moves an appointment to a new status with a compare-and-set
// write and notifies the owner. Notification delivery is fire-and-forget;
// its failure never rolls back the transition.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to model.AppointmentStatus) (*model.Appointment, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if !transitionAllowed(current.Status, to) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, to)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	s.notifyOwner(ctx, updated)
	return updated, nil
}

func transitionAllowed(from, to model.AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *Service) notifyOwner(ctx context.Context, appointment *model.Appointment) {
	owner, err := s.owners.Get(ctx, appointment.OwnerID)
	if err != nil {
		s.logger.Error(err, "failed to resolve owner for notification",
			"appointment_id", appointment.ID.String())
		return
	}

	n := &model.Notification{
		ID:            uuid.New(),
		AppointmentID: appointment.ID,
		OwnerID:       owner.ID,
		Channel:       model.NotificationChannelEmail,
		Recipient:     owner.Email,
		Subject:       fmt.Sprintf("Appointment %s", appointment.Status),
		Content: fmt.Sprintf("Your appointment on %s at %s is now %s.",
			appointment.Date.Format("2006-01-02"), appointment.Time, appointment.Status),
		CreatedAt: time.Now(),
	}

	if err := s.dispatcher.Dispatch(ctx, n); err != nil {
		s.logger.Error(err, "failed to dispatch notification",
			"appointment_id", appointment.ID.String())
	}
}
