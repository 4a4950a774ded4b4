package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petcarehq/booking-api/internal/model"
	"github.com/petcarehq/booking-api/internal/repository"
	"github.com/petcarehq/booking-api/pkg/logger"
	"github.com/petcarehq/booking-api/pkg/metrics"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("booking session not found or expired")

// Config carries the engine's fixed parameters.
type Config struct {
	Channel    model.BookingChannel
	Hours      OperatingHours
	SessionTTL time.Duration
}

// Service owns the wizard sessions and wires the booking engine's
// collaborators together.
type Service struct {
	appointments repository.AppointmentRepository
	vets         repository.VeterinarianRepository
	pets         repository.PetRepository
	owners       repository.OwnerRepository
	clinics      repository.ClinicRepository
	guard        *OwnershipGuard
	validator    *AvailabilityValidator
	sessions     *SessionStore
	metrics      *metrics.Metrics
	logger       *logger.Logger
	cfg          Config
}

func NewService(
	appointments repository.AppointmentRepository,
	vets repository.VeterinarianRepository,
	pets repository.PetRepository,
	owners repository.OwnerRepository,
	clinics repository.ClinicRepository,
	m *metrics.Metrics,
	log *logger.Logger,
	cfg Config,
) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.Hours == (OperatingHours{}) {
		cfg.Hours = DefaultOperatingHours
	}
	if cfg.Channel == "" {
		cfg.Channel = model.BookingChannelWeb
	}
	return &Service{
		appointments: appointments,
		vets:         vets,
		pets:         pets,
		owners:       owners,
		clinics:      clinics,
		guard:        NewOwnershipGuard(owners, pets),
		validator:    NewAvailabilityValidator(appointments, vets),
		sessions:     NewSessionStore(cfg.SessionTTL),
		metrics:      m,
		logger:       log,
		cfg:          cfg,
	}
}

// SessionState is the transport view of a wizard session.
type SessionState struct {
	SessionID     string                `json:"session_id"`
	Step          string                `json:"step"`
	Guidance      string                `json:"guidance,omitempty"`
	Selection     Selection             `json:"selection"`
	Veterinarians []*model.Veterinarian `json:"veterinarians,omitempty"`
	Pets          []*model.Pet          `json:"pets,omitempty"`
}

func (s *Service) state(id string, w *Wizard) *SessionState {
	return &SessionState{
		SessionID:     id,
		Step:          w.Step().String(),
		Guidance:      w.GuidanceMessage(),
		Selection:     w.Selection(),
		Veterinarians: w.Veterinarians(),
		Pets:          w.Pets(),
	}
}

// StartSession resolves the acting owner and the clinic context and opens a
// fresh wizard. A pre-selected veterinarian skips the first step.
func (s *Service) StartSession(ctx context.Context, accountID, clinicID uuid.UUID, vetID *uuid.UUID) (*SessionState, error) {
	owner, err := s.owners.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("resolve owner profile: %w", err)
	}

	clinic, err := s.clinics.Get(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("load clinic: %w", err)
	}

	// Unavailable veterinarians are filtered out here so they are never
	// offered as booking targets.
	vets, err := s.vets.ListForClinic(ctx, clinicID, true)
	if err != nil {
		return nil, fmt.Errorf("list veterinarians: %w", err)
	}

	pets, err := s.pets.ListForOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}

	deps := Deps{
		Guard:        s.guard,
		Validator:    s.validator,
		Appointments: s.appointments,
		Channel:      s.cfg.Channel,
		Hours:        s.cfg.Hours,
	}

	var opts []Option
	if vetID != nil {
		opts = append(opts, WithVeterinarian(*vetID))
	}

	w := NewWizard(deps, clinic, owner, vets, pets, opts...)
	id := s.sessions.New(w)
	s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))

	s.logger.Info("booking session started",
		"session_id", id, "owner_id", owner.ID.String(), "clinic_id", clinicID.String())
	return s.state(id, w), nil
}

func (s *Service) session(id string) (*Wizard, error) {
	w, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return w, nil
}

// GetSession returns the current state of a session.
func (s *Service) GetSession(id string) (*SessionState, error) {
	w, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return s.state(id, w), nil
}

func (s *Service) step(id string, fn func(*Wizard) error) (*SessionState, error) {
	w, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if err := fn(w); err != nil {
		return nil, err
	}
	s.sessions.Put(id, w)
	s.metrics.SessionTransitions.WithLabelValues(w.Step().String()).Inc()
	return s.state(id, w), nil
}

func (s *Service) SelectVeterinarian(id string, vetID uuid.UUID) (*SessionState, error) {
	return s.step(id, func(w *Wizard) error { return w.SelectVeterinarian(vetID) })
}

func (s *Service) SelectPet(id string, petID uuid.UUID) (*SessionState, error) {
	return s.step(id, func(w *Wizard) error { return w.SelectPet(petID) })
}

func (s *Service) SelectSchedule(id string, date time.Time, start string) (*SessionState, error) {
	return s.step(id, func(w *Wizard) error { return w.SelectSchedule(date, start) })
}

func (s *Service) EnterDetails(id, reason, symptoms string) (*SessionState, error) {
	return s.step(id, func(w *Wizard) error { return w.EnterDetails(reason, symptoms) })
}

func (s *Service) Back(id string) (*SessionState, error) {
	return s.step(id, func(w *Wizard) error { return w.Back() })
}

// Confirm submits the booking. On success the session's wizard is reset for
// the next booking; on failure the wizard stays in Confirming with its
// selections intact.
func (s *Service) Confirm(ctx context.Context, id string) (*model.Appointment, error) {
	w, err := s.session(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	appointment, err := w.Submit(ctx)
	s.metrics.SubmissionLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.BookingsRejected.WithLabelValues(rejectionReason(err)).Inc()
		s.logger.Warn("booking submission rejected", "session_id", id, "reason", err.Error())
		return nil, err
	}

	s.metrics.BookingsSubmitted.Inc()
	s.logger.Info("appointment booked",
		"appointment_id", appointment.ID.String(),
		"veterinarian_id", appointment.VeterinarianID.String(),
		"date", appointment.Date.Format("2006-01-02"),
		"time", appointment.Time)

	w.Reset()
	s.sessions.Put(id, w)
	return appointment, nil
}

// ListSlots returns the bookable grid for the configured operating hours.
func (s *Service) ListSlots() []model.TimeSlot {
	return SlotList(s.cfg.Hours)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrIncompleteSelection):
		return "incomplete_selection"
	case errors.Is(err, ErrOwnershipViolation):
		return "ownership_violation"
	case errors.Is(err, ErrDailyLimitExceeded):
		return "daily_limit_exceeded"
	case errors.Is(err, ErrVeterinarianUnavailable):
		return "veterinarian_unavailable"
	case errors.Is(err, ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "repository_error"
	}
}
