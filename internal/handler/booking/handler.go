package booking

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/petcarehq/booking-api/internal/middleware"
	"github.com/petcarehq/booking-api/internal/repository"
	"github.com/petcarehq/booking-api/internal/service/booking"
	apperrors "github.com/petcarehq/booking-api/pkg/errors"
	"github.com/petcarehq/booking-api/pkg/httputil"
)

// Handler exposes the booking wizard over HTTP. Each step endpoint mutates
// the server-side session and echoes the resulting state back.
type Handler struct {
	svc *booking.Service
}

func NewHandler(svc *booking.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/bookings/sessions")
	{
		sessions.POST("", h.StartSession)
		sessions.GET("/:id", h.GetSession)
		sessions.POST("/:id/veterinarian", h.SelectVeterinarian)
		sessions.POST("/:id/pet", h.SelectPet)
		sessions.POST("/:id/schedule", h.SelectSchedule)
		sessions.POST("/:id/details", h.EnterDetails)
		sessions.POST("/:id/back", h.Back)
		sessions.POST("/:id/confirm", h.Confirm)
	}
	r.GET("/bookings/slots", h.ListSlots)
}

type startSessionRequest struct {
	ClinicID       uuid.UUID  `json:"clinic_id" binding:"required"`
	VeterinarianID *uuid.UUID `json:"veterinarian_id,omitempty"`
}

func (h *Handler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	accountID, err := accountFromContext(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	state, err := h.svc.StartSession(c.Request.Context(), accountID, req.ClinicID, req.VeterinarianID)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithCreated(c, state)
}

func (h *Handler) GetSession(c *gin.Context) {
	state, err := h.svc.GetSession(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, state)
}

type selectVeterinarianRequest struct {
	VeterinarianID uuid.UUID `json:"veterinarian_id" binding:"required"`
}

func (h *Handler) SelectVeterinarian(c *gin.Context) {
	var req selectVeterinarianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	state, err := h.svc.SelectVeterinarian(c.Param("id"), req.VeterinarianID)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, state)
}

type selectPetRequest struct {
	PetID uuid.UUID `json:"pet_id" binding:"required"`
}

func (h *Handler) SelectPet(c *gin.Context) {
	var req selectPetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	state, err := h.svc.SelectPet(c.Param("id"), req.PetID)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, state)
}

type selectScheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *Handler) SelectSchedule(c *gin.Context) {
	var req selectScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("date must be YYYY-MM-DD", err))
		return
	}

	state, err := h.svc.SelectSchedule(c.Param("id"), date, req.Time)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, state)
}

type enterDetailsRequest struct {
	Reason   string `json:"reason"`
	Symptoms string `json:"symptoms"`
}

func (h *Handler) EnterDetails(c *gin.Context) {
	var req enterDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	state, err := h.svc.EnterDetails(c.Param("id"), req.Reason, req.Symptoms)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, state)
}

func (h *Handler) Back(c *gin.Context) {
	state, err := h.svc.Back(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, state)
}

func (h *Handler) Confirm(c *gin.Context) {
	appointment, err := h.svc.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithCreated(c, appointment)
}

func (h *Handler) ListSlots(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.svc.ListSlots())
}

func accountFromContext(c *gin.Context) (uuid.UUID, error) {
	v, ok := c.Get(middleware.ContextAccountID)
	if !ok {
		return uuid.Nil, apperrors.Unauthorized(nil)
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.Unauthorized(nil)
	}
	return id, nil
}

// mapError translates booking engine errors into transport errors. Guard and
// availability failures come back with enough detail for a client to adjust
// the selection without leaking internals.
func mapError(err error) error {
	switch {
	case errors.Is(err, booking.ErrSessionNotFound):
		return apperrors.NewNotFound("booking session", err)
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("resource", err)
	case errors.Is(err, booking.ErrOwnershipViolation):
		return apperrors.NewForbidden("pet does not belong to this account", err)
	case errors.Is(err, booking.ErrDailyLimitExceeded):
		return apperrors.NewUnprocessable("daily appointment limit reached for this date", err)
	case errors.Is(err, booking.ErrVeterinarianUnavailable):
		return apperrors.NewUnprocessable("veterinarian is no longer accepting appointments", err)
	case errors.Is(err, booking.ErrSlotTaken):
		return apperrors.NewConflict("time slot is no longer available", err)
	case errors.Is(err, booking.ErrIncompleteSelection):
		return apperrors.NewUnprocessable("booking selection is incomplete", err)
	case errors.Is(err, booking.ErrInvalidTransition):
		return apperrors.NewConflict("action not valid for the current step", err)
	case errors.Is(err, booking.ErrUnknownVeterinarian):
		return apperrors.NewBadRequest("veterinarian is not offered in this session", err)
	case errors.Is(err, booking.ErrUnknownPet):
		return apperrors.NewBadRequest("pet is not part of this account", err)
	case errors.Is(err, booking.ErrDateOutOfRange):
		return apperrors.NewBadRequest("date is outside the booking window", err)
	case errors.Is(err, booking.ErrInvalidTimeSlot):
		return apperrors.NewBadRequest("time is not a bookable slot", err)
	default:
		return apperrors.NewInternal(err)
	}
}
