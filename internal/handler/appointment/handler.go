package appointment

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/petcarehq/booking-api/internal/model"
	"github.com/petcarehq/booking-api/internal/repository"
	"github.com/petcarehq/booking-api/internal/service/appointment"
	apperrors "github.com/petcarehq/booking-api/pkg/errors"
	"github.com/petcarehq/booking-api/pkg/httputil"
)

type Handler struct {
	svc *appointment.Service
}

func NewHandler(svc *appointment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("/:id", h.Get)
		appointments.GET("", h.List)
		appointments.POST("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid appointment id", err))
		return
	}

	a, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, a)
}

func (h *Handler) List(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Query("owner_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("owner_id is required", err))
		return
	}

	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("dates must be YYYY-MM-DD", err))
		return
	}

	list, err := h.svc.ListForOwner(c.Request.Context(), ownerID, from, to)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, list)
}

type updateStatusRequest struct {
	Status model.AppointmentStatus `json:"status" binding:"required"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid appointment id", err))
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid request body", err))
		return
	}

	updated, err := h.svc.Transition(c.Request.Context(), id, req.Status)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now.AddDate(0, 1, 0)

	var err error
	if fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if toStr != "" {
		if to, err = time.Parse("2006-01-02", toStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("appointment", err)
	case errors.Is(err, appointment.ErrInvalidTransition):
		return apperrors.NewConflict("status transition not allowed", err)
	case errors.Is(err, repository.ErrStatusConflict):
		return apperrors.NewConflict("appointment was modified concurrently", err)
	default:
		return apperrors.NewInternal(err)
	}
}
