package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petcarehq/booking-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var statusByCode = map[errors.ErrorCode]int{
	errors.ErrNotFound:      http.StatusNotFound,
	errors.ErrBadRequest:    http.StatusBadRequest,
	errors.ErrUnauthorized:  http.StatusUnauthorized,
	errors.ErrForbidden:     http.StatusForbidden,
	errors.ErrConflict:      http.StatusConflict,
	errors.ErrUnprocessable: http.StatusUnprocessableEntity,
	errors.ErrInternal:      http.StatusInternalServerError,
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a success response for newly created resources
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := err.(*errors.AppError); ok {
		if s, found := statusByCode[appErr.Code]; found {
			statusCode = s
		}
		message = appErr.Message
	}

	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    statusCode,
			Message: message,
		},
	})
}
