package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meditriage/triage-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithCreated sends a success response for a newly created resource
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithError sends an error response. The message is the only detail
// exposed to callers; wrapped causes stay in the logs.
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := err.(*errors.AppError); ok {
		statusCode = statusForCode(appErr.Code)
		message = appErr.Message
	}

	c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
	})
}

func statusForCode(code errors.ErrorCode) int {
	switch code {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrInvalidInput:
		return http.StatusBadRequest
	case errors.ErrLookupFailure:
		return http.StatusBadGateway
	case errors.ErrRemoteService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
