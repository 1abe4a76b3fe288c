// Package response writes the JSON envelope shared by every HTTP endpoint.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/booking_api/pkg/errors"
	"github.com/mroshb/booking_api/pkg/logger"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Body struct {
	Status  string      `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// HTTPStatus maps an error code to the status returned to clients.
func HTTPStatus(code string) int {
	switch code {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInsufficientBalance, errors.ErrCodeAlreadyCheckedIn:
		return http.StatusConflict
	case errors.ErrCodeConfigurationMissing:
		return http.StatusServiceUnavailable
	case errors.ErrCodeValidation:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Body{Status: StatusSuccess, Message: message, Data: data})
}

// Error writes err and aborts the chain. Messages of unclassified errors are not exposed.
func Error(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	status := HTTPStatus(code)

	message := "internal server error"
	var appErr *errors.AppError
	if errors.As(err, &appErr) && status != http.StatusInternalServerError {
		message = appErr.Message
	}
	if code == "" {
		code = errors.ErrCodeInternalError
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "code", code, "error", err)
	}

	c.AbortWithStatusJSON(status, Body{Status: StatusError, Code: code, Message: message})
}
