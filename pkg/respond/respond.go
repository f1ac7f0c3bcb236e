// Package respond writes the JSON error envelope used by every endpoint
package respond

import (
	"errors"
	"net/http"

	"github.com/sowzaxx7/8m-community/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Status maps a service error to the HTTP status it should be answered with
func Status(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error aborts the request with the status matching err. Internal errors are
// logged and answered with a generic message.
func Error(c *gin.Context, err error) {
	requestID := c.GetString("requestID")
	status := Status(err)

	msg := err.Error()
	switch status {
	case http.StatusUnauthorized:
		msg = "Unauthorized"
	case http.StatusForbidden:
		msg = "Forbidden"
	case http.StatusInternalServerError:
		msg = "Internal server error"
		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
	}

	Message(c, status, msg)
}

// Message aborts the request with status and a custom message
func Message(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":     msg,
		"requestID": c.GetString("requestID"),
	})
}
