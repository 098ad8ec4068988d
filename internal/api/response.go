package api

import (
	"errors"
	"net/http"

	"alcyxob/routine-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// Every endpoint shares one envelope: success bodies carry {"data": ...}
// with an optional "message", error bodies carry {"error": <kind>,
// "message": <text>}. Delete endpoints return 204 with no body.

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func respondDataMessage(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{"data": data, "message": message})
}

// errorKind names the category carried in the envelope's "error" field.
func errorKind(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "permission_denied"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// not-found 404, permission-denied 403, validation 400, anything else 500
// with a generic message so internals never leak to clients.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
