package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack/internal/apperr"
)

// StatusFor maps a domain error to its HTTP status and client-visible body.
// Unrecognized errors become a generic 500 so no internal detail leaks.
func StatusFor(err error) (int, gin.H) {
	var verr *apperr.ValidationError

	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "errors": verr.Fields}
	case errors.Is(err, apperr.ErrMissingToken):
		return http.StatusUnauthorized, gin.H{"error": "Authorization token is required"}
	case errors.Is(err, apperr.ErrExpiredToken):
		return http.StatusUnauthorized, gin.H{"error": "Token has expired"}
	case errors.Is(err, apperr.ErrInvalidToken):
		return http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"}
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized, gin.H{"error": "Invalid email or password"}
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": "Task not found"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "Internal server error"}
	}
}

// RespondError writes the response for err. 5xx causes are attached to the
// gin context so the request logger records them.
func RespondError(ctx *gin.Context, err error) {
	status, body := StatusFor(err)
	if status >= http.StatusInternalServerError {
		_ = ctx.Error(err)
	}
	ctx.JSON(status, body)
}

// AbortWithError is RespondError for middleware.
func AbortWithError(ctx *gin.Context, err error) {
	status, body := StatusFor(err)
	if status >= http.StatusInternalServerError {
		_ = ctx.Error(err)
	}
	ctx.AbortWithStatusJSON(status, body)
}
