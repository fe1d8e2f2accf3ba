package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack/internal/utils"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx.Set(requestIDKey, requestID)
		ctx.Header(RequestIDHeader, requestID)
		ctx.Next()
	}
}

// RequestLogger writes one structured line per request, plus any errors
// handlers attached with ctx.Error.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path

		ctx.Next()

		attrs := []any{
			"method", ctx.Request.Method,
			"path", path,
			"status", ctx.Writer.Status(),
			"latency", time.Since(start),
			"request_id", ctx.GetString(requestIDKey),
		}

		if userID, err := utils.GetCurrentUserID(ctx); err == nil {
			attrs = append(attrs, "user_id", userID)
		}

		if len(ctx.Errors) > 0 {
			attrs = append(attrs, "errors", ctx.Errors.String())
			log.ErrorContext(ctx.Request.Context(), "request failed", attrs...)
			return
		}

		log.InfoContext(ctx.Request.Context(), "request", attrs...)
	}
}
