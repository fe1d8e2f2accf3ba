package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness and, when check is set, whether the database answers.
func HealthCheck(check func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":    "ok",
			"message":   "Task API is running",
			"timestamp": time.Now().Format(time.RFC3339),
		}

		if check == nil {
			c.JSON(http.StatusOK, body)
			return
		}

		if err := check(c.Request.Context()); err != nil {
			_ = c.Error(err)
			body["status"] = "degraded"
			body["database"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}

		body["database"] = "ok"
		c.JSON(http.StatusOK, body)
	}
}

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Task API is running",
		"version": "1.0",
	})
}
