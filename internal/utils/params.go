package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack/internal/apperr"
)

// GetTaskID parses the ":id" path parameter.
func GetTaskID(ctx *gin.Context) (uint, error) {
	taskIDStr := ctx.Param("id")

	if taskIDStr == "" {
		return 0, errors.New("task ID not found")
	}

	taskID, err := strconv.ParseUint(taskIDStr, 10, 32)

	if err != nil || taskID == 0 {
		return 0, errors.New("invalid task ID")
	}

	return uint(taskID), nil
}

// BindJSON decodes the request body into obj and writes the error response
// itself. A field of the wrong JSON type is a 422 on that field; a body that
// is not JSON at all is a 400.
func BindJSON(ctx *gin.Context, obj any) bool {
	err := ctx.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "base"
		}
		RespondError(ctx, apperr.NewValidationError(field, "is invalid"))
		return false
	}

	ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	return false
}
