package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack/internal/apperr"
	"github.com/tasktrack/tasktrack/internal/models"
	"github.com/tasktrack/tasktrack/internal/types"
	"github.com/tasktrack/tasktrack/internal/utils"
)

// Authenticator resolves a bearer token to a stored user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware binds the caller to the request or aborts with 401.
// Downstream handlers read the caller only through utils.GetCurrentUser.
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if strings.TrimSpace(authHeader) == "" {
			utils.AbortWithError(ctx, apperr.ErrMissingToken)
			return
		}

		parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)

		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			utils.AbortWithError(ctx, apperr.ErrInvalidToken)
			return
		}

		user, err := authenticator.Authenticate(ctx.Request.Context(), strings.TrimSpace(parts[1]))

		if err != nil {
			utils.AbortWithError(ctx, err)
			return
		}

		ctx.Set(types.ContextUserKey, types.AuthenticatedUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
		ctx.Next()
	}
}
