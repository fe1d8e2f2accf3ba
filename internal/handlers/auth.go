package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack/internal/services"
	"github.com/tasktrack/tasktrack/internal/types"
	"github.com/tasktrack/tasktrack/internal/utils"
)

type LoginUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DeleteUserRequest struct {
	Password string `json:"password"`
}

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) CreateUser(ctx *gin.Context) {
	var body services.RegisterInput

	if !utils.BindJSON(ctx, &body) {
		return
	}

	user, token, err := h.auth.Register(ctx.Request.Context(), body)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.AuthResponse{
		Token: token,
		User:  types.NewUserResponse(user),
	})
}

func (h *AuthHandler) LoginUser(ctx *gin.Context) {
	var body LoginUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, token, err := h.auth.Login(ctx.Request.Context(), body.Email, body.Password)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.AuthResponse{
		Token: token,
		User:  types.NewUserResponse(user),
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    currentUser.ID,
			Name:  currentUser.Name,
			Email: currentUser.Email,
		},
	})
}

// LogoutUser only acknowledges: tokens are stateless and the client discards its copy.
func (h *AuthHandler) LogoutUser(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) DeleteUser(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body DeleteUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Password is required for account deletion"})
		return
	}

	if err := h.auth.DeleteAccount(ctx.Request.Context(), userID, body.Password); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
