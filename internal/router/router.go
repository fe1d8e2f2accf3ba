package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack/internal/handlers"
	"github.com/tasktrack/tasktrack/internal/middleware"
	"github.com/tasktrack/tasktrack/internal/services"
)

type Dependencies struct {
	Auth           *services.AuthService
	Tasks          *services.TaskService
	AllowedOrigins []string
	Log            *slog.Logger
	// HealthCheck backs GET /health; nil reports liveness only.
	HealthCheck func(context.Context) error
}

func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(deps.Auth)
	taskHandler := handlers.NewTaskHandler(deps.Tasks)
	requireAuth := middleware.AuthMiddleware(deps.Auth)

	r.GET("/", handlers.Root)
	r.GET("/health", handlers.HealthCheck(deps.HealthCheck))

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.CreateUser)
		auth.POST("/login", authHandler.LoginUser)
		auth.GET("/me", requireAuth, authHandler.Me)
		auth.DELETE("/me", requireAuth, authHandler.DeleteUser)
		auth.DELETE("/logout", requireAuth, authHandler.LogoutUser)
	}

	tasks := r.Group("/tasks", requireAuth)
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.PATCH("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
		tasks.PATCH("/:id/toggle", taskHandler.ToggleTask)
	}

	return r
}
