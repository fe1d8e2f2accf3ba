package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack/db"
	"github.com/tasktrack/tasktrack/internal/auth"
	"github.com/tasktrack/tasktrack/internal/config"
	"github.com/tasktrack/tasktrack/internal/logging"
	"github.com/tasktrack/tasktrack/internal/repository"
	"github.com/tasktrack/tasktrack/internal/router"
	"github.com/tasktrack/tasktrack/internal/services"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		logging.New(os.Stderr, "error", "text").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	database, err := db.ConnectDatabase(cfg.DBDriver, cfg.DatabaseURL, log)

	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err = db.MigrateDatabase(database); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	users := repository.NewUserRepository(database)
	tasks := repository.NewTaskRepository(database)

	r := router.NewRouter(router.Dependencies{
		Auth:           services.NewAuthService(users, tokens, log),
		Tasks:          services.NewTaskService(tasks, log),
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log,
		HealthCheck: func(ctx context.Context) error {
			return db.Ping(ctx, database, 2*time.Second)
		},
	})

	log.Info("starting server", "port", cfg.Port, "db_driver", cfg.DBDriver)

	if err = r.Run(":" + cfg.Port); err != nil {
		log.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
